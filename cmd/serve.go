package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":    "ok",
				"demo_mode": !e.Data.Available(),
			})
		})

		mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			token, err := e.Auth.Authenticate(r.Context(), req.Username, req.Password)
			if err != nil {
				http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"token": token})
		})

		mux.HandleFunc("GET /api/records", func(w http.ResponseWriter, r *http.Request) {
			spec, err := parseJSONMap(r.URL.Query().Get("q"))
			if err != nil {
				http.Error(w, `{"error":"invalid query"}`, http.StatusBadRequest)
				return
			}
			records, err := e.Data.Read(r.Context(), spec, apiActor(r, e))
			if err != nil {
				http.Error(w, `{"error":"invalid query"}`, http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, records)
		})

		mux.HandleFunc("GET /api/analytics/breeds", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, e.Engine.BreedPerformance(r.Context()))
		})
		mux.HandleFunc("GET /api/analytics/rescue", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, e.Engine.RescueTypes(r.Context()))
		})
		mux.HandleFunc("GET /api/analytics/trends", func(w http.ResponseWriter, r *http.Request) {
			months, _ := strconv.Atoi(r.URL.Query().Get("months"))
			writeJSON(w, http.StatusOK, e.Engine.MonthlyTrends(r.Context(), months))
		})
		mux.HandleFunc("GET /api/analytics/demographics", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, e.Engine.Demographics(r.Context()))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: rateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst, mux),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(context.Background())
		}()

		zap.L().Info("dashboard API listening",
			zap.Int("port", port),
			zap.Bool("demo_mode", !e.Data.Available()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

// apiActor resolves the bearer token to a username for audit purposes.
func apiActor(r *http.Request, e *env) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return "anonymous"
	}
	claims, err := e.Auth.VerifyToken(r.Context(), h[len(prefix):])
	if err != nil {
		return "anonymous"
	}
	return claims.Username
}

// rateLimit applies a per-client token bucket keyed by remote IP.
func rateLimit(perSecond float64, burst int, next http.Handler) http.Handler {
	if perSecond <= 0 {
		return next
	}
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		mu.Lock()
		lim, ok := limiters[host]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(perSecond), burst)
			limiters[host] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}
