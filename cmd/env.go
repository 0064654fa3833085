package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/grazioso-salvare/shelter-cli/internal/analytics"
	"github.com/grazioso-salvare/shelter-cli/internal/audit"
	"github.com/grazioso-salvare/shelter-cli/internal/auth"
	"github.com/grazioso-salvare/shelter-cli/internal/loader"
	"github.com/grazioso-salvare/shelter-cli/internal/shelter"
	"github.com/grazioso-salvare/shelter-cli/internal/store"
)

// env wires the configured backend to the engine for one command invocation.
type env struct {
	Conn    store.Connector
	Data    *shelter.DataStore
	Engine  *analytics.Engine
	Auth    *auth.Service
	closeFn func()
}

func (e *env) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

// initEnv builds the store connector per config, migrates it, and constructs
// the data store, aggregation engine, and auth service. An unreachable
// backend is not an error: the environment comes up in demo mode.
func initEnv(ctx context.Context) (*env, error) {
	conn, err := buildConnector(ctx)
	if err != nil {
		return nil, err
	}

	if conn != nil {
		if err := conn.Ping(ctx); err == nil {
			if err := conn.Migrate(ctx); err != nil {
				conn.Close()
				return nil, eris.Wrap(err, "migrate store")
			}
		}
	}

	log := audit.New(conn)
	data := shelter.New(ctx, conn, log)
	authSvc := auth.New(conn, log, data.Available(), cfg.Auth.Secret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err := authSvc.SeedDefaults(ctx); err != nil {
		zap.L().Warn("seeding default users failed", zap.Error(err))
	}

	closeFn := func() {}
	if conn != nil {
		closeFn = func() { _ = conn.Close() }
	}
	return &env{
		Conn:    conn,
		Data:    data,
		Engine:  analytics.NewEngine(data),
		Auth:    authSvc,
		closeFn: closeFn,
	}, nil
}

func buildConnector(ctx context.Context) (store.Connector, error) {
	switch cfg.Store.Driver {
	case "memory":
		mem := store.NewMemory()
		records, err := loader.LoadFile(cfg.Dataset.CSVPath)
		if err != nil {
			// Missing dataset means demo mode, not a startup failure.
			zap.L().Warn("dataset CSV not loaded, starting empty",
				zap.String("path", cfg.Dataset.CSVPath),
				zap.Error(err),
			)
			return nil, nil
		}
		mem.Load(records)
		zap.L().Info("dataset loaded",
			zap.Int("records", len(records)),
			zap.String("path", cfg.Dataset.CSVPath),
		)
		return mem, nil
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "", "none":
		return nil, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
