package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	recordsToken    string
	recordsQueryStr string
	recordsDataStr  string
	recordsMultiple bool
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Create, query, update, and delete animal records",
}

var recordsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List records matching a query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		spec, err := parseJSONMap(recordsQueryStr)
		if err != nil {
			return err
		}
		records, err := e.Data.Read(ctx, spec, resolveActor(ctx, e))
		if err != nil {
			return eris.Wrap(err, "query records")
		}
		zap.L().Info("query complete", zap.Int("matched", len(records)))
		return printJSON(records)
	},
}

var recordsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Insert one record",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := parseJSONMap(recordsDataStr)
		if err != nil {
			return err
		}
		ok, err := e.Data.Create(ctx, rec, resolveActor(ctx, e))
		if err != nil {
			return eris.Wrap(err, "create record")
		}
		if !ok {
			zap.L().Warn("record not created (demo mode, no mutation possible)")
		}
		return printJSON(map[string]bool{"created": ok})
	},
}

var recordsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Patch records matching a query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		spec, err := parseJSONMap(recordsQueryStr)
		if err != nil {
			return err
		}
		patch, err := parseJSONMap(recordsDataStr)
		if err != nil {
			return err
		}
		n, err := e.Data.Update(ctx, spec, patch, resolveActor(ctx, e), recordsMultiple)
		if err != nil {
			return eris.Wrap(err, "update records")
		}
		return printJSON(map[string]int{"updated": n})
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete records matching a query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		spec, err := parseJSONMap(recordsQueryStr)
		if err != nil {
			return err
		}
		n, err := e.Data.Delete(ctx, spec, resolveActor(ctx, e), recordsMultiple)
		if err != nil {
			return eris.Wrap(err, "delete records")
		}
		return printJSON(map[string]int{"deleted": n})
	},
}

func parseJSONMap(s string) (map[string]any, error) {
	if s == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, eris.Wrap(err, "parse JSON mapping")
	}
	return m, nil
}

// resolveActor maps the session token to a username for the audit trail.
// Without a valid token the actor is recorded as anonymous.
func resolveActor(ctx context.Context, e *env) string {
	if recordsToken == "" {
		return "anonymous"
	}
	claims, err := e.Auth.VerifyToken(ctx, recordsToken)
	if err != nil {
		zap.L().Warn("invalid session token, acting as anonymous", zap.Error(err))
		return "anonymous"
	}
	return claims.Username
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	recordsCmd.PersistentFlags().StringVar(&recordsToken, "token", "", "session token from login")
	recordsCmd.PersistentFlags().StringVar(&recordsQueryStr, "query", "", "query as a JSON mapping")
	recordsCreateCmd.Flags().StringVar(&recordsDataStr, "data", "", "record as a JSON mapping (required)")
	_ = recordsCreateCmd.MarkFlagRequired("data")
	recordsUpdateCmd.Flags().StringVar(&recordsDataStr, "data", "", "patch as a JSON mapping (required)")
	_ = recordsUpdateCmd.MarkFlagRequired("data")
	recordsUpdateCmd.Flags().BoolVar(&recordsMultiple, "multiple", false, "apply to all matches, not just the first")
	recordsDeleteCmd.Flags().BoolVar(&recordsMultiple, "multiple", false, "delete all matches, not just the first")

	recordsCmd.AddCommand(recordsQueryCmd, recordsCreateCmd, recordsUpdateCmd, recordsDeleteCmd)
	rootCmd.AddCommand(recordsCmd)
}
