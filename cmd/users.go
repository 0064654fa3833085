package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

var (
	usersToken    string
	usersUsername string
	usersPassword string
	usersRole     string
	usersEmail    string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User administration (admin role required)",
}

// actorFromToken verifies the session token for user administration; unlike
// record reads there is no anonymous fallback here.
func actorFromToken(ctx context.Context, e *env) (string, error) {
	if usersToken == "" {
		return "", eris.New("--token is required")
	}
	claims, err := e.Auth.VerifyToken(ctx, usersToken)
	if err != nil {
		return "", eris.Wrap(err, "verify token")
	}
	return claims.Username, nil
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		actor, err := actorFromToken(ctx, e)
		if err != nil {
			return err
		}
		if err := e.Auth.CreateUser(ctx, actor, usersUsername, usersPassword, model.Role(usersRole), usersEmail); err != nil {
			return eris.Wrap(err, "create user")
		}
		return printJSON(map[string]string{"created": usersUsername, "role": usersRole})
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		actor, err := actorFromToken(ctx, e)
		if err != nil {
			return err
		}
		users, err := e.Auth.ListUsers(ctx, actor)
		if err != nil {
			return eris.Wrap(err, "list users")
		}
		return printJSON(users)
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Deactivate a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		actor, err := actorFromToken(ctx, e)
		if err != nil {
			return err
		}
		if err := e.Auth.DeactivateUser(ctx, actor, usersUsername); err != nil {
			return eris.Wrap(err, "deactivate user")
		}
		return printJSON(map[string]string{"deactivated": usersUsername})
	},
}

func init() {
	usersCmd.PersistentFlags().StringVar(&usersToken, "token", "", "session token from login (required)")

	usersCreateCmd.Flags().StringVar(&usersUsername, "username", "", "new username (required)")
	usersCreateCmd.Flags().StringVar(&usersPassword, "password", "", "new password (required)")
	usersCreateCmd.Flags().StringVar(&usersRole, "role", string(model.RoleViewer), "role: admin, viewer, or analyst")
	usersCreateCmd.Flags().StringVar(&usersEmail, "email", "", "email address")
	_ = usersCreateCmd.MarkFlagRequired("username")
	_ = usersCreateCmd.MarkFlagRequired("password")

	usersDeactivateCmd.Flags().StringVar(&usersUsername, "username", "", "username to deactivate (required)")
	_ = usersDeactivateCmd.MarkFlagRequired("username")

	usersCmd.AddCommand(usersCreateCmd, usersListCmd, usersDeactivateCmd)
	rootCmd.AddCommand(usersCmd)
}
