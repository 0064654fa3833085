package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/grazioso-salvare/shelter-cli/internal/auth"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and print a session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		token, err := e.Auth.Authenticate(ctx, loginUsername, loginPassword)
		if err != nil {
			if eris.Is(err, auth.ErrInvalidCredentials) {
				return eris.New("invalid credentials")
			}
			return eris.Wrap(err, "authenticate")
		}
		return printJSON(map[string]string{"token": token})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "username (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (required)")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
