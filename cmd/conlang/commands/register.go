package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"conlang/internal/client"
	"conlang/internal/domain"
)

func registerCmd() *cobra.Command {
	var displayName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--username required")
			}
			if password == "" {
				return errors.New("password required (-p or $" + PasswordEnv + ")")
			}
			c := client.New(serverURL, nil)
			u, err := c.Register(cmd.Context(), domain.NewUser{
				Username:    username,
				Password:    password,
				DisplayName: displayName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "name shown to collaborators (default username)")
	return cmd
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			u, err := c.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (id %d)\n", u.DisplayName, u.ID)
			return c.Logout(cmd.Context())
		},
	}
}
