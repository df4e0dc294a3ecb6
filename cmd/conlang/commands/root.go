package commands

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conlang/internal/client"
	"conlang/internal/logging"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "CONLANG_PASSWORD"

var (
	serverURL string
	username  string
	password  string
	verbose   bool

	logger = zap.NewNop()
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "conlang",
		Short:         "Constructed language toolkit",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			l, err := logging.New(level, false)
			if err != nil {
				return err
			}
			logger = l
			if password == "" {
				password = os.Getenv(PasswordEnv)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "API base URL")
	root.PersistentFlags().StringVar(&username, "username", "", "account username")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "account password (or $"+PasswordEnv+")")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	root.AddCommand(
		generateCmd(),
		evolveCmd(),
		categoriesCmd(),
		registerCmd(),
		loginCmd(),
		rulesCmd(),
		lexiconCmd(),
		phonologyCmd(),
	)
	return root
}

// connect logs in to --server and returns a client holding the session.
func connect(ctx context.Context) (*client.Client, error) {
	if username == "" {
		return nil, errors.New("--username required")
	}
	if password == "" {
		return nil, errors.New("password required (-p or $" + PasswordEnv + ")")
	}
	c := client.New(serverURL, nil)
	if _, err := c.Login(ctx, username, password); err != nil {
		return nil, err
	}
	logger.Debug("logged in", zap.String("server", serverURL), zap.String("username", username))
	return c, nil
}
