package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"conlang/internal/client"
	"conlang/internal/domain"
)

func parseRecordID(s string) (domain.RecordID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return domain.RecordID(n), nil
}

func parseUserID(s string) (domain.UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return domain.UserID(n), nil
}

type shareFunc func(c *client.Client, ctx context.Context, id domain.RecordID, with domain.UserID) error

// shareCmds builds "share" and "unshare" subcommands for one record kind.
func shareCmds(kind string, share, unshare shareFunc) []*cobra.Command {
	mk := func(use, verb string, fn shareFunc) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id> <user-id>",
			Short: verb + " a " + kind + " with another user",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseRecordID(args[0])
				if err != nil {
					return err
				}
				with, err := parseUserID(args[1])
				if err != nil {
					return err
				}
				c, err := connect(cmd.Context())
				if err != nil {
					return err
				}
				if err := fn(c, cmd.Context(), id, with); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%sd %s %d with user %d\n", verb, kind, id, with)
				return nil
			},
		}
	}
	return []*cobra.Command{
		mk("share", "Share", share),
		mk("unshare", "Unshare", unshare),
	}
}
