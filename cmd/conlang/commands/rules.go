package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"conlang/internal/client"
	"conlang/internal/domain"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage rule sets stored on the server",
	}
	cmd.AddCommand(rulesAddCmd(), rulesListCmd(), rulesRmCmd(), rulesApplyCmd())
	cmd.AddCommand(shareCmds("rule set", (*client.Client).ShareRuleSet, (*client.Client).UnshareRuleSet)...)
	return cmd
}

func rulesAddCmd() *cobra.Command {
	var rules []string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Store a named rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			rs, err := c.CreateRuleSet(cmd.Context(), domain.RuleSetInput{Name: args[0], Rules: rules})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created rule set %d %q (%d rules)\n", rs.ID, rs.Name, len(rs.Rules))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rules, "rule", "r", nil, "rule to store (repeatable, order is kept)")
	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rule sets visible to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			sets, err := c.ListRuleSets(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, rs := range sets {
				fmt.Fprintf(out, "%d\t%s\t%s\n", rs.ID, rs.Name, strings.Join(rs.Rules, "; "))
			}
			return nil
		},
	}
}

func rulesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a rule set you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.DeleteRuleSet(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule set %d\n", id)
			return nil
		},
	}
}

func rulesApplyCmd() *cobra.Command {
	var (
		ids   []string
		trace bool
	)
	cmd := &cobra.Command{
		Use:   "apply <word>",
		Short: "Apply stored rule sets to a word on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var recordIDs []domain.RecordID
			for _, s := range ids {
				id, err := parseRecordID(s)
				if err != nil {
					return err
				}
				recordIDs = append(recordIDs, id)
			}
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.Apply(cmd.Context(), args[0], recordIDs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if trace {
				fmt.Fprintln(out, res.Input)
				for _, s := range res.Steps {
					fmt.Fprintf(out, "  %s: %s\n", s.Rule, s.Output)
				}
			}
			for _, s := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped rule %d %q: %s\n", s.Index+1, s.Rule, s.Error)
			}
			fmt.Fprintf(out, "%s -> %s\n", res.Input, res.Output)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "set", nil, "rule set ids to apply (default all visible)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the word after every applied rule")
	return cmd
}
