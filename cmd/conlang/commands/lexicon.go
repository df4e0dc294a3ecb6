package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"conlang/internal/client"
	"conlang/internal/domain"
)

func lexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage lexicon entries stored on the server",
	}
	cmd.AddCommand(lexiconAddCmd(), lexiconListCmd(), lexiconRmCmd())
	cmd.AddCommand(shareCmds("lexicon entry", (*client.Client).ShareLexiconEntry, (*client.Client).UnshareLexiconEntry)...)
	return cmd
}

func lexiconAddCmd() *cobra.Command {
	var in domain.LexiconInput
	cmd := &cobra.Command{
		Use:   "add <word> <definition>",
		Short: "Add a word to your lexicon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Word, in.Definition = args[0], args[1]
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			e, err := c.CreateLexiconEntry(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d %s (%s)\n", e.ID, e.Word, e.Category)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Category, "category", domain.CategoryNoun, "part of speech")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	return cmd
}

func lexiconListCmd() *cobra.Command {
	var shared bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lexicon entries visible to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			list := c.ListLexicon
			if shared {
				list = c.SharedLexicon
			}
			entries, err := list(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWORD\tCATEGORY\tDEFINITION")
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Word, e.Category, e.Definition)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&shared, "shared", false, "only entries others shared with you")
	return cmd
}

func lexiconRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a lexicon entry you own",
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
			if err := c.DeleteLexiconEntry(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted lexicon entry %d\n", id)
			return nil
		},
	}
}
