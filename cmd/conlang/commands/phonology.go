package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"conlang/internal/client"
	"conlang/internal/domain"
)

func phonologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phonology",
		Short: "Save or show your phonology on the server",
	}
	cmd.AddCommand(phonologySetCmd(), phonologyShowCmd())
	cmd.AddCommand(shareCmds("phonology", (*client.Client).SharePhonology, (*client.Client).UnsharePhonology)...)
	return cmd
}

func phonologySetCmd() *cobra.Command {
	var in domain.PhonologyInput
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save a consonant and vowel inventory with syllable patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := c.SavePhonology(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved phonology %d\n", cfg.ID)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&in.Consonants, "consonants", nil, "consonant graphemes, comma separated")
	cmd.Flags().StringSliceVar(&in.Vowels, "vowels", nil, "vowel graphemes, comma separated")
	cmd.Flags().StringSliceVar(&in.SyllablePatterns, "patterns", nil, "syllable patterns over C and V, comma separated")
	_ = cmd.MarkFlagRequired("patterns")
	return cmd
}

func phonologyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the phonology generation uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			cfg, ok, err := c.Phonology(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "No phonology saved; the default inventory is used.")
				return nil
			}
			fmt.Fprintf(out, "id:         %d\n", cfg.ID)
			fmt.Fprintf(out, "consonants: %s\n", strings.Join(cfg.Consonants, " "))
			fmt.Fprintf(out, "vowels:     %s\n", strings.Join(cfg.Vowels, " "))
			fmt.Fprintf(out, "patterns:   %s\n", strings.Join(cfg.SyllablePatterns, " "))
			return nil
		},
	}
}
