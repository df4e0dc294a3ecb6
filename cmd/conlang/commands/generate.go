package commands

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"conlang/internal/phonology/wordgen"
)

func generateCmd() *cobra.Command {
	var (
		consonants []string
		vowels     []string
		patterns   []string
		count      int
		seed       uint64
		remote     bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate words from a phoneme inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var words []string
			if remote {
				c, err := connect(cmd.Context())
				if err != nil {
					return err
				}
				words, err = c.Generate(cmd.Context(), count)
				if err != nil {
					return err
				}
			} else {
				p := wordgen.DefaultPhonology
				if cmd.Flags().Changed("consonants") {
					p.Consonants = consonants
				}
				if cmd.Flags().Changed("vowels") {
					p.Vowels = vowels
				}
				if cmd.Flags().Changed("patterns") {
					p.SyllablePatterns = patterns
				}
				p.Inventory = p.Inventory.Normalize()

				var rng *rand.Rand
				if cmd.Flags().Changed("seed") {
					rng = rand.New(rand.NewPCG(seed, seed))
				}
				var err error
				words, err = wordgen.GenerateWords(rng, p, count)
				if err != nil {
					return err
				}
			}
			for _, w := range words {
				fmt.Fprintln(cmd.OutOrStdout(), w)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&consonants, "consonants", nil, "consonant graphemes, comma separated")
	cmd.Flags().StringSliceVar(&vowels, "vowels", nil, "vowel graphemes, comma separated")
	cmd.Flags().StringSliceVar(&patterns, "patterns", nil, "syllable patterns over C and V, comma separated")
	cmd.Flags().IntVarP(&count, "count", "n", wordgen.DefaultBatchSize, "number of words")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")
	cmd.Flags().BoolVar(&remote, "remote", false, "generate on the server from your saved phonology")
	return cmd
}
