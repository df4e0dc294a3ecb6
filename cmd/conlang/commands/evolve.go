package commands

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"conlang/internal/phonology/soundchange"
)

// ruleSetFile is one entry of a --rules-file document.
type ruleSetFile struct {
	Name  string   `yaml:"name"`
	Rules []string `yaml:"rules"`
}

// loadRulesFile reads a YAML list of named rule sets and flattens the
// rules of the sets named in only, or of every set when only is empty.
func loadRulesFile(path string, only []string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sets []ruleSetFile
	if err := yaml.Unmarshal(raw, &sets); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var rules []string
	matched := 0
	for _, s := range sets {
		if len(only) > 0 && !slices.Contains(only, s.Name) {
			continue
		}
		matched++
		rules = append(rules, s.Rules...)
	}
	if len(only) > 0 && matched == 0 {
		return nil, fmt.Errorf("%s: no rule set named %v", path, only)
	}
	return rules, nil
}

func evolveCmd() *cobra.Command {
	var (
		rules     []string
		rulesFile string
		sets      []string
		trace     bool
	)
	cmd := &cobra.Command{
		Use:   "evolve <word>...",
		Short: "Apply sound change rules to words",
		Long: `Apply ordered sound change rules of the form "from > to / before_after".

Rules from --rules-file run first, then --rule flags in the order given.
Rules that cannot be parsed or compiled are skipped and reported on stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []string
			if rulesFile != "" {
				fromFile, err := loadRulesFile(rulesFile, sets)
				if err != nil {
					return err
				}
				all = append(all, fromFile...)
			}
			all = append(all, rules...)
			if len(all) == 0 {
				return fmt.Errorf("no rules given (use --rule or --rules-file)")
			}
			logger.Debug("evolve", zap.Int("rules", len(all)), zap.Int("words", len(args)))

			eng := soundchange.New()
			for _, word := range args {
				res := eng.ApplyWithDiagnostics(word, all)
				printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, trace)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rules, "rule", "r", nil, `sound change rule, e.g. "p > b / V_V" (repeatable)`)
	cmd.Flags().StringVarP(&rulesFile, "rules-file", "f", "", "YAML file with a list of {name, rules} sets")
	cmd.Flags().StringSliceVar(&sets, "set", nil, "only use these named sets from --rules-file")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the word after every applied rule")
	return cmd
}

func printResult(out, errOut io.Writer, res soundchange.Result, trace bool) {
	if trace {
		fmt.Fprintln(out, res.Input)
		for _, s := range res.Steps {
			fmt.Fprintf(out, "  [%d] %s: %s\n", s.Index+1, s.Rule, s.Output)
		}
	}
	for _, d := range res.Skipped {
		fmt.Fprintf(errOut, "skipped %s\n", d.Error())
	}
	fmt.Fprintf(out, "%s -> %s\n", res.Input, res.Word)
}
