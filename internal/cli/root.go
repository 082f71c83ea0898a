// Package cli implements the clinpipe command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagModel          string
	flagEnable         []string
	flagDisable        []string
	flagNoDefaultRules bool
	flagRuleFiles      []string
)

var rootCmd = &cobra.Command{
	Use:   "clinpipe",
	Short: "Rule-based clinical NLP from the command line",
	Long: `clinpipe runs the clinical NLP pipeline over notes without the server:
match target concepts, assert context (negation, history, family...),
detect sections and apply postprocessing, straight to stdout.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagModel, "model", "clinical", "model profile: clinical or generic")
	pf.StringSliceVar(&flagEnable, "enable", nil, "only run the named components")
	pf.StringSliceVar(&flagDisable, "disable", nil, "skip the named components")
	pf.BoolVar(&flagNoDefaultRules, "no-default-rules", false, "do not load the built-in rule sets")
	pf.StringSliceVar(&flagRuleFiles, "rules", nil, "YAML rule files merged on top of the defaults")
}
