package cli

import (
	"fmt"
	"io"

	"github.com/clinpipe/clinpipe/internal/nlp/conassert"
	"github.com/clinpipe/clinpipe/internal/nlp/matcher"
	"github.com/clinpipe/clinpipe/internal/nlp/postprocess"
	"github.com/clinpipe/clinpipe/internal/nlp/section"
	"github.com/clinpipe/clinpipe/internal/rules"
	"github.com/spf13/cobra"
)

var flagRuleLimit int

var rulesCmd = &cobra.Command{
	Use:   "rules [component]",
	Short: "List the rules loaded into a component",
	Long: `List the rules a component would run with. Components with rules:
target_matcher, context, sectionizer, postprocessor. Without an
argument, prints rule counts for every component.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().IntVar(&flagRuleLimit, "limit", 20, "max rules to print, 0 for all")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, name := range p.PipeNames() {
			switch c := p.GetPipe(name).(type) {
			case *matcher.Matcher:
				fmt.Fprintf(out, "%-16s %d\n", name, len(c.Rules()))
			case *conassert.Engine:
				fmt.Fprintf(out, "%-16s %d\n", name, len(c.Rules()))
			case *section.Sectionizer:
				fmt.Fprintf(out, "%-16s %d\n", name, len(c.Rules()))
			case *postprocess.Postprocessor:
				fmt.Fprintf(out, "%-16s %d\n", name, len(c.Rules()))
			}
		}
		return nil
	}

	name := args[0]
	pipe := p.GetPipe(name)
	if pipe == nil {
		return fmt.Errorf("pipeline has no %q component", name)
	}

	switch c := pipe.(type) {
	case *matcher.Matcher:
		printTargetRules(out, c.Rules())
	case *conassert.Engine:
		printContextRules(out, c.Rules())
	case *section.Sectionizer:
		printSectionRules(out, c.Rules())
	case *postprocess.Postprocessor:
		printPostprocessRules(out, c.Rules())
	default:
		return fmt.Errorf("component %q has no rules", name)
	}
	return nil
}

func ruleCap(n int) int {
	if flagRuleLimit <= 0 || flagRuleLimit > n {
		return n
	}
	return flagRuleLimit
}

func printTargetRules(out io.Writer, rs []rules.TargetRule) {
	n := ruleCap(len(rs))
	for _, r := range rs[:n] {
		if r.Pattern != "" {
			fmt.Fprintf(out, "%-12s /%s/\n", r.Category, r.Pattern)
		} else {
			fmt.Fprintf(out, "%-12s %q\n", r.Category, r.Literal)
		}
	}
	printRemainder(out, len(rs), n)
}

func printContextRules(out io.Writer, rs []rules.ContextRule) {
	n := ruleCap(len(rs))
	for _, r := range rs[:n] {
		fmt.Fprintf(out, "%-24s %-13s %q\n", r.Category, r.Direction, r.Literal)
	}
	printRemainder(out, len(rs), n)
}

func printSectionRules(out io.Writer, rs []rules.SectionRule) {
	n := ruleCap(len(rs))
	for _, r := range rs[:n] {
		if r.Pattern != "" {
			fmt.Fprintf(out, "%-24s /%s/\n", r.Category, r.Pattern)
		} else {
			fmt.Fprintf(out, "%-24s %q\n", r.Category, r.Literal)
		}
	}
	printRemainder(out, len(rs), n)
}

func printPostprocessRules(out io.Writer, rs []rules.PostprocessRule) {
	n := ruleCap(len(rs))
	for _, r := range rs[:n] {
		fmt.Fprintf(out, "%-40s %s\n", r.Name, r.Action.Type)
	}
	printRemainder(out, len(rs), n)
}

func printRemainder(out io.Writer, total, shown int) {
	if total > shown {
		fmt.Fprintf(out, "... and %d more (raise --limit)\n", total-shown)
	}
}
