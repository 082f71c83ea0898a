package cli

import (
	"fmt"

	"github.com/clinpipe/clinpipe/internal/nlp/conassert"
	"github.com/clinpipe/clinpipe/internal/nlp/matcher"
	"github.com/clinpipe/clinpipe/internal/nlp/postprocess"
	"github.com/clinpipe/clinpipe/internal/nlp/section"
	"github.com/spf13/cobra"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Show the pipeline the current flags would build",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "model: %s\n", p.Model())
		fmt.Fprintln(out, "pipes:")
		for _, name := range p.PipeNames() {
			switch c := p.GetPipe(name).(type) {
			case *matcher.Matcher:
				fmt.Fprintf(out, "  %-16s %d rules\n", name, len(c.Rules()))
			case *conassert.Engine:
				fmt.Fprintf(out, "  %-16s %d rules\n", name, len(c.Rules()))
			case *section.Sectionizer:
				fmt.Fprintf(out, "  %-16s %d rules\n", name, len(c.Rules()))
			case *postprocess.Postprocessor:
				fmt.Fprintf(out, "  %-16s %d rules\n", name, len(c.Rules()))
			default:
				fmt.Fprintf(out, "  %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}
