package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/note"
	"github.com/clinpipe/clinpipe/internal/parser"
	"github.com/spf13/cobra"
)

var (
	flagJSON        bool
	flagContextSize int
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Annotate a note and print the results",
	Long: `Annotate a note file (txt, md, csv, html, pdf, docx) or stdin.
Prints matched entities with their assertion flags and sections,
or the full annotated document as JSON with --json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&flagJSON, "json", false, "print the annotated document as JSON")
	processCmd.Flags().IntVar(&flagContextSize, "context", 0, "print N bytes of surrounding text per entity")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	p, err := buildPipeline()
	if err != nil {
		return err
	}

	doc, err := p.Run(context.Background(), text)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	printDoc(cmd.OutOrStdout(), doc)
	return nil
}

// readInput loads the note text from a file argument or stdin. Structured
// formats go through their parser and are flattened back to plain text.
func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	if !parser.IsSupportedExtension(filename) {
		return string(data), nil
	}

	pr, err := parser.ForFile(filename)
	if err != nil {
		return "", err
	}
	tree, err := pr.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filename, err)
	}
	return note.Flatten(tree), nil
}

func printDoc(w io.Writer, doc *document.Doc) {
	fmt.Fprintf(w, "%d sentences, %d entities, %d sections\n",
		len(doc.Sentences), len(doc.Entities), len(doc.Sections))

	if len(doc.Sections) > 0 {
		fmt.Fprintln(w, "\nSections:")
		for _, s := range doc.Sections {
			fmt.Fprintf(w, "  %-24s %q [%d:%d]\n", s.Category, s.Title, s.TitleStart, s.BodyEnd)
		}
	}

	if len(doc.Entities) > 0 {
		fmt.Fprintln(w, "\nEntities:")
		for _, e := range doc.Entities {
			line := fmt.Sprintf("  %-12s %q [%d:%d]", e.Category, e.Text, e.Start, e.End)
			if flags := assertionFlags(e.Assertion); flags != "" {
				line += "  (" + flags + ")"
			}
			if e.Section != "" {
				line += "  in " + e.Section
			}
			fmt.Fprintln(w, line)
			if flagContextSize > 0 {
				snippet := doc.Slice(e.Start-flagContextSize, e.End+flagContextSize)
				fmt.Fprintf(w, "      ...%s...\n", strings.ReplaceAll(snippet, "\n", " "))
			}
		}
	}
}

func assertionFlags(a document.Assertion) string {
	var flags []string
	for _, name := range []string{"negated", "possible", "historical", "hypothetical", "family", "uncertain"} {
		if a.Get(name) {
			flags = append(flags, name)
		}
	}
	return strings.Join(flags, ", ")
}
