package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/clinpipe/clinpipe/internal/note"
)

// CSVParser handles CSV exports (e.g. one note or observation per row).
// Each row is rendered as "header: value" lines so row content reads as
// note text downstream.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*note.Tree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &note.Tree{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return tree, nil
	}

	headers := records[0]
	for i, row := range records[1:] {
		var text strings.Builder
		for j, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell + "\n")
			} else {
				text.WriteString(cell + "\n")
			}
		}
		if text.Len() == 0 {
			continue
		}
		tree.Children = append(tree.Children, &note.Node{
			Title: fmt.Sprintf("Row %d", i+2), // 1-indexed, header is row 1
			Text:  strings.TrimRight(text.String(), "\n"),
		})
	}

	return tree, nil
}
