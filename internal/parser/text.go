package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/clinpipe/clinpipe/internal/note"
)

// TextParser handles plain text notes. Most clinical notes arrive this way;
// the line structure is preserved so the sectionizer can see title lines.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*note.Tree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				blocks = append(blocks, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		blocks = append(blocks, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &note.Tree{Title: titleFromFilename(filename)}
	for _, b := range blocks {
		tree.Children = append(tree.Children, &note.Node{Text: b})
	}
	return tree, nil
}
