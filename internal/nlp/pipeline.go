// Package nlp assembles the clinical NLP pipeline: an ordered sequence of
// named components run over a document, built by Load from a model profile,
// rule sets and component allow/deny lists.
package nlp

import (
	"context"
	"fmt"
	"time"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/nlp/stats"
	"github.com/clinpipe/clinpipe/internal/nlp/tokenizer"
)

// Component is one named processing stage. Components must be safe for
// concurrent Process calls on distinct docs.
type Component interface {
	Name() string
	Process(doc *document.Doc) error
}

// Pipeline runs tokenization followed by its components, in order.
// Tokenization is not a removable pipe; every component can rely on
// doc.Tokens and at least one sentence being present.
type Pipeline struct {
	model      string
	tok        *tokenizer.Tokenizer
	components []Component
	stats      *stats.RunStats
}

// NewPipeline creates an empty pipeline for a model profile.
func NewPipeline(model string) *Pipeline {
	return &Pipeline{
		model: model,
		tok:   tokenizer.New(model),
		stats: stats.New(time.Hour),
	}
}

// Model returns the model profile name the pipeline was built with.
func (p *Pipeline) Model() string { return p.model }

// PipeNames lists component names in execution order.
func (p *Pipeline) PipeNames() []string {
	names := make([]string, len(p.components))
	for i, c := range p.components {
		names[i] = c.Name()
	}
	return names
}

// GetPipe returns the named component, or nil.
func (p *Pipeline) GetPipe(name string) Component {
	for _, c := range p.components {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// HasPipe reports whether the named component is present.
func (p *Pipeline) HasPipe(name string) bool { return p.GetPipe(name) != nil }

// AddPipe appends a component. Adding a duplicate name is an error.
func (p *Pipeline) AddPipe(c Component) error {
	if p.HasPipe(c.Name()) {
		return fmt.Errorf("pipeline already has a %q pipe", c.Name())
	}
	p.components = append(p.components, c)
	return nil
}

// RemovePipe removes the named component.
func (p *Pipeline) RemovePipe(name string) error {
	for i, c := range p.components {
		if c.Name() == name {
			p.components = append(p.components[:i], p.components[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("pipeline has no %q pipe", name)
}

// Stats returns the rolling run-latency window.
func (p *Pipeline) Stats() *stats.RunStats { return p.stats }

// Run annotates text and returns the document. The context is checked
// between components so long documents can be abandoned mid-pipeline.
func (p *Pipeline) Run(ctx context.Context, text string) (*document.Doc, error) {
	start := time.Now()
	doc := document.New(text)
	p.tok.Tokenize(doc)

	for _, c := range p.components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.Process(doc); err != nil {
			return nil, fmt.Errorf("pipe %s: %w", c.Name(), err)
		}
	}

	p.stats.Record(time.Since(start).Milliseconds())
	return doc, nil
}
