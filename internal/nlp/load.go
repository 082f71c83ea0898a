package nlp

import (
	"fmt"

	"github.com/clinpipe/clinpipe/internal/nlp/conassert"
	"github.com/clinpipe/clinpipe/internal/nlp/matcher"
	"github.com/clinpipe/clinpipe/internal/nlp/postprocess"
	"github.com/clinpipe/clinpipe/internal/nlp/section"
	"github.com/clinpipe/clinpipe/internal/nlp/tagger"
	"github.com/clinpipe/clinpipe/internal/nlp/tokenizer"
	"github.com/clinpipe/clinpipe/internal/rules"
)

// DefaultPipes is the component order Load builds when no enable list is
// given.
var DefaultPipes = []string{
	"tagger",
	"parser",
	"target_matcher",
	"context",
	"sectionizer",
	"postprocessor",
}

// Options configures Load.
type Options struct {
	// Model selects the tokenization/tagging profile: "clinical" (default)
	// or "generic".
	Model string
	// Enable restricts the pipeline to the named components, in default
	// order. Empty means all default pipes.
	Enable []string
	// Disable excludes components. A name in both lists is excluded.
	Disable []string
	// LoadDefaultRules loads the built-in rule sets. Defaults to true; use
	// NoDefaultRules to turn it off from zero-value Options.
	NoDefaultRules bool
	// ExtraRules are merged on top of the defaults (or stand alone when
	// defaults are disabled). Must already be compiled.
	ExtraRules rules.Set
}

// Load builds a pipeline the way the clinical model loader does: default
// component order, allow/deny lists, optional built-in rules.
func Load(opts Options) (*Pipeline, error) {
	model := opts.Model
	if model == "" {
		model = "clinical"
	}
	switch model {
	case "clinical", "generic":
	default:
		return nil, fmt.Errorf("unknown model %q", model)
	}

	selected, err := selectPipes(opts.Enable, opts.Disable)
	if err != nil {
		return nil, err
	}

	var rs rules.Set
	if !opts.NoDefaultRules {
		rs = rules.Defaults()
	}
	rs.Merge(opts.ExtraRules)

	p := NewPipeline(model)
	tok := tokenizer.New(model)
	for _, name := range selected {
		var c Component
		switch name {
		case "tagger":
			c = tagger.New()
		case "parser":
			c = tokenizer.NewParser(tok)
		case "target_matcher":
			c = matcher.New(rs.Targets)
		case "context":
			c = conassert.New(rs.Context)
		case "sectionizer":
			c = section.New(rs.Sections)
		case "postprocessor":
			c = postprocess.New(rs.Postprocess)
		}
		if err := p.AddPipe(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// selectPipes applies the enable/deny lists to the default order.
func selectPipes(enable, disable []string) ([]string, error) {
	known := make(map[string]bool, len(DefaultPipes))
	for _, n := range DefaultPipes {
		known[n] = true
	}
	for _, n := range enable {
		if !known[n] {
			return nil, fmt.Errorf("unknown component %q", n)
		}
	}
	for _, n := range disable {
		if !known[n] {
			return nil, fmt.Errorf("unknown component %q", n)
		}
	}

	allowed := make(map[string]bool, len(DefaultPipes))
	if len(enable) == 0 {
		for _, n := range DefaultPipes {
			allowed[n] = true
		}
	} else {
		for _, n := range enable {
			allowed[n] = true
		}
	}
	for _, n := range disable {
		delete(allowed, n)
	}

	var selected []string
	for _, n := range DefaultPipes {
		if allowed[n] {
			selected = append(selected, n)
		}
	}
	return selected, nil
}
