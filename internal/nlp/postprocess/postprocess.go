// Package postprocess implements the postprocessor pipe: a final pass of
// condition/action rules over the entity list, applied in rule order.
package postprocess

import (
	"strings"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/rules"
)

// Postprocessor holds compiled postprocess rules.
type Postprocessor struct {
	rules []rules.PostprocessRule
}

// New creates a postprocessor over compiled rules.
func New(rs []rules.PostprocessRule) *Postprocessor {
	return &Postprocessor{rules: rs}
}

func (p *Postprocessor) Name() string { return "postprocessor" }

// Rules returns the configured postprocess rules.
func (p *Postprocessor) Rules() []rules.PostprocessRule { return p.rules }

// Add appends more rules. The rules must already be compiled.
func (p *Postprocessor) Add(rs ...rules.PostprocessRule) {
	p.rules = append(p.rules, rs...)
}

func (p *Postprocessor) Process(doc *document.Doc) error {
	for ri := range p.rules {
		rule := &p.rules[ri]
		kept := doc.Entities[:0]
		for i := range doc.Entities {
			ent := &doc.Entities[i]
			if !matches(rule, ent) {
				kept = append(kept, *ent)
				continue
			}
			switch rule.Action.Type {
			case "remove":
				// drop
			case "set_attribute":
				ent.Assertion.Set(rule.Action.Attribute, rule.Action.Value)
				kept = append(kept, *ent)
			case "set_category":
				ent.Category = rule.Action.Category
				kept = append(kept, *ent)
			default:
				kept = append(kept, *ent)
			}
		}
		doc.Entities = kept
	}
	return nil
}

func matches(rule *rules.PostprocessRule, ent *document.Entity) bool {
	c := &rule.Condition
	if c.Category != "" && !strings.EqualFold(c.Category, ent.Category) {
		return false
	}
	if c.Section != "" && c.Section != ent.Section {
		return false
	}
	if c.Attribute != "" && !ent.Assertion.Get(c.Attribute) {
		return false
	}
	if re := c.Regexp(); re != nil && !re.MatchString(ent.Text) {
		return false
	}
	return true
}
