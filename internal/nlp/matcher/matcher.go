// Package matcher implements the target_matcher pipe: phrase and pattern
// rules matched over the note text, aligned to token boundaries. Overlapping
// candidates resolve longest-match-wins, ties to the earlier start.
package matcher

import (
	"sort"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/rules"
)

// Matcher holds compiled target rules.
type Matcher struct {
	rules []rules.TargetRule
}

// New creates a matcher over compiled rules.
func New(rs []rules.TargetRule) *Matcher {
	return &Matcher{rules: rs}
}

func (m *Matcher) Name() string { return "target_matcher" }

// Rules returns the configured target rules.
func (m *Matcher) Rules() []rules.TargetRule { return m.rules }

// Add appends more rules. The rules must already be compiled.
func (m *Matcher) Add(rs ...rules.TargetRule) {
	m.rules = append(m.rules, rs...)
}

func (m *Matcher) Process(doc *document.Doc) error {
	starts, ends := tokenBoundaries(doc)

	var candidates []document.Entity
	for ri := range m.rules {
		rule := &m.rules[ri]
		for _, sp := range rule.Regexp().FindAllStringIndex(doc.Text, -1) {
			tok, ok := starts[sp[0]]
			if !ok || !ends[sp[1]] {
				continue // not token-aligned, e.g. inside a longer word
			}
			ent := document.Entity{
				Text:     doc.Text[sp[0]:sp[1]],
				Start:    sp[0],
				End:      sp[1],
				Category: rule.Category,
				Literal:  rule.Literal,
				Sentence: doc.Tokens[tok].Sentence,
			}
			for attr, v := range rule.Attributes {
				ent.Assertion.Set(attr, v == "true")
			}
			candidates = append(candidates, ent)
		}
	}

	doc.Entities = resolve(candidates)
	return nil
}

// tokenBoundaries indexes valid match start and end offsets.
func tokenBoundaries(doc *document.Doc) (map[int]int, map[int]bool) {
	starts := make(map[int]int, len(doc.Tokens))
	ends := make(map[int]bool, len(doc.Tokens))
	for i, t := range doc.Tokens {
		starts[t.Start] = i
		ends[t.End] = true
	}
	return starts, ends
}

// resolve drops overlapping candidates, preferring longer then earlier
// matches, and returns the survivors sorted by start offset.
func resolve(candidates []document.Entity) []document.Entity {
	sort.Slice(candidates, func(i, j int) bool {
		li := candidates[i].End - candidates[i].Start
		lj := candidates[j].End - candidates[j].Start
		if li != lj {
			return li > lj
		}
		return candidates[i].Start < candidates[j].Start
	})

	kept := make([]document.Entity, 0, len(candidates))
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.Start < k.End && k.Start < c.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}
