// Package conassert implements the context pipe: a ConText-style assertion
// engine. Modifier cues (negation, possibility, historical, hypothetical,
// family) are matched in the text and their scope is applied to entities
// within the same sentence, bounded by termination cues and per-rule scope
// limits. The pipe keeps its public name "context"; the package is named
// conassert to stay clear of the standard library.
package conassert

import (
	"sort"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/rules"
)

// Engine holds compiled context rules.
type Engine struct {
	rules []rules.ContextRule
}

// New creates the assertion engine over compiled rules.
func New(rs []rules.ContextRule) *Engine {
	return &Engine{rules: rs}
}

func (e *Engine) Name() string { return "context" }

// Rules returns the configured context rules.
func (e *Engine) Rules() []rules.ContextRule { return e.rules }

// Add appends more rules. The rules must already be compiled.
func (e *Engine) Add(rs ...rules.ContextRule) {
	e.rules = append(e.rules, rs...)
}

// cue is one modifier match located in the doc, in token coordinates.
type cue struct {
	rule       *rules.ContextRule
	start, end int // byte offsets
	tokStart   int // first token index
	tokEnd     int // last token index, exclusive
	sentence   int
}

func (e *Engine) Process(doc *document.Doc) error {
	cues := e.findCues(doc)
	if len(cues) == 0 {
		return nil
	}

	// Terminates cut scopes; pseudo cues were consumed during overlap
	// resolution and assert nothing.
	var modifiers, terminates []cue
	for _, c := range cues {
		switch c.rule.Direction {
		case rules.Terminate:
			terminates = append(terminates, c)
		case rules.Pseudo:
		default:
			modifiers = append(modifiers, c)
		}
	}

	for i := range doc.Entities {
		ent := &doc.Entities[i]
		entTokStart, entTokEnd := tokenRange(doc, ent.Start, ent.End)
		for _, m := range modifiers {
			if m.sentence != ent.Sentence {
				continue
			}
			lo, hi := e.scope(doc, m, terminates)
			if entTokStart < hi && lo < entTokEnd {
				apply(&ent.Assertion, m.rule.Category)
			}
		}
	}
	return nil
}

// findCues matches every rule, then resolves overlaps longest-wins so that
// "no evidence of" shadows "no" and pseudo cues shadow the cues they embed.
func (e *Engine) findCues(doc *document.Doc) []cue {
	var all []cue
	for ri := range e.rules {
		rule := &e.rules[ri]
		for _, sp := range rule.Regexp().FindAllStringIndex(doc.Text, -1) {
			ts, te := tokenRange(doc, sp[0], sp[1])
			if ts >= te {
				continue
			}
			all = append(all, cue{
				rule:     rule,
				start:    sp[0],
				end:      sp[1],
				tokStart: ts,
				tokEnd:   te,
				sentence: doc.Tokens[ts].Sentence,
			})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		li := all[i].end - all[i].start
		lj := all[j].end - all[j].start
		if li != lj {
			return li > lj
		}
		return all[i].start < all[j].start
	})
	var kept []cue
	for _, c := range all {
		shadowed := false
		for _, k := range kept {
			if c.start < k.end && k.start < c.end {
				shadowed = true
				break
			}
		}
		if !shadowed {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	return kept
}

// scope computes the token index range [lo, hi) a modifier cue covers.
func (e *Engine) scope(doc *document.Doc, m cue, terminates []cue) (int, int) {
	sent := doc.Sentences[m.sentence]
	lo, hi := m.tokStart, m.tokEnd

	forward := m.rule.Direction == rules.Forward || m.rule.Direction == rules.Bidirectional
	backward := m.rule.Direction == rules.Backward || m.rule.Direction == rules.Bidirectional

	if forward {
		hi = sent.TokenEnd
		if m.rule.MaxScope > 0 && m.tokEnd+m.rule.MaxScope < hi {
			hi = m.tokEnd + m.rule.MaxScope
		}
		for _, t := range terminates {
			if t.sentence == m.sentence && t.tokStart >= m.tokEnd && t.tokStart < hi {
				hi = t.tokStart
			}
		}
		lo = m.tokStart
	}
	if backward {
		blo := sent.TokenStart
		if m.rule.MaxScope > 0 && m.tokStart-m.rule.MaxScope > blo {
			blo = m.tokStart - m.rule.MaxScope
		}
		for _, t := range terminates {
			if t.sentence == m.sentence && t.tokEnd <= m.tokStart && t.tokEnd > blo {
				blo = t.tokEnd
			}
		}
		lo = blo
		if !forward {
			hi = m.tokStart
		}
	}
	return lo, hi
}

// tokenRange finds the token index range covering byte span [start, end).
func tokenRange(doc *document.Doc, start, end int) (int, int) {
	ts := sort.Search(len(doc.Tokens), func(i int) bool {
		return doc.Tokens[i].End > start
	})
	te := sort.Search(len(doc.Tokens), func(i int) bool {
		return doc.Tokens[i].Start >= end
	})
	return ts, te
}

func apply(a *document.Assertion, category string) {
	switch category {
	case rules.NegatedExistence:
		a.Negated = true
	case rules.PossibleExistence:
		a.Possible = true
		a.Uncertain = true
	case rules.Historical:
		a.Historical = true
	case rules.Hypothetical:
		a.Hypothetical = true
	case rules.FamilyHistory:
		a.Family = true
	case rules.Uncertain:
		a.Uncertain = true
	}
}
