// Package tokenizer turns raw note text into offset-preserving tokens and
// sentences. Clinical text is full of abbreviations ("h/o", "b.i.d.", "s/p"),
// slashed values ("120/80") and line-oriented structure, so both the token
// and the sentence rules lean on small allow-lists rather than punctuation
// alone.
package tokenizer

import (
	"regexp"
	"strings"

	"github.com/clinpipe/clinpipe/internal/document"
)

// tokenRe alternatives, in priority order:
// dotted abbreviations (b.i.d., r.o.), decimal numbers, words with internal
// connectors (h/o, 120/80, follow-up, patient's), single punctuation marks.
var tokenRe = regexp.MustCompile(
	`[A-Za-z](?:\.[A-Za-z])+\.?` +
		`|\d+(?:\.\d+)+%?` +
		`|[A-Za-z0-9]+(?:[-/'][A-Za-z0-9]+)*%?` +
		`|[^\sA-Za-z0-9]`)

// Tokenizer splits text into tokens. The zero value is not usable; construct
// with New.
type Tokenizer struct {
	abbrevs map[string]bool
}

// New returns a tokenizer for the named model profile. "clinical" (the
// default) carries the clinical abbreviation list; "generic" carries only the
// common English abbreviations.
func New(model string) *Tokenizer {
	abbrevs := map[string]bool{
		"dr": true, "mr": true, "mrs": true, "ms": true, "prof": true,
		"st": true, "vs": true, "etc": true, "approx": true, "no": true,
	}
	if model != "generic" {
		for _, a := range []string{
			"pt", "pts", "hx", "dx", "tx", "rx", "sx", "fx",
			"qd", "bid", "tid", "qid", "prn", "po", "iv", "im",
			"mg", "mcg", "ml", "dl", "wt", "ht", "temp", "resp",
			"neg", "pos", "yo", "wks", "mos", "yrs",
		} {
			abbrevs[a] = true
		}
	}
	return &Tokenizer{abbrevs: abbrevs}
}

// Tokenize fills doc.Tokens and seeds a single sentence spanning the whole
// text, so downstream components always have a sentence to work within even
// when the parser pipe is disabled.
func (t *Tokenizer) Tokenize(doc *document.Doc) {
	spans := tokenRe.FindAllStringIndex(doc.Text, -1)
	doc.Tokens = make([]document.Token, 0, len(spans))
	for _, sp := range spans {
		doc.Tokens = append(doc.Tokens, document.Token{
			Text:     doc.Text[sp[0]:sp[1]],
			Start:    sp[0],
			End:      sp[1],
			Sentence: 0,
		})
	}
	doc.Sentences = []document.Sentence{{
		Start:      0,
		End:        len(doc.Text),
		TokenStart: 0,
		TokenEnd:   len(doc.Tokens),
	}}
}

// isAbbrev reports whether word (without trailing period) should suppress a
// sentence break after a period.
func (t *Tokenizer) isAbbrev(word string) bool {
	w := strings.ToLower(strings.TrimSuffix(word, "."))
	if t.abbrevs[w] {
		return true
	}
	// Single letters ("J. Smith") and dotted abbreviations ("b.i.d").
	if len(w) == 1 {
		return true
	}
	return strings.Contains(w, ".")
}
