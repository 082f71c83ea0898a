// Package tagger assigns coarse part-of-speech tags to tokens. It is a
// lexicon-plus-suffix tagger, not a statistical model: downstream rules only
// need NOUN/VERB-level granularity.
package tagger

import (
	"strings"
	"unicode"

	"github.com/clinpipe/clinpipe/internal/document"
)

// Coarse tag inventory.
const (
	Noun  = "NOUN"
	Verb  = "VERB"
	Adj   = "ADJ"
	Adv   = "ADV"
	Det   = "DET"
	Adp   = "ADP"
	Pron  = "PRON"
	Conj  = "CONJ"
	Num   = "NUM"
	Punct = "PUNCT"
	Other = "X"
)

var lexicon = map[string]string{
	"the": Det, "a": Det, "an": Det, "this": Det, "that": Det,
	"these": Det, "those": Det, "no": Det, "any": Det, "some": Det,

	"of": Adp, "in": Adp, "on": Adp, "at": Adp, "for": Adp, "with": Adp,
	"without": Adp, "to": Adp, "from": Adp, "by": Adp, "per": Adp,
	"during": Adp, "after": Adp, "before": Adp, "since": Adp,

	"he": Pron, "she": Pron, "it": Pron, "they": Pron, "we": Pron,
	"his": Pron, "her": Pron, "their": Pron, "who": Pron, "which": Pron,

	"and": Conj, "or": Conj, "but": Conj, "nor": Conj, "however": Conj,
	"although": Conj, "if": Conj, "because": Conj, "while": Conj,

	"is": Verb, "are": Verb, "was": Verb, "were": Verb, "be": Verb,
	"been": Verb, "has": Verb, "have": Verb, "had": Verb, "does": Verb,
	"denies": Verb, "reports": Verb, "presents": Verb, "admits": Verb,
	"complains": Verb, "states": Verb, "notes": Verb, "takes": Verb,
	"started": Verb, "continued": Verb, "discontinued": Verb, "given": Verb,
	"prescribed": Verb, "administered": Verb, "tolerated": Verb,

	"not": Adv, "very": Adv, "currently": Adv, "daily": Adv, "now": Adv,
	"previously": Adv, "recently": Adv, "well": Adv, "today": Adv,

	"acute": Adj, "chronic": Adj, "severe": Adj, "mild": Adj,
	"moderate": Adj, "bilateral": Adj, "left": Adj, "right": Adj,
	"stable": Adj, "normal": Adj, "abnormal": Adj, "elevated": Adj,
	"negative": Adj, "positive": Adj, "possible": Adj, "probable": Adj,
}

// Tagger tags tokens in place.
type Tagger struct{}

func New() *Tagger { return &Tagger{} }

func (t *Tagger) Name() string { return "tagger" }

func (t *Tagger) Process(doc *document.Doc) error {
	for i := range doc.Tokens {
		doc.Tokens[i].Tag = tag(doc.Tokens[i].Text)
	}
	return nil
}

func tag(text string) string {
	if text == "" {
		return Other
	}
	r := rune(text[0])
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return Punct
	}
	if unicode.IsDigit(r) {
		return Num
	}
	lower := strings.ToLower(text)
	if t, ok := lexicon[lower]; ok {
		return t
	}
	return bySuffix(lower)
}

func bySuffix(w string) string {
	switch {
	case strings.HasSuffix(w, "ing"), strings.HasSuffix(w, "ized"),
		strings.HasSuffix(w, "ated"):
		return Verb
	case strings.HasSuffix(w, "ly"):
		return Adv
	case strings.HasSuffix(w, "ous"), strings.HasSuffix(w, "ive"),
		strings.HasSuffix(w, "al"), strings.HasSuffix(w, "ic"),
		strings.HasSuffix(w, "able"), strings.HasSuffix(w, "ible"):
		return Adj
	default:
		// Clinical vocabulary is overwhelmingly nominal.
		return Noun
	}
}
