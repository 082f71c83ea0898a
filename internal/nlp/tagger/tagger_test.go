package tagger

import (
	"testing"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/nlp/tokenizer"
)

func TestTagger_Name(t *testing.T) {
	if got := New().Name(); got != "tagger" {
		t.Errorf("expected name %q, got %q", "tagger", got)
	}
}

func TestTagger_LexiconAndSuffixes(t *testing.T) {
	cases := []struct {
		word string
		want string
	}{
		{"the", Det},
		{"without", Adp},
		{"denies", Verb},
		{"and", Conj},
		{"currently", Adv},
		{"chronic", Adj},
		{"pneumonia", Noun},       // default
		{"presenting", Verb},      // -ing
		{"hospitalized", Verb},    // -ized
		{"suddenly", Adv},         // -ly
		{"infectious", Adj},       // -ous
		{"120", Num},
		{",", Punct},
		{"Denies", Verb}, // case-insensitive lexicon lookup
	}

	for _, c := range cases {
		if got := tag(c.word); got != c.want {
			t.Errorf("tag(%q): expected %s, got %s", c.word, c.want, got)
		}
	}
}

func TestTagger_Process(t *testing.T) {
	doc := document.New("Patient denies chest pain without fever.")
	tokenizer.New("clinical").Tokenize(doc)

	if err := New().Process(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, tok := range doc.Tokens {
		if tok.Tag == "" {
			t.Errorf("token[%d] %q has no tag", i, tok.Text)
		}
	}

	byText := map[string]string{}
	for _, tok := range doc.Tokens {
		byText[tok.Text] = tok.Tag
	}
	if byText["denies"] != Verb {
		t.Errorf("expected %q tagged %s, got %s", "denies", Verb, byText["denies"])
	}
	if byText["without"] != Adp {
		t.Errorf("expected %q tagged %s, got %s", "without", Adp, byText["without"])
	}
	if byText["pain"] != Noun {
		t.Errorf("expected %q tagged %s, got %s", "pain", Noun, byText["pain"])
	}
}
