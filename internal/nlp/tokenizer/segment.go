package tokenizer

import (
	"unicode"

	"github.com/clinpipe/clinpipe/internal/document"
)

// Segment replaces the seed sentence with real sentence boundaries and
// reassigns every token to its sentence. Boundaries:
//   - newlines always end a sentence (notes are line-oriented),
//   - sentence punctuation (. ! ?) followed by whitespace ends one, unless
//     the preceding word is a known abbreviation or we are inside
//     parentheses.
func (t *Tokenizer) Segment(doc *document.Doc) {
	text := doc.Text
	var sentences []document.Sentence

	start := 0
	depth := 0 // parenthesis nesting
	flush := func(end int) {
		s, e := trimSpan(text, start, end)
		if s < e {
			sentences = append(sentences, document.Sentence{Start: s, End: e})
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '\n':
			flush(i + 1)
			depth = 0
		case '.', '!', '?':
			if depth > 0 {
				continue
			}
			if i+1 < len(text) && !isSpace(text[i+1]) {
				continue
			}
			if c == '.' && t.isAbbrev(lastWord(text, i)) {
				continue
			}
			flush(i + 1)
		}
	}
	flush(len(text))

	if len(sentences) == 0 {
		sentences = []document.Sentence{{Start: 0, End: len(text)}}
	}

	// Assign tokens to sentences. Tokens and sentences are both ordered.
	ti := 0
	for si := range sentences {
		sent := &sentences[si]
		sent.TokenStart = ti
		for ti < len(doc.Tokens) && doc.Tokens[ti].Start < sent.End {
			doc.Tokens[ti].Sentence = si
			ti++
		}
		sent.TokenEnd = ti
	}
	for ti < len(doc.Tokens) {
		doc.Tokens[ti].Sentence = len(sentences) - 1
		ti++
	}

	doc.Sentences = sentences
}

// SentenceParser is the "parser" pipe: it applies sentence segmentation on
// top of the base tokenization.
type SentenceParser struct {
	tok *Tokenizer
}

// NewParser wraps a tokenizer as the parser pipe.
func NewParser(tok *Tokenizer) *SentenceParser {
	return &SentenceParser{tok: tok}
}

func (p *SentenceParser) Name() string { return "parser" }

func (p *SentenceParser) Process(doc *document.Doc) error {
	p.tok.Segment(doc)
	return nil
}

func trimSpan(text string, start, end int) (int, int) {
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return start, end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// lastWord returns the word immediately before text[i] (exclusive).
func lastWord(text string, i int) string {
	end := i
	j := i - 1
	for j >= 0 {
		r := rune(text[j])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '/' {
			j--
			continue
		}
		break
	}
	return text[j+1 : end]
}
