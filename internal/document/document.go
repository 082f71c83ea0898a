package document

// Doc holds one clinical note and everything the pipeline annotated on it.
// All spans are byte offsets into Text.
type Doc struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`

	Tokens    []Token    `json:"tokens,omitempty"`
	Sentences []Sentence `json:"sentences,omitempty"`
	Entities  []Entity   `json:"entities"`
	Sections  []Section  `json:"sections"`
}

// Token is a single lexical unit with its position in the note.
type Token struct {
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Sentence int    `json:"sentence"` // index into Doc.Sentences, -1 before parsing
	Tag      string `json:"tag,omitempty"`
}

// Sentence is a contiguous run of tokens.
type Sentence struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	TokenStart int `json:"token_start"` // first token index, inclusive
	TokenEnd   int `json:"token_end"`   // last token index, exclusive
}

// Assertion holds the context attributes attached to an entity.
type Assertion struct {
	Negated      bool `json:"negated"`
	Possible     bool `json:"possible"`
	Historical   bool `json:"historical"`
	Hypothetical bool `json:"hypothetical"`
	Family       bool `json:"family"`
	Uncertain    bool `json:"uncertain"`
}

// Set assigns an assertion flag by name. It reports false for unknown names.
func (a *Assertion) Set(name string, v bool) bool {
	switch name {
	case "negated":
		a.Negated = v
	case "possible":
		a.Possible = v
	case "historical":
		a.Historical = v
	case "hypothetical":
		a.Hypothetical = v
	case "family":
		a.Family = v
	case "uncertain":
		a.Uncertain = v
	default:
		return false
	}
	return true
}

// Get reads an assertion flag by name.
func (a *Assertion) Get(name string) bool {
	switch name {
	case "negated":
		return a.Negated
	case "possible":
		return a.Possible
	case "historical":
		return a.Historical
	case "hypothetical":
		return a.Hypothetical
	case "family":
		return a.Family
	case "uncertain":
		return a.Uncertain
	}
	return false
}

// Entity is a span matched by a target rule, enriched by later stages.
type Entity struct {
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Category string `json:"category"`
	Literal  string `json:"literal"` // rule literal that produced the match
	Sentence int    `json:"sentence"`

	Section   string    `json:"section,omitempty"` // section category, empty outside any section
	Assertion Assertion `json:"assertion"`
}

// Section is a region of the note introduced by a recognized title line.
type Section struct {
	Category   string `json:"category"`
	Title      string `json:"title"`
	TitleStart int    `json:"title_start"`
	TitleEnd   int    `json:"title_end"`
	BodyStart  int    `json:"body_start"`
	BodyEnd    int    `json:"body_end"`
}

// New creates a Doc over text with no annotations.
func New(text string) *Doc {
	return &Doc{Text: text}
}

// SentenceTokens returns the tokens of sentence i.
func (d *Doc) SentenceTokens(i int) []Token {
	if i < 0 || i >= len(d.Sentences) {
		return nil
	}
	s := d.Sentences[i]
	return d.Tokens[s.TokenStart:s.TokenEnd]
}

// SectionFor returns the section containing offset, or nil.
func (d *Doc) SectionFor(offset int) *Section {
	for i := range d.Sections {
		s := &d.Sections[i]
		if offset >= s.TitleStart && offset < s.BodyEnd {
			return s
		}
	}
	return nil
}

// Slice returns Text[start:end], clamped to valid bounds.
func (d *Doc) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(d.Text) {
		end = len(d.Text)
	}
	if start >= end {
		return ""
	}
	return d.Text[start:end]
}
