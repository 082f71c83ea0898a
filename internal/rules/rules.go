// Package rules defines the rule records that drive the pipeline components:
// target rules for the matcher, context rules for the assertion engine,
// section rules for the sectionizer, and postprocess rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Direction controls which side of a context cue its scope extends to.
type Direction string

const (
	Forward       Direction = "forward"
	Backward      Direction = "backward"
	Bidirectional Direction = "bidirectional"
	// Terminate cues cut the scope of other cues in the same sentence.
	Terminate Direction = "terminate"
	// Pseudo cues match but assert nothing; they exist to shadow shorter
	// cues ("no increase" must not trigger "no").
	Pseudo Direction = "pseudo"
)

// Context rule categories.
const (
	NegatedExistence  = "NEGATED_EXISTENCE"
	PossibleExistence = "POSSIBLE_EXISTENCE"
	Historical        = "HISTORICAL"
	Hypothetical      = "HYPOTHETICAL"
	FamilyHistory     = "FAMILY"
	Uncertain         = "UNCERTAIN"
)

// TargetRule matches a clinical concept in note text.
type TargetRule struct {
	Literal  string `yaml:"literal" json:"literal"`
	Category string `yaml:"category" json:"category"`
	// Pattern, when set, overrides literal matching with a regexp applied
	// case-insensitively on token boundaries.
	Pattern    string            `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	re *regexp.Regexp
}

// ContextRule marks a modifier cue and the scope it applies to.
type ContextRule struct {
	Literal   string    `yaml:"literal" json:"literal"`
	Category  string    `yaml:"category" json:"category"`
	Direction Direction `yaml:"direction" json:"direction"`
	Pattern   string    `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	// MaxScope bounds the scope in tokens; 0 means the sentence boundary.
	MaxScope int `yaml:"max_scope,omitempty" json:"max_scope,omitempty"`

	re *regexp.Regexp
}

// SectionRule recognizes a section title line.
type SectionRule struct {
	Category string `yaml:"category" json:"category"`
	Literal  string `yaml:"literal,omitempty" json:"literal,omitempty"`
	Pattern  string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	// Parents, when set, restricts the rule to fire only while one of the
	// named section categories is open.
	Parents []string `yaml:"parents,omitempty" json:"parents,omitempty"`

	re *regexp.Regexp
}

// Condition selects entities for a postprocess rule. Zero-value fields are
// ignored; all set fields must hold.
type Condition struct {
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`
	Section     string `yaml:"section,omitempty" json:"section,omitempty"`
	Attribute   string `yaml:"attribute,omitempty" json:"attribute,omitempty"` // negated|possible|historical|hypothetical|family|uncertain
	TextMatches string `yaml:"text_matches,omitempty" json:"text_matches,omitempty"`

	re *regexp.Regexp
}

// Action is what a postprocess rule does to a selected entity.
type Action struct {
	Type string `yaml:"type" json:"type"` // remove|set_attribute|set_category
	// Attribute names the assertion flag for set_attribute.
	Attribute string `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Value     bool   `yaml:"value,omitempty" json:"value,omitempty"`
	Category  string `yaml:"category,omitempty" json:"category,omitempty"`
}

// PostprocessRule rewrites or removes entities after all other stages ran.
type PostprocessRule struct {
	Name      string    `yaml:"name" json:"name"`
	Condition Condition `yaml:"condition" json:"condition"`
	Action    Action    `yaml:"action" json:"action"`
}

// Set bundles all rule kinds for one pipeline.
type Set struct {
	Targets     []TargetRule      `yaml:"target_rules,omitempty"`
	Context     []ContextRule     `yaml:"context_rules,omitempty"`
	Sections    []SectionRule     `yaml:"section_rules,omitempty"`
	Postprocess []PostprocessRule `yaml:"postprocess_rules,omitempty"`
}

// Merge appends other's rules onto s.
func (s *Set) Merge(other Set) {
	s.Targets = append(s.Targets, other.Targets...)
	s.Context = append(s.Context, other.Context...)
	s.Sections = append(s.Sections, other.Sections...)
	s.Postprocess = append(s.Postprocess, other.Postprocess...)
}

// Compile validates every rule and compiles its patterns. A Set must be
// compiled before components use it.
func (s *Set) Compile() error {
	for i := range s.Targets {
		if err := s.Targets[i].compile(); err != nil {
			return fmt.Errorf("target rule %d (%q): %w", i, s.Targets[i].Literal, err)
		}
	}
	for i := range s.Context {
		if err := s.Context[i].compile(); err != nil {
			return fmt.Errorf("context rule %d (%q): %w", i, s.Context[i].Literal, err)
		}
	}
	for i := range s.Sections {
		if err := s.Sections[i].compile(); err != nil {
			return fmt.Errorf("section rule %d (%s): %w", i, s.Sections[i].Category, err)
		}
	}
	for i := range s.Postprocess {
		if err := s.Postprocess[i].compile(); err != nil {
			return fmt.Errorf("postprocess rule %d (%s): %w", i, s.Postprocess[i].Name, err)
		}
	}
	return nil
}

func (r *TargetRule) compile() error {
	if r.Literal == "" && r.Pattern == "" {
		return fmt.Errorf("literal or pattern is required")
	}
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	return compileBoundary(r.Pattern, r.Literal, &r.re)
}

// Regexp returns the compiled matcher for this rule.
func (r *TargetRule) Regexp() *regexp.Regexp { return r.re }

func (r *ContextRule) compile() error {
	if r.Literal == "" && r.Pattern == "" {
		return fmt.Errorf("literal or pattern is required")
	}
	switch r.Direction {
	case Forward, Backward, Bidirectional, Terminate, Pseudo:
	case "":
		r.Direction = Forward
	default:
		return fmt.Errorf("unknown direction %q", r.Direction)
	}
	if r.Direction != Terminate && r.Direction != Pseudo && r.Category == "" {
		return fmt.Errorf("category is required")
	}
	return compileBoundary(r.Pattern, r.Literal, &r.re)
}

// Regexp returns the compiled matcher for this rule.
func (r *ContextRule) Regexp() *regexp.Regexp { return r.re }

func (r *SectionRule) compile() error {
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	if r.Literal == "" && r.Pattern == "" {
		return fmt.Errorf("literal or pattern is required")
	}
	if r.Pattern != "" {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return fmt.Errorf("pattern: %w", err)
		}
		r.re = re
	}
	return nil
}

// Regexp returns the compiled title pattern, nil for literal-only rules.
func (r *SectionRule) Regexp() *regexp.Regexp { return r.re }

func (r *PostprocessRule) compile() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch r.Action.Type {
	case "remove":
	case "set_attribute":
		if !validAttribute(r.Action.Attribute) {
			return fmt.Errorf("action: unknown attribute %q", r.Action.Attribute)
		}
	case "set_category":
		if r.Action.Category == "" {
			return fmt.Errorf("action: category is required")
		}
	default:
		return fmt.Errorf("unknown action type %q", r.Action.Type)
	}
	if r.Condition.Attribute != "" && !validAttribute(r.Condition.Attribute) {
		return fmt.Errorf("condition: unknown attribute %q", r.Condition.Attribute)
	}
	if r.Condition.TextMatches != "" {
		re, err := regexp.Compile("(?i)" + r.Condition.TextMatches)
		if err != nil {
			return fmt.Errorf("condition pattern: %w", err)
		}
		r.Condition.re = re
	}
	return nil
}

// Regexp returns the compiled text condition, nil when absent.
func (c *Condition) Regexp() *regexp.Regexp { return c.re }

func validAttribute(name string) bool {
	switch name {
	case "negated", "possible", "historical", "hypothetical", "family", "uncertain":
		return true
	}
	return false
}

// compileBoundary builds a case-insensitive regexp anchored on word
// boundaries, from an explicit pattern or an escaped literal with flexible
// whitespace.
func compileBoundary(pattern, literal string, dst **regexp.Regexp) error {
	expr := pattern
	if expr == "" {
		parts := strings.Fields(literal)
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		expr = strings.Join(parts, `\s+`)
	}
	re, err := regexp.Compile(`(?i)\b(?:` + expr + `)\b`)
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}
	*dst = re
	return nil
}
