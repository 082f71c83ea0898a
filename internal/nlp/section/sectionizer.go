// Package section implements the sectionizer pipe. Notes are scanned line by
// line for section titles; each title opens a section whose body runs until
// the next recognized title. Entities get the category of the section they
// fall in.
package section

import (
	"strings"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/rules"
)

// Sectionizer holds compiled section rules.
type Sectionizer struct {
	rules []rules.SectionRule
}

// New creates a sectionizer over compiled rules.
func New(rs []rules.SectionRule) *Sectionizer {
	return &Sectionizer{rules: rs}
}

func (s *Sectionizer) Name() string { return "sectionizer" }

// Rules returns the configured section rules.
func (s *Sectionizer) Rules() []rules.SectionRule { return s.rules }

// Add appends more rules. The rules must already be compiled.
func (s *Sectionizer) Add(rs ...rules.SectionRule) {
	s.rules = append(s.rules, rs...)
}

func (s *Sectionizer) Process(doc *document.Doc) error {
	var sections []document.Section

	offset := 0
	for _, line := range strings.SplitAfter(doc.Text, "\n") {
		lineStart := offset
		offset += len(line)

		trimmed := strings.TrimRight(line, "\n\r")
		stripped := strings.TrimSpace(trimmed)
		if stripped == "" {
			continue
		}

		rule, titleLen := s.matchTitle(stripped, openCategory(sections))
		if rule == nil {
			continue
		}

		indent := lineStart + (len(trimmed) - len(strings.TrimLeft(trimmed, " \t")))
		titleEnd := indent + titleLen

		// Close the previous section at this title.
		if n := len(sections); n > 0 {
			sections[n-1].BodyEnd = lineStart
		}
		sections = append(sections, document.Section{
			Category:   rule.Category,
			Title:      stripped[:titleLen],
			TitleStart: indent,
			TitleEnd:   titleEnd,
			BodyStart:  titleEnd,
			BodyEnd:    len(doc.Text),
		})
	}

	doc.Sections = sections

	for i := range doc.Entities {
		ent := &doc.Entities[i]
		if sec := doc.SectionFor(ent.Start); sec != nil {
			ent.Section = sec.Category
		}
	}
	return nil
}

// matchTitle tries each rule against the stripped line and returns the
// matching rule and the matched title length. A title must sit at the start
// of the line and either span the whole line or end with a colon.
func (s *Sectionizer) matchTitle(line, parent string) (*rules.SectionRule, int) {
	for ri := range s.rules {
		rule := &s.rules[ri]
		if len(rule.Parents) > 0 && !contains(rule.Parents, parent) {
			continue
		}

		var matchLen int
		if re := rule.Regexp(); re != nil {
			loc := re.FindStringIndex(line)
			if loc == nil || loc[0] != 0 {
				continue
			}
			matchLen = loc[1]
		} else {
			if !hasPrefixFold(line, rule.Literal) {
				continue
			}
			matchLen = len(rule.Literal)
		}

		rest := strings.TrimSpace(line[matchLen:])
		if rest == "" {
			return rule, matchLen
		}
		if strings.HasPrefix(rest, ":") {
			return rule, matchLen + strings.Index(line[matchLen:], ":") + 1
		}
	}
	return nil, 0
}

func openCategory(sections []document.Section) string {
	if len(sections) == 0 {
		return ""
	}
	return sections[len(sections)-1].Category
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
