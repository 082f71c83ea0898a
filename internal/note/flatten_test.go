package note

import (
	"strings"
	"testing"
)

func TestFlatten_HeadingsBecomeTitleLines(t *testing.T) {
	tree := &Tree{
		Title: "discharge",
		Children: []*Node{
			{
				Title: "Hospital Course",
				Text:  "Ruled out for MI.",
				Children: []*Node{
					{Title: "Day 2", Text: "Ambulating."},
				},
			},
			{Title: "Medications:", Text: "metoprolol"},
		},
	}

	got := Flatten(tree)

	if !strings.Contains(got, "Hospital Course:\n") {
		t.Errorf("expected heading rendered as a title line, got %q", got)
	}
	// An existing colon must not be doubled.
	if strings.Contains(got, "Medications::") {
		t.Errorf("expected no doubled colon, got %q", got)
	}
	if !strings.Contains(got, "Medications:\n") {
		t.Errorf("expected medications title line, got %q", got)
	}

	// Nested content follows its heading.
	course := strings.Index(got, "Hospital Course:")
	day2 := strings.Index(got, "Day 2:")
	meds := strings.Index(got, "Medications:")
	if !(course < day2 && day2 < meds) {
		t.Errorf("expected document order preserved, got %q", got)
	}
}

func TestFlatten_TextOnlyNodes(t *testing.T) {
	tree := &Tree{Children: []*Node{
		{Text: "First block."},
		{Text: "Second block."},
	}}

	got := Flatten(tree)
	if got != "First block.\n\nSecond block." {
		t.Errorf("expected blocks joined by blank lines, got %q", got)
	}
}

func TestFlatten_Empty(t *testing.T) {
	if got := Flatten(&Tree{}); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
