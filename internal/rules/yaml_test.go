package rules

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
target_rules:
  - literal: migraine
    category: PROBLEM
  - literal: mri
    category: TEST
    pattern: mri|magnetic\s+resonance\s+imaging

context_rules:
  - literal: unlikely
    category: NEGATED_EXISTENCE
    direction: backward
    max_scope: 5

section_rules:
  - category: allergies
    literal: allergies

postprocess_rules:
  - name: drop-negated-tests
    condition:
      category: TEST
      attribute: negated
    action:
      type: remove
`

func TestParse_AllRuleKinds(t *testing.T) {
	s, err := Parse([]byte(sampleYAML), "sample.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.Targets) != 2 {
		t.Fatalf("expected 2 target rules, got %d", len(s.Targets))
	}
	if s.Targets[1].Regexp() == nil {
		t.Error("expected the pattern rule compiled")
	}
	if !s.Targets[1].Regexp().MatchString("magnetic resonance imaging") {
		t.Error("expected the pattern alternative to match")
	}

	if len(s.Context) != 1 {
		t.Fatalf("expected 1 context rule, got %d", len(s.Context))
	}
	c := s.Context[0]
	if c.Direction != Backward || c.MaxScope != 5 || c.Category != NegatedExistence {
		t.Errorf("context rule decoded wrong: %+v", c)
	}

	if len(s.Sections) != 1 || len(s.Postprocess) != 1 {
		t.Errorf("expected 1 section and 1 postprocess rule, got %d and %d",
			len(s.Sections), len(s.Postprocess))
	}
}

func TestParse_InvalidRule(t *testing.T) {
	_, err := Parse([]byte("target_rules:\n  - literal: fever\n"), "bad.yaml")
	if err == nil {
		t.Fatal("expected an error for a rule without category")
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte(":\n  - ["), "broken.yaml")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadFiles_MergesAndSkipsEmptyPaths(t *testing.T) {
	dir := t.TempDir()

	p1 := filepath.Join(dir, "targets.yaml")
	if err := os.WriteFile(p1, []byte("target_rules:\n  - literal: gout\n    category: PROBLEM\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p2 := filepath.Join(dir, "context.yaml")
	if err := os.WriteFile(p2, []byte("context_rules:\n  - literal: doubt\n    category: UNCERTAIN\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFiles(p1, "", p2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Targets) != 1 || len(s.Context) != 1 {
		t.Errorf("expected merged set with 1 target and 1 context rule, got %d and %d",
			len(s.Targets), len(s.Context))
	}
}

func TestLoadFiles_MissingFile(t *testing.T) {
	_, err := LoadFiles(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
