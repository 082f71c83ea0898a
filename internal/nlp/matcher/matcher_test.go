package matcher

import (
	"testing"

	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/nlp/tokenizer"
	"github.com/clinpipe/clinpipe/internal/rules"
)

func compiled(t *testing.T, rs []rules.TargetRule) []rules.TargetRule {
	t.Helper()
	s := rules.Set{Targets: rs}
	if err := s.Compile(); err != nil {
		t.Fatalf("compile rules: %v", err)
	}
	return s.Targets
}

func match(t *testing.T, text string, rs []rules.TargetRule) *document.Doc {
	t.Helper()
	doc := document.New(text)
	tok := tokenizer.New("clinical")
	tok.Tokenize(doc)
	tok.Segment(doc)
	if err := New(compiled(t, rs)).Process(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func TestMatcher_LiteralMatch(t *testing.T) {
	doc := match(t, "Patient admitted with pneumonia and sepsis.", []rules.TargetRule{
		{Literal: "pneumonia", Category: "PROBLEM"},
		{Literal: "sepsis", Category: "PROBLEM"},
	})

	if len(doc.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d: %v", len(doc.Entities), doc.Entities)
	}
	if doc.Entities[0].Text != "pneumonia" || doc.Entities[1].Text != "sepsis" {
		t.Errorf("expected pneumonia then sepsis, got %q and %q",
			doc.Entities[0].Text, doc.Entities[1].Text)
	}
}

func TestMatcher_CaseInsensitive(t *testing.T) {
	doc := match(t, "DIAGNOSIS: Pneumonia", []rules.TargetRule{
		{Literal: "pneumonia", Category: "PROBLEM"},
	})

	if len(doc.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(doc.Entities))
	}
	if doc.Entities[0].Text != "Pneumonia" {
		t.Errorf("entity text should preserve source casing, got %q", doc.Entities[0].Text)
	}
}

func TestMatcher_PatternAlternatives(t *testing.T) {
	doc := match(t, "Known afib, now in atrial fibrillation.", []rules.TargetRule{
		{Literal: "afib", Category: "PROBLEM", Pattern: `a(?:trial\s+)?fib(?:rillation)?`},
	})

	if len(doc.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d: %v", len(doc.Entities), doc.Entities)
	}
	if doc.Entities[1].Text != "atrial fibrillation" {
		t.Errorf("expected %q, got %q", "atrial fibrillation", doc.Entities[1].Text)
	}
	// Both carry the rule literal for traceability.
	if doc.Entities[0].Literal != "afib" || doc.Entities[1].Literal != "afib" {
		t.Errorf("expected literal %q on both entities", "afib")
	}
}

func TestMatcher_RejectsSubwordMatches(t *testing.T) {
	// "pe" must not fire inside "pertinent" or "upper".
	doc := match(t, "Pertinent upper findings noted.", []rules.TargetRule{
		{Literal: "pe", Category: "PROBLEM", Pattern: `pe`},
	})

	if len(doc.Entities) != 0 {
		t.Fatalf("expected 0 entities, got %d: %v", len(doc.Entities), doc.Entities)
	}
}

func TestMatcher_LongestMatchWins(t *testing.T) {
	doc := match(t, "Reports chest pain on exertion.", []rules.TargetRule{
		{Literal: "pain", Category: "PROBLEM"},
		{Literal: "chest pain", Category: "PROBLEM"},
	})

	if len(doc.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d: %v", len(doc.Entities), doc.Entities)
	}
	if doc.Entities[0].Text != "chest pain" {
		t.Errorf("expected the longer match, got %q", doc.Entities[0].Text)
	}
}

func TestMatcher_FlexibleWhitespaceInLiteral(t *testing.T) {
	doc := match(t, "Complains of chest  pain today.", []rules.TargetRule{
		{Literal: "chest pain", Category: "PROBLEM"},
	})

	if len(doc.Entities) != 1 {
		t.Fatalf("expected the double-spaced phrase to match, got %d entities", len(doc.Entities))
	}
}

func TestMatcher_RuleAttributes(t *testing.T) {
	doc := match(t, "Advised to return for fever.", []rules.TargetRule{
		{Literal: "fever", Category: "PROBLEM", Attributes: map[string]string{"hypothetical": "true"}},
	})

	if len(doc.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(doc.Entities))
	}
	if !doc.Entities[0].Assertion.Hypothetical {
		t.Error("expected the rule attribute to set hypothetical")
	}
}

func TestMatcher_SentenceIndex(t *testing.T) {
	doc := match(t, "No cough.\nReports fever.", []rules.TargetRule{
		{Literal: "cough", Category: "PROBLEM"},
		{Literal: "fever", Category: "PROBLEM"},
	})

	if len(doc.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(doc.Entities))
	}
	if doc.Entities[0].Sentence != 0 || doc.Entities[1].Sentence != 1 {
		t.Errorf("expected sentences 0 and 1, got %d and %d",
			doc.Entities[0].Sentence, doc.Entities[1].Sentence)
	}
}
