package nlp

import (
	"context"
	"strings"
	"testing"

	"github.com/clinpipe/clinpipe/internal/rules"
)

func TestLoad_DefaultPipeOrder(t *testing.T) {
	p, err := Load(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := p.PipeNames()
	if len(got) != len(DefaultPipes) {
		t.Fatalf("expected %d pipes, got %d: %v", len(DefaultPipes), len(got), got)
	}
	for i, want := range DefaultPipes {
		if got[i] != want {
			t.Errorf("pipe[%d]: expected %s, got %s", i, want, got[i])
		}
	}
	if p.Model() != "clinical" {
		t.Errorf("expected the clinical default model, got %q", p.Model())
	}
}

func TestLoad_EnableSubset(t *testing.T) {
	p, err := Load(Options{Enable: []string{"target_matcher", "parser"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := p.PipeNames()
	// Enabled pipes keep the default order regardless of list order.
	want := []string{"parser", "target_matcher"}
	if len(got) != len(want) {
		t.Fatalf("expected pipes %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pipe[%d]: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestLoad_DisableWinsOverEnable(t *testing.T) {
	p, err := Load(Options{
		Enable:  []string{"parser", "target_matcher", "context"},
		Disable: []string{"context"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.HasPipe("context") {
		t.Error("a pipe named in both lists must be disabled")
	}
	if !p.HasPipe("target_matcher") {
		t.Error("expected target_matcher present")
	}
}

func TestLoad_UnknownComponent(t *testing.T) {
	if _, err := Load(Options{Enable: []string{"lemmatizer"}}); err == nil {
		t.Error("expected an error for an unknown enable name")
	}
	if _, err := Load(Options{Disable: []string{"lemmatizer"}}); err == nil {
		t.Error("expected an error for an unknown disable name")
	}
}

func TestLoad_UnknownModel(t *testing.T) {
	if _, err := Load(Options{Model: "quantum"}); err == nil {
		t.Error("expected an error for an unknown model")
	}
}

func TestLoad_NoDefaultRules(t *testing.T) {
	p, err := Load(Options{NoDefaultRules: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := p.Run(context.Background(), "Patient has pneumonia.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Entities) != 0 {
		t.Errorf("expected no matches without rules, got %v", doc.Entities)
	}
}

func TestLoad_ExtraRulesMergeOntoDefaults(t *testing.T) {
	extra, err := rules.Parse([]byte("target_rules:\n  - literal: migraine\n    category: PROBLEM\n"), "extra")
	if err != nil {
		t.Fatalf("parse extra rules: %v", err)
	}

	p, err := Load(Options{ExtraRules: extra})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := p.Run(context.Background(), "Chronic migraine with known afib.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var haveMigraine, haveAfib bool
	for _, e := range doc.Entities {
		switch strings.ToLower(e.Text) {
		case "migraine":
			haveMigraine = true
		case "afib":
			haveAfib = true
		}
	}
	if !haveMigraine {
		t.Error("expected the extra rule to match")
	}
	if !haveAfib {
		t.Error("expected the default rules still active")
	}
}
