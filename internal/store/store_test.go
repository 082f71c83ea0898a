package store

import (
	"context"
	"testing"
	"time"

	"github.com/clinpipe/clinpipe/internal/document"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleNote(id string) *Note {
	return &Note{
		ID:          id,
		Title:       "Discharge Summary",
		Filename:    "discharge.txt",
		ContentHash: "hash-" + id,
		Text:        "Past Medical History:\nafib\nAssessment:\nno pneumonia\n",
		CreatedAt:   time.Now(),
		Entities: []document.Entity{
			{
				Text: "afib", Start: 22, End: 26,
				Category: "PROBLEM", Literal: "afib",
				Section:   "past_medical_history",
				Assertion: document.Assertion{Historical: true},
			},
			{
				Text: "pneumonia", Start: 42, End: 51,
				Category: "PROBLEM", Literal: "pneumonia",
				Assertion: document.Assertion{Negated: true},
			},
		},
		Sections: []document.Section{
			{Category: "past_medical_history", Title: "Past Medical History:", TitleStart: 0, TitleEnd: 21, BodyStart: 21, BodyEnd: 27},
		},
	}
}

func TestStore_InsertAndGetNote(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.InsertNote(ctx, sampleNote("n1")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetNote(ctx, "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected the note back, got nil")
	}
	if got.Title != "Discharge Summary" {
		t.Errorf("expected title %q, got %q", "Discharge Summary", got.Title)
	}
	if len(got.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got.Entities))
	}
	// Entities come back ordered by start offset.
	if got.Entities[0].Text != "afib" || got.Entities[1].Text != "pneumonia" {
		t.Errorf("unexpected entity order: %v", got.Entities)
	}
	if !got.Entities[0].Assertion.Historical {
		t.Error("expected historical flag round-tripped")
	}
	if !got.Entities[1].Assertion.Negated {
		t.Error("expected negated flag round-tripped")
	}
	if len(got.Sections) != 1 || got.Sections[0].Category != "past_medical_history" {
		t.Errorf("unexpected sections: %v", got.Sections)
	}
}

func TestStore_GetNote_Absent(t *testing.T) {
	s := openTest(t)

	got, err := s.GetNote(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an absent note, got %+v", got)
	}
}

func TestStore_ListNotes(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	n1 := sampleNote("n1")
	n1.CreatedAt = time.Now().Add(-time.Hour)
	n2 := sampleNote("n2")
	n2.ContentHash = "other-hash"
	if err := s.InsertNote(ctx, n1); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertNote(ctx, n2); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListNotes(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(list))
	}
	// Newest first.
	if list[0].ID != "n2" {
		t.Errorf("expected n2 first, got %s", list[0].ID)
	}
	if list[0].EntityCount != 2 {
		t.Errorf("expected entity count 2, got %d", list[0].EntityCount)
	}
}

func TestStore_DeleteNoteCascades(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.InsertNote(ctx, sampleNote("n1")); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.DeleteNote(ctx, "n1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion reported")
	}

	var count int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM entities`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected entities cascaded away, got %d rows", count)
	}

	deleted, err = s.DeleteNote(ctx, "n1")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("expected false for an already-deleted note")
	}
}

func TestStore_NoteExistsByHash(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.InsertNote(ctx, sampleNote("n1")); err != nil {
		t.Fatal(err)
	}

	id, err := s.NoteExistsByHash(ctx, "hash-n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "n1" {
		t.Errorf("expected existing note id n1, got %q", id)
	}

	id, err = s.NoteExistsByHash(ctx, "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Errorf("expected empty id for unknown hash, got %q", id)
	}
}

func TestStore_SearchEntities(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.InsertNote(ctx, sampleNote("n1")); err != nil {
		t.Fatal(err)
	}

	// Full-text match.
	hits, err := s.SearchEntities(ctx, SearchQuery{Text: "pneumonia"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Entity.Text != "pneumonia" {
		t.Fatalf("expected one pneumonia hit, got %v", hits)
	}
	if hits[0].NoteID != "n1" || hits[0].NoteTitle != "Discharge Summary" {
		t.Errorf("hit missing note identity: %+v", hits[0])
	}

	// Boolean filter.
	neg := true
	hits, err = s.SearchEntities(ctx, SearchQuery{Negated: &neg})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Entity.Text != "pneumonia" {
		t.Errorf("expected only the negated entity, got %v", hits)
	}

	// Section filter.
	hits, err = s.SearchEntities(ctx, SearchQuery{Section: "past_medical_history"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Entity.Text != "afib" {
		t.Errorf("expected only the PMH entity, got %v", hits)
	}

	// Category filter is case-insensitive on input.
	hits, err = s.SearchEntities(ctx, SearchQuery{Category: "problem"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected both PROBLEM entities, got %d", len(hits))
	}
}

func TestStore_SearchQuotesFTSInput(t *testing.T) {
	s := openTest(t)

	// FTS5 operators in user input must not produce a syntax error.
	_, err := s.SearchEntities(context.Background(), SearchQuery{Text: `fever AND "NOT(`})
	if err != nil {
		t.Fatalf("expected quoted query to be safe, got %v", err)
	}
}

func TestStore_CategoryCounts(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.InsertNote(ctx, sampleNote("n1")); err != nil {
		t.Fatal(err)
	}

	counts, err := s.CategoryCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["PROBLEM"] != 2 {
		t.Errorf("expected 2 PROBLEM entities, got %d", counts["PROBLEM"])
	}
}
