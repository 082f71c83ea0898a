package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clinpipe/clinpipe/internal/nlp"
	"github.com/clinpipe/clinpipe/internal/note"
	"github.com/clinpipe/clinpipe/internal/parser"
	"github.com/clinpipe/clinpipe/internal/store"
)

// Worker processes a single note job: parse, annotate, store.
type Worker struct {
	nlp   *nlp.Pipeline
	store *store.Store
	log   *slog.Logger

	pdfFallback bool
}

func NewWorker(p *nlp.Pipeline, st *store.Store, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		nlp:         p,
		store:       st,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "note_id", job.NoteID)

	// Phase 1: Parse the file into note text.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfp, ok := p.(*parser.PDFParser); ok {
		pdfp.FallbackPdftotext = w.pdfFallback
	}

	tree, err := p.Parse(bytes.NewReader(job.fileData), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title == "" {
		job.Title = tree.Title
	}

	text := note.Flatten(tree)
	job.ContentHash = ContentHashHex([]byte(text))

	// Phase 1.5: Dedup check against stored notes.
	existingID, err := w.store.NoteExistsByHash(ctx, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existingID != "" {
		log.Info("duplicate note, skipping", "existing_note_id", existingID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Run the NLP pipeline.
	job.SetStatus(StatusAnnotating, "annotating")
	doc, err := w.nlp.Run(ctx, text)
	if err != nil {
		log.Error("annotation failed", "error", err)
		job.AddError(fmt.Sprintf("annotate: %s", err))
		job.SetStatus(StatusFailed, "annotating")
		return
	}
	doc.ID = job.NoteID
	doc.Title = job.Title
	job.SetCounts(len(doc.Sentences), len(doc.Entities), len(doc.Sections))
	log.Info("annotated note",
		"sentences", len(doc.Sentences),
		"entities", len(doc.Entities),
		"sections", len(doc.Sections),
	)

	// Phase 3: Store the annotated note, retrying transient failures.
	job.SetStatus(StatusStoring, "storing")
	n := &store.Note{
		ID:          job.NoteID,
		Title:       job.Title,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		Text:        text,
		CreatedAt:   job.CreatedAt,
		Entities:    doc.Entities,
		Sections:    doc.Sections,
	}

	var lastErr error
	for attempt := range MaxRetries {
		lastErr = w.store.InsertNote(ctx, n)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
	}
	if lastErr != nil {
		log.Error("store failed", "error", lastErr)
		job.AddError(fmt.Sprintf("store: %s", lastErr))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
