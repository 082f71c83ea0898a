package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clinpipe/clinpipe/internal/document"
)

// Note is a stored note row plus its annotations.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Text        string    `json:"text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Entities []document.Entity  `json:"entities,omitempty"`
	Sections []document.Section `json:"sections,omitempty"`
}

// NoteSummary is a listing row without text or annotations.
type NoteSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
	EntityCount int       `json:"entity_count"`
}

// InsertNote stores a note and its annotations in one transaction.
func (s *Store) InsertNote(ctx context.Context, n *Note) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notes (id, title, filename, content_hash, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Filename, n.ContentHash, n.Text, n.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	for i := range n.Entities {
		e := &n.Entities[i]
		a := e.Assertion
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entities (note_id, text, start, end, category, literal, section,
			negated, possible, historical, hypothetical, family, uncertain)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, e.Text, e.Start, e.End, e.Category, e.Literal, e.Section,
			b2i(a.Negated), b2i(a.Possible), b2i(a.Historical),
			b2i(a.Hypothetical), b2i(a.Family), b2i(a.Uncertain),
		)
		if err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}
	}

	for i := range n.Sections {
		sec := &n.Sections[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sections (note_id, category, title, title_start, title_end, body_start, body_end)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.ID, sec.Category, sec.Title, sec.TitleStart, sec.TitleEnd, sec.BodyStart, sec.BodyEnd,
		)
		if err != nil {
			return fmt.Errorf("insert section: %w", err)
		}
	}

	return tx.Commit()
}

// GetNote retrieves a note with its annotations, or nil when absent.
func (s *Store) GetNote(ctx context.Context, id string) (*Note, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, title, filename, content_hash, text, created_at
		FROM notes WHERE id = ?`, id)

	var n Note
	var createdMs int64
	err := row.Scan(&n.ID, &n.Title, &n.Filename, &n.ContentHash, &n.Text, &createdMs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	n.CreatedAt = time.UnixMilli(createdMs)

	if n.Entities, err = s.noteEntities(ctx, id); err != nil {
		return nil, err
	}
	if n.Sections, err = s.noteSections(ctx, id); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) noteEntities(ctx context.Context, noteID string) ([]document.Entity, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT text, start, end, category, literal, section,
		negated, possible, historical, hypothetical, family, uncertain
		FROM entities WHERE note_id = ? ORDER BY start`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []document.Entity
	for rows.Next() {
		var e document.Entity
		var neg, pos, hist, hyp, fam, unc int
		if err := rows.Scan(&e.Text, &e.Start, &e.End, &e.Category, &e.Literal, &e.Section,
			&neg, &pos, &hist, &hyp, &fam, &unc); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		e.Assertion = document.Assertion{
			Negated:      neg != 0,
			Possible:     pos != 0,
			Historical:   hist != 0,
			Hypothetical: hyp != 0,
			Family:       fam != 0,
			Uncertain:    unc != 0,
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) noteSections(ctx context.Context, noteID string) ([]document.Section, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT category, title, title_start, title_end, body_start, body_end
		FROM sections WHERE note_id = ? ORDER BY title_start`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []document.Section
	for rows.Next() {
		var sec document.Section
		if err := rows.Scan(&sec.Category, &sec.Title, &sec.TitleStart, &sec.TitleEnd,
			&sec.BodyStart, &sec.BodyEnd); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// ListNotes returns note summaries, newest first.
func (s *Store) ListNotes(ctx context.Context, limit int) ([]NoteSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT n.id, n.title, n.filename, n.content_hash, n.created_at,
		(SELECT COUNT(*) FROM entities e WHERE e.note_id = n.id)
		FROM notes n ORDER BY n.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NoteSummary
	for rows.Next() {
		var n NoteSummary
		var createdMs int64
		if err := rows.Scan(&n.ID, &n.Title, &n.Filename, &n.ContentHash, &createdMs, &n.EntityCount); err != nil {
			return nil, fmt.Errorf("scan note summary: %w", err)
		}
		n.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteNote removes a note; entities and sections cascade.
func (s *Store) DeleteNote(ctx context.Context, id string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// NoteExistsByHash checks for an earlier note with the same content hash.
// Used for deduplication before running the pipeline again.
func (s *Store) NoteExistsByHash(ctx context.Context, hash string) (string, error) {
	var id string
	err := s.DB.QueryRowContext(ctx,
		`SELECT id FROM notes WHERE content_hash = ? LIMIT 1`, hash).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("note exists: %w", err)
	}
	return id, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
