package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinpipe/clinpipe/internal/document"
)

// SearchQuery filters entity search. Text goes through FTS5; the remaining
// fields are SQL filters. Nil boolean filters are ignored.
type SearchQuery struct {
	Text     string
	Category string
	Section  string
	Negated  *bool
	Family   *bool
	Limit    int
}

// SearchHit is one matching entity with its note identity.
type SearchHit struct {
	NoteID    string          `json:"note_id"`
	NoteTitle string          `json:"note_title"`
	Entity    document.Entity `json:"entity"`
}

// SearchEntities finds entities across all notes.
func (s *Store) SearchEntities(ctx context.Context, q SearchQuery) ([]SearchHit, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var (
		where []string
		args  []any
	)
	join := ""
	if q.Text != "" {
		join = `JOIN entities_fts f ON f.rowid = e.id`
		where = append(where, `entities_fts MATCH ?`)
		args = append(args, ftsQuery(q.Text))
	}
	if q.Category != "" {
		where = append(where, `e.category = ?`)
		args = append(args, strings.ToUpper(q.Category))
	}
	if q.Section != "" {
		where = append(where, `e.section = ?`)
		args = append(args, q.Section)
	}
	if q.Negated != nil {
		where = append(where, `e.negated = ?`)
		args = append(args, b2i(*q.Negated))
	}
	if q.Family != nil {
		where = append(where, `e.family = ?`)
		args = append(args, b2i(*q.Family))
	}

	query := `SELECT n.id, n.title, e.text, e.start, e.end, e.category, e.literal, e.section,
		e.negated, e.possible, e.historical, e.hypothetical, e.family, e.uncertain
		FROM entities e
		JOIN notes n ON n.id = e.note_id ` + join
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY n.created_at DESC, e.start LIMIT ?"
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search entities: %w", err)
	}
	defer rows.Close()

	var out []SearchHit
	for rows.Next() {
		var h SearchHit
		var neg, pos, hist, hyp, fam, unc int
		if err := rows.Scan(&h.NoteID, &h.NoteTitle,
			&h.Entity.Text, &h.Entity.Start, &h.Entity.End,
			&h.Entity.Category, &h.Entity.Literal, &h.Entity.Section,
			&neg, &pos, &hist, &hyp, &fam, &unc); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		h.Entity.Assertion = document.Assertion{
			Negated:      neg != 0,
			Possible:     pos != 0,
			Historical:   hist != 0,
			Hypothetical: hyp != 0,
			Family:       fam != 0,
			Uncertain:    unc != 0,
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CategoryCounts returns entity counts per category across all notes.
func (s *Store) CategoryCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM entities GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[cat] = n
	}
	return out, rows.Err()
}

// ftsQuery quotes user input so FTS5 treats it as phrase terms rather than
// query syntax.
func ftsQuery(text string) string {
	terms := strings.Fields(text)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, ``) + `"`
	}
	return strings.Join(terms, " ")
}
