package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/clinpipe/clinpipe/internal/store"
	"github.com/go-chi/chi/v5"
)

// handleJobStatus returns the current state of an async ingest job.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found (it may have expired)", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notes, err := s.orchestrator.Store().ListNotes(r.Context(), limit)
	if err != nil {
		s.log.Error("list notes failed", "error", err)
		jsonError(w, "failed to list notes", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []store.NoteSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"notes": notes,
		"count": len(notes),
	})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	note, err := s.orchestrator.Store().GetNote(r.Context(), noteID)
	if err != nil {
		s.log.Error("get note failed", "note_id", noteID, "error", err)
		jsonError(w, "failed to load note", http.StatusInternalServerError)
		return
	}
	if note == nil {
		jsonError(w, "note not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	deleted, err := s.orchestrator.Store().DeleteNote(r.Context(), noteID)
	if err != nil {
		s.log.Error("delete note failed", "note_id", noteID, "error", err)
		jsonError(w, "failed to delete note", http.StatusInternalServerError)
		return
	}
	if !deleted {
		jsonError(w, "note not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"deleted": noteID})
}

// handleSearch queries stored entities. Filters: q (FTS text), category,
// section, negated, family, limit.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()
	q := store.SearchQuery{
		Text:     strings.TrimSpace(qp.Get("q")),
		Category: qp.Get("category"),
		Section:  qp.Get("section"),
	}
	if v := qp.Get("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := qp.Get("negated"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, "negated must be true or false", http.StatusBadRequest)
			return
		}
		q.Negated = &b
	}
	if v := qp.Get("family"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, "family must be true or false", http.StatusBadRequest)
			return
		}
		q.Family = &b
	}

	hits, err := s.orchestrator.Store().SearchEntities(r.Context(), q)
	if err != nil {
		s.log.Error("entity search failed", "error", err)
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}
	if hits == nil {
		hits = []store.SearchHit{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"hits":  hits,
		"count": len(hits),
	})
}
