package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/clinpipe/clinpipe/internal/nlp/conassert"
	"github.com/clinpipe/clinpipe/internal/nlp/matcher"
	"github.com/clinpipe/clinpipe/internal/nlp/postprocess"
	"github.com/clinpipe/clinpipe/internal/nlp/section"
	"github.com/go-chi/chi/v5"
)

// handlePipelineInfo describes the loaded pipeline: model, pipe order and
// rule counts per rule-bearing component.
func (s *Server) handlePipelineInfo(w http.ResponseWriter, r *http.Request) {
	nlp := s.orchestrator.NLP()

	counts := make(map[string]int)
	for _, name := range nlp.PipeNames() {
		switch c := nlp.GetPipe(name).(type) {
		case *matcher.Matcher:
			counts[name] = len(c.Rules())
		case *conassert.Engine:
			counts[name] = len(c.Rules())
		case *section.Sectionizer:
			counts[name] = len(c.Rules())
		case *postprocess.Postprocessor:
			counts[name] = len(c.Rules())
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model":       nlp.Model(),
		"pipe_names":  nlp.PipeNames(),
		"rule_counts": counts,
	})
}

// handlePipelineRules returns the rules of one component, truncated to
// ?limit= entries (default 20).
func (s *Server) handlePipelineRules(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "component")
	pipe := s.orchestrator.NLP().GetPipe(name)
	if pipe == nil {
		jsonError(w, "pipeline has no such component", http.StatusNotFound)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var total int
	var preview any
	switch c := pipe.(type) {
	case *matcher.Matcher:
		rs := c.Rules()
		total = len(rs)
		preview = rs[:min(limit, total)]
	case *conassert.Engine:
		rs := c.Rules()
		total = len(rs)
		preview = rs[:min(limit, total)]
	case *section.Sectionizer:
		rs := c.Rules()
		total = len(rs)
		preview = rs[:min(limit, total)]
	case *postprocess.Postprocessor:
		rs := c.Rules()
		total = len(rs)
		preview = rs[:min(limit, total)]
	default:
		jsonError(w, "component has no rules", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"component": name,
		"total":     total,
		"rules":     preview,
	})
}

// handlePipelineStats returns run latency and queue metrics.
func (s *Server) handlePipelineStats(w http.ResponseWriter, r *http.Request) {
	snap := s.orchestrator.NLP().Stats().Snapshot()

	counts, err := s.orchestrator.Store().CategoryCounts(r.Context())
	if err != nil {
		s.log.Error("category counts failed", "error", err)
		jsonError(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"runs":            snap,
		"queue_depth":     s.orchestrator.QueueDepth(),
		"entities_stored": counts,
	})
}
