package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clinpipe/clinpipe/internal/config"
	"github.com/clinpipe/clinpipe/internal/document"
	"github.com/clinpipe/clinpipe/internal/nlp"
	"github.com/clinpipe/clinpipe/internal/pipeline"
	"github.com/clinpipe/clinpipe/internal/store"
)

const testAPIKey = "test-key"

func testServer(t *testing.T) (*Server, *pipeline.Orchestrator) {
	t.Helper()

	p, err := nlp.Load(nlp.Options{})
	if err != nil {
		t.Fatalf("load pipeline: %v", err)
	}
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Config{
		APIKey:         testAPIKey,
		Model:          "clinical",
		WorkerCount:    2,
		MaxQueueSize:   10,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, p, st, log)
	return NewServer(orch, log, cfg), orch
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestServer_HealthIsPublic(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestServer_APIRequiresAuth(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pipeline", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a key, got %d", rec.Code)
	}
}

func TestServer_Process(t *testing.T) {
	srv, _ := testServer(t)

	body := `{"text":"History of afib. No evidence of pneumonia.","title":"progress note"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var doc document.Doc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.Title != "progress note" {
		t.Errorf("expected the request title echoed, got %q", doc.Title)
	}
	if len(doc.Entities) < 2 {
		t.Fatalf("expected afib and pneumonia entities, got %v", doc.Entities)
	}

	var negated bool
	for _, e := range doc.Entities {
		if e.Literal == "pneumonia" && e.Assertion.Negated {
			negated = true
		}
	}
	if !negated {
		t.Error("expected pneumonia negated in the response")
	}
}

func TestServer_ProcessRejectsEmptyText(t *testing.T) {
	srv, _ := testServer(t)

	req := authed(httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(`{"text":"  "}`)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_IngestLifecycle(t *testing.T) {
	srv, orch := testServer(t)
	orch.Start(context.Background())
	defer orch.Stop()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "admission.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("Past Medical History:\nafib\n\nAssessment:\nNo pneumonia.\n"))
	mw.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/api/notes", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var accepted struct {
		JobID  string `json:"job_id"`
		NoteID string `json:"note_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.JobID == "" || accepted.NoteID == "" {
		t.Fatalf("expected job and note ids, got %+v", accepted)
	}

	// Poll until the job settles.
	var status string
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/jobs/"+accepted.JobID, nil)))
		if rec.Code != http.StatusOK {
			t.Fatalf("job status: expected 200, got %d", rec.Code)
		}
		var snap struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode job status: %v", err)
		}
		status = snap.Status
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != "completed" {
		t.Fatalf("expected completed, got %q", status)
	}

	// The stored note is retrievable.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/notes/"+accepted.NoteID, nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("get note: expected 200, got %d", rec.Code)
	}

	// And searchable.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/search?q=pneumonia&negated=true", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	var result struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("expected 1 search hit, got %d", result.Count)
	}

	// Delete and confirm gone.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/api/notes/"+accepted.NoteID, nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/notes/"+accepted.NoteID, nil)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after deletion, got %d", rec.Code)
	}
}

func TestServer_IngestRejectsUnsupportedType(t *testing.T) {
	srv, _ := testServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "data.xlsx")
	fw.Write([]byte("irrelevant"))
	mw.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/api/notes", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_PipelineInfo(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/pipeline", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var info struct {
		Model      string         `json:"model"`
		PipeNames  []string       `json:"pipe_names"`
		RuleCounts map[string]int `json:"rule_counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Model != "clinical" {
		t.Errorf("expected clinical model, got %q", info.Model)
	}
	if len(info.PipeNames) != len(nlp.DefaultPipes) {
		t.Errorf("expected %d pipes, got %v", len(nlp.DefaultPipes), info.PipeNames)
	}
	if info.RuleCounts["target_matcher"] == 0 {
		t.Error("expected target rule count in the info response")
	}
}

func TestServer_PipelineRules(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/pipeline/rules/context?limit=5", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Component string            `json:"component"`
		Total     int               `json:"total"`
		Rules     []json.RawMessage `json:"rules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Component != "context" {
		t.Errorf("expected component context, got %q", resp.Component)
	}
	if len(resp.Rules) != 5 {
		t.Errorf("expected 5 rules with limit=5, got %d", len(resp.Rules))
	}
	if resp.Total <= 5 {
		t.Errorf("expected total above the preview size, got %d", resp.Total)
	}

	// Unknown component.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/pipeline/rules/lemmatizer", nil)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown component, got %d", rec.Code)
	}

	// The tagger has no rules.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/pipeline/rules/tagger", nil)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a rule-less component, got %d", rec.Code)
	}
}
