package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ishaandev07/WebDevDynamics/internal/config"
	"github.com/ishaandev07/WebDevDynamics/internal/corpus"
	"github.com/ishaandev07/WebDevDynamics/internal/engine"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
	"github.com/ishaandev07/WebDevDynamics/internal/storage"
)

func newTestServer(t *testing.T, records ...models.RecordInput) (*Server, http.Handler) {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	dir := t.TempDir()
	cfg.Storage.DatabasePath = filepath.Join(dir, "test.db")
	cfg.Datasets.UploadsDir = filepath.Join(dir, "uploads")

	store := corpus.NewStore()
	if len(records) > 0 {
		store.AddRecords(records, models.SourceInternal)
	}

	eng, err := engine.New(context.Background(), engine.Options{
		Store:     store,
		Retrieval: cfg.Retrieval,
		Templates: cfg.Templates,
	})
	if err != nil {
		t.Fatal(err)
	}

	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	srv := NewServer(eng, store, st, cfg, zap.NewNop())
	return srv, srv.Router()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestHandleChat_SmallTalk(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", chatRequest{Message: "hello there"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d, body: %s", rec.Code, rec.Body.String())
	}
	var ans models.Answer
	decodeBody(t, rec, &ans)
	if ans.Bucket != models.BucketSmallTalk {
		t.Errorf("bucket: got %s", ans.Bucket)
	}
	if ans.SessionID == "" {
		t.Error("expected a session id")
	}
}

func TestHandleChat_HighConfidence(t *testing.T) {
	_, h := newTestServer(t, models.RecordInput{
		Query: "how do I reset my password", Response: "Use the forgot-password link.",
	})
	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", chatRequest{
		Message: "how do I reset my password", SessionID: "s1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var ans models.Answer
	decodeBody(t, rec, &ans)
	if ans.Bucket != models.BucketHigh {
		t.Errorf("bucket: got %s", ans.Bucket)
	}
	if ans.Reply != "Use the forgot-password link." {
		t.Errorf("reply: got %q", ans.Reply)
	}
	if ans.SessionID != "s1" {
		t.Errorf("session id: got %q", ans.SessionID)
	}
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", chatRequest{Message: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleChat_InvalidBody(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleSearch(t *testing.T) {
	_, h := newTestServer(t,
		models.RecordInput{Query: "refund my payment", Response: "Refunds post in 5 days."},
		models.RecordInput{Query: "unrelated topic entirely", Response: "other"},
	)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/search?q=refund+payment&limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var resp struct {
		Query   string               `json:"query"`
		Results []models.MatchResult `json:"results"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	if resp.Results[0].Response != "Refunds post in 5 days." {
		t.Errorf("top result: %+v", resp.Results[0])
	}
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleSearch_BadLimit(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/search?q=x&limit=zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleSearch_PunctuationOnlyQuery(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/search?q=%3F%21", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleFeedback_RoundTrip(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/feedback", feedbackRequest{
		TicketID: "t1", Query: "reset password", Response: "Use the link.",
		Similarity: 0.9, Helpful: true, SessionID: "s1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: %d, body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/feedback", feedbackRequest{
		TicketID: "t2", Query: "cancel plan", Response: "Settings page.",
		Similarity: 0.3, Helpful: false,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/feedback/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var stats models.FeedbackStats
	decodeBody(t, rec, &stats)
	if stats.Total != 2 || stats.Positive != 1 || stats.Negative != 1 {
		t.Errorf("stats: %+v", stats)
	}
}

func TestHandleFeedback_MissingFields(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/feedback", feedbackRequest{TicketID: "t1"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func uploadDataset(t *testing.T, h http.Handler, filename, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if name != "" {
		if err := mw.WriteField("name", name); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleUploadDataset(t *testing.T) {
	srv, h := newTestServer(t)

	content := `[{"question": "where is my order", "answer": "Check the tracking page."}]`
	rec := uploadDataset(t, h, "orders.json", "orders", content)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		RecordsAdded int    `json:"records_added"`
		Status       string `json:"status"`
	}
	decodeBody(t, rec, &resp)
	if resp.RecordsAdded != 1 {
		t.Errorf("records_added: got %d", resp.RecordsAdded)
	}
	if srv.corpus.Len() != 1 {
		t.Errorf("corpus size: got %d", srv.corpus.Len())
	}

	// Uploaded records are immediately searchable.
	chatRec := doJSON(t, h, http.MethodPost, "/api/v1/chat", chatRequest{Message: "where is my order"})
	var ans models.Answer
	decodeBody(t, chatRec, &ans)
	if ans.Reply != "Check the tracking page." {
		t.Errorf("reply after upload: %q", ans.Reply)
	}

	// And the dataset shows up in the registry.
	listRec := doJSON(t, h, http.MethodGet, "/api/v1/datasets", nil)
	var list struct {
		Datasets []*models.Dataset `json:"datasets"`
	}
	decodeBody(t, listRec, &list)
	if len(list.Datasets) != 1 || list.Datasets[0].Name != "orders" {
		t.Errorf("datasets: %+v", list.Datasets)
	}
	if list.Datasets[0].Source != "custom_orders" {
		t.Errorf("source: got %s", list.Datasets[0].Source)
	}
}

func TestHandleUploadDataset_NoUsableRows(t *testing.T) {
	_, h := newTestServer(t)
	rec := uploadDataset(t, h, "empty.json", "empty", `[{"unrelated": "fields"}]`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleUploadDataset_UnsupportedFormat(t *testing.T) {
	_, h := newTestServer(t)
	rec := uploadDataset(t, h, "data.pdf", "", "binary")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleReindex(t *testing.T) {
	srv, h := newTestServer(t)
	srv.corpus.AddRecords([]models.RecordInput{
		{Query: "new record", Response: "new response"},
	}, models.SourceExternal)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/reindex", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var resp struct {
		Records       int    `json:"records"`
		CorpusVersion uint64 `json:"corpus_version"`
	}
	decodeBody(t, rec, &resp)
	if resp.Records != 1 || resp.CorpusVersion != 1 {
		t.Errorf("got %+v", resp)
	}
}

func TestHandleStatus(t *testing.T) {
	_, h := newTestServer(t, models.RecordInput{Query: "q", Response: "r"})
	rec := doJSON(t, h, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var resp map[string]interface{}
	decodeBody(t, rec, &resp)
	if resp["records"].(float64) != 1 {
		t.Errorf("records: %v", resp["records"])
	}
	if resp["strategy"] != "lexical" {
		t.Errorf("strategy: %v", resp["strategy"])
	}
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status: %d", rec.Code)
	}
}

func TestHandleChat_ResultsAlwaysArrayOnWire(t *testing.T) {
	_, h := newTestServer(t)
	for _, msg := range []string{"hello there", "xylophone quarterly zeppelin"} {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", chatRequest{Message: msg})
		if rec.Code != http.StatusOK {
			t.Fatalf("status for %q: %d, body: %s", msg, rec.Code, rec.Body.String())
		}
		var raw map[string]json.RawMessage
		decodeBody(t, rec, &raw)
		results, ok := raw["results"]
		if !ok {
			t.Fatalf("no results field for %q: %s", msg, rec.Body.String())
		}
		if string(results) == "null" {
			t.Errorf("results for %q serialized as null, want []", msg)
		}
	}
}
