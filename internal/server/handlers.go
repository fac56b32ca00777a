package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ishaandev07/WebDevDynamics/internal/engine"
	"github.com/ishaandev07/WebDevDynamics/internal/ingest"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
	"github.com/ishaandev07/WebDevDynamics/internal/storage"
)

const maxUploadBytes = 32 << 20

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type feedbackRequest struct {
	TicketID   string  `json:"ticket_id"`
	Query      string  `json:"query"`
	Response   string  `json:"response"`
	Similarity float64 `json:"similarity"`
	Helpful    bool    `json:"helpful"`
	SessionID  string  `json:"session_id,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service":  "support retrieval api",
		"strategy": s.engine.Strategy(),
		"records":  s.corpus.Len(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	s.logger.Debug("chat request", zap.String("session_id", req.SessionID))
	answer := s.engine.Answer(r.Context(), req.Message, req.SessionID)
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		s.respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	topK := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		topK = n
	}
	results, err := s.engine.Search(r.Context(), query, topK)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyQuery) {
			s.respondError(w, http.StatusBadRequest, "query has no searchable terms")
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "search unavailable")
		return
	}
	if results == nil {
		results = []models.MatchResult{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" || strings.TrimSpace(req.Response) == "" {
		s.respondError(w, http.StatusBadRequest, "query and response are required")
		return
	}
	fb := &models.Feedback{
		TicketID:   req.TicketID,
		Query:      req.Query,
		Response:   req.Response,
		Similarity: req.Similarity,
		Helpful:    req.Helpful,
		SessionID:  req.SessionID,
	}
	if err := s.storage.SaveFeedback(r.Context(), fb); err != nil {
		s.logger.Error("save feedback failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to save feedback")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"id": fb.ID, "status": "recorded"})
}

func (s *Server) handleFeedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.storage.FeedbackStats(r.Context())
	if err != nil {
		s.logger.Error("feedback stats failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}
	inputs, err := ingest.ParseDataset(header.Filename, bytes.NewReader(data))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	source := models.CustomSource(name)
	added := s.corpus.AddRecords(inputs, source)
	if added == 0 {
		s.respondError(w, http.StatusBadRequest, "no usable query/response pairs in dataset")
		return
	}

	// Keep the raw upload so a restart can re-ingest it.
	if dir := s.config.Datasets.UploadsDir; dir != "" {
		if err := os.MkdirAll(dir, 0755); err == nil {
			dst := filepath.Join(dir, filepath.Base(header.Filename))
			if err := os.WriteFile(dst, data, 0644); err != nil {
				s.logger.Warn("failed to persist upload", zap.String("path", dst), zap.Error(err))
			}
		}
	}

	ds := &models.Dataset{
		Name:        name,
		Description: r.FormValue("description"),
		Source:      source,
		RecordCount: added,
		Active:      true,
	}
	if err := s.storage.CreateDataset(r.Context(), ds); err != nil {
		s.logger.Error("register dataset failed", zap.Error(err))
	}

	if err := s.engine.Rebuild(r.Context()); err != nil {
		s.logger.Error("rebuild after upload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "dataset stored but reindex failed")
		return
	}

	s.logger.Info("dataset uploaded",
		zap.String("name", name),
		zap.Int("records_added", added),
		zap.Int("rows_parsed", len(inputs)))
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":            ds.ID,
		"name":          name,
		"records_added": added,
		"rows_parsed":   len(inputs),
		"status":        "ingested",
	})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.storage.ListDatasets(r.Context())
	if err != nil {
		s.logger.Error("list datasets failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to list datasets")
		return
	}
	if datasets == nil {
		datasets = []*models.Dataset{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"datasets": datasets})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Rebuild(r.Context()); err != nil {
		s.logger.Error("reindex failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "reindex failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "reindexed",
		"records":        s.corpus.Len(),
		"corpus_version": s.engine.CorpusVersion(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"records":        s.corpus.Len(),
		"corpus_version": s.engine.CorpusVersion(),
		"strategy":       s.engine.Strategy(),
		"config": map[string]interface{}{
			"top_k":           s.config.Retrieval.TopK,
			"min_similarity":  s.config.Retrieval.MinSimilarity,
			"high_confidence": s.config.Retrieval.HighConfidence,
			"med_confidence":  s.config.Retrieval.MediumConfidence,
			"index_type":      s.config.Retrieval.IndexType,
			"database_path":   s.config.Storage.DatabasePath,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.VectorIndexPath,
		s.config.Datasets.UploadsDir,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
