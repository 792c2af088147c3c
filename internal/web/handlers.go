package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/aqingest/internal/core"
	"github.com/JonMunkholm/aqingest/internal/logging"
	"github.com/JonMunkholm/aqingest/internal/web/templates"
)

type healthResponse struct {
	Status  string                   `json:"status"`
	Uploads core.UploadLimiterStatus `json:"uploads"`
}

// handleHealth reports liveness and upload slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Uploads: s.service.UploadLimiterStatus(),
	})
}

// handleListUploads returns recent upload results, newest first.
// Optional query parameter: limit.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results := s.service.RecentUploads(limit)
	uploads := make([]uploadResponse, len(results))
	for i, res := range results {
		uploads[i] = newUploadResponse(res)
	}

	if isHTMX(r) {
		items := make([]templates.UploadSummary, len(uploads))
		for i, u := range uploads {
			items[i] = u.summary()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.UploadList(items).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render upload list", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"uploads": uploads})
}

// handleGetUpload returns one stored upload result.
func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GetUploadResult(chi.URLParam(r, "uploadID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	resp := newUploadResponse(result)
	if isHTMX(r) {
		s.renderUploadResult(w, r, resp, http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
