package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/aqingest/internal/core"
	"github.com/JonMunkholm/aqingest/internal/logging"
	"github.com/JonMunkholm/aqingest/internal/web/templates"
)

// multipartOverhead is the room left for multipart framing on top of the
// file size limit, so oversized files are reported by the service.
const multipartOverhead = 1 << 20

const uploadSuccessMessage = "File uploaded and processed successfully"

// uploadResponse is the JSON body of an upload or upload lookup.
type uploadResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	Code              string   `json:"code,omitempty"`
	UploadID          string   `json:"uploadId,omitempty"`
	FileName          string   `json:"fileName,omitempty"`
	RecordsProcessed  int      `json:"recordsProcessed"`
	TotalRows         int      `json:"totalRows"`
	DefaultedReadings int      `json:"defaultedReadings"`
	Errors            []string `json:"errors,omitempty"`
}

func newUploadResponse(res *core.UploadResult) uploadResponse {
	out := res.Outcome
	resp := uploadResponse{
		Success:           out.Accepted,
		Message:           uploadSuccessMessage,
		UploadID:          res.UploadID,
		FileName:          res.FileName,
		RecordsProcessed:  out.RecordsProcessed,
		TotalRows:         out.TotalRows,
		DefaultedReadings: out.DefaultedReadings,
		Errors:            out.ErrorStrings(),
	}
	if !out.Accepted {
		msg := core.MapError(out.Err())
		resp.Message = msg.Message
		resp.Code = msg.Code
	}
	return resp
}

func (r uploadResponse) summary() templates.UploadSummary {
	return templates.UploadSummary{
		UploadID:          r.UploadID,
		FileName:          r.FileName,
		Accepted:          r.Success,
		Message:           r.Message,
		Code:              r.Code,
		RecordsProcessed:  r.RecordsProcessed,
		TotalRows:         r.TotalRows,
		DefaultedReadings: r.DefaultedReadings,
		Errors:            r.Errors,
	}
}

// handleUpload validates one CSV file sent as multipart field "file".
// Accepted files answer 200, rejected files 400 with the sampled row errors.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if isBodyTooLarge(err) {
			s.uploadError(w, r, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err))
			return
		}
		s.uploadError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.uploadError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.ProcessUpload(ctx, core.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.uploadError(w, r, err)
		return
	}

	resp := newUploadResponse(result)
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}

	if isHTMX(r) {
		s.renderUploadResult(w, r, resp, status)
		return
	}
	writeJSON(w, status, resp)
}

// handleUploadInfo answers GET on the upload path.
func (s *Server) handleUploadInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"message": "Upload endpoint. Use POST to upload files.",
	})
}

// uploadError writes a failed upload in the same shape as a rejected one.
func (s *Server) uploadError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("upload failed", "error", err, "code", msg.Code, "status", status)
	} else {
		logger.Warn("upload refused", "error", err, "code", msg.Code, "status", status)
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, msg, status)
		return
	}
	writeJSON(w, status, uploadResponse{
		Success: false,
		Message: msg.Message,
		Code:    msg.Code,
	})
}

func (s *Server) renderUploadResult(w http.ResponseWriter, r *http.Request, resp uploadResponse, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.UploadResult(resp.summary()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render upload result", "error", err)
	}
}

// isBodyTooLarge reports whether err came from http.MaxBytesReader.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
