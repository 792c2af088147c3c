package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/aqingest/internal/config"
	"github.com/JonMunkholm/aqingest/internal/ingest"
	"github.com/JonMunkholm/aqingest/internal/logging"
	"github.com/JonMunkholm/aqingest/internal/metrics"
)

// Upload errors checked by callers with errors.Is.
var (
	ErrNoFile         = errors.New("no file provided")
	ErrNotCSV         = errors.New("file must be a CSV file")
	ErrUploadNotFound = errors.New("upload not found")
)

// csvContentType is the MIME type accepted in place of a .csv file name.
const csvContentType = "text/csv"

// FileUpload is one file handed to the service by a transport.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64 // Declared size; -1 when unknown
	Body        io.Reader
}

// UploadResult is the stored outcome of one processed upload.
type UploadResult struct {
	UploadID    string         `json:"uploadId"`
	FileName    string         `json:"fileName"`
	Bytes       int64          `json:"bytes"`
	Outcome     ingest.Outcome `json:"outcome"`
	Duration    time.Duration  `json:"-"`
	CompletedAt time.Time      `json:"completedAt"`
}

// Service validates uploaded air-quality files and keeps recent results.
type Service struct {
	cfg           config.UploadConfig
	uploadLimiter *UploadLimiter
	metrics       *metrics.Metrics
	now           func() time.Time

	mu      sync.RWMutex
	results map[string]*UploadResult
}

// NewService creates a Service from the upload configuration.
// m may be nil when metrics are disabled.
func NewService(cfg *config.Config, m *metrics.Metrics) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	limiter := NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	limiter.OnChange(m.SetActiveUploads)

	return &Service{
		cfg:           cfg.Upload,
		uploadLimiter: limiter,
		metrics:       m,
		now:           time.Now,
		results:       make(map[string]*UploadResult),
	}, nil
}

// MaxFileSize returns the configured upload size limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// ProcessUpload checks, decodes and validates one file.
//
// File-level problems (ErrNotCSV, ErrFileTooLarge, ErrTooManyUploads, context
// errors) are returned as errors. Every file that reaches the pipeline yields
// an UploadResult, accepted or rejected; a zero-byte file is rejected with
// EmptyFile without running the pipeline.
func (s *Service) ProcessUpload(ctx context.Context, f FileUpload) (*UploadResult, error) {
	if f.Body == nil {
		return nil, ErrNoFile
	}
	if !isCSV(f.Name, f.ContentType) {
		return nil, fmt.Errorf("%w: %q (%s)", ErrNotCSV, f.Name, f.ContentType)
	}
	if f.Size > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, f.Size, s.cfg.MaxFileSize)
	}

	if err := s.uploadLimiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.uploadLimiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := s.now()

	text, n, err := ReadText(f.Body, s.cfg.MaxFileSize)
	if err != nil {
		s.metrics.RecordUpload(metrics.OutcomeFailed, "", s.now().Sub(start))
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		outcome ingest.Outcome
		res     *ingest.Result
	)
	if n == 0 {
		outcome = ingest.Rejected(ingest.EmptyFile)
	} else {
		outcome, res = ingest.Process(text)
	}

	done := s.now()
	result := &UploadResult{
		UploadID:    uuid.New().String(),
		FileName:    f.Name,
		Bytes:       n,
		Outcome:     outcome,
		Duration:    done.Sub(start),
		CompletedAt: done,
	}

	s.record(result, res)
	s.store(result)

	logger := logging.WithFields(ctx,
		"upload_id", result.UploadID,
		"file", result.FileName,
		"client_ip", ClientIPFromContext(ctx),
	)
	if outcome.Accepted {
		logger.Info("upload processed",
			"valid_rows", outcome.RecordsProcessed,
			"invalid_rows", outcome.ErrorCount,
			"defaulted_readings", outcome.DefaultedReadings,
			"bytes", n,
			"duration_ms", result.Duration.Milliseconds(),
		)
	} else {
		logger.Warn("upload rejected",
			"reason", outcome.Reason,
			"total_rows", outcome.TotalRows,
			"bytes", n,
		)
	}

	return result, nil
}

// record feeds the metrics for one finished upload.
func (s *Service) record(result *UploadResult, res *ingest.Result) {
	out := result.Outcome
	if out.Accepted {
		s.metrics.RecordUpload(metrics.OutcomeAccepted, "", result.Duration)
	} else {
		s.metrics.RecordUpload(metrics.OutcomeRejected, string(out.Reason), result.Duration)
	}
	s.metrics.RecordUploadBytes(result.Bytes)
	s.metrics.RecordRows(out.RecordsProcessed, out.ErrorCount)

	if res == nil {
		return
	}
	for _, r := range res.Readings {
		for _, key := range r.Defaulted {
			s.metrics.RecordDefaultedField(string(key))
		}
	}
}

// store keeps result queryable until the TTL elapses.
func (s *Service) store(result *UploadResult) {
	s.mu.Lock()
	s.results[result.UploadID] = result
	s.mu.Unlock()

	s.cleanup(result.UploadID, s.cfg.ResultTTL)
}

// cleanup removes the result from tracking after a delay.
func (s *Service) cleanup(uploadID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.results, uploadID)
		s.mu.Unlock()
	})
}

// GetUploadResult returns a stored result by upload ID.
func (s *Service) GetUploadResult(uploadID string) (*UploadResult, error) {
	s.mu.RLock()
	result, ok := s.results[uploadID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, uploadID)
	}
	return result, nil
}

// RecentUploads returns up to limit stored results, newest first.
// A non-positive limit uses the configured default.
func (s *Service) RecentUploads(limit int) []*UploadResult {
	if limit <= 0 || limit > s.cfg.RecentLimit {
		limit = s.cfg.RecentLimit
	}

	s.mu.RLock()
	out := make([]*UploadResult, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *UploadResult) int {
		if c := b.CompletedAt.Compare(a.CompletedAt); c != 0 {
			return c
		}
		return strings.Compare(a.UploadID, b.UploadID)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// UploadLimiterStatus returns the current upload concurrency status.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.uploadLimiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.uploadLimiter.WaitForDrain(ctx)
}

// isCSV accepts a .csv name (any case) or a text/csv content type.
func isCSV(name, contentType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return true
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), csvContentType)
}
