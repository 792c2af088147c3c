package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_DisabledIsNoop(t *testing.T) {
	var nilMetrics *Metrics
	for _, m := range []*Metrics{nilMetrics, New(Config{Enabled: false})} {
		assert.False(t, m.IsEnabled())
		assert.NotPanics(t, func() {
			m.RecordUpload(OutcomeAccepted, "", time.Millisecond)
			m.RecordRows(1, 2)
			m.RecordDefaultedField("co_gt")
			m.RecordUploadBytes(100)
			m.RecordRateLimited("upload")
			m.SetActiveUploads(3)
		})
	}
}

func TestMetrics_RecordUpload(t *testing.T) {
	m := New(Config{Enabled: true})

	m.RecordUpload(OutcomeAccepted, "", 10*time.Millisecond)
	m.RecordUpload(OutcomeRejected, "NoValidRows", time.Millisecond)
	m.RecordUpload(OutcomeRejected, "NoValidRows", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues(OutcomeAccepted, "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues(OutcomeRejected, "NoValidRows")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.UploadDuration))
}

func TestMetrics_RowsAndFields(t *testing.T) {
	m := New(Config{Enabled: true})

	m.RecordRows(7, 3)
	m.RecordRows(1, 0)
	m.RecordDefaultedField("rh")
	m.RecordDefaultedField("rh")
	m.SetActiveUploads(2)

	assert.Equal(t, 8.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DefaultedFieldsTotal.WithLabelValues("rh")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActiveUploads))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(Config{Enabled: true, Namespace: "test"})
	m.RecordUpload(OutcomeAccepted, "", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `test_uploads_total{outcome="accepted",reason=""} 1`))
}

func TestMetrics_RuntimeCollectors(t *testing.T) {
	m := New(Config{Enabled: true, Namespace: "test"})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "go_goroutines")
}
