package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRowsAndRun(t *testing.T) {
	m := New()
	m.RecordRows("category", 6)
	m.RecordRows("recipe", 3)
	m.RecordRows("ingredient", 0)
	m.RecordRun(OutcomeSuccess, 1500*time.Millisecond)

	assert.Equal(t, 6.0, testutil.ToFloat64(m.RowsCreated.WithLabelValues("category")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsCreated.WithLabelValues("recipe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.Duration))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess), 0.0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *SeedMetrics
	m.RecordRows("recipe", 1)
	m.RecordRun(OutcomeFailure, time.Second)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.Push(context.Background(), "http://unused"))
}

func TestPushSendsToGateway(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	m.RecordRows("recipe", 3)
	m.RecordRun(OutcomeSuccess, time.Second)

	require.NoError(t, m.Push(context.Background(), srv.URL))
	assert.Equal(t, "/metrics/job/"+JobName, gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPushReportsGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New().Push(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics: push")
}
