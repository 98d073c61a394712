package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tweetbloom/application/ports"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	_ ports.Metrics = (*Collector)(nil)
	_ ports.Metrics = (*CloudWatchMetrics)(nil)
	_ ports.Metrics = Fanout(nil)
)

func TestCollector_BusinessMetrics(t *testing.T) {
	c := NewCollector("tweetbloom")

	c.RecordTurn("success")
	c.RecordTurn("success")
	c.RecordTurn("gated")
	c.RecordGateFallback("summarize")
	c.RecordProviderCall("GEMINI", 300*time.Millisecond, nil)
	c.RecordProviderCall("GEMINI", time.Second, errors.New("boom"))
	c.RecordNoteCreated("combine")
	c.RecordTruncation()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Turns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Turns.WithLabelValues("gated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GateFallbacks.WithLabelValues("summarize")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ProviderCalls.WithLabelValues("GEMINI", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.NotesCreated.WithLabelValues("combine")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Truncations))
}

func TestCollector_HTTP(t *testing.T) {
	c := NewCollector("tweetbloom")
	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/notes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", c.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes/abc", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/notes/{id}", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tweetbloom_http_requests_total"))
}

type mockMetricData struct {
	mock.Mock
}

func (m *mockMetricData) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, in)
	return &cloudwatch.PutMetricDataOutput{}, args.Error(0)
}

func TestCloudWatchMetrics_Flush(t *testing.T) {
	client := new(mockMetricData)
	client.On("PutMetricData", mock.Anything, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		return *in.Namespace == "TweetBloom" && len(in.MetricData) == 20
	})).Return(nil).Once()
	client.On("PutMetricData", mock.Anything, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		return len(in.MetricData) == 3
	})).Return(errors.New("throttled")).Once()

	m := NewCloudWatchMetrics("TweetBloom", client, zap.NewNop())
	for i := 0; i < 10; i++ {
		m.RecordProviderCall("GROK", time.Second, nil)
	}
	m.RecordTurn("success")
	m.RecordTurn("success")
	m.RecordTurn("limit")
	m.RecordTruncation()

	m.Flush(context.Background())
	client.AssertExpectations(t)

	m.Flush(context.Background())
	client.AssertNumberOfCalls(t, "PutMetricData", 2)
}

func TestFanout(t *testing.T) {
	a, b := NewCollector("a"), NewCollector("b")
	Fanout{a, b}.RecordGateVerdict("bad")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.GateVerdicts.WithLabelValues("bad")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.GateVerdicts.WithLabelValues("bad")))
}
