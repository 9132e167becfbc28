package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSubmission(t *testing.T) {
	before := testutil.ToFloat64(SubmissionCounter.WithLabelValues(OutcomeConflict))
	RecordSubmission(OutcomeConflict)
	after := testutil.ToFloat64(SubmissionCounter.WithLabelValues(OutcomeConflict))
	if after-before != 1 {
		t.Fatalf("conflict counter advanced by %v, want 1", after-before)
	}
}

func TestPrometheusHandlerExposesDomainMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()
	Init()

	RecordSubmission(OutcomeAccepted)
	ObserveScore(80)

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/metrics", PrometheusHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"quiz_submissions_total", "quiz_score_percent"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output lacks %s", name)
		}
	}
}
