package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder_Exposition(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObserveBuildDuration(150 * time.Millisecond)
	rec.IncBuildOutcome(OutcomeSuccess)
	rec.IncDocumentResult(DocumentGenerated)
	rec.IncDocumentResult(DocumentGenerated)
	rec.IncDocumentResult(DocumentSkipped)
	rec.SetIndexedPosts(2)

	w := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		`quire_document_results_total{result="generated"} 2`,
		`quire_document_results_total{result="skipped"} 1`,
		`quire_build_outcomes_total{outcome="success"} 1`,
		`quire_indexed_posts 2`,
		`quire_build_duration_seconds_count 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var rec *PrometheusRecorder
	rec.ObserveBuildDuration(time.Second)
	rec.IncBuildOutcome(OutcomeFailed)
	rec.IncDocumentResult(DocumentFailed)
	rec.SetIndexedPosts(1)
}
