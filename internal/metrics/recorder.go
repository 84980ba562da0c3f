// Package metrics records build observations. Components default to
// NoopRecorder; serve mode swaps in a PrometheusRecorder.
package metrics

import "time"

// DocumentResult enumerates per-document outcomes.
type DocumentResult string

const (
	DocumentGenerated DocumentResult = "generated"
	DocumentSkipped   DocumentResult = "skipped"
	DocumentFailed    DocumentResult = "failed"
)

// Build outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder defines the build observability hooks.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	IncDocumentResult(result DocumentResult)
	SetIndexedPosts(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) IncDocumentResult(DocumentResult)   {}
func (NoopRecorder) SetIndexedPosts(int)                {}
