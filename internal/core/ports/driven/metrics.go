package driven

import "time"

// Retrieval outcomes recorded by MetricsRecorder.
const (
	OutcomeHit      = "hit"
	OutcomeBelow    = "below_threshold"
	OutcomeError    = "error"
	OutcomeEmpty    = "empty_query"
	OutcomeGreeting = "greeting"
)

// MetricsRecorder records operational metrics.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// ObserveRetrieval records one retrieval with its outcome and best score.
	ObserveRetrieval(outcome string, bestScore float64, d time.Duration)

	// ObserveEmbedding records one provider call and how many texts it carried.
	ObserveEmbedding(model string, texts int, success bool, d time.Duration)

	// ObserveIndexRun records a full indexing run.
	ObserveIndexRun(chunks int, success bool, d time.Duration)

	// ObserveTool records a tool invocation.
	ObserveTool(tool string, success bool, d time.Duration)
}
