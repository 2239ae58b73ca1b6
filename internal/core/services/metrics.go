package services

import (
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// noopMetrics is used when no recorder is configured.
type noopMetrics struct{}

func (noopMetrics) ObserveRetrieval(string, float64, time.Duration)   {}
func (noopMetrics) ObserveEmbedding(string, int, bool, time.Duration) {}
func (noopMetrics) ObserveIndexRun(int, bool, time.Duration)          {}
func (noopMetrics) ObserveTool(string, bool, time.Duration)           {}

func metricsOrNoop(m driven.MetricsRecorder) driven.MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
