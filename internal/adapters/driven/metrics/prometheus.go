// Package metrics records operational metrics with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "portfolio_rag"

// scoreBuckets cover cosine similarity in [-1, 1], densest around the
// relevance threshold.
var scoreBuckets = []float64{-0.5, 0, 0.1, 0.2, 0.25, 0.3, 0.35, 0.4, 0.5, 0.6, 0.8, 1}

// Recorder implements driven.MetricsRecorder on its own registry, so
// several recorders can coexist in one process (and in tests).
type Recorder struct {
	registry *prom.Registry

	retrievalTotal   *prom.CounterVec
	retrievalSeconds *prom.HistogramVec
	retrievalScore   prom.Histogram
	embedTotal       *prom.CounterVec
	embedTexts       *prom.CounterVec
	embedSeconds     *prom.HistogramVec
	indexTotal       *prom.CounterVec
	indexChunks      prom.Gauge
	indexSeconds     prom.Histogram
	toolTotal        *prom.CounterVec
	toolSeconds      *prom.HistogramVec
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prom.NewRegistry(),
		retrievalTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "retrievals_total",
			Help:      "Total number of retrievals by outcome",
		}, []string{"outcome"}),
		retrievalSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_seconds",
			Help:      "Retrieval duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
		retrievalScore: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_best_score",
			Help:      "Best cosine similarity per ranked retrieval",
			Buckets:   scoreBuckets,
		}),
		embedTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding provider requests",
		}, []string{"model", "success"}),
		embedTexts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_texts_total",
			Help:      "Total number of texts sent for embedding",
		}, []string{"model"}),
		embedSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"model", "success"}),
		indexTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "index_runs_total",
			Help:      "Total number of indexing runs",
		}, []string{"success"}),
		indexChunks: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "index_chunks",
			Help:      "Chunks written by the last successful indexing run",
		}),
		indexSeconds: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "index_run_seconds",
			Help:      "Indexing run duration in seconds",
			Buckets:   prom.ExponentialBuckets(0.5, 2, 10),
		}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool handler calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_seconds",
			Help:      "Tool handler duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"tool", "success"}),
	}

	r.registry.MustRegister(
		r.retrievalTotal, r.retrievalSeconds, r.retrievalScore,
		r.embedTotal, r.embedTexts, r.embedSeconds,
		r.indexTotal, r.indexChunks, r.indexSeconds,
		r.toolTotal, r.toolSeconds,
	)
	return r
}

// ObserveRetrieval records one retrieval. The score histogram only sees
// retrievals that were actually ranked.
func (r *Recorder) ObserveRetrieval(outcome string, bestScore float64, d time.Duration) {
	r.retrievalTotal.WithLabelValues(outcome).Inc()
	r.retrievalSeconds.WithLabelValues(outcome).Observe(d.Seconds())
	if outcome == driven.OutcomeHit || outcome == driven.OutcomeBelow {
		r.retrievalScore.Observe(bestScore)
	}
}

// ObserveEmbedding records one provider call.
func (r *Recorder) ObserveEmbedding(model string, texts int, success bool, d time.Duration) {
	ok := strconv.FormatBool(success)
	r.embedTotal.WithLabelValues(model, ok).Inc()
	r.embedTexts.WithLabelValues(model).Add(float64(texts))
	r.embedSeconds.WithLabelValues(model, ok).Observe(d.Seconds())
}

// ObserveIndexRun records a full indexing run.
func (r *Recorder) ObserveIndexRun(chunks int, success bool, d time.Duration) {
	r.indexTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
	r.indexSeconds.Observe(d.Seconds())
	if success {
		r.indexChunks.Set(float64(chunks))
	}
}

// ObserveTool records a tool invocation.
func (r *Recorder) ObserveTool(tool string, success bool, d time.Duration) {
	ok := strconv.FormatBool(success)
	r.toolTotal.WithLabelValues(tool, ok).Inc()
	r.toolSeconds.WithLabelValues(tool, ok).Observe(d.Seconds())
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prom.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Mount registers /metrics and /healthz on mux.
func (r *Recorder) Mount(mux *http.ServeMux) {
	mux.Handle("/metrics", r.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
