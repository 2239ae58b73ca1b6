// Package ratelimit throttles requests to an embedding provider.
package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

var rateLog = logger.For("ratelimit")

// Defaults for provider throttling.
const (
	DefaultBurstSize  = 1
	DefaultBackoff    = 10 * time.Second
	DefaultMaxRetries = 3
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size.
	BurstSize int

	// Backoff is how long to pause after a 429 response.
	Backoff time.Duration

	// MaxRetries bounds retries of a request rejected with 429.
	MaxRetries int
}

// EmbeddingService wraps another embedding service with a token bucket.
// A 429 response pauses every caller for Backoff and the request is retried.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
	cfg     Config

	mu      sync.Mutex
	retryAt time.Time
}

// New wraps inner. A non-positive rate returns inner unchanged.
func New(inner driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		return inner
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultBurstSize
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &EmbeddingService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		cfg:     cfg,
	}
}

// Embed waits for a token and embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.do(ctx, func() error {
		var err error
		out, err = s.inner.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch waits for a token and embeds texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := s.do(ctx, func() error {
		var err error
		out, err = s.inner.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping is not throttled.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }

func (s *EmbeddingService) do(ctx context.Context, call func() error) error {
	for attempt := 0; ; attempt++ {
		if err := s.wait(ctx); err != nil {
			return err
		}
		err := call()
		if err == nil || !isRateLimited(err) || attempt >= s.cfg.MaxRetries {
			return err
		}
		rateLog.Warn("provider rate limited, backing off %s (retry %d/%d)", s.cfg.Backoff, attempt+1, s.cfg.MaxRetries)
		s.mu.Lock()
		s.retryAt = time.Now().Add(s.cfg.Backoff)
		s.mu.Unlock()
	}
}

// wait blocks for any backoff period and then for the token bucket.
func (s *EmbeddingService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return s.limiter.Wait(ctx)
}

func isRateLimited(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
