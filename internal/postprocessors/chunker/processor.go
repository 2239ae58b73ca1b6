// Package chunker splits oversized chunks at word boundaries.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// DefaultMaxWords is the default number of words per chunk.
const DefaultMaxWords = domain.MaxChunkWords

// DefaultOverlap is the default number of words repeated between pieces.
const DefaultOverlap = 0

// Processor splits chunks whose content exceeds a word budget into
// consecutive pieces of the same category. Chunks within budget pass
// through untouched. It implements the PostProcessor interface.
type Processor struct {
	maxWords int
	overlap  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxWords sets the word budget per chunk.
func WithMaxWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxWords = n
		}
	}
}

// WithOverlap sets how many trailing words of a piece open the next one.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxWords: DefaultMaxWords,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed the word budget
	if p.overlap >= p.maxWords {
		p.overlap = p.maxWords / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits oversized chunks and keeps everything else in place.
func (p *Processor) Process(_ context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		words := strings.Fields(chunk.Content)
		if len(words) <= p.maxWords {
			out = append(out, chunk)
			continue
		}

		step := p.maxWords - p.overlap
		for start := 0; start < len(words); start += step {
			end := start + p.maxWords
			if end > len(words) {
				end = len(words)
			}
			out = append(out, domain.Chunk{
				Content:  strings.Join(words[start:end], " "),
				Category: chunk.Category,
			})
			if end == len(words) {
				break
			}
		}
	}

	return out, nil
}
