package postprocessors

import (
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/postprocessors/chunker"
	"github.com/custodia-labs/portfolio-rag/internal/postprocessors/identifier"
)

// DefaultProcessors is the pipeline applied to builder output: oversized
// chunks are split first so every resulting piece gets its own ID.
var DefaultProcessors = []string{"chunker", "identifier"}

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("identifier", buildIdentifier)
}

// NewDefaultPipeline returns the built-in pipeline with default settings.
func NewDefaultPipeline() *Pipeline {
	// Built-in processors ignore unknown config, so this cannot fail.
	p, _ := NewPipelineFor(nil, nil) //nolint:errcheck
	return p
}

// NewPipelineFor builds a pipeline from processor names in order, passing
// each processor its entry from configs. No names selects DefaultProcessors.
// Unknown names fail with domain.ErrUnsupportedType.
func NewPipelineFor(names []string, configs map[string]map[string]any) (*Pipeline, error) {
	if len(names) == 0 {
		names = DefaultProcessors
	}
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(names, configs)
}

// NewIndexPipeline builds the pipeline described by the index settings.
func NewIndexPipeline(index domain.IndexSettings) (*Pipeline, error) {
	return NewPipelineFor(index.Processors, IndexConfigs(index))
}

// IndexConfigs maps index settings to per-processor config. Zero values
// are left out so processors keep their defaults.
func IndexConfigs(index domain.IndexSettings) map[string]map[string]any {
	chunkerCfg := map[string]any{}
	if index.ChunkMaxWords > 0 {
		chunkerCfg["max_words"] = index.ChunkMaxWords
	}
	if index.ChunkOverlap > 0 {
		chunkerCfg["overlap"] = index.ChunkOverlap
	}
	return map[string]map[string]any{"chunker": chunkerCfg}
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - max_words (int): Words per chunk (default: domain.MaxChunkWords)
//   - overlap (int): Overlapping words between split pieces (default: 0)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "max_words"); size > 0 {
			opts = append(opts, chunker.WithMaxWords(size))
		}
		if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
	}

	return chunker.New(opts...), nil
}

// buildIdentifier creates the deterministic ID processor. No config keys.
func buildIdentifier(_ map[string]any) (driven.PostProcessor, error) {
	return identifier.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return -1
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return -1
	}
}
