package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", func(_ map[string]any) (driven.PostProcessor, error) {
		return &mockProcessor{name: "mock"}, nil
	})

	if !r.Has("mock") {
		t.Fatal("expected mock to be registered")
	}

	p, err := r.Build("mock", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "mock" {
		t.Errorf("expected mock, got %s", p.Name())
	}
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("missing", nil)
	if !errors.Is(err, domain.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}

	_, err = r.BuildPipeline([]string{"missing"}, nil)
	if err == nil {
		t.Error("expected error building pipeline with unknown processor")
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	names := r.Names()
	if len(names) != 2 || names[0] != "chunker" || names[1] != "identifier" {
		t.Errorf("unexpected registered names %v", names)
	}
}

func TestBuildPipeline_WithConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := r.BuildPipeline(DefaultProcessors, map[string]map[string]any{
		"chunker": {"max_words": int64(3)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, err := p.Process(context.Background(), []domain.Chunk{
		{Content: "uno dos tres cuatro cinco", Category: "experience"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if c.ID == "" {
			t.Error("expected identifier to assign IDs")
		}
		if c.Category != "experience" {
			t.Errorf("category not preserved: %s", c.Category)
		}
	}
}

func TestNewDefaultPipeline(t *testing.T) {
	p := NewDefaultPipeline()
	if strings.Join(p.Names(), ",") != "chunker,identifier" {
		t.Errorf("unexpected default pipeline %v", p.Names())
	}
}

func TestNewPipelineFor(t *testing.T) {
	p, err := NewPipelineFor([]string{"identifier"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(p.Names(), ",") != "identifier" {
		t.Errorf("unexpected pipeline %v", p.Names())
	}

	p, err = NewPipelineFor(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Len() != len(DefaultProcessors) {
		t.Errorf("expected default pipeline, got %v", p.Names())
	}

	if _, err := NewPipelineFor([]string{"chunker", "stemmer"}, nil); !errors.Is(err, domain.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestNewIndexPipeline_ChunkerConfig(t *testing.T) {
	p, err := NewIndexPipeline(domain.IndexSettings{
		Processors:    []string{"chunker"},
		ChunkMaxWords: 3,
		ChunkOverlap:  1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := p.Process(context.Background(), []domain.Chunk{
		{Category: domain.CategoryPersonal, Content: "uno dos tres cuatro cinco"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 pieces, got %d: %v", len(out), out)
	}
	if out[0].Content != "uno dos tres" || out[1].Content != "tres cuatro cinco" {
		t.Errorf("unexpected pieces %q, %q", out[0].Content, out[1].Content)
	}
}

func TestIndexConfigs_OmitsZeroValues(t *testing.T) {
	cfg := IndexConfigs(domain.IndexSettings{})
	if len(cfg["chunker"]) != 0 {
		t.Errorf("expected empty chunker config, got %v", cfg["chunker"])
	}
}

func TestGetIntFromConfig(t *testing.T) {
	cfg := map[string]any{"a": 1, "b": int64(2), "c": 3.0, "d": "x"}

	if v := getIntFromConfig(cfg, "a"); v != 1 {
		t.Errorf("int: got %d", v)
	}
	if v := getIntFromConfig(cfg, "b"); v != 2 {
		t.Errorf("int64: got %d", v)
	}
	if v := getIntFromConfig(cfg, "c"); v != 3 {
		t.Errorf("float64: got %d", v)
	}
	if v := getIntFromConfig(cfg, "d"); v != -1 {
		t.Errorf("string: got %d", v)
	}
	if v := getIntFromConfig(cfg, "missing"); v != -1 {
		t.Errorf("missing: got %d", v)
	}
}
