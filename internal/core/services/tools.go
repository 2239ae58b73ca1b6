package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
	"github.com/custodia-labs/portfolio-rag/internal/logger"
)

// Ensure ToolService implements the interface.
var _ driving.ToolService = (*ToolService)(nil)

// Tool names as exposed to agent runtimes.
const (
	ToolSearchKnowledge   = "search_knowledge"
	ToolNavigateToSection = "navigate_to_section"
	ToolGetContactInfo    = "get_contact_info"
	ToolDownloadCV        = "download_cv"
)

var toolsLog = logger.For("tools")

// ToolService implements the agent tools. Only SearchKnowledge touches the
// vector store; the others are lookups over the knowledge base.
type ToolService struct {
	retrieval driving.RetrievalService
	kb        *domain.KnowledgeBase
	cv        domain.CVFile
	inspector driven.DocumentInspector
	metrics   driven.MetricsRecorder
}

// NewToolService creates a tool service. The inspector and metrics
// parameters are optional (can be nil).
func NewToolService(
	retrieval driving.RetrievalService,
	kb *domain.KnowledgeBase,
	cv domain.CVFile,
	inspector driven.DocumentInspector,
	metrics driven.MetricsRecorder,
) *ToolService {
	if cv.Filename == "" {
		cv.Filename = domain.DefaultCVFilename
	}
	if cv.Path == "" {
		cv.Path = domain.DefaultCVPath
	}
	return &ToolService{
		retrieval: retrieval,
		kb:        kb,
		cv:        cv,
		inspector: inspector,
		metrics:   metricsOrNoop(metrics),
	}
}

// SearchKnowledge answers greetings with a brief profile line and everything
// else through retrieval.
func (s *ToolService) SearchKnowledge(ctx context.Context, query string) domain.SearchResult {
	began := time.Now()
	defer func() { s.metrics.ObserveTool(ToolSearchKnowledge, true, time.Since(began)) }()

	if domain.IsGreeting(query) {
		toolsLog.Debug("greeting %q answered without retrieval", query)
		s.metrics.ObserveRetrieval(driven.OutcomeGreeting, 0, time.Since(began))
		return domain.SearchResult{
			Query: query,
			Result: domain.RetrievalResult{
				Context:    domain.BriefContext(s.kb.Personal),
				Categories: []domain.Category{domain.CategoryPersonal},
				Sources:    []domain.Source{},
			},
		}
	}

	return domain.SearchResult{Query: query, Result: s.retrieval.Retrieve(ctx, query)}
}

// NavigateToSection validates section and returns the navigation target.
func (s *ToolService) NavigateToSection(_ context.Context, section string) (domain.NavigateResult, error) {
	began := time.Now()

	parsed, err := domain.ParseSection(strings.ToLower(strings.TrimSpace(section)))
	s.metrics.ObserveTool(ToolNavigateToSection, err == nil, time.Since(began))
	if err != nil {
		return domain.NavigateResult{}, err
	}
	return domain.NavigateResult{Section: parsed, Label: parsed.Label()}, nil
}

// ContactInfo returns public contact fields from the knowledge base.
func (s *ToolService) ContactInfo(_ context.Context) domain.ContactResult {
	began := time.Now()
	defer func() { s.metrics.ObserveTool(ToolGetContactInfo, true, time.Since(began)) }()

	c := s.kb.Contact
	location := c.Location
	if location == "" {
		location = s.kb.Personal.Location
	}
	return domain.ContactResult{
		Name:     s.kb.Personal.Name,
		Email:    c.Email,
		Location: location,
		Phone:    c.Phone,
		GitHub:   c.GitHub,
		LinkedIn: c.LinkedIn,
		Website:  c.Website,
	}
}

// DownloadCV returns the CV descriptor, with a page count when a local copy
// can be inspected. Inspection failures are logged and leave Pages at 0.
func (s *ToolService) DownloadCV(ctx context.Context) domain.DownloadResult {
	began := time.Now()
	defer func() { s.metrics.ObserveTool(ToolDownloadCV, true, time.Since(began)) }()

	result := domain.DownloadResult{Filename: s.cv.Filename, Path: s.cv.Path}
	if s.inspector == nil || s.cv.LocalPath == "" {
		return result
	}

	pages, err := s.inspector.PageCount(ctx, s.cv.LocalPath)
	if err != nil {
		toolsLog.Warn("could not inspect CV %s: %v", s.cv.LocalPath, err)
		return result
	}
	result.Pages = pages
	return result
}
