package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tjarchive-backend/analysis"
	"tjarchive-backend/logging"
	"tjarchive-backend/metrics"
	"tjarchive-backend/models"
	"tjarchive-backend/repository"

	"go.uber.org/zap"
)

var (
	// ErrDecisionNotFound is returned when the requested decision has no detail document
	ErrDecisionNotFound = repository.ErrDecisionNotFound

	// ErrDecisionUnavailable is returned when a detail document exists but cannot be read
	ErrDecisionUnavailable = errors.New("decision unavailable")

	// ErrNotLoaded is returned when the archive is queried before Load succeeded
	ErrNotLoaded = errors.New("archive not loaded")
)

// DecisionStore provides the decision index and detail documents
type DecisionStore interface {
	LoadIndex(ctx context.Context) ([]models.DecisionIndexItem, error)
	GetDecision(ctx context.Context, id string) (*models.Decision, error)
}

// ArchiveService serves the read-only archive views
type ArchiveService struct {
	decisions   DecisionStore
	revocations repository.RevocationSource
	tagger      *analysis.Tagger
	aggregator  *analysis.Aggregator
	pageSize    int
	logger      *logging.Logger
	metrics     *metrics.Metrics

	mu      sync.RWMutex
	loaded  bool
	index   []models.DecisionIndexItem
	records []models.Revocation
	stats   models.Statistics
	summary models.ArchiveSummary
}

// ArchiveServiceOption is a functional option for ArchiveService
type ArchiveServiceOption func(*ArchiveService)

// WithDecisionStore sets the decision index and detail source
func WithDecisionStore(store DecisionStore) ArchiveServiceOption {
	return func(s *ArchiveService) {
		s.decisions = store
	}
}

// WithRevocationSource sets the revocation feed source
func WithRevocationSource(source repository.RevocationSource) ArchiveServiceOption {
	return func(s *ArchiveService) {
		s.revocations = source
	}
}

// WithTagger overrides the default catalog tagger
func WithTagger(tagger *analysis.Tagger) ArchiveServiceOption {
	return func(s *ArchiveService) {
		s.tagger = tagger
	}
}

// WithAggregator overrides the default aggregation rules
func WithAggregator(aggregator *analysis.Aggregator) ArchiveServiceOption {
	return func(s *ArchiveService) {
		s.aggregator = aggregator
	}
}

// WithPageSize sets the page size used when a request leaves it unset
func WithPageSize(size int) ArchiveServiceOption {
	return func(s *ArchiveService) {
		s.pageSize = size
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) ArchiveServiceOption {
	return func(s *ArchiveService) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) ArchiveServiceOption {
	return func(s *ArchiveService) {
		s.metrics = m
	}
}

// NewArchiveService creates a new archive service
func NewArchiveService(opts ...ArchiveServiceOption) *ArchiveService {
	s := &ArchiveService{
		pageSize: analysis.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tagger == nil {
		s.tagger = analysis.NewTagger(analysis.DefaultCatalog())
	}
	if s.aggregator == nil {
		s.aggregator = analysis.NewAggregator(analysis.DefaultAggregateRules())
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Load reads the decision index and the revocation feed wholesale and
// computes the statistics once. A failed load leaves the previous state intact.
func (s *ArchiveService) Load(ctx context.Context) error {
	if s.decisions == nil {
		return errors.New("decision store not set")
	}
	if s.revocations == nil {
		return errors.New("revocation source not set")
	}

	index, err := s.decisions.LoadIndex(ctx)
	if err != nil {
		return err
	}
	records, err := s.revocations.ListAll(ctx)
	if err != nil {
		return err
	}

	stats := s.aggregator.Aggregate(records)
	summary := analysis.Summarize(records, len(index))

	s.mu.Lock()
	s.index = index
	s.records = records
	s.stats = stats
	s.summary = summary
	s.loaded = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordsLoaded.WithLabelValues("decisions").Set(float64(len(index)))
		s.metrics.RecordsLoaded.WithLabelValues("revocations").Set(float64(len(records)))
	}
	s.logger.Info(ctx, "archive loaded",
		zap.Int("decisions", len(index)),
		zap.Int("revocations", len(records)),
	)
	return nil
}

// ListDecisionsRequest represents a request to list the decision index
type ListDecisionsRequest struct {
	Query string
}

// ListDecisionsResult represents the matching index entries
type ListDecisionsResult struct {
	Items []models.DecisionIndexItem
	Total int
}

// ListDecisions filters the index by case number or subject, case-insensitively
func (s *ArchiveService) ListDecisions(ctx context.Context, req ListDecisionsRequest) (*ListDecisionsResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	items := make([]models.DecisionIndexItem, 0, len(s.index))
	for _, item := range s.index {
		if query == "" ||
			strings.Contains(strings.ToLower(models.StringValue(item.Metadata.CaseNo)), query) ||
			strings.Contains(strings.ToLower(models.StringValue(item.Metadata.Subject)), query) {
			items = append(items, item)
		}
	}

	return &ListDecisionsResult{Items: items, Total: len(s.index)}, nil
}

// GetDecisionRequest represents a request to open one decision
type GetDecisionRequest struct {
	ID string
}

// GetDecisionResult represents a decision with its derived tags
type GetDecisionResult struct {
	Decision   *models.Decision
	Tags       models.TagResult
	CaseSerial string
}

// GetDecision fetches the full document and tags it. Failures affect only
// this request.
func (s *ArchiveService) GetDecision(ctx context.Context, req GetDecisionRequest) (*GetDecisionResult, error) {
	if s.decisions == nil {
		return nil, errors.New("decision store not set")
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, fmt.Errorf("empty id: %w", ErrDecisionNotFound)
	}

	decision, err := s.decisions.GetDecision(ctx, req.ID)
	if err != nil {
		reason := "unavailable"
		if errors.Is(err, ErrDecisionNotFound) {
			reason = "not_found"
		} else {
			err = fmt.Errorf("%w: %v", ErrDecisionUnavailable, err)
		}
		if s.metrics != nil {
			s.metrics.DecisionFetchFailures.WithLabelValues(reason).Inc()
		}
		s.logger.Warn(ctx, "decision fetch failed",
			zap.String("decision.id", req.ID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return nil, err
	}

	return &GetDecisionResult{
		Decision:   decision,
		Tags:       s.tagger.TagDecision(decision),
		CaseSerial: models.CaseSerial(req.ID),
	}, nil
}

// ListRevocationsRequest represents a filtered page request
type ListRevocationsRequest struct {
	Search   string
	Category *models.RevocationCategory
	Page     int
	PageSize int
}

// ListRevocationsResult represents one page of revocations plus per-category counts
type ListRevocationsResult struct {
	Page   models.RevocationPage
	Counts map[models.RevocationCategory]int
	Total  int
}

// ListRevocations filters and paginates the revocation feed
func (s *ArchiveService) ListRevocations(ctx context.Context, req ListRevocationsRequest) (*ListRevocationsResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.pageSize
	}
	page := req.Page
	if page == 0 {
		page = 1
	}

	result := analysis.FilterAndPage(s.records, analysis.RevocationQuery{
		Search:   req.Search,
		Category: req.Category,
		Page:     page,
		PageSize: pageSize,
	})

	return &ListRevocationsResult{
		Page:   result,
		Counts: analysis.CountByCategory(s.records),
		Total:  len(s.records),
	}, nil
}

// StatisticsResult represents the aggregate views of the archive
type StatisticsResult struct {
	Statistics models.Statistics
	Summary    models.ArchiveSummary
}

// Statistics returns the distributions computed at load time
func (s *ArchiveService) Statistics(ctx context.Context) (*StatisticsResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return &StatisticsResult{Statistics: s.stats, Summary: s.summary}, nil
}

// TagRequest represents a request to tag free text
type TagRequest struct {
	Text string
}

// Tag runs the catalog over arbitrary text
func (s *ArchiveService) Tag(ctx context.Context, req TagRequest) models.TagResult {
	return s.tagger.Tag(req.Text)
}
