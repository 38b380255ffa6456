package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tjarchive-backend/logging"
	"tjarchive-backend/models"

	"go.uber.org/zap"
)

var caseNumberPattern = regexp.MustCompile(`第(\d+)號`)

const missingCaseNumber = 999999

// IndexStore reads detail documents and persists the index
type IndexStore interface {
	ListDecisionFiles(ctx context.Context) ([]string, error)
	ReadDecisionFile(ctx context.Context, filename string) (*models.Decision, error)
	SaveIndex(ctx context.Context, items []models.DecisionIndexItem) error
}

// IndexService regenerates the decision index from the detail documents
type IndexService struct {
	store  IndexStore
	logger *logging.Logger
}

// IndexServiceOption is a functional option for IndexService
type IndexServiceOption func(*IndexService)

// IndexWithStore sets the index store
func IndexWithStore(store IndexStore) IndexServiceOption {
	return func(s *IndexService) {
		s.store = store
	}
}

// IndexWithLogger sets the logger
func IndexWithLogger(logger *logging.Logger) IndexServiceOption {
	return func(s *IndexService) {
		s.logger = logger
	}
}

// NewIndexService creates a new index service
func NewIndexService(opts ...IndexServiceOption) *IndexService {
	s := &IndexService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// BuildIndexRequest represents a request to rebuild the index
type BuildIndexRequest struct {
	// DryRun builds the index without saving it
	DryRun bool
}

// BuildIndexResult represents the rebuilt index
type BuildIndexResult struct {
	Items   []models.DecisionIndexItem
	Skipped []string
}

// BuildIndex reads every detail document, keeps its metadata and writes the
// sorted index. Unreadable documents are skipped and reported.
func (s *IndexService) BuildIndex(ctx context.Context, req BuildIndexRequest) (*BuildIndexResult, error) {
	if s.store == nil {
		return nil, errors.New("index store not set")
	}

	files, err := s.store.ListDecisionFiles(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	result := &BuildIndexResult{Items: make([]models.DecisionIndexItem, 0, len(files))}
	for _, filename := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		decision, err := s.store.ReadDecisionFile(ctx, filename)
		if err != nil {
			s.logger.Warn(ctx, "skipping decision file", zap.String("filename", filename), zap.Error(err))
			result.Skipped = append(result.Skipped, filename)
			continue
		}

		result.Items = append(result.Items, models.DecisionIndexItem{
			ID:       models.DecisionIDFromFilename(filename),
			Filename: filename,
			Metadata: decision.Metadata,
		})
	}

	SortIndex(result.Items)

	if !req.DryRun {
		if err := s.store.SaveIndex(ctx, result.Items); err != nil {
			return nil, err
		}
	}

	s.logger.Info(ctx, "decision index built",
		zap.Int("entries", len(result.Items)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Bool("dry_run", req.DryRun),
	)
	return result, nil
}

// SortIndex orders entries by case type (促轉司字, then 復查, then others)
// and case number. Entries without a number sort last within their type.
func SortIndex(items []models.DecisionIndexItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, ni := indexSortKey(items[i])
		tj, nj := indexSortKey(items[j])
		if ti != tj {
			return ti < tj
		}
		return ni < nj
	})
}

func indexSortKey(item models.DecisionIndexItem) (int, int) {
	caseNo := models.StringValue(item.Metadata.CaseNo)

	number := missingCaseNumber
	if m := caseNumberPattern.FindStringSubmatch(caseNo); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			number = n
		}
	}

	switch {
	case strings.Contains(caseNo, "促轉司字"):
		return 0, number
	case strings.Contains(caseNo, "復查"):
		return 1, number
	default:
		return 2, number
	}
}
