package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"tjarchive-backend/models"
	"tjarchive-backend/storage"
)

// ErrDecisionNotFound is returned when no detail file exists for a decision id
var ErrDecisionNotFound = errors.New("decision not found")

// ArchiveKeys locates the feeds inside the storage backend
type ArchiveKeys struct {
	IndexKey        string
	RevocationsKey  string
	DecisionsPrefix string
}

// DefaultArchiveKeys returns the layout produced by the extraction pipeline
func DefaultArchiveKeys() ArchiveKeys {
	return ArchiveKeys{
		IndexKey:        "decisions_index.json",
		RevocationsKey:  "all_revocations.json",
		DecisionsPrefix: "decisions/",
	}
}

// ArchiveRepository reads the static archive feeds from storage
type ArchiveRepository struct {
	store storage.Storage
	keys  ArchiveKeys
}

// NewArchiveRepository creates a new archive repository
func NewArchiveRepository(store storage.Storage, keys ArchiveKeys) *ArchiveRepository {
	return &ArchiveRepository{store: store, keys: keys}
}

// LoadIndex reads the decision index
func (r *ArchiveRepository) LoadIndex(ctx context.Context) ([]models.DecisionIndexItem, error) {
	var items []models.DecisionIndexItem
	if err := r.readJSON(ctx, r.keys.IndexKey, &items); err != nil {
		return nil, fmt.Errorf("failed to load decision index: %w", err)
	}
	return items, nil
}

// ListAll reads the revocation feed. Malformed records fail the whole load.
func (r *ArchiveRepository) ListAll(ctx context.Context) ([]models.Revocation, error) {
	var records []models.Revocation
	if err := r.readJSON(ctx, r.keys.RevocationsKey, &records); err != nil {
		return nil, fmt.Errorf("failed to load revocations: %w", err)
	}
	return records, nil
}

// GetDecision reads the full document for an index id
func (r *ArchiveRepository) GetDecision(ctx context.Context, id string) (*models.Decision, error) {
	key := r.DecisionKey(id)

	decision := &models.Decision{}
	if err := r.readJSON(ctx, key, decision); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", id, ErrDecisionNotFound)
		}
		return nil, fmt.Errorf("failed to load decision %s: %w", id, err)
	}

	if decision.ID == "" {
		decision.ID = id
	}
	if decision.Filename == "" {
		decision.Filename = path.Base(key)
	}
	return decision, nil
}

// DecisionKey maps an index id to its storage key
func (r *ArchiveRepository) DecisionKey(id string) string {
	return r.keys.DecisionsPrefix + models.DecisionFileKey(id)
}

// ListDecisionFiles returns the file names of all detail documents
func (r *ArchiveRepository) ListDecisionFiles(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, r.keys.DecisionsPrefix)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, key := range keys {
		name := strings.TrimPrefix(key, r.keys.DecisionsPrefix)
		// only direct children
		if strings.Contains(name, "/") || !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

// ReadDecisionFile decodes one detail document by file name
func (r *ArchiveRepository) ReadDecisionFile(ctx context.Context, filename string) (*models.Decision, error) {
	decision := &models.Decision{}
	if err := r.readJSON(ctx, r.keys.DecisionsPrefix+filename, decision); err != nil {
		return nil, err
	}
	return decision, nil
}

// SaveIndex writes the decision index
func (r *ArchiveRepository) SaveIndex(ctx context.Context, items []models.DecisionIndexItem) error {
	if items == nil {
		items = []models.DecisionIndexItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode decision index: %w", err)
	}
	if err := r.store.Upload(ctx, r.keys.IndexKey, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save decision index: %w", err)
	}
	return nil
}

func (r *ArchiveRepository) readJSON(ctx context.Context, key string, v any) error {
	rc, err := r.store.Download(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
