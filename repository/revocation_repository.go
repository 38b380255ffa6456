package repository

import (
	"context"
	"fmt"

	"tjarchive-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RevocationSource provides the full revocation feed in feed order
type RevocationSource interface {
	ListAll(ctx context.Context) ([]models.Revocation, error)
}

// RevocationRepository handles database operations for the revocation mirror
type RevocationRepository struct {
	db *pgxpool.Pool
}

// NewRevocationRepository creates a new revocation repository
func NewRevocationRepository(db *pgxpool.Pool) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// ListAll retrieves every revocation in feed order
func (r *RevocationRepository) ListAll(ctx context.Context) ([]models.Revocation, error) {
	query := `
		SELECT id, name, category, court, case_id, crime, sentence, linked_decision_id
		FROM revocations
		ORDER BY position`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Revocation
	for rows.Next() {
		var rec models.Revocation
		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Category,
			&rec.Court,
			&rec.CaseID,
			&rec.Crime,
			&rec.Sentence,
			&rec.LinkedDecisionID,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ReplaceAll swaps the mirror contents for records inside one transaction
func (r *RevocationRepository) ReplaceAll(ctx context.Context, records []models.Revocation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM revocations`); err != nil {
		return fmt.Errorf("failed to clear revocations: %w", err)
	}

	query := `
		INSERT INTO revocations (
			position, id, name, category, court, case_id, crime, sentence, linked_decision_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	batch := &pgx.Batch{}
	for i, rec := range records {
		batch.Queue(query,
			i,
			rec.ID,
			rec.Name,
			int(rec.Category),
			rec.Court,
			rec.CaseID,
			rec.Crime,
			rec.Sentence,
			rec.LinkedDecisionID,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert revocations: %w", err)
	}

	return tx.Commit(ctx)
}

// CreateSchemaSQL creates the revocation mirror table
const CreateSchemaSQL = `
CREATE TABLE IF NOT EXISTS revocations (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	category SMALLINT NOT NULL,
	court JSONB,
	case_id JSONB,
	crime JSONB,
	sentence JSONB,
	linked_decision_id TEXT,
	imported_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_revocations_category ON revocations(category);
CREATE INDEX IF NOT EXISTS idx_revocations_name ON revocations(name);
`
