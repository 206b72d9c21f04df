package postgres

import (
	"context"
	"fmt"

	"github.com/oiangu/trenbide/internal/core/ports"
)

// ScheduleRepo persists raw schedule document bytes — the engine's INPUT,
// never a query result. Implements ports.ScheduleStore.
type ScheduleRepo struct {
	db *DB
}

// NewScheduleRepo wires a ScheduleRepo over a shared pool.
func NewScheduleRepo(db *DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

var _ ports.ScheduleStore = (*ScheduleRepo)(nil)

// SaveDocument upserts a schedule document under a version tag.
func (r *ScheduleRepo) SaveDocument(ctx context.Context, version string, data []byte) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO schedule_documents (version, document, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (version) DO UPDATE SET document = EXCLUDED.document, created_at = now()
	`, version, data)
	if err != nil {
		return fmt.Errorf("save schedule document: %w", err)
	}
	return nil
}

// LatestDocument returns the most recently written schedule document.
func (r *ScheduleRepo) LatestDocument(ctx context.Context) (string, []byte, error) {
	var version string
	var data []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT version, document FROM schedule_documents
		ORDER BY created_at DESC LIMIT 1
	`).Scan(&version, &data)
	if err != nil {
		return "", nil, fmt.Errorf("latest schedule document: %w", err)
	}
	return version, data, nil
}
