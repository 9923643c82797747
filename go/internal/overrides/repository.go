package overrides

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bnsl/draftd/go/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Set writes or replaces the override for a pick. The raw value is stored
// verbatim; validation happens in the app layer.
func (r *Repository) Set(ctx context.Context, pickID uuid.UUID, raw string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pick_overrides (pick_id, scheduled_time)
		VALUES ($1, $2)
		ON CONFLICT (pick_id) DO UPDATE SET scheduled_time = EXCLUDED.scheduled_time`,
		pickID, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	return nil
}

// Clear removes the override for a pick. Clearing a pick with no override is
// not an error.
func (r *Repository) Clear(ctx context.Context, pickID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pick_overrides WHERE pick_id = $1`, pickID); err != nil {
		return fmt.Errorf("failed to clear override: %w", err)
	}
	return nil
}

// List returns every stored override, raw.
func (r *Repository) List(ctx context.Context) ([]models.PickOverride, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT pick_id, scheduled_time FROM pick_overrides`)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	var out []models.PickOverride
	for rows.Next() {
		var ov models.PickOverride
		if err := rows.Scan(&ov.PickID, &ov.RawTime); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		out = append(out, ov)
	}
	return out, rows.Err()
}
