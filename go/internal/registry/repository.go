package registry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bnsl/draftd/go/internal/models"
)

type PlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, dob, position, franchise, eligible
		FROM players WHERE id = $1`, id)

	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// SearchPlayers returns players whose name contains the query,
// case-insensitively, ordered by name. An empty query returns everyone;
// hideOwned drops players a franchise already holds.
func (r *PlayerRepository) SearchPlayers(ctx context.Context, query string, hideOwned bool) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, dob, position, franchise, eligible
		FROM players
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND (NOT $2 OR franchise = '')
		ORDER BY name, id`, query, hideOwned)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer rows.Close()

	var out []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PlayerRepository) UpsertPlayer(ctx context.Context, p models.Player) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (id, name, dob, position, franchise, eligible)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			dob = EXCLUDED.dob,
			position = EXCLUDED.position,
			eligible = EXCLUDED.eligible`,
		p.ID, p.Name, p.DOB, p.Position, p.Franchise, p.Eligible,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	if err := row.Scan(&p.ID, &p.Name, &p.DOB, &p.Position, &p.Franchise, &p.Eligible); err != nil {
		return nil, err
	}
	return &p, nil
}
