package queues

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bnsl/draftd/go/internal/models"
	"github.com/bnsl/draftd/go/internal/sqlutil"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListQueue returns a team's queue in preference order.
func (r *Repository) ListQueue(ctx context.Context, team string) ([]models.QueueEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT team, player_id, rank FROM team_queues
		WHERE team = $1 ORDER BY rank`, team)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	defer rows.Close()

	var out []models.QueueEntry
	for rows.Next() {
		var e models.QueueEntry
		if err := rows.Scan(&e.Team, &e.PlayerID, &e.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ReplaceQueue swaps a team's entire queue for the given ordering. Ranks are
// assigned from slice order; the swap is atomic.
func (r *Repository) ReplaceQueue(ctx context.Context, team string, playerIDs []uuid.UUID) error {
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM team_queues WHERE team = $1`, team); err != nil {
			return fmt.Errorf("failed to clear queue: %w", err)
		}
		for i, playerID := range playerIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO team_queues (team, player_id, rank)
				VALUES ($1, $2, $3)
				ON CONFLICT (team, player_id) DO NOTHING`,
				team, playerID, i+1,
			); err != nil {
				return fmt.Errorf("failed to insert queue entry: %w", err)
			}
		}
		return nil
	})
}

// Remove drops one player from a team's queue.
func (r *Repository) Remove(ctx context.Context, team string, playerID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM team_queues WHERE team = $1 AND player_id = $2`,
		team, playerID); err != nil {
		return fmt.Errorf("failed to remove queue entry: %w", err)
	}
	return nil
}

// GetPolicy returns the team's auto-draft policy, defaulting to end-of-clock
// for teams that never chose one.
func (r *Repository) GetPolicy(ctx context.Context, team string) (models.QueuePolicy, error) {
	var policy string
	err := r.db.QueryRowContext(ctx, `
		SELECT policy FROM team_policies WHERE team = $1`, team).Scan(&policy)
	if err == sql.ErrNoRows {
		return models.QueuePolicyEndOfClock, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get policy: %w", err)
	}
	p := models.QueuePolicy(policy)
	if !p.Valid() {
		return models.QueuePolicyEndOfClock, nil
	}
	return p, nil
}

// SetPolicy writes or replaces the team's auto-draft policy.
func (r *Repository) SetPolicy(ctx context.Context, team string, policy models.QueuePolicy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_policies (team, policy)
		VALUES ($1, $2)
		ON CONFLICT (team) DO UPDATE SET policy = EXCLUDED.policy`,
		team, string(policy),
	)
	if err != nil {
		return fmt.Errorf("failed to set policy: %w", err)
	}
	return nil
}
