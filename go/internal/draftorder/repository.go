package draftorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bnsl/draftd/go/internal/events"
	"github.com/bnsl/draftd/go/internal/models"
	"github.com/bnsl/draftd/go/internal/outbox"
	"github.com/bnsl/draftd/go/internal/sqlutil"
)

var (
	// ErrPickNotFound means the pick ID has no draft order row.
	ErrPickNotFound = errors.New("pick not found")
	// ErrAlreadyPicked means a concurrent draft won the slot first.
	ErrAlreadyPicked = errors.New("pick already made")
	// ErrPlayerClaimed means a concurrent draft took the player first.
	ErrPlayerClaimed = errors.New("player already claimed")
)

type PickRepository struct {
	db     *sql.DB
	outbox *outbox.Repository
}

func NewPickRepository(db *sql.DB, ob *outbox.Repository) *PickRepository {
	return &PickRepository{db: db, outbox: ob}
}

const pickColumns = `id, round, pick, overall, team, label, player_id, picked_at`

// ListPicks returns the full draft order, ascending by overall position.
func (r *PickRepository) ListPicks(ctx context.Context) ([]models.Pick, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pickColumns+` FROM draft_order ORDER BY overall`)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var out []models.Pick
	for rows.Next() {
		p, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PickRepository) GetPick(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pickColumns+` FROM draft_order WHERE id = $1`, id)

	p, err := scanPick(row)
	if err == sql.ErrNoRows {
		return nil, ErrPickNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}
	return p, nil
}

// CreatePicksBatch inserts new order slots, skipping ones that already exist.
// Used by seeding and import only; the live order is never resized.
func (r *PickRepository) CreatePicksBatch(ctx context.Context, picks []models.Pick) error {
	if len(picks) == 0 {
		return nil
	}
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		for _, p := range picks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO draft_order (id, round, pick, overall, team, label)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (overall) DO NOTHING`,
				p.ID, p.Round, p.Pick, p.Overall, p.Team, p.Label,
			); err != nil {
				return fmt.Errorf("failed to insert pick %d: %w", p.Overall, err)
			}
		}
		return nil
	})
}

// MakePick assigns a player to a pick in one transaction: claim the slot,
// claim the player for the picking team, scrub the player from every queue,
// and append the PickMade event to the outbox. The WHERE guards make the
// claim atomic; losing either race rolls everything back.
func (r *PickRepository) MakePick(ctx context.Context, pickID, playerID uuid.UUID, team string, pickedAt time.Time, payload []byte) error {
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE draft_order SET player_id = $2, picked_at = $3
			WHERE id = $1 AND player_id IS NULL`,
			pickID, playerID, pickedAt)
		if err != nil {
			return fmt.Errorf("failed to claim pick: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrAlreadyPicked
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE players SET franchise = $2
			WHERE id = $1 AND franchise = ''`,
			playerID, team)
		if err != nil {
			return fmt.Errorf("failed to claim player: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrPlayerClaimed
		}

		// A drafted player disappears from every team's queue.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM team_queues WHERE player_id = $1`, playerID); err != nil {
			return fmt.Errorf("failed to scrub queues: %w", err)
		}

		return r.outbox.InsertTx(ctx, tx, events.TypePickMade, payload)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPick(row rowScanner) (*models.Pick, error) {
	var p models.Pick
	var playerID uuid.NullUUID
	var pickedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.Round, &p.Pick, &p.Overall, &p.Team, &p.Label, &playerID, &pickedAt); err != nil {
		return nil, err
	}
	p.PlayerID = sqlutil.NullUUIDPtr(playerID)
	p.PickedAt = sqlutil.NullTimePtr(pickedAt)
	return &p, nil
}
