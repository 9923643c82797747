package queues

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bnsl/draftd/go/internal/models"
	"github.com/bnsl/draftd/go/internal/registry"
)

// ErrInvalidPolicy means the policy value is not a known option.
var ErrInvalidPolicy = errors.New("invalid queue policy")

// QueueRepository defines what the app needs from the queue store.
type QueueRepository interface {
	ListQueue(ctx context.Context, team string) ([]models.QueueEntry, error)
	ReplaceQueue(ctx context.Context, team string, playerIDs []uuid.UUID) error
	Remove(ctx context.Context, team string, playerID uuid.UUID) error
	GetPolicy(ctx context.Context, team string) (models.QueuePolicy, error)
	SetPolicy(ctx context.Context, team string, policy models.QueuePolicy) error
}

// PlayerGate validates queue candidates against the registry.
type PlayerGate interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	CheckDraftable(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// App manages per-team preference queues and their auto-draft policies.
type App struct {
	repo    QueueRepository
	players PlayerGate
}

func NewApp(repo QueueRepository, players PlayerGate) *App {
	return &App{repo: repo, players: players}
}

func (a *App) GetQueue(ctx context.Context, team string) ([]models.QueueEntry, error) {
	return a.repo.ListQueue(ctx, team)
}

// SetQueue replaces the team's queue. Duplicate IDs collapse to their first
// position; every player must exist in the registry and be unowned. Drafting
// scrubs a player from every queue, so letting an already-owned player back
// in at write time would reintroduce exactly the rows the scrub removes.
func (a *App) SetQueue(ctx context.Context, team string, playerIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(playerIDs))
	deduped := make([]uuid.UUID, 0, len(playerIDs))
	for _, id := range playerIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, err := a.players.GetPlayer(ctx, id)
		if err != nil {
			return fmt.Errorf("queue entry %s: %w", id, err)
		}
		if p.Owned() {
			return fmt.Errorf("queue entry %s: %w", id, registry.ErrPlayerOwned)
		}
		deduped = append(deduped, id)
	}

	if err := a.repo.ReplaceQueue(ctx, team, deduped); err != nil {
		return err
	}
	log.Info().Str("team", team).Int("size", len(deduped)).Msg("queue replaced")
	return nil
}

func (a *App) RemoveFromQueue(ctx context.Context, team string, playerID uuid.UUID) error {
	return a.repo.Remove(ctx, team, playerID)
}

func (a *App) GetPolicy(ctx context.Context, team string) (models.QueuePolicy, error) {
	return a.repo.GetPolicy(ctx, team)
}

func (a *App) SetPolicy(ctx context.Context, team string, policy models.QueuePolicy) error {
	if !policy.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, policy)
	}
	if err := a.repo.SetPolicy(ctx, team, policy); err != nil {
		return err
	}
	log.Info().Str("team", team).Str("policy", string(policy)).Msg("queue policy set")
	return nil
}

// FirstDraftable walks the team's queue in rank order and returns the first
// player who can be drafted right now. Stale entries (owned or ineligible
// players) are skipped, not consumed; drafting scrubs them for real.
func (a *App) FirstDraftable(ctx context.Context, team string) (*models.Player, error) {
	entries, err := a.repo.ListQueue(ctx, team)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		p, err := a.players.CheckDraftable(ctx, e.PlayerID)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, registry.ErrPlayerOwned) || errors.Is(err, registry.ErrPlayerIneligible) || errors.Is(err, registry.ErrPlayerNotFound) {
			log.Debug().
				Str("team", team).
				Str("player_id", e.PlayerID.String()).
				Err(err).
				Msg("skipping stale queue entry")
			continue
		}
		return nil, err
	}
	return nil, nil
}
