package draftorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/bnsl/draftd/go/internal/events"
	"github.com/bnsl/draftd/go/internal/models"
)

// PicksRepository defines what the app needs from the draft order store.
type PicksRepository interface {
	ListPicks(ctx context.Context) ([]models.Pick, error)
	GetPick(ctx context.Context, id uuid.UUID) (*models.Pick, error)
	CreatePicksBatch(ctx context.Context, picks []models.Pick) error
	MakePick(ctx context.Context, pickID, playerID uuid.UUID, team string, pickedAt time.Time, payload []byte) error
}

// PlayerGate validates that a player may be drafted right now.
type PlayerGate interface {
	CheckDraftable(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// App owns the draft order: reads, pick completion, and order import.
type App struct {
	repo    PicksRepository
	players PlayerGate
	clock   clockwork.Clock
}

func NewApp(repo PicksRepository, players PlayerGate, clock clockwork.Clock) *App {
	return &App{repo: repo, players: players, clock: clock}
}

func (a *App) ListOrder(ctx context.Context) ([]models.Pick, error) {
	return a.repo.ListPicks(ctx)
}

func (a *App) GetPick(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	return a.repo.GetPick(ctx, id)
}

// MakePick validates and completes a pick. Validation order is fixed so each
// failure maps to a stable error: unknown pick, pick already made, then the
// player gate (not found, owned, ineligible). The write itself re-checks the
// slot and player atomically, so two racing drafts cannot both succeed.
func (a *App) MakePick(ctx context.Context, pickID, playerID uuid.UUID, auto bool) (*models.Pick, error) {
	pick, err := a.repo.GetPick(ctx, pickID)
	if err != nil {
		return nil, err
	}
	if pick.Drafted() {
		return nil, ErrAlreadyPicked
	}

	player, err := a.players.CheckDraftable(ctx, playerID)
	if err != nil {
		return nil, err
	}

	pickedAt := a.clock.Now()
	payload, err := json.Marshal(events.PickMadePayload{
		PickID:     pick.ID.String(),
		Round:      pick.Round,
		Pick:       pick.Pick,
		Overall:    pick.Overall,
		Team:       pick.Team,
		PlayerID:   player.ID.String(),
		PlayerName: player.Name,
		Auto:       auto,
		PickedAt:   pickedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pick event: %w", err)
	}

	if err := a.repo.MakePick(ctx, pickID, playerID, pick.Team, pickedAt, payload); err != nil {
		return nil, err
	}

	log.Info().
		Str("pick_id", pickID.String()).
		Str("team", pick.Team).
		Str("player", player.Name).
		Bool("auto", auto).
		Msg("pick made")

	return a.repo.GetPick(ctx, pickID)
}

// ImportOrder creates order slots from parsed rows. Existing overall
// positions are left untouched.
func (a *App) ImportOrder(ctx context.Context, picks []models.Pick) (int, error) {
	if err := a.repo.CreatePicksBatch(ctx, picks); err != nil {
		return 0, err
	}
	log.Info().Int("count", len(picks)).Msg("draft order imported")
	return len(picks), nil
}
