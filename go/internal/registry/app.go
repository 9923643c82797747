package registry

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bnsl/draftd/go/internal/models"
)

var (
	// ErrPlayerNotFound means the player ID has no registry row.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrPlayerOwned means a franchise already holds the player.
	ErrPlayerOwned = errors.New("player already owned")
	// ErrPlayerIneligible means the player cannot be drafted this year.
	ErrPlayerIneligible = errors.New("player not eligible")
)

// PlayersRepository defines what the app needs from the player store.
// Writes (seeding) go through the concrete repository directly.
type PlayersRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	SearchPlayers(ctx context.Context, query string, hideOwned bool) ([]models.Player, error)
}

// App exposes the player registry: lookups, search, and draft eligibility
// checks.
type App struct {
	repo PlayersRepository
}

func NewApp(repo PlayersRepository) *App {
	return &App{repo: repo}
}

func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return a.repo.GetPlayer(ctx, id)
}

func (a *App) SearchPlayers(ctx context.Context, query string, hideOwned bool) ([]models.Player, error) {
	return a.repo.SearchPlayers(ctx, query, hideOwned)
}

// CheckDraftable returns the player if they exist, are unowned, and are
// eligible. The checks run in that order so callers can map each sentinel to
// a distinct response.
func (a *App) CheckDraftable(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Owned() {
		return nil, ErrPlayerOwned
	}
	if !p.Eligible {
		return nil, ErrPlayerIneligible
	}
	return p, nil
}
