package overrides

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bnsl/draftd/go/internal/models"
)

// OverridesRepository defines what the app needs from the overrides store.
type OverridesRepository interface {
	Set(ctx context.Context, pickID uuid.UUID, raw string) error
	Clear(ctx context.Context, pickID uuid.UUID) error
	List(ctx context.Context) ([]models.PickOverride, error)
}

// App validates and parses pick time overrides.
type App struct {
	repo OverridesRepository
	loc  *time.Location
}

func NewApp(repo OverridesRepository, loc *time.Location) *App {
	return &App{repo: repo, loc: loc}
}

// SetOverride validates raw against the accepted layouts before storing it, so
// a bad value is rejected at write time instead of silently skipped at read
// time.
func (a *App) SetOverride(ctx context.Context, pickID uuid.UUID, raw string) (time.Time, error) {
	t, err := Parse(raw, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid override: %w", err)
	}
	if err := a.repo.Set(ctx, pickID, raw); err != nil {
		return time.Time{}, err
	}

	log.Info().
		Str("pick_id", pickID.String()).
		Time("scheduled_time", t).
		Msg("pick override set")
	return t, nil
}

// ClearOverride removes a pick's override, restoring its base calendar slot.
func (a *App) ClearOverride(ctx context.Context, pickID uuid.UUID) error {
	if err := a.repo.Clear(ctx, pickID); err != nil {
		return err
	}
	log.Info().Str("pick_id", pickID.String()).Msg("pick override cleared")
	return nil
}

// ParsedOverrides returns every override that parses, keyed by pick ID.
// Rows that fail to parse are logged and skipped: one corrupt value must
// never take down schedule resolution.
func (a *App) ParsedOverrides(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	stored, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	parsed := make(map[uuid.UUID]time.Time, len(stored))
	for _, ov := range stored {
		t, err := Parse(ov.RawTime, a.loc)
		if err != nil {
			log.Warn().
				Str("pick_id", ov.PickID.String()).
				Str("raw", ov.RawTime).
				Msg("skipping unparseable override")
			continue
		}
		parsed[ov.PickID] = t
	}
	return parsed, nil
}
