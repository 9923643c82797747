package notify

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
	"github.com/bnsl/draftd/go/internal/schedule"
)

// lastOnClockKey is the watermark: the pick ID announced most recently, or
// draftCompleteMark once every pick is in.
const (
	lastOnClockKey    = "last_on_clock_pick_id"
	draftCompleteMark = "complete"
)

// MetaStore persists the announcement watermark across restarts.
type MetaStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// OutboxInserter appends events for the bus.
type OutboxInserter interface {
	Insert(ctx context.Context, eventType string, payload []byte) error
}

// OrderSource provides the current draft order.
type OrderSource interface {
	ListOrder(ctx context.Context) ([]models.Pick, error)
}

// OverrideSource provides parsed pick time overrides.
type OverrideSource interface {
	ParsedOverrides(ctx context.Context) (map[uuid.UUID]time.Time, error)
}

// Gate emits an OnClockChanged event exactly once per on-clock transition.
// Scans are edge-triggered against a persisted watermark, so repeated scans
// of an unchanged board stay silent and restarts never re-announce.
type Gate struct {
	resolver  *schedule.Resolver
	order     OrderSource
	overrides OverrideSource
	meta      MetaStore
	outbox    OutboxInserter
	clock     clockwork.Clock
}

func NewGate(resolver *schedule.Resolver, order OrderSource, overrides OverrideSource, meta MetaStore, outbox OutboxInserter, clock clockwork.Clock) *Gate {
	return &Gate{
		resolver:  resolver,
		order:     order,
		overrides: overrides,
		meta:      meta,
		outbox:    outbox,
		clock:     clock,
	}
}

// Scan resolves the schedule and announces the on-clock pick if it differs
// from the watermark. Returns true when an event was emitted.
func (g *Gate) Scan(ctx context.Context) (bool, error) {
	picks, err := g.order.ListOrder(ctx)
	if err != nil {
		return false, err
	}
	ovs, err := g.overrides.ParsedOverrides(ctx)
	if err != nil {
		return false, err
	}

	now := g.clock.Now()
	s := g.resolver.Resolve(picks, ovs, now)
	info := s.OnClockInfo()

	current := draftCompleteMark
	if info != nil {
		current = info.ID.String()
	}

	last, err := g.meta.Get(ctx, lastOnClockKey)
	if err != nil {
		return false, err
	}
	if last == current {
		return false, nil
	}

	payload, err := json.Marshal(events.OnClockChangedPayload{
		Pick:      info,
		ChangedAt: now,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal on-clock event: %w", err)
	}
	if err := g.outbox.Insert(ctx, events.TypeOnClockChanged, payload); err != nil {
		return false, err
	}
	if err := g.meta.Set(ctx, lastOnClockKey, current); err != nil {
		return false, err
	}

	evt := log.Info().Str("previous", last)
	if info != nil {
		evt = evt.Str("pick_id", current).Str("team", info.Team)
	}
	evt.Msg("on-clock change announced")

	return true, nil
}
