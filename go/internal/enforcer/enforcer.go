package enforcer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/bnsl/draftd/go/internal/draftorder"
	"github.com/bnsl/draftd/go/internal/models"
	"github.com/bnsl/draftd/go/internal/schedule"
)

// OrderSource provides the current draft order.
type OrderSource interface {
	ListOrder(ctx context.Context) ([]models.Pick, error)
}

// OverrideSource provides parsed pick time overrides.
type OverrideSource interface {
	ParsedOverrides(ctx context.Context) (map[uuid.UUID]time.Time, error)
}

// PickMaker completes a pick with full validation and atomic claiming.
type PickMaker interface {
	MakePick(ctx context.Context, pickID, playerID uuid.UUID, auto bool) (*models.Pick, error)
}

// QueueSource provides queue heads and policies for auto-drafting.
type QueueSource interface {
	FirstDraftable(ctx context.Context, team string) (*models.Player, error)
	GetPolicy(ctx context.Context, team string) (models.QueuePolicy, error)
}

// Enforcer applies queue auto-draft policies against the resolved schedule.
// Each tick recomputes the schedule from scratch and makes at most one
// assignment, so every auto-pick sees the schedule that the previous one
// produced.
type Enforcer struct {
	resolver  *schedule.Resolver
	order     OrderSource
	overrides OverrideSource
	picks     PickMaker
	queues    QueueSource
	clock     clockwork.Clock
	wakeCh    chan struct{}
}

func New(resolver *schedule.Resolver, order OrderSource, overrides OverrideSource, picks PickMaker, queues QueueSource, clock clockwork.Clock) *Enforcer {
	return &Enforcer{
		resolver:  resolver,
		order:     order,
		overrides: overrides,
		picks:     picks,
		queues:    queues,
		clock:     clock,
		wakeCh:    make(chan struct{}, 1),
	}
}

// Wake nudges the run loop to re-enforce immediately, e.g. after a manual
// pick or an override edit.
func (e *Enforcer) Wake() {
	select {
	case e.wakeCh <- struct{}{}:
	default:
	}
}

// EnforceOnce runs one enforcement tick. It reports whether an assignment was
// made and the earliest future instant at which the schedule state can change
// on its own (zero when the draft is complete).
func (e *Enforcer) EnforceOnce(ctx context.Context) (bool, time.Time, error) {
	picks, err := e.order.ListOrder(ctx)
	if err != nil {
		return false, time.Time{}, err
	}
	ovs, err := e.overrides.ParsedOverrides(ctx)
	if err != nil {
		return false, time.Time{}, err
	}

	now := e.clock.Now()
	s := e.resolver.Resolve(picks, ovs, now)

	// Overdue picks first: teams on the default policy get their queue head
	// once their deadline passes. One assignment per tick.
	for i, p := range picks {
		if p.Drafted() || !s.Missed(i) {
			continue
		}
		acted, err := e.tryAutoPick(ctx, p, models.QueuePolicyEndOfClock)
		if err != nil {
			return false, time.Time{}, err
		}
		if acted {
			return true, e.nextChange(s, now), nil
		}
	}

	// Then the pick on the clock: start-of-clock teams draft the moment they
	// come up, deadline or not.
	if idx, ok := s.OnClock(); ok {
		acted, err := e.tryAutoPick(ctx, picks[idx], models.QueuePolicyStartOfClock)
		if err != nil {
			return false, time.Time{}, err
		}
		if acted {
			return true, e.nextChange(s, now), nil
		}
	}

	return false, e.nextChange(s, now), nil
}

// tryAutoPick drafts the team's queue head if the team's policy matches want.
// Race losses are logged and swallowed: the next tick sees fresh state.
func (e *Enforcer) tryAutoPick(ctx context.Context, pick models.Pick, want models.QueuePolicy) (bool, error) {
	policy, err := e.queues.GetPolicy(ctx, pick.Team)
	if err != nil {
		return false, err
	}
	if policy != want {
		return false, nil
	}

	player, err := e.queues.FirstDraftable(ctx, pick.Team)
	if err != nil {
		return false, err
	}
	if player == nil {
		return false, nil
	}

	if _, err := e.picks.MakePick(ctx, pick.ID, player.ID, true); err != nil {
		if errors.Is(err, draftorder.ErrAlreadyPicked) || errors.Is(err, draftorder.ErrPlayerClaimed) {
			log.Warn().
				Err(err).
				Str("pick_id", pick.ID.String()).
				Str("team", pick.Team).
				Msg("lost auto-pick race")
			return false, nil
		}
		return false, err
	}

	log.Info().
		Str("pick_id", pick.ID.String()).
		Str("team", pick.Team).
		Str("player", player.Name).
		Str("policy", string(want)).
		Msg("queue auto-pick made")
	return true, nil
}

// nextChange returns the earliest future deadline or scheduled time among
// undrafted picks. Zero means nothing is pending.
func (e *Enforcer) nextChange(s *schedule.Schedule, now time.Time) time.Time {
	var next time.Time
	consider := func(t time.Time) {
		if !t.After(now) {
			return
		}
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}

	for i, p := range s.Picks {
		if p.Drafted() {
			continue
		}
		consider(s.NextDeadline(i))
		consider(s.ScheduledTime(i))
	}
	return next
}
