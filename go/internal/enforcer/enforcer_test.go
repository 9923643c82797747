package enforcer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/bnsl/draftd/go/internal/draftorder"
	"github.com/bnsl/draftd/go/internal/models"
	"github.com/bnsl/draftd/go/internal/schedule"
)

type fixture struct {
	mu       sync.Mutex
	picks    []models.Pick
	policies map[string]models.QueuePolicy
	queues   map[string][]models.Player
	made     []uuid.UUID
}

func (f *fixture) ListOrder(ctx context.Context) ([]models.Pick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Pick, len(f.picks))
	copy(out, f.picks)
	return out, nil
}

func (f *fixture) ParsedOverrides(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	return nil, nil
}

func (f *fixture) GetPolicy(ctx context.Context, team string) (models.QueuePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.policies[team]; ok {
		return p, nil
	}
	return models.QueuePolicyEndOfClock, nil
}

func (f *fixture) FirstDraftable(ctx context.Context, team string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q := f.queues[team]; len(q) > 0 {
		p := q[0]
		return &p, nil
	}
	return nil, nil
}

func (f *fixture) MakePick(ctx context.Context, pickID, playerID uuid.UUID, auto bool) (*models.Pick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.picks {
		if f.picks[i].ID != pickID {
			continue
		}
		if f.picks[i].Drafted() {
			return nil, draftorder.ErrAlreadyPicked
		}
		id := playerID
		f.picks[i].PlayerID = &id
		f.made = append(f.made, pickID)

		// Drafting scrubs the player from every queue.
		for team, q := range f.queues {
			var kept []models.Player
			for _, p := range q {
				if p.ID != playerID {
					kept = append(kept, p)
				}
			}
			f.queues[team] = kept
		}
		p := f.picks[i]
		return &p, nil
	}
	return nil, draftorder.ErrPickNotFound
}

func (f *fixture) madeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.made)
}

func newFixture(t *testing.T, teams ...string) (*fixture, *schedule.Resolver) {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	cfg := schedule.DefaultConfig(loc, time.Date(2025, 11, 1, 0, 0, 0, 0, loc))

	fix := &fixture{
		policies: make(map[string]models.QueuePolicy),
		queues:   make(map[string][]models.Player),
	}
	for i, team := range teams {
		fix.picks = append(fix.picks, models.Pick{
			ID:      uuid.New(),
			Round:   1,
			Pick:    i + 1,
			Overall: i + 1,
			Team:    team,
		})
	}
	return fix, schedule.NewResolver(cfg)
}

func queuePlayer(name string) models.Player {
	return models.Player{ID: uuid.New(), Name: name, Eligible: true}
}

func TestEndOfClockAutoPickAfterDeadline(t *testing.T) {
	fix, resolver := newFixture(t, "Otters", "Herons", "Cranes")
	fix.queues["Otters"] = []models.Player{queuePlayer("Ash")}

	// Pick 1's deadline is pick 2's 10:00 slot; 10:30 is past it.
	clock := clockwork.NewFakeClockAt(date(t, 2025, 11, 1, 10, 30))
	e := New(resolver, fix, fix, fix, fix, clock)

	acted, next, err := e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.True(t, acted)
	require.Equal(t, []uuid.UUID{fix.picks[0].ID}, fix.made)
	require.False(t, next.IsZero())

	// Queue drained, nothing else overdue: a second tick is a no-op.
	acted, _, err = e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.False(t, acted)
	require.Equal(t, 1, fix.madeCount())
}

func TestEndOfClockWaitsForDeadline(t *testing.T) {
	fix, resolver := newFixture(t, "Otters", "Herons")
	fix.queues["Otters"] = []models.Player{queuePlayer("Ash")}

	clock := clockwork.NewFakeClockAt(date(t, 2025, 11, 1, 9, 30))
	e := New(resolver, fix, fix, fix, fix, clock)

	acted, next, err := e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.False(t, acted)
	require.Equal(t, 0, fix.madeCount())
	// Next wake is pick 1's deadline.
	require.Equal(t, date(t, 2025, 11, 1, 10, 0), next)
}

func TestStartOfClockDraftsImmediately(t *testing.T) {
	fix, resolver := newFixture(t, "Otters", "Herons")
	fix.policies["Otters"] = models.QueuePolicyStartOfClock
	fix.queues["Otters"] = []models.Player{queuePlayer("Ash")}

	// Well before the deadline; the team is merely on the clock.
	clock := clockwork.NewFakeClockAt(date(t, 2025, 11, 1, 9, 5))
	e := New(resolver, fix, fix, fix, fix, clock)

	acted, _, err := e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.True(t, acted)
	require.Equal(t, []uuid.UUID{fix.picks[0].ID}, fix.made)
}

func TestEmptyQueueLeavesPickAlone(t *testing.T) {
	fix, resolver := newFixture(t, "Otters", "Herons")
	fix.policies["Otters"] = models.QueuePolicyStartOfClock

	clock := clockwork.NewFakeClockAt(date(t, 2025, 11, 1, 12, 0))
	e := New(resolver, fix, fix, fix, fix, clock)

	acted, _, err := e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.False(t, acted)
	require.Equal(t, 0, fix.madeCount())
}

func TestBacklogDrainsOneAssignmentPerTick(t *testing.T) {
	fix, resolver := newFixture(t, "Otters", "Herons", "Cranes")
	fix.queues["Otters"] = []models.Player{queuePlayer("Ash")}
	fix.queues["Herons"] = []models.Player{queuePlayer("Birch")}

	// Both pick 1 and pick 2 are past their deadlines.
	clock := clockwork.NewFakeClockAt(date(t, 2025, 11, 1, 11, 30))
	e := New(resolver, fix, fix, fix, fix, clock)

	acted, _, err := e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.True(t, acted)
	require.Equal(t, 1, fix.madeCount())
	require.Equal(t, fix.picks[0].ID, fix.made[0])

	acted, _, err = e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.True(t, acted)
	require.Equal(t, 2, fix.madeCount())
	require.Equal(t, fix.picks[1].ID, fix.made[1])

	acted, _, err = e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.False(t, acted)
}

func TestStartOfClockSkipsTeamNotOnClock(t *testing.T) {
	fix, resolver := newFixture(t, "Otters", "Herons")
	fix.policies["Herons"] = models.QueuePolicyStartOfClock
	fix.queues["Herons"] = []models.Player{queuePlayer("Birch")}

	// Otters are on the clock; Herons must wait their turn.
	clock := clockwork.NewFakeClockAt(date(t, 2025, 11, 1, 9, 5))
	e := New(resolver, fix, fix, fix, fix, clock)

	acted, _, err := e.EnforceOnce(context.Background())
	require.NoError(t, err)
	require.False(t, acted)
	require.Equal(t, 0, fix.madeCount())
}

func TestRunLoopFiresAtDeadline(t *testing.T) {
	fix, resolver := newFixture(t, "Otters", "Herons")
	fix.queues["Otters"] = []models.Player{queuePlayer("Ash")}

	clock := clockwork.NewFakeClockAt(date(t, 2025, 11, 1, 9, 30))
	e := New(resolver, fix, fix, fix, fix, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.RunLoop(ctx)
	}()

	// Let the loop arm its timer for the 10:00 deadline, then step past it.
	clock.BlockUntil(1)
	clock.Advance(31 * time.Minute)

	require.Eventually(t, func() bool {
		return fix.madeCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not shut down")
	}
}

func date(t *testing.T, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return time.Date(y, m, d, hh, mm, 0, 0, loc)
}
