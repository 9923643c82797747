package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bnsl/draftd/go/internal/models"
)

func makePicks(n int, team string) []models.Pick {
	picks := make([]models.Pick, n)
	for i := range picks {
		picks[i] = models.Pick{
			ID:      uuid.New(),
			Round:   1,
			Pick:    i + 1,
			Overall: i + 1,
			Team:    team,
		}
	}
	return picks
}

func draft(p *models.Pick, at time.Time) {
	id := uuid.New()
	p.PlayerID = &id
	p.PickedAt = &at
}

func TestResolveAllOnSchedule(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(3, "Atlanta Braves")

	now := time.Date(2025, 11, 1, 8, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	for i := 0; i < 3; i++ {
		require.Equal(t, time.Date(2025, 11, 1, 9+i, 0, 0, 0, cfg.Location), s.ScheduledTime(i))
		require.False(t, s.Missed(i))
	}

	idx, ok := s.OnClock()
	require.True(t, ok)
	require.Equal(t, 0, idx)
}

func TestResolveBeforeDeadlineKeepsDesignated(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(5, "Chicago Cubs")

	// 9:59, pick 0's deadline (pick 1's designated 10:00) not yet reached.
	now := time.Date(2025, 11, 1, 9, 59, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	for i := range picks {
		require.Equal(t, s.Designated(i), s.ScheduledTime(i))
	}
}

func TestMissedPickRollsToOverflow(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(3, "Houston Astros")

	// Pick 0's deadline is pick 1's designated 10:00; at 10:30 it is missed.
	now := time.Date(2025, 11, 1, 10, 30, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	require.True(t, s.Missed(0))
	require.Equal(t, time.Date(2025, 11, 1, 19, 0, 0, 0, cfg.Location), s.ScheduledTime(0))

	// Picks 1 and 2 stay at their designated times.
	require.Equal(t, time.Date(2025, 11, 1, 10, 0, 0, 0, cfg.Location), s.ScheduledTime(1))
	require.Equal(t, time.Date(2025, 11, 1, 11, 0, 0, 0, cfg.Location), s.ScheduledTime(2))

	// Pick 1 is now on the clock: 10:00 sorts before the overflow 19:00 even
	// though pick 0 is numerically earlier.
	idx, ok := s.OnClock()
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestOverflowSlotsIncreaseHourly(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(5, "Boston Red Sox")

	// 13:30: picks 0..3 have deadlines 10,11,12,13 -> all missed; pick 4 alive.
	now := time.Date(2025, 11, 1, 13, 30, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	for j := 0; j < 4; j++ {
		require.Equal(t, time.Date(2025, 11, 1, 19+j, 0, 0, 0, cfg.Location), s.ScheduledTime(j), "overflow slot %d", j)
	}
	require.Equal(t, s.Designated(4), s.ScheduledTime(4))
}

func TestOverflowOrderFollowsDesignatedTime(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(4, "Seattle Mariners")

	// Override swaps pick 0 and pick 1's designated times; the same-day miss
	// bucket must queue by designated time, not by index.
	overrides := map[uuid.UUID]time.Time{
		picks[0].ID: time.Date(2025, 11, 1, 10, 0, 0, 0, cfg.Location),
		picks[1].ID: time.Date(2025, 11, 1, 9, 0, 0, 0, cfg.Location),
	}
	now := time.Date(2025, 11, 1, 12, 30, 0, 0, cfg.Location)
	s := r.Resolve(picks, overrides, now)

	require.True(t, s.Missed(0))
	require.True(t, s.Missed(1))
	require.Equal(t, time.Date(2025, 11, 1, 19, 0, 0, 0, cfg.Location), s.ScheduledTime(1))
	require.Equal(t, time.Date(2025, 11, 1, 20, 0, 0, 0, cfg.Location), s.ScheduledTime(0))
}

func TestReMissCascadesWithCarryoverFirst(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(25, "New York Mets")

	// Picks 0..9 are designated Saturday, 10..19 Monday, 20..24 Tuesday.
	// By Tuesday 10:30 the Saturday and Monday misses have cascaded into
	// Tuesday's overflow, queued ahead of Tuesday's own miss (pick 20). Five
	// evening slots fit per day, so the backlog spills across the week in
	// strict carryover-first order.
	now := time.Date(2025, 11, 4, 10, 30, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	require.True(t, s.Missed(9))
	require.True(t, s.Missed(19))
	require.True(t, s.Missed(20))
	require.False(t, s.Missed(21))

	expectDay := func(i int, y int, m time.Month, d int) {
		t.Helper()
		hour := 19 + i%5
		require.Equal(t, time.Date(y, m, d, hour, 0, 0, 0, cfg.Location), s.ScheduledTime(i), "pick %d", i)
	}

	// Saturday's ten misses head the queue: five on Tuesday, five on Wednesday.
	for i := 0; i < 5; i++ {
		expectDay(i, 2025, 11, 4)
	}
	for i := 5; i < 10; i++ {
		expectDay(i, 2025, 11, 5)
	}
	// Monday's misses follow on Thursday and Friday.
	for i := 10; i < 15; i++ {
		expectDay(i, 2025, 11, 6)
	}
	for i := 15; i < 20; i++ {
		expectDay(i, 2025, 11, 7)
	}
	// Tuesday's own miss lands last, at Saturday's overflow head.
	require.Equal(t, time.Date(2025, 11, 8, 19, 0, 0, 0, cfg.Location), s.ScheduledTime(20))
}

func TestOverflowClampsAtMidnight(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(8, "Philadelphia Phillies")

	// At 18:30 picks 0..6 have passed their deadlines; seven misses compete
	// for Saturday's five evening slots (19:00..23:00). The tail must wait for
	// Monday's overflow head instead of normalizing past midnight onto Sunday.
	now := time.Date(2025, 11, 1, 18, 30, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	for j := 0; j < 5; j++ {
		require.Equal(t, time.Date(2025, 11, 1, 19+j, 0, 0, 0, cfg.Location), s.ScheduledTime(j), "slot %d", j)
	}
	require.Equal(t, time.Date(2025, 11, 3, 19, 0, 0, 0, cfg.Location), s.ScheduledTime(5))
	require.Equal(t, time.Date(2025, 11, 3, 20, 0, 0, 0, cfg.Location), s.ScheduledTime(6))

	for i := 0; i < len(picks); i++ {
		ts := s.ScheduledTime(i)
		require.NotEqual(t, cfg.RestWeekday, ts.Weekday(), "pick %d on rest day", i)
		require.LessOrEqual(t, ts.Hour(), 23, "pick %d past midnight", i)
	}
}

func TestOverflowSkipsRestDay(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(2, "St. Louis Cardinals")

	// Pick 0 missed its Saturday Nov 8 slot and its 19:00 overflow slot is a
	// whole calendar day behind by Monday morning, so it cascades. The
	// cascade must never land on Sunday Nov 9.
	overrides := map[uuid.UUID]time.Time{
		picks[0].ID: time.Date(2025, 11, 8, 9, 0, 0, 0, cfg.Location),
		picks[1].ID: time.Date(2025, 11, 8, 10, 0, 0, 0, cfg.Location),
	}
	now := time.Date(2025, 11, 10, 8, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, overrides, now)

	require.True(t, s.Missed(0))
	got := s.ScheduledTime(0)
	require.Equal(t, time.Date(2025, 11, 10, 19, 0, 0, 0, cfg.Location), got)
	require.NotEqual(t, cfg.RestWeekday, got.Weekday())
}

func TestOverrideMovesDeadlineOfPreviousPick(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(3, "San Diego Padres")

	// Pushing pick 1 out to 15:00 extends pick 0's deadline to 15:00.
	overrides := map[uuid.UUID]time.Time{
		picks[1].ID: time.Date(2025, 11, 1, 15, 0, 0, 0, cfg.Location),
	}
	now := time.Date(2025, 11, 1, 14, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, overrides, now)

	require.False(t, s.Missed(0))
	require.Equal(t, time.Date(2025, 11, 1, 15, 0, 0, 0, cfg.Location), s.NextDeadline(0))
	require.True(t, s.Overridden(1))
	require.False(t, s.Overridden(0))
}

func TestOverrideOntoRestDayRelocates(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(6, "Texas Rangers")

	// Sunday Nov 9 11:00 is never a valid designated time; it relocates to
	// Monday Nov 10 11:00 before miss/overflow logic applies.
	overrides := map[uuid.UUID]time.Time{
		picks[4].ID: time.Date(2025, 11, 9, 11, 0, 0, 0, cfg.Location),
	}
	now := time.Date(2025, 11, 1, 8, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, overrides, now)

	require.Equal(t, time.Date(2025, 11, 10, 11, 0, 0, 0, cfg.Location), s.Designated(4))
	require.NotEqual(t, cfg.RestWeekday, s.Designated(4).Weekday())
}

func TestLastPickNeverMisses(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(1, "Miami Marlins")

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	require.False(t, s.Missed(0))
	require.Equal(t, s.Designated(0), s.ScheduledTime(0))
}

func TestDraftedPicksAreUntouched(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(3, "Detroit Tigers")

	pickedAt := time.Date(2025, 11, 1, 9, 5, 0, 0, cfg.Location)
	draft(&picks[0], pickedAt)
	playerID := *picks[0].PlayerID

	now := time.Date(2025, 12, 25, 12, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	// Assignment is permanent regardless of how late the recomputation runs.
	require.Equal(t, playerID, *s.Picks[0].PlayerID)
	require.False(t, s.Missed(0))

	idx, ok := s.OnClock()
	require.True(t, ok)
	require.NotEqual(t, 0, idx)
}

func TestOnClockNoneWhenDraftComplete(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(2, "Colorado Rockies")
	at := time.Date(2025, 11, 1, 9, 1, 0, 0, cfg.Location)
	draft(&picks[0], at)
	draft(&picks[1], at)

	s := r.Resolve(picks, nil, at.Add(time.Hour))
	_, ok := s.OnClock()
	require.False(t, ok)
	require.Nil(t, s.OnClockInfo())
}

func TestOnClockInfoShaping(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(2, "Cleveland Guardians")
	picks[0].Label = "C1.01"

	now := time.Date(2025, 11, 1, 8, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	info := s.OnClockInfo()
	require.NotNil(t, info)
	require.Equal(t, picks[0].ID, info.ID)
	require.Equal(t, "C1.01", info.Label)
	require.Equal(t, "2025-11-01T09:00-04:00", info.ScheduledTimeISO)
	require.NotNil(t, info.DeadlineTimeISO)
	require.Equal(t, "2025-11-01T10:00-04:00", *info.DeadlineTimeISO)
}

func TestOnClockInfoLastPickHasNoDeadline(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)
	picks := makePicks(1, "Kansas City Royals")

	s := r.Resolve(picks, nil, time.Date(2025, 11, 1, 8, 0, 0, 0, cfg.Location))
	info := s.OnClockInfo()
	require.NotNil(t, info)
	require.Nil(t, info.DeadlineTimeISO)
}

func TestBackstopForcesPlacementAtCap(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxOverflowDays = 2
	r := NewResolver(cfg)
	picks := makePicks(4, "Pittsburgh Pirates")

	// A week later everything has cascaded past the two-day walk cap.
	now := time.Date(2025, 11, 8, 12, 0, 0, 0, cfg.Location)
	s := r.Resolve(picks, nil, now)

	seen := map[time.Time]bool{}
	for i := 0; i < 3; i++ { // picks 0..2 are missed; pick 3 is the last pick
		ts := s.ScheduledTime(i)
		require.False(t, ts.IsZero())
		require.False(t, seen[ts], "duplicate forced slot for pick %d", i)
		seen[ts] = true
	}
}

func TestResolveEmptyOrder(t *testing.T) {
	cfg := testConfig(t)
	r := NewResolver(cfg)

	s := r.Resolve(nil, nil, time.Date(2025, 11, 1, 8, 0, 0, 0, cfg.Location))
	_, ok := s.OnClock()
	require.False(t, ok)
	require.Nil(t, s.OnClockInfo())
}
