package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// Nov 1, 2025 is a Saturday; Nov 2 is a Sunday (and a DST fall-back day).
	return DefaultConfig(loc, time.Date(2025, 11, 1, 0, 0, 0, 0, loc))
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Validate())
	require.Equal(t, 10, cfg.SlotsPerDay())

	bad := cfg
	bad.OverflowHour = cfg.LastSlotHour
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Location = nil
	require.Error(t, bad.Validate())

	bad = cfg
	bad.MaxOverflowDays = 0
	require.Error(t, bad.Validate())
}

func TestBaseSlotHourlyWithinDay(t *testing.T) {
	cfg := testConfig(t)
	cal := NewCalendar(cfg)

	for i := 0; i < cfg.SlotsPerDay(); i++ {
		slot := cal.BaseSlot(i)
		require.Equal(t, time.Date(2025, 11, 1, 9+i, 0, 0, 0, cfg.Location), slot, "slot %d", i)
	}
}

func TestBaseSlotSkipsRestDay(t *testing.T) {
	cfg := testConfig(t)
	cal := NewCalendar(cfg)

	// Day two of slots lands on Monday Nov 3: Sunday contributes zero slots.
	require.Equal(t, time.Date(2025, 11, 3, 9, 0, 0, 0, cfg.Location), cal.BaseSlot(10))

	for i := 0; i < 200; i++ {
		slot := cal.BaseSlot(i)
		require.NotEqual(t, cfg.RestWeekday, slot.Weekday(), "slot %d fell on rest day", i)
		require.GreaterOrEqual(t, slot.Hour(), cfg.FirstSlotHour)
		require.LessOrEqual(t, slot.Hour(), cfg.LastSlotHour)
	}
}

func TestEligibleDayStartingOnRestDay(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartDate = time.Date(2025, 11, 2, 0, 0, 0, 0, cfg.Location) // Sunday
	cal := NewCalendar(cfg)

	require.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, cfg.Location), cal.EligibleDay(0))
	// Offset 5 from Monday Nov 3 skips Sunday Nov 9.
	require.Equal(t, time.Date(2025, 11, 10, 0, 0, 0, 0, cfg.Location), cal.EligibleDay(5))
}

func TestNextEligibleDaySkipsRest(t *testing.T) {
	cfg := testConfig(t)
	cal := NewCalendar(cfg)

	sat := time.Date(2025, 11, 1, 0, 0, 0, 0, cfg.Location)
	require.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, cfg.Location), cal.NextEligibleDay(sat))

	mon := time.Date(2025, 11, 3, 0, 0, 0, 0, cfg.Location)
	require.Equal(t, time.Date(2025, 11, 4, 0, 0, 0, 0, cfg.Location), cal.NextEligibleDay(mon))
}

func TestRelocateOffRestDay(t *testing.T) {
	cfg := testConfig(t)
	cal := NewCalendar(cfg)

	sun := time.Date(2025, 11, 9, 14, 30, 0, 0, cfg.Location)
	moved := cal.RelocateOffRestDay(sun)
	require.Equal(t, time.Date(2025, 11, 10, 14, 30, 0, 0, cfg.Location), moved)

	mon := time.Date(2025, 11, 10, 14, 30, 0, 0, cfg.Location)
	require.Equal(t, mon, cal.RelocateOffRestDay(mon))
}

func TestBaseSlotDSTWallClock(t *testing.T) {
	cfg := testConfig(t)
	cal := NewCalendar(cfg)

	// Nov 2, 2025 is the fall-back transition. Wall-clock hours must hold on
	// both sides of it.
	require.Equal(t, 9, cal.BaseSlot(0).Hour())  // Sat Nov 1 (EDT)
	require.Equal(t, 9, cal.BaseSlot(10).Hour()) // Mon Nov 3 (EST)
}
