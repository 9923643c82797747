package schedule

import (
	"fmt"
	"time"
)

// Config holds the clock rules for the draft calendar. It is immutable after
// construction and threaded into Calendar/Resolver explicitly rather than
// living in package-level state.
type Config struct {
	// Location is the reference civil calendar; all slot math is wall-clock
	// in this location, so DST transitions shift instants but not clock times.
	Location *time.Location

	// StartDate is the first calendar day of the draft (time-of-day ignored).
	StartDate time.Time

	// FirstSlotHour..LastSlotHour are the inclusive hourly slot window,
	// e.g. 9..18 for ten picks per day.
	FirstSlotHour int
	LastSlotHour  int

	// OverflowHour is the hour of the first overflow slot for missed picks,
	// e.g. 19 for 7pm.
	OverflowHour int

	// RestWeekday contributes zero slots and is never a slot or overflow day.
	RestWeekday time.Weekday

	// MaxOverflowDays caps the day-by-day overflow walk so resolution always
	// terminates.
	MaxOverflowDays int
}

// DefaultConfig returns the standard rules: hourly slots 9am-6pm, overflow
// from 7pm, Sundays off, ten-year walk cap.
func DefaultConfig(loc *time.Location, startDate time.Time) Config {
	return Config{
		Location:        loc,
		StartDate:       startDate,
		FirstSlotHour:   9,
		LastSlotHour:    18,
		OverflowHour:    19,
		RestWeekday:     time.Sunday,
		MaxOverflowDays: 3650,
	}
}

// SlotsPerDay returns the number of base slots on an eligible day.
func (c Config) SlotsPerDay() int {
	return c.LastSlotHour - c.FirstSlotHour + 1
}

// Validate checks the config for internally consistent clock rules.
func (c Config) Validate() error {
	if c.Location == nil {
		return fmt.Errorf("location is required")
	}
	if c.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if c.FirstSlotHour < 0 || c.FirstSlotHour > 23 {
		return fmt.Errorf("first slot hour %d out of range", c.FirstSlotHour)
	}
	if c.LastSlotHour < c.FirstSlotHour || c.LastSlotHour > 23 {
		return fmt.Errorf("last slot hour %d out of range", c.LastSlotHour)
	}
	if c.OverflowHour <= c.LastSlotHour || c.OverflowHour > 23 {
		return fmt.Errorf("overflow hour %d must be after last slot hour %d and before midnight", c.OverflowHour, c.LastSlotHour)
	}
	if c.MaxOverflowDays <= 0 {
		return fmt.Errorf("max overflow days must be greater than 0")
	}
	return nil
}
