package schedule

import (
	"time"
)

// Calendar maps linear pick indexes to base slot times in the reference
// location, skipping the configured rest weekday entirely.
type Calendar struct {
	cfg Config
}

// NewCalendar creates a Calendar from validated config.
func NewCalendar(cfg Config) Calendar {
	return Calendar{cfg: cfg}
}

// BaseSlot returns the designated base time for pick index i (0-based),
// ignoring overrides and misses. Slots run hourly FirstSlotHour..LastSlotHour
// on eligible days; a rest day contributes zero slots.
func (c Calendar) BaseSlot(i int) time.Time {
	perDay := c.cfg.SlotsPerDay()
	dayIdx, hourOff := i/perDay, i%perDay

	day := c.EligibleDay(dayIdx)
	return time.Date(day.Year(), day.Month(), day.Day(), c.cfg.FirstSlotHour+hourOff, 0, 0, 0, c.cfg.Location)
}

// EligibleDay returns the offset-th eligible calendar day of the draft,
// counting from the start date. Offset 0 is the first non-rest day at or
// after the start date.
func (c Calendar) EligibleDay(offset int) time.Time {
	day := c.dateOf(c.cfg.StartDate)
	for day.Weekday() == c.cfg.RestWeekday {
		day = day.AddDate(0, 0, 1)
	}
	for ; offset > 0; offset-- {
		day = c.NextEligibleDay(day)
	}
	return day
}

// NextEligibleDay returns the first non-rest calendar day strictly after day.
func (c Calendar) NextEligibleDay(day time.Time) time.Time {
	next := c.dateOf(day).AddDate(0, 0, 1)
	for next.Weekday() == c.cfg.RestWeekday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RelocateOffRestDay moves t to the same wall-clock time on the next
// eligible day if it falls on the rest weekday; otherwise t is returned
// unchanged. Applied to override values before any miss/overflow logic.
func (c Calendar) RelocateOffRestDay(t time.Time) time.Time {
	local := t.In(c.cfg.Location)
	if local.Weekday() != c.cfg.RestWeekday {
		return local
	}
	day := c.NextEligibleDay(local)
	return time.Date(day.Year(), day.Month(), day.Day(), local.Hour(), local.Minute(), local.Second(), 0, c.cfg.Location)
}

// dateOf truncates t to midnight in the reference location.
func (c Calendar) dateOf(t time.Time) time.Time {
	local := t.In(c.cfg.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.cfg.Location)
}
