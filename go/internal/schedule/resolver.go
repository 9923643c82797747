package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bnsl/draftd/go/internal/models"
)

// Resolver computes, for a fixed pick order, each undrafted pick's designated
// and scheduled times as a pure function of {order, overrides, now}. Nothing
// is persisted between calls: the schedule is always reconstructible from
// durable facts plus the current instant, so skipped ticks, restarts, or
// admin edits can never desynchronize it.
type Resolver struct {
	cfg Config
	cal Calendar
}

// NewResolver creates a Resolver from validated config.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg, cal: NewCalendar(cfg)}
}

// Calendar returns the underlying slot calendar.
func (r *Resolver) Calendar() Calendar {
	return r.cal
}

// Schedule is the result of one resolution pass. Times are in the reference
// location.
type Schedule struct {
	Picks []models.Pick
	Now   time.Time

	designated []time.Time
	deadlines  []time.Time
	scheduled  map[int]time.Time
	overridden map[int]bool
}

// Designated returns the pick's nominal deadline-anchor time: its override if
// one is present and parseable, else its base calendar slot.
func (s *Schedule) Designated(i int) time.Time {
	return s.designated[i]
}

// NextDeadline returns the miss deadline for pick i: the designated time of
// the next pick in fixed original order. The last pick gets an effectively
// infinite deadline and can never be missed.
func (s *Schedule) NextDeadline(i int) time.Time {
	return s.deadlines[i]
}

// ScheduledTime returns the time used for ordering and display right now,
// after miss/overflow rollover.
func (s *Schedule) ScheduledTime(i int) time.Time {
	if t, ok := s.scheduled[i]; ok {
		return t
	}
	return s.designated[i]
}

// Overridden reports whether pick i's designated time came from a manual
// override.
func (s *Schedule) Overridden(i int) bool {
	return s.overridden[i]
}

// Missed reports whether undrafted pick i has passed its original-order
// deadline as of the resolution instant.
func (s *Schedule) Missed(i int) bool {
	return !s.Picks[i].Drafted() && !s.Now.Before(s.deadlines[i])
}

type dateKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dateKey {
	return dateKey{t.Year(), t.Month(), t.Day()}
}

// Resolve runs the two-pass schedule computation.
//
// Pass 1 classifies every undrafted pick as missed or on schedule, bucketing
// misses by the calendar day of their own designated time. Pass 2 walks
// eligible days in order, queueing carryover ahead of that day's misses
// (sorted by designated time) into hourly overflow slots; an entry whose
// overflow deadline has itself passed, or whose slot day is already behind
// now's calendar day, cascades to the next eligible day. A day holds at most
// 24-OverflowHour overflow slots; entries past the last pre-midnight hour
// cascade rather than normalize onto the following day, which could be the
// rest day. The walk is capped and leftovers are force-placed, so the result
// is always total.
func (r *Resolver) Resolve(picks []models.Pick, overrides map[uuid.UUID]time.Time, now time.Time) *Schedule {
	now = now.In(r.cfg.Location)
	s := &Schedule{
		Picks:      picks,
		Now:        now,
		designated: make([]time.Time, len(picks)),
		deadlines:  make([]time.Time, len(picks)),
		scheduled:  make(map[int]time.Time, len(picks)),
		overridden: make(map[int]bool),
	}
	if len(picks) == 0 {
		return s
	}

	for i, p := range picks {
		if ov, ok := overrides[p.ID]; ok {
			s.designated[i] = r.cal.RelocateOffRestDay(ov)
			s.overridden[i] = true
		} else {
			s.designated[i] = r.cal.BaseSlot(i)
		}
	}

	for i := range picks {
		if i+1 < len(picks) {
			s.deadlines[i] = s.designated[i+1]
		} else {
			s.deadlines[i] = s.designated[i].AddDate(100, 0, 0)
		}
	}

	// Pass 1: split undrafted picks into on-schedule and per-day miss buckets.
	undrafted := 0
	missedByDay := make(map[dateKey][]int)
	for i, p := range picks {
		if p.Drafted() {
			continue
		}
		undrafted++
		if !now.Before(s.deadlines[i]) {
			k := keyOf(s.designated[i])
			missedByDay[k] = append(missedByDay[k], i)
		} else {
			s.scheduled[i] = s.designated[i]
		}
	}

	// Within-day miss order follows the original schedule, not insertion order.
	for _, idxs := range missedByDay {
		sort.SliceStable(idxs, func(a, b int) bool {
			da, db := s.designated[idxs[a]], s.designated[idxs[b]]
			if da.Equal(db) {
				return idxs[a] < idxs[b]
			}
			return da.Before(db)
		})
	}

	// Pass 2: day-by-day overflow walk with carryover-first queueing.
	day := dateOnly(s.designated[0], r.cfg.Location)
	for _, d := range s.designated[1:] {
		if dd := dateOnly(d, r.cfg.Location); dd.Before(day) {
			day = dd
		}
	}
	nowDay := dateOnly(now, r.cfg.Location)

	maxSlots := 24 - r.cfg.OverflowHour

	var carryover []int
	for walked := 0; len(s.scheduled) < undrafted && walked < r.cfg.MaxOverflowDays; walked++ {
		queue := append(append([]int(nil), carryover...), missedByDay[keyOf(day)]...)
		delete(missedByDay, keyOf(day))
		carryover = nil

		for j, idx := range queue {
			if j >= maxSlots {
				// No hours left before midnight; the tail waits for the next
				// eligible day's overflow head.
				carryover = append(carryover, queue[j:]...)
				break
			}
			slot := time.Date(day.Year(), day.Month(), day.Day(), r.cfg.OverflowHour+j, 0, 0, 0, r.cfg.Location)

			var slotDeadline time.Time
			if j+1 < len(queue) && j+1 < maxSlots {
				slotDeadline = time.Date(day.Year(), day.Month(), day.Day(), r.cfg.OverflowHour+j+1, 0, 0, 0, r.cfg.Location)
			} else {
				next := r.cal.NextEligibleDay(day)
				slotDeadline = time.Date(next.Year(), next.Month(), next.Day(), r.cfg.FirstSlotHour, 0, 0, 0, r.cfg.Location)
			}

			if !now.Before(slotDeadline) || day.Before(nowDay) {
				carryover = append(carryover, idx)
			} else {
				s.scheduled[idx] = slot
			}
		}

		day = r.cal.NextEligibleDay(day)
	}

	// Backstop: force-place anything still unresolved across the following
	// eligible days' overflow slots, in queue order. Degenerate but always
	// defined, and still bounded by the pre-midnight slot window.
	if len(s.scheduled) < undrafted {
		leftovers := append([]int(nil), carryover...)
		var rest []int
		for _, idxs := range missedByDay {
			rest = append(rest, idxs...)
		}
		sort.SliceStable(rest, func(a, b int) bool {
			return s.designated[rest[a]].Before(s.designated[rest[b]])
		})
		leftovers = append(leftovers, rest...)

		for j, idx := range leftovers {
			if j > 0 && j%maxSlots == 0 {
				day = r.cal.NextEligibleDay(day)
			}
			s.scheduled[idx] = time.Date(day.Year(), day.Month(), day.Day(), r.cfg.OverflowHour+j%maxSlots, 0, 0, 0, r.cfg.Location)
		}
	}

	return s
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
