package schedule

import (
	"github.com/google/uuid"
)

// ISOMinute is the wire format for schedule times: local offset, minute
// precision.
const ISOMinute = "2006-01-02T15:04-07:00"

// PickInfo describes the pick currently on the clock.
type PickInfo struct {
	ID               uuid.UUID `json:"id"`
	Round            int       `json:"round"`
	Pick             int       `json:"pick"`
	Team             string    `json:"team"`
	Label            string    `json:"pick_label"`
	ScheduledTimeISO string    `json:"scheduled_time_iso"`
	// DeadlineTimeISO is the designated time of the next pick in fixed
	// original order, not the next pick's resolved schedule. Nil for the
	// last pick.
	DeadlineTimeISO *string `json:"deadline_time_iso"`
}

// OnClock returns the index of the undrafted pick with the earliest
// scheduled time, ties broken by ascending original order. The second return
// is false iff every pick has been drafted.
//
// Scheduled time governs priority only; managers may complete a pick before
// its scheduled time arrives.
func (s *Schedule) OnClock() (int, bool) {
	best := -1
	for i, p := range s.Picks {
		if p.Drafted() {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if s.ScheduledTime(i).Before(s.ScheduledTime(best)) {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// OnClockInfo shapes the current pick for status payloads and notifications.
// Returns nil when the draft is complete.
func (s *Schedule) OnClockInfo() *PickInfo {
	idx, ok := s.OnClock()
	if !ok {
		return nil
	}
	p := s.Picks[idx]

	info := &PickInfo{
		ID:               p.ID,
		Round:            p.Round,
		Pick:             p.Pick,
		Team:             p.Team,
		Label:            p.DisplayLabel(),
		ScheduledTimeISO: s.ScheduledTime(idx).Format(ISOMinute),
	}
	if idx+1 < len(s.Picks) {
		deadline := s.designated[idx+1].Format(ISOMinute)
		info.DeadlineTimeISO = &deadline
	}
	return info
}
