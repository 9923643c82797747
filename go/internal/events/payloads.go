package events

import (
	"time"

	"github.com/bnsl/draftd/go/internal/schedule"
)

// Event type names as stored in the outbox and carried on the bus.
const (
	TypePickMade       = "PickMade"
	TypeOnClockChanged = "OnClockChanged"
)

// PickMadePayload is emitted whenever a pick is completed, whether by a
// manager or by queue enforcement.
type PickMadePayload struct {
	PickID     string    `json:"pick_id"`
	Round      int       `json:"round"`
	Pick       int       `json:"pick"`
	Overall    int       `json:"overall"`
	Team       string    `json:"team"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Auto       bool      `json:"auto"`
	PickedAt   time.Time `json:"picked_at"`
}

// OnClockChangedPayload is emitted when the pick on the clock changes
// identity. Pick is nil once the draft is complete.
type OnClockChangedPayload struct {
	Pick      *schedule.PickInfo `json:"pick"`
	ChangedAt time.Time          `json:"changed_at"`
}
