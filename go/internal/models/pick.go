package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pick represents one slot in the fixed draft order. The order is created
// once and never reordered or resized; the only mutation a Pick ever sees is
// the one-way Unassigned -> Assigned transition when a player is drafted.
type Pick struct {
	ID       uuid.UUID  `json:"id"`
	Round    int        `json:"round"`
	Pick     int        `json:"pick"`    // pick number in the round
	Overall  int        `json:"overall"` // 1-based position in the full order
	Team     string     `json:"team"`
	Label    string     `json:"label,omitempty"`
	PlayerID *uuid.UUID `json:"player_id,omitempty"` // nil until drafted
	PickedAt *time.Time `json:"picked_at,omitempty"`
}

// Drafted reports whether a player has been assigned to this pick.
func (p Pick) Drafted() bool {
	return p.PlayerID != nil
}

// DisplayLabel returns the stored label, falling back to "round.pick".
func (p Pick) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("%d.%d", p.Round, p.Pick)
}
