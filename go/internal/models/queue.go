package models

import (
	"github.com/google/uuid"
)

// QueuePolicy controls when a team's queued preferences are auto-drafted.
type QueuePolicy string

const (
	// QueuePolicyStartOfClock drafts the queue head the moment the team
	// comes on the clock.
	QueuePolicyStartOfClock QueuePolicy = "start-of-clock"
	// QueuePolicyEndOfClock waits until the pick's deadline has passed.
	// This is the default.
	QueuePolicyEndOfClock QueuePolicy = "end-of-clock"
)

// Valid reports whether p is a known policy value.
func (p QueuePolicy) Valid() bool {
	return p == QueuePolicyStartOfClock || p == QueuePolicyEndOfClock
}

// QueueEntry is one ranked preference in a team's draft queue.
// (Team, PlayerID) is unique; Rank is the preference order, lowest first.
type QueueEntry struct {
	Team     string    `json:"team"`
	PlayerID uuid.UUID `json:"player_id"`
	Rank     int       `json:"rank"`
}
