package models

import (
	"github.com/google/uuid"
)

// Player represents a draftable player in the registry.
// Franchise is empty until some team drafts the player.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	DOB       string    `json:"dob,omitempty"`
	Position  string    `json:"position,omitempty"`
	Franchise string    `json:"franchise,omitempty"`
	Eligible  bool      `json:"eligible"`
}

// Owned reports whether any franchise already holds this player.
func (p Player) Owned() bool {
	return p.Franchise != ""
}
