package models

import (
	"github.com/google/uuid"
)

// PickOverride is a manual scheduled-time override for a single pick.
// RawTime is stored as written by the admin tool; parsing happens at read
// time and a malformed value is treated as if no override existed.
type PickOverride struct {
	PickID  uuid.UUID `json:"pick_id"`
	RawTime string    `json:"scheduled_time"`
}
