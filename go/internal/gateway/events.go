package gateway

import (
	"encoding/json"
	"time"
)

// BoardEvent is the envelope pushed to every connected client.
type BoardEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of board event.
type EventType string

const (
	EventTypePickMade       EventType = "PickMade"
	EventTypeOnClockChanged EventType = "OnClockChanged"
)
