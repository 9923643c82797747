package sqlutil

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// NullUUIDPtr converts a nullable uuid column to a pointer.
func NullUUIDPtr(v uuid.NullUUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	u := v.UUID
	return &u
}

// NullTimePtr converts a nullable timestamp column to a pointer.
func NullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
