package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const tempIDPrefix = "temp_"

// NewTempID returns a provisional identifier for a record created while
// offline. Temp IDs are never reused; the record is superseded by the
// server-assigned one after the next sync refresh.
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id is a provisional identifier.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Now returns the current UTC time in the backend's timestamp format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
