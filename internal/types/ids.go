package types

import (
	"time"

	"github.com/google/uuid"
)

// NewTypeID generates a random identifier for a caller-defined catalog type.
// Built-in types carry fixed IDs from the catalog data and never call this.
func NewTypeID() TypeID {
	return TypeID(uuid.New().String())
}

// NewDetectionID generates a UUIDv7 identifier for a recorded detection.
// Time-ordered IDs keep sequential inserts clustered in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewDetectionID() DetectionID {
	return DetectionID(uuid.Must(uuid.NewV7()).String())
}

// ParseTypeID validates and converts a string to TypeID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseTypeID(s string) (TypeID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return TypeID(s), nil
}

// ParseDetectionID validates and converts a string to DetectionID.
func ParseDetectionID(s string) (DetectionID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return DetectionID(s), nil
}

// DetectionIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func DetectionIDTime(id DetectionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
