package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// InvocationID identifies one pipeline invocation. Each submitted file gets
// its own InvocationID and its results never cross invocations.
type InvocationID ID

// NewInvocationID creates a new invocation identifier
func NewInvocationID() InvocationID { return InvocationID(NewID()) }

// String returns the string representation
func (id InvocationID) String() string { return ID(id).String() }

// ParseInvocationID parses a string into InvocationID
func ParseInvocationID(s string) (InvocationID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("invocation ID cannot be empty")
	}
	return InvocationID(s), nil
}
