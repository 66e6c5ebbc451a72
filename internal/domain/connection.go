// Package domain contains identifiers and errors without logic, just meta-data
package domain

import (
	"github.com/google/uuid"
)

// ConnID is the opaque per-connection identifier handed out at accept time.
type ConnID string

func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}
