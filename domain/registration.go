package domain

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationState tracks the lifecycle of one RegisteredConnection instance.
// Superseded and Disconnected are terminal: a reconnect creates a fresh
// instance rather than reviving an old one.
type RegistrationState int

const (
	StateRegistered RegistrationState = iota
	StateSuperseded
	StateDisconnected
)

func (s RegistrationState) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateSuperseded:
		return "superseded"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// RegisteredConnection binds a logical identity and role to one live
// transport connection. At any instant the directory holds at most one
// per identity and at most one per connection.
type RegisteredConnection struct {
	Identity     string
	Role         Role
	ConnID       uuid.UUID
	RegisteredAt time.Time
}

// IdentityRoom is the 1:1 delivery group of a registered connection.
func (rc RegisteredConnection) IdentityRoom() string {
	return rc.Identity
}

// RoleRoom is the 1:many delivery group shared by all connections of a role.
func (rc RegisteredConnection) RoleRoom() string {
	return string(rc.Role)
}
