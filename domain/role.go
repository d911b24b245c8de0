// Package domain contains core concepts of the real-time layer.
// This file defines the closed set of roles and broadcast scopes.
// No runtime, network, or UI logic should be added here.
package domain

import "campusfood/errors"

type Role string

const (
	RoleStudent Role = "student"
	RoleStore   Role = "store"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role string against the closed role set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent, RoleStore, RoleAdmin:
		return Role(raw), nil
	default:
		return "", errors.ErrInvalidRegistration
	}
}

// CanBroadcast reports whether the role may publish announcements.
func (r Role) CanBroadcast() bool {
	return r == RoleStore || r == RoleAdmin
}

// Scope is the audience of an announcement: a single role or everyone.
type Scope string

const (
	ScopeStudent Scope = "student"
	ScopeStore   Scope = "store"
	ScopeAdmin   Scope = "admin"
	ScopeAll     Scope = "all"
)

func ParseScope(raw string) (Scope, error) {
	switch Scope(raw) {
	case ScopeStudent, ScopeStore, ScopeAdmin, ScopeAll:
		return Scope(raw), nil
	default:
		return "", errors.ErrInvalidScope
	}
}

// Role returns the role room matching the scope.
// Only valid for single-role scopes, never for ScopeAll.
func (s Scope) Role() Role {
	return Role(s)
}
