// Package runtime owns the connection registry, the delivery router and the
// registration lifecycle. It contains no transport or storage code.
package runtime

import (
	"campusfood/contract"
	"campusfood/domain"
	"campusfood/errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	rec  domain.RegisteredConnection
	sink contract.EventSink
}

// Registry is the identity directory. It keeps a bidirectional index
// (identity -> entry, connection -> identity) under a single mutex, so the
// two views can never drift apart. Room membership is not stored anywhere:
// an identity room is the entry with that identity, a role room is the set
// of entries carrying that role. A connection removed from the directory is
// therefore gone from every room in the same critical section.
type Registry struct {
	mu         sync.RWMutex
	log        *slog.Logger
	byIdentity map[string]entry
	byConn     map[uuid.UUID]string
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:        log,
		byIdentity: make(map[string]entry),
		byConn:     make(map[uuid.UUID]string),
	}
}

// Register installs a RegisteredConnection for the identity. If the identity
// already has a live connection, the previous one is torn down first: most
// recent connection wins. There is no window in which both connections are
// members of the identity room, both teardown and install happen under the
// same lock.
func (r *Registry) Register(identity string, role domain.Role, sink contract.EventSink) (domain.RegisteredConnection, error) {
	if identity == "" {
		return domain.RegisteredConnection{}, errors.ErrInvalidRegistration
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return domain.RegisteredConnection{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byIdentity[identity]; ok && prev.rec.ConnID != sink.ConnID() {
		delete(r.byConn, prev.rec.ConnID)
		r.log.Info("registration superseded",
			"identity", identity,
			"state", domain.StateSuperseded.String(),
			"old_conn", prev.rec.ConnID,
			"new_conn", sink.ConnID(),
		)
	}

	// A connection re-registering under a new identity gives up its old one.
	if prevIdentity, ok := r.byConn[sink.ConnID()]; ok && prevIdentity != identity {
		delete(r.byIdentity, prevIdentity)
	}

	rec := domain.RegisteredConnection{
		Identity:     identity,
		Role:         role,
		ConnID:       sink.ConnID(),
		RegisteredAt: time.Now().UTC(),
	}
	r.byIdentity[identity] = entry{rec: rec, sink: sink}
	r.byConn[sink.ConnID()] = identity
	return rec, nil
}

func (r *Registry) LookupIdentity(identity string) (domain.RegisteredConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byIdentity[identity]
	return e.rec, ok
}

func (r *Registry) LookupConn(connID uuid.UUID) (domain.RegisteredConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.byConn[connID]
	if !ok {
		return domain.RegisteredConnection{}, false
	}
	return r.byIdentity[identity].rec, true
}

// Remove deletes all directory state for the connection. It is idempotent:
// removing a connection that never registered is a no-op, which covers the
// unregistered-disconnect case.
func (r *Registry) Remove(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	// Only drop the identity entry if it still points at this connection:
	// after a supersession the identity already belongs to the newcomer.
	if e, ok := r.byIdentity[identity]; ok && e.rec.ConnID == connID {
		delete(r.byIdentity, identity)
	}
}

// MembersOf resolves an identity room to its live sink, at most one. It
// never falls back to a role scan: an identity spelled like a role name
// stays an identity room, role rooms are reached through MembersOfRole.
func (r *Registry) MembersOf(identity string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.byIdentity[identity]; ok {
		return []contract.EventSink{e.sink}
	}
	return nil
}

// MembersOfRole resolves a role room: one sink per connection currently
// registered under the role, regardless of what its identity is called.
func (r *Registry) MembersOfRole(role domain.Role) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sinks []contract.EventSink
	for _, e := range r.byIdentity {
		if e.rec.Role == role {
			sinks = append(sinks, e.sink)
		}
	}
	return sinks
}

// Snapshot returns every registered sink, for scope-all broadcasts.
func (r *Registry) Snapshot() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.byIdentity))
	for _, e := range r.byIdentity {
		sinks = append(sinks, e.sink)
	}
	return sinks
}

// Count reports the number of live registrations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIdentity)
}
