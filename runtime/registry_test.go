package runtime

import (
	"campusfood/domain"
	"campusfood/errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register_One_Identity(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	sink := newFakeSink()

	// Given an empty directory
	req.Zero(registry.Count())

	// When a student registers
	rec, err := registry.Register("user101", domain.RoleStudent, sink)

	// Then the directory holds the mapping in both directions
	req.NoError(err)
	req.Equal("user101", rec.Identity)
	req.Equal(domain.RoleStudent, rec.Role)
	req.Equal(sink.ConnID(), rec.ConnID)

	byIdentity, ok := registry.LookupIdentity("user101")
	req.True(ok)
	req.Equal(rec, byIdentity)

	byConn, ok := registry.LookupConn(sink.ConnID())
	req.True(ok)
	req.Equal(rec, byConn)

	// And the connection is a member of its identity room and role room
	req.Len(registry.MembersOf("user101"), 1)
	req.Len(registry.MembersOfRole(domain.RoleStudent), 1)
}

func TestRegistry_Register_Invalid(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())

	// When registering with an empty identity
	_, err := registry.Register("", domain.RoleStudent, newFakeSink())

	// Then no RegisteredConnection is created
	req.ErrorIs(err, errors.ErrInvalidRegistration)
	req.Zero(registry.Count())

	// When registering with a role outside the closed set
	_, err = registry.Register("user101", domain.Role("teacher"), newFakeSink())

	req.ErrorIs(err, errors.ErrInvalidRegistration)
	req.Zero(registry.Count())
}

func TestRegistry_Reconnect_Supersedes_Previous(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	first := newFakeSink()
	second := newFakeSink()

	// Given a store registered on a first connection
	_, err := registry.Register("store202", domain.RoleStore, first)
	req.NoError(err)

	// When the same identity registers on a new connection
	rec, err := registry.Register("store202", domain.RoleStore, second)
	req.NoError(err)

	// Then exactly one RegisteredConnection exists for the identity
	req.Equal(1, registry.Count())
	req.Equal(second.ConnID(), rec.ConnID)

	// And the first connection is gone from the identity room and role room
	members := registry.MembersOf("store202")
	req.Len(members, 1)
	req.Equal(second.ConnID(), members[0].ConnID())

	roleMembers := registry.MembersOfRole(domain.RoleStore)
	req.Len(roleMembers, 1)
	req.Equal(second.ConnID(), roleMembers[0].ConnID())

	// And the superseded connection no longer resolves
	_, ok := registry.LookupConn(first.ConnID())
	req.False(ok)
}

func TestRegistry_Remove_Superseded_Connection_Keeps_Newcomer(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	first := newFakeSink()
	second := newFakeSink()

	// Given a reconnect already superseded the first connection
	_, err := registry.Register("store202", domain.RoleStore, first)
	req.NoError(err)
	_, err = registry.Register("store202", domain.RoleStore, second)
	req.NoError(err)

	// When the stale transport finally reports its disconnect
	registry.Remove(first.ConnID())

	// Then the newcomer's registration survives
	rec, ok := registry.LookupIdentity("store202")
	req.True(ok)
	req.Equal(second.ConnID(), rec.ConnID)
}

func TestRegistry_Remove_Never_Registered_Is_Noop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	_, err := registry.Register("user101", domain.RoleStudent, newFakeSink())
	req.NoError(err)

	// When removing a connection that never registered
	registry.Remove(uuid.New())

	// Then nothing changes
	req.Equal(1, registry.Count())
}

func TestRegistry_MembersOf_Role_Is_Exact(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	student1 := newFakeSink()
	student2 := newFakeSink()
	store := newFakeSink()

	_, err := registry.Register("user101", domain.RoleStudent, student1)
	req.NoError(err)
	_, err = registry.Register("user102", domain.RoleStudent, student2)
	req.NoError(err)
	_, err = registry.Register("store202", domain.RoleStore, store)
	req.NoError(err)

	// Then the student room holds exactly the student connections
	members := registry.MembersOfRole(domain.RoleStudent)
	req.Len(members, 2)
	ids := []uuid.UUID{members[0].ConnID(), members[1].ConnID()}
	req.Contains(ids, student1.ConnID())
	req.Contains(ids, student2.ConnID())

	// And a disconnected student leaves the role room synchronously
	registry.Remove(student1.ConnID())
	members = registry.MembersOfRole(domain.RoleStudent)
	req.Len(members, 1)
	req.Equal(student2.ConnID(), members[0].ConnID())

	// And the whole directory is visible through Snapshot
	req.Len(registry.Snapshot(), 2)
}

func TestRegistry_MembersOf_Unknown_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())

	// Identities nobody registered, and a role with no members
	req.Nil(registry.MembersOf("user999"))
	req.Nil(registry.MembersOf("ghost-room"))
	req.Nil(registry.MembersOfRole(domain.RoleAdmin))
}

func TestRegistry_Identity_Named_Like_Role_Does_Not_Capture_Role_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	impostor := newFakeSink()
	student := newFakeSink()

	// Given a connection registered under the identity "student"
	_, err := registry.Register("student", domain.RoleStore, impostor)
	req.NoError(err)
	_, err = registry.Register("user101", domain.RoleStudent, student)
	req.NoError(err)

	// Then the student role room holds the genuine student and nobody else
	members := registry.MembersOfRole(domain.RoleStudent)
	req.Len(members, 1)
	req.Equal(student.ConnID(), members[0].ConnID())

	// And the identity room resolves to the identity, not the role
	identityMembers := registry.MembersOf("student")
	req.Len(identityMembers, 1)
	req.Equal(impostor.ConnID(), identityMembers[0].ConnID())
}
