//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"campusfood/domain"
	"campusfood/domain/event"
	"context"
	"reflect"

	"github.com/google/uuid"
)

// EventSink is the outbound half of one live transport connection.
// Send must be safe for concurrent use and must never block on the
// peer: a slow client is the transport's problem, not the registry's.
type EventSink interface {
	ConnID() uuid.UUID
	Send(name event.Name, payload any) error
}

// IRegistry is the identity directory plus the room membership view.
// Rooms are derived from the registered connections, never stored as
// independent sets, so a member can never outlive its registration.
// Identity rooms and role rooms are resolved through separate lookups:
// an identity that happens to spell a role name cannot capture the
// role's traffic.
type IRegistry interface {
	Register(identity string, role domain.Role, sink EventSink) (domain.RegisteredConnection, error)
	LookupIdentity(identity string) (domain.RegisteredConnection, bool)
	LookupConn(connID uuid.UUID) (domain.RegisteredConnection, bool)
	Remove(connID uuid.UUID)
	MembersOf(identity string) []EventSink
	MembersOfRole(role domain.Role) []EventSink
	Snapshot() []EventSink
	Count() int
}

// Outcome of a routing attempt to an identity room. Offline is an
// expected result, not an error.
type Outcome int

const (
	Delivered Outcome = iota
	Offline
)

func (o Outcome) String() string {
	if o == Offline {
		return "offline"
	}
	return "delivered"
}

type IRouter interface {
	RouteToIdentity(identity string, name event.Name, payload any) Outcome
	RouteToRole(role domain.Role, name event.Name, payload any)
	RouteBroadcast(name event.Name, payload any)
	RouteChat(msg domain.ChatMessage) Outcome
}

// HistoryRecorder bridges routed traffic to the document store.
// Both methods are best-effort and non-blocking with respect to delivery.
type HistoryRecorder interface {
	RecordChat(msg domain.ChatMessage)
	RecordAnnouncement(ann domain.Announcement)
}

type IMessageRepository interface {
	Append(msg domain.ChatMessage) error
	Between(idA, idB string) ([]domain.ChatMessage, error)
}

type IAnnouncementRepository interface {
	Append(ann domain.Announcement) error
	All() ([]domain.Announcement, error)
}

type IOrderRepository interface {
	Find(ctx context.Context, orderID int64) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual
// naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
