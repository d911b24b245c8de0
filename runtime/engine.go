package runtime

import (
	"campusfood/contract"
	"campusfood/domain"
	"campusfood/domain/event"
	"campusfood/errors"
	"campusfood/observability"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Engine drives the per-connection lifecycle: it validates registrations,
// hands registry state to the router, and feeds routed traffic to the
// history recorder. One call per connection event; all cross-connection
// state lives behind the registry's lock.
type Engine struct {
	log      *slog.Logger
	registry contract.IRegistry
	router   contract.IRouter
	history  contract.HistoryRecorder
	orders   contract.IOrderRepository
	metrics  *observability.Metrics
}

// NewEngine wires the delivery core. orders may be nil when no relational
// pool is configured; order updates then answer ErrUpstreamUnavailable.
func NewEngine(log *slog.Logger, registry contract.IRegistry, router contract.IRouter,
	history contract.HistoryRecorder, orders contract.IOrderRepository,
	metrics *observability.Metrics) *Engine {
	return &Engine{
		log:      log,
		registry: registry,
		router:   router,
		history:  history,
		orders:   orders,
		metrics:  metrics,
	}
}

// HandleMessage decodes one inbound frame from a connection and dispatches
// it. Unknown events are logged and ignored, never fatal for the connection.
func (e *Engine) HandleMessage(ctx context.Context, sink contract.EventSink, raw []byte) {
	var env event.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		e.log.Warn("malformed frame", "conn", sink.ConnID(), "error", err)
		return
	}
	switch env.Event {
	case event.RegisterUser:
		e.handleRegister(sink, env.Payload)
	case event.SendChatMessage:
		e.handleChat(sink, env.Payload)
	default:
		e.log.Debug("unknown event", "event", string(env.Event), "conn", sink.ConnID())
	}
}

// handleRegister validates identity and role, then installs the connection
// in the directory. A malformed registration answers auth_error on the same
// connection and leaves it open and unregistered.
func (e *Engine) handleRegister(sink contract.EventSink, payload json.RawMessage) {
	var p event.RegisterUserPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		e.rejectRegistration(sink, "malformed registration payload")
		return
	}
	role, err := domain.ParseRole(p.Role)
	if err != nil || p.ID == "" {
		e.rejectRegistration(sink, errors.ErrInvalidRegistration.Error())
		return
	}

	rec, err := e.registry.Register(p.ID, role, sink)
	if err != nil {
		e.rejectRegistration(sink, err.Error())
		return
	}
	e.metrics.ActiveRegistrations.Set(float64(e.registry.Count()))
	e.log.Info("connection registered",
		"identity", rec.Identity,
		"role", string(rec.Role),
		"state", domain.StateRegistered.String(),
		"rooms", []string{rec.IdentityRoom(), rec.RoleRoom()},
	)
}

func (e *Engine) rejectRegistration(sink contract.EventSink, reason string) {
	e.log.Warn("registration rejected", "conn", sink.ConnID(), "reason", reason)
	if err := sink.Send(event.AuthError, event.AuthErrorPayload{Message: reason}); err != nil {
		e.log.Warn("could not deliver auth_error", "conn", sink.ConnID(), "error", err)
	}
}

// handleChat routes a person-to-person message and records it. A send from
// an unregistered connection is dropped and logged, not queued. Persistence
// is unconditional: an offline receiver still gets the message on record.
func (e *Engine) handleChat(sink contract.EventSink, payload json.RawMessage) {
	sender, ok := e.registry.LookupConn(sink.ConnID())
	if !ok {
		e.metrics.DroppedUnregistered.Inc()
		e.log.Warn("chat message dropped",
			"conn", sink.ConnID(),
			"error", errors.ErrUnregisteredSender,
		)
		return
	}

	var p event.ChatMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		e.log.Warn("malformed chat payload", "conn", sink.ConnID(), "error", err)
		return
	}
	if p.ReceiverID == "" || p.Message == "" {
		e.log.Warn("chat payload missing receiver or message", "sender", sender.Identity)
		return
	}

	msg := domain.ChatMessage{
		ID:         uuid.New(),
		SenderID:   sender.Identity,
		ReceiverID: p.ReceiverID,
		SenderRole: sender.Role,
		Message:    p.Message,
		CreatedAt:  time.Now().UTC(),
	}

	outcome := e.router.RouteChat(msg)
	e.history.RecordChat(msg)
	e.log.Debug("chat routed",
		"sender", msg.SenderID,
		"receiver", msg.ReceiverID,
		"outcome", outcome.String(),
	)
}

// HandleDisconnect tears down all registry state for the connection within
// the same call. Disconnecting a never-registered connection is a no-op.
func (e *Engine) HandleDisconnect(connID uuid.UUID) {
	rec, ok := e.registry.LookupConn(connID)
	e.registry.Remove(connID)
	e.metrics.ActiveRegistrations.Set(float64(e.registry.Count()))
	if ok {
		e.log.Info("connection disconnected",
			"identity", rec.Identity,
			"role", string(rec.Role),
			"state", domain.StateDisconnected.String(),
		)
		return
	}
	e.log.Debug("unregistered connection disconnected", "conn", connID)
}

// Broadcast persists and routes an announcement. Only store and admin roles
// may broadcast; the gate is evaluated before any side effect.
func (e *Engine) Broadcast(sender string, senderRole domain.Role, scope domain.Scope, message string) (domain.Announcement, error) {
	if !senderRole.CanBroadcast() {
		return domain.Announcement{}, errors.ErrPermissionDenied
	}

	ann := domain.Announcement{
		ID:         uuid.New(),
		Sender:     sender,
		Message:    message,
		Type:       domain.TypeAnnouncement,
		TargetRole: scope,
		CreatedAt:  time.Now().UTC(),
	}
	e.history.RecordAnnouncement(ann)

	payload := event.AnnouncementPayload{
		Sender:     ann.Sender,
		Message:    ann.Message,
		Type:       string(ann.Type),
		TargetRole: string(ann.TargetRole),
		CreatedAt:  event.Millis(ann.CreatedAt),
	}
	if scope == domain.ScopeAll {
		e.router.RouteBroadcast(event.NewAnnouncement, payload)
	} else {
		e.router.RouteToRole(scope.Role(), event.NewAnnouncement, payload)
	}
	return ann, nil
}

// UpdateOrderStatus applies a store-initiated status change and pushes the
// update to the owning user and the admin room. The ownership check is fully
// evaluated before any mutation or dispatch; a non-owning store changes
// nothing and nothing is emitted.
func (e *Engine) UpdateOrderStatus(ctx context.Context, senderID string, senderRole domain.Role, orderID int64, newStatus string) error {
	if senderRole != domain.RoleStore {
		return errors.ErrPermissionDenied
	}
	if e.orders == nil {
		return errors.ErrUpstreamUnavailable
	}

	order, err := e.orders.Find(ctx, orderID)
	if err != nil {
		return err
	}
	if senderID != order.OwnerStoreIdentity() {
		return errors.ErrPermissionDenied
	}

	if err := e.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return err
	}
	e.log.Info("order status updated", "order", orderID, "status", newStatus, "updater", senderID)

	payload := event.OrderStatusPayload{
		OrderID:   orderID,
		Status:    newStatus,
		Timestamp: event.Millis(time.Now().UTC()),
		Updater:   senderID,
	}
	e.router.RouteToIdentity(order.OwnerUserIdentity(), event.OrderStatusUpdate, payload)
	e.router.RouteToRole(domain.RoleAdmin, event.OrderStatusUpdate, payload)
	return nil
}
