package runtime

import (
	"campusfood/contract"
	"campusfood/domain"
	"campusfood/domain/event"
	"campusfood/observability"
	"fmt"
	"log/slog"
)

// SystemSender is the synthetic identity used for offline notices.
const SystemSender = "System"

// Router resolves a delivery target to the live member sinks and dispatches
// a payload to each of them. Member sets are snapshotted by the registry
// under its lock; dispatch happens on the snapshot, so a transport write can
// never block the registry and a member disconnecting mid-dispatch only
// fails its own write.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
	metrics  *observability.Metrics
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, metrics *observability.Metrics) *Router {
	return &Router{log: log, registry: registry, metrics: metrics}
}

// RouteToIdentity dispatches to the identity room. An empty room is the
// offline outcome, expected and error-free.
func (r *Router) RouteToIdentity(identity string, name event.Name, payload any) contract.Outcome {
	members := r.registry.MembersOf(identity)
	if len(members) == 0 {
		r.metrics.IdentityRoutes.WithLabelValues(contract.Offline.String()).Inc()
		return contract.Offline
	}
	r.dispatch(members, name, payload)
	r.metrics.IdentityRoutes.WithLabelValues(contract.Delivered.String()).Inc()
	return contract.Delivered
}

// RouteToRole dispatches to every connection currently registered under the
// role. An empty role room is a valid no-op.
func (r *Router) RouteToRole(role domain.Role, name event.Name, payload any) {
	r.dispatch(r.registry.MembersOfRole(role), name, payload)
}

// RouteBroadcast dispatches to every registered connection regardless of role.
func (r *Router) RouteBroadcast(name event.Name, payload any) {
	r.dispatch(r.registry.Snapshot(), name, payload)
}

// RouteChat delivers a person-to-person message to the receiver's identity
// room. When the receiver is offline, exactly one system notice goes back to
// the sender; a failure to deliver the notice is swallowed.
func (r *Router) RouteChat(msg domain.ChatMessage) contract.Outcome {
	payload := event.ChatMessagePayload{
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Message:    msg.Message,
		Timestamp:  event.Millis(msg.CreatedAt),
	}
	outcome := r.RouteToIdentity(msg.ReceiverID, event.ReceiveChatMessage, payload)
	if outcome == contract.Offline {
		r.log.Debug("receiver offline, notifying sender",
			"sender", msg.SenderID, "receiver", msg.ReceiverID)
		notice := event.ChatMessagePayload{
			SenderID:  SystemSender,
			Message:   fmt.Sprintf("User %s is offline, the message was stored but may not be seen immediately.", msg.ReceiverID),
			Timestamp: event.Millis(msg.CreatedAt),
			IsSystem:  true,
		}
		r.RouteToIdentity(msg.SenderID, event.ReceiveChatMessage, notice)
	}
	return outcome
}

// dispatch writes the payload to every member. Failures are isolated: one
// broken transport must not prevent attempted delivery to the others.
func (r *Router) dispatch(members []contract.EventSink, name event.Name, payload any) {
	for _, sink := range members {
		if err := sink.Send(name, payload); err != nil {
			r.metrics.DispatchFailures.Inc()
			r.log.Warn("dispatch failed",
				"event", string(name),
				"conn", sink.ConnID(),
				"error", err,
			)
			continue
		}
		r.metrics.Dispatches.Inc()
	}
}
