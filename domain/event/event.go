// Package event defines the wire-level events exchanged with connected
// clients. Payloads keep the field names the frontend expects; timestamps
// travel as unix milliseconds.
package event

import (
	"encoding/json"
	"time"
)

type Name string

// Inbound events.
const (
	RegisterUser    Name = "register_user"
	SendChatMessage Name = "send_chat_message"
)

// Outbound events.
const (
	ReceiveChatMessage Name = "receive_chat_message"
	NewAnnouncement    Name = "new_announcement"
	OrderStatusUpdate  Name = "order_status_update"
	AuthError          Name = "auth_error"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event   Name            `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps a payload into a JSON envelope ready for the transport.
func Encode(name Name, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: name, Payload: raw})
}

// Millis converts a timestamp to the epoch-milliseconds the clients use.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

type RegisterUserPayload struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type ChatMessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId,omitempty"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp,omitempty"`
	IsSystem   bool   `json:"isSystem,omitempty"`
}

type AnnouncementPayload struct {
	Sender     string `json:"sender"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	TargetRole string `json:"targetRole"`
	CreatedAt  int64  `json:"createdAt"`
}

type OrderStatusPayload struct {
	OrderID   int64  `json:"orderId"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Updater   string `json:"updater"`
}

type AuthErrorPayload struct {
	Message string `json:"message"`
}
