// Package api exposes the REST surface of the real-time service: chat and
// announcement history, role-gated broadcasts, and order status updates.
package api

import (
	"campusfood/domain"
	"campusfood/domain/event"
	"campusfood/errors"
	"campusfood/services"
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

var validate = validator.New()

type Handlers struct {
	log     *slog.Logger
	service services.IRealtimeService
}

func NewHandlers(log *slog.Logger, service services.IRealtimeService) *Handlers {
	return &Handlers{log: log, service: service}
}

// NewRouter mounts the REST routes plus the websocket endpoint and the
// metrics handler supplied by the caller.
func NewRouter(h *Handlers, ws http.Handler, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/ws", ws)
	r.HandleFunc("/api/chat/{userA}/{userB}", h.ChatHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/announcement/all", h.Announcements).Methods(http.MethodGet)
	r.HandleFunc("/api/broadcast", h.Broadcast).Methods(http.MethodPost)
	r.HandleFunc("/api/order/status", h.OrderStatus).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics).Methods(http.MethodGet)
	return r
}

type chatRecord struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	SenderRole string `json:"senderRole"`
	Message    string `json:"message"`
	CreatedAt  int64  `json:"createdAt"`
}

func (h *Handlers) ChatHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	messages, err := h.service.ChatHistory(vars["userA"], vars["userB"])
	if err != nil {
		h.fail(w, err, "could not fetch chat history")
		return
	}

	records := lo.Map(messages, func(m domain.ChatMessage, _ int) chatRecord {
		return chatRecord{
			SenderID:   m.SenderID,
			ReceiverID: m.ReceiverID,
			SenderRole: string(m.SenderRole),
			Message:    m.Message,
			CreatedAt:  event.Millis(m.CreatedAt),
		}
	})
	respond(w, http.StatusOK, map[string]any{"success": true, "messages": records})
}

func (h *Handlers) Announcements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.service.Announcements()
	if err != nil {
		h.fail(w, err, "could not fetch announcements")
		return
	}

	list := lo.Map(announcements, func(a domain.Announcement, _ int) event.AnnouncementPayload {
		return event.AnnouncementPayload{
			Sender:     a.Sender,
			Message:    a.Message,
			Type:       string(a.Type),
			TargetRole: string(a.TargetRole),
			CreatedAt:  event.Millis(a.CreatedAt),
		}
	})
	respond(w, http.StatusOK, map[string]any{"success": true, "list": list})
}

type broadcastRequest struct {
	SenderID   string `json:"senderId" validate:"required"`
	SenderRole string `json:"senderRole" validate:"required,oneof=student store admin"`
	Target     string `json:"target" validate:"required,oneof=student store admin all"`
	Message    string `json:"message" validate:"required"`
}

func (h *Handlers) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !h.decode(w, r, &req) {
		return
	}

	scope, err := domain.ParseScope(req.Target)
	if err != nil {
		h.fail(w, err, "invalid target scope")
		return
	}
	if _, err := h.service.Broadcast(req.SenderID, domain.Role(req.SenderRole), scope, req.Message); err != nil {
		h.fail(w, err, "broadcast refused")
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true})
}

type orderStatusRequest struct {
	SenderID   string `json:"senderId" validate:"required"`
	SenderRole string `json:"senderRole" validate:"required,oneof=student store admin"`
	OrderID    int64  `json:"orderId" validate:"required"`
	NewStatus  string `json:"newStatus" validate:"required"`
}

func (h *Handlers) OrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.UpdateOrderStatus(r.Context(), req.SenderID, domain.Role(req.SenderRole), req.OrderID, req.NewStatus)
	if err != nil {
		h.fail(w, err, "order status update refused")
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "message": "order status updated and pushed"})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{"success": true})
}

// decode parses and validates a JSON body, answering 400 on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid JSON body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return false
	}
	return true
}

// fail maps core errors to HTTP statuses. All other errors are internal.
func (h *Handlers) fail(w http.ResponseWriter, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case goerrors.Is(err, errors.ErrPermissionDenied):
		status = http.StatusForbidden
	case goerrors.Is(err, errors.ErrOrderNotFound):
		status = http.StatusNotFound
	case goerrors.Is(err, errors.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	case goerrors.Is(err, errors.ErrInvalidScope):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.log.Error(message, "error", err)
	} else {
		h.log.Warn(message, "error", err)
	}
	respond(w, status, map[string]any{"success": false, "message": err.Error()})
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
