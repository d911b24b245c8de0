package api

import (
	"campusfood/domain"
	"campusfood/errors"
	"campusfood/mocks"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T, service *mocks.MockIRealtimeService) http.Handler {
	t.Helper()
	handlers := NewHandlers(slog.Default(), service)
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	return NewRouter(handlers, noop, noop)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChatHistory_Returns_Ascending_Records(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIRealtimeService(ctrl)

	at := time.Now().UTC()
	service.EXPECT().
		ChatHistory("user101", "store202").
		Return([]domain.ChatMessage{
			{ID: uuid.New(), SenderID: "user101", ReceiverID: "store202", SenderRole: domain.RoleStudent, Message: "hi", CreatedAt: at},
		}, nil).
		Times(1)

	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/user101/store202", nil))

	req.Equal(http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	req.Equal(true, body["success"])
	messages := body["messages"].([]any)
	req.Len(messages, 1)
	first := messages[0].(map[string]any)
	req.Equal("hi", first["message"])
	req.Equal("user101", first["senderId"])
}

func TestBroadcast_Permission_Denied(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIRealtimeService(ctrl)

	service.EXPECT().
		Broadcast("user101", domain.RoleStudent, domain.ScopeAll, "free fries").
		Return(domain.Announcement{}, errors.ErrPermissionDenied).
		Times(1)

	payload := `{"senderId":"user101","senderRole":"student","target":"all","message":"free fries"}`
	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/broadcast", strings.NewReader(payload)))

	req.Equal(http.StatusForbidden, rec.Code)
	req.Equal(false, decodeBody(t, rec)["success"])
}

func TestBroadcast_Validates_Body(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIRealtimeService(ctrl)

	// The service is never reached with a malformed body
	service.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	payload := `{"senderId":"store202","target":"everyone","message":""}`
	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/broadcast", strings.NewReader(payload)))

	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestBroadcast_Success(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIRealtimeService(ctrl)

	service.EXPECT().
		Broadcast("store202", domain.RoleStore, domain.ScopeStudent, "daily special").
		Return(domain.Announcement{ID: uuid.New()}, nil).
		Times(1)

	payload := `{"senderId":"store202","senderRole":"store","target":"student","message":"daily special"}`
	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/broadcast", strings.NewReader(payload)))

	req.Equal(http.StatusOK, rec.Code)
	req.Equal(true, decodeBody(t, rec)["success"])
}

func TestOrderStatus_Maps_Core_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"permission denied", errors.ErrPermissionDenied, http.StatusForbidden},
		{"order not found", errors.ErrOrderNotFound, http.StatusNotFound},
		{"upstream unavailable", errors.ErrUpstreamUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			service := mocks.NewMockIRealtimeService(ctrl)

			service.EXPECT().
				UpdateOrderStatus(gomock.Any(), "store202", domain.RoleStore, int64(42), "ready").
				Return(tc.err).
				Times(1)

			payload := `{"senderId":"store202","senderRole":"store","orderId":42,"newStatus":"ready"}`
			rec := httptest.NewRecorder()
			newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/order/status", strings.NewReader(payload)))

			req.Equal(tc.status, rec.Code)
			req.Equal(false, decodeBody(t, rec)["success"])
		})
	}
}

func TestOrderStatus_Success(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIRealtimeService(ctrl)

	service.EXPECT().
		UpdateOrderStatus(gomock.Any(), "store202", domain.RoleStore, int64(42), "delivering").
		Return(nil).
		Times(1)

	payload := `{"senderId":"store202","senderRole":"store","orderId":42,"newStatus":"delivering"}`
	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/order/status", strings.NewReader(payload)))

	req.Equal(http.StatusOK, rec.Code)
	req.Equal(true, decodeBody(t, rec)["success"])
}

func TestAnnouncements_Listing(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIRealtimeService(ctrl)

	service.EXPECT().
		Announcements().
		Return([]domain.Announcement{
			{ID: uuid.New(), Sender: "admin1", Message: "newest", Type: domain.TypeAnnouncement, TargetRole: domain.ScopeAll, CreatedAt: time.Now().UTC()},
		}, nil).
		Times(1)

	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/announcement/all", nil))

	req.Equal(http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	req.Equal(true, body["success"])
	req.Len(body["list"].([]any), 1)
}

func TestHealth(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIRealtimeService(ctrl)

	rec := httptest.NewRecorder()
	newTestRouter(t, service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	req.Equal(http.StatusOK, rec.Code)
}
