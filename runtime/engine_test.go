package runtime

import (
	"campusfood/domain"
	"campusfood/domain/event"
	"campusfood/errors"
	"campusfood/mocks"
	"campusfood/observability"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type engineFixture struct {
	engine   *Engine
	registry *Registry
	history  *mocks.MockHistoryRecorder
	orders   *mocks.MockIOrderRepository
}

func newEngineFixture(t *testing.T, ctrl *gomock.Controller) engineFixture {
	t.Helper()
	log := slog.Default()
	metrics := observability.NewMetrics()
	registry := NewRegistry(log)
	router := NewRouter(log, registry, metrics)
	history := mocks.NewMockHistoryRecorder(ctrl)
	orders := mocks.NewMockIOrderRepository(ctrl)
	engine := NewEngine(log, registry, router, history, orders, metrics)
	return engineFixture{engine: engine, registry: registry, history: history, orders: orders}
}

func frame(t *testing.T, name event.Name, payload string) []byte {
	t.Helper()
	return []byte(fmt.Sprintf(`{"event":%q,"payload":%s}`, string(name), payload))
}

func TestEngine_Register_And_Chat_End_To_End(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	ctx := context.Background()

	student := newFakeSink()
	store := newFakeSink()

	// Given both parties registered
	f.engine.HandleMessage(ctx, student, frame(t, event.RegisterUser, `{"id":"user101","role":"student"}`))
	f.engine.HandleMessage(ctx, store, frame(t, event.RegisterUser, `{"id":"store202","role":"store"}`))
	req.Equal(2, f.registry.Count())

	// Then the message is persisted with the registered sender and role
	f.history.EXPECT().
		RecordChat(gomock.Any()).
		Do(func(msg domain.ChatMessage) {
			req.Equal("user101", msg.SenderID)
			req.Equal("store202", msg.ReceiverID)
			req.Equal(domain.RoleStudent, msg.SenderRole)
			req.Equal("hi", msg.Message)
		}).
		Times(1)

	// When the student sends a chat message
	f.engine.HandleMessage(ctx, student, frame(t, event.SendChatMessage, `{"senderId":"user101","receiverId":"store202","message":"hi"}`))

	// And the store's connection received it
	frames := store.sent()
	req.Len(frames, 1)
	req.Equal(event.ReceiveChatMessage, frames[0].name)
	payload := frames[0].payload.(event.ChatMessagePayload)
	req.Equal("hi", payload.Message)
	req.Equal("user101", payload.SenderID)
}

func TestEngine_Register_Missing_Fields_Rejected(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	sink := newFakeSink()

	// When registering without a role
	f.engine.HandleMessage(context.Background(), sink, frame(t, event.RegisterUser, `{"id":"user101"}`))

	// Then no RegisteredConnection was created and auth_error was emitted
	req.Zero(f.registry.Count())
	frames := sink.sent()
	req.Len(frames, 1)
	req.Equal(event.AuthError, frames[0].name)

	// Same for a missing identity
	sink2 := newFakeSink()
	f.engine.HandleMessage(context.Background(), sink2, frame(t, event.RegisterUser, `{"role":"student"}`))
	req.Zero(f.registry.Count())
	req.Len(sink2.sent(), 1)
}

func TestEngine_Chat_From_Unregistered_Is_Dropped(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	stranger := newFakeSink()

	// The history recorder must never see the message
	f.history.EXPECT().RecordChat(gomock.Any()).Times(0)

	// When an unregistered connection sends a chat message
	f.engine.HandleMessage(context.Background(), stranger, frame(t, event.SendChatMessage, `{"receiverId":"store202","message":"hi"}`))

	// Then nothing was emitted back: dropped, not queued, not retried
	req.Empty(stranger.sent())
}

func TestEngine_Chat_To_Offline_Receiver_Still_Persisted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	ctx := context.Background()
	sender := newFakeSink()

	f.engine.HandleMessage(ctx, sender, frame(t, event.RegisterUser, `{"id":"user101","role":"student"}`))

	// Persistence is unconditional, independent of the delivery outcome
	f.history.EXPECT().RecordChat(gomock.Any()).Times(1)

	f.engine.HandleMessage(ctx, sender, frame(t, event.SendChatMessage, `{"receiverId":"user999","message":"hello?"}`))

	// And the sender received exactly one system notice
	frames := sender.sent()
	req.Len(frames, 1)
	payload := frames[0].payload.(event.ChatMessagePayload)
	req.True(payload.IsSystem)
}

func TestEngine_Disconnect_Unregistered_Is_Noop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)

	f.engine.HandleDisconnect(uuid.New())

	req.Zero(f.registry.Count())
}

func TestEngine_Disconnect_Removes_Registration(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	sink := newFakeSink()

	f.engine.HandleMessage(context.Background(), sink, frame(t, event.RegisterUser, `{"id":"user101","role":"student"}`))
	req.Equal(1, f.registry.Count())

	f.engine.HandleDisconnect(sink.ConnID())

	req.Zero(f.registry.Count())
	req.Nil(f.registry.MembersOfRole(domain.RoleStudent))
}

func TestEngine_Broadcast_Role_Gate(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)

	// A student may not broadcast; no announcement is persisted
	f.history.EXPECT().RecordAnnouncement(gomock.Any()).Times(0)

	_, err := f.engine.Broadcast("user101", domain.RoleStudent, domain.ScopeAll, "free fries")

	req.ErrorIs(err, errors.ErrPermissionDenied)
}

func TestEngine_Broadcast_To_Role_Scope(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	ctx := context.Background()

	student := newFakeSink()
	store := newFakeSink()
	f.engine.HandleMessage(ctx, student, frame(t, event.RegisterUser, `{"id":"user101","role":"student"}`))
	f.engine.HandleMessage(ctx, store, frame(t, event.RegisterUser, `{"id":"store202","role":"store"}`))

	f.history.EXPECT().RecordAnnouncement(gomock.Any()).Times(1)

	ann, err := f.engine.Broadcast("admin1", domain.RoleAdmin, domain.ScopeStudent, "menu updated")
	req.NoError(err)
	req.Equal(domain.TypeAnnouncement, ann.Type)

	// Only the student room received the announcement
	req.Len(student.sent(), 1)
	req.Equal(event.NewAnnouncement, student.sent()[0].name)
	req.Empty(store.sent())
}

func TestEngine_Broadcast_Scope_All(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	ctx := context.Background()

	student := newFakeSink()
	store := newFakeSink()
	f.engine.HandleMessage(ctx, student, frame(t, event.RegisterUser, `{"id":"user101","role":"student"}`))
	f.engine.HandleMessage(ctx, store, frame(t, event.RegisterUser, `{"id":"store202","role":"store"}`))

	f.history.EXPECT().RecordAnnouncement(gomock.Any()).Times(1)

	_, err := f.engine.Broadcast("store202", domain.RoleStore, domain.ScopeAll, "closing early")
	req.NoError(err)

	req.Len(student.sent(), 1)
	req.Len(store.sent(), 1)
}

func TestEngine_OrderStatus_Requires_Store_Role(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)

	// No SQL call happens when the role gate fails
	f.orders.EXPECT().Find(gomock.Any(), gomock.Any()).Times(0)
	f.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := f.engine.UpdateOrderStatus(context.Background(), "user101", domain.RoleStudent, 42, "ready")

	req.ErrorIs(err, errors.ErrPermissionDenied)
}

func TestEngine_OrderStatus_NonOwning_Store_Denied(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	ctx := context.Background()

	user := newFakeSink()
	f.engine.HandleMessage(ctx, user, frame(t, event.RegisterUser, `{"id":"user7","role":"student"}`))

	f.orders.EXPECT().
		Find(gomock.Any(), int64(42)).
		Return(domain.Order{ID: 42, UserID: 7, StoreID: 202}, nil).
		Times(1)
	// The ownership check fails before any mutation
	f.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := f.engine.UpdateOrderStatus(ctx, "store999", domain.RoleStore, 42, "ready")

	req.ErrorIs(err, errors.ErrPermissionDenied)
	// And no socket emission occurred
	req.Empty(user.sent())
}

func TestEngine_OrderStatus_Success_Pushes_To_Owner_And_Admins(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newEngineFixture(t, ctrl)
	ctx := context.Background()

	owner := newFakeSink()
	admin := newFakeSink()
	f.engine.HandleMessage(ctx, owner, frame(t, event.RegisterUser, `{"id":"user7","role":"student"}`))
	f.engine.HandleMessage(ctx, admin, frame(t, event.RegisterUser, `{"id":"admin1","role":"admin"}`))

	f.orders.EXPECT().
		Find(gomock.Any(), int64(42)).
		Return(domain.Order{ID: 42, UserID: 7, StoreID: 202}, nil).
		Times(1)
	f.orders.EXPECT().
		UpdateStatus(gomock.Any(), int64(42), "ready").
		Return(nil).
		Times(1)

	err := f.engine.UpdateOrderStatus(ctx, "store202", domain.RoleStore, 42, "ready")
	req.NoError(err)

	ownerFrames := owner.sent()
	req.Len(ownerFrames, 1)
	req.Equal(event.OrderStatusUpdate, ownerFrames[0].name)
	payload := ownerFrames[0].payload.(event.OrderStatusPayload)
	req.Equal(int64(42), payload.OrderID)
	req.Equal("ready", payload.Status)
	req.Equal("store202", payload.Updater)

	req.Len(admin.sent(), 1)
}

func TestEngine_OrderStatus_Without_Pool_Is_Unavailable(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()
	metrics := observability.NewMetrics()
	registry := NewRegistry(log)
	router := NewRouter(log, registry, metrics)
	engine := NewEngine(log, registry, router, mocks.NewMockHistoryRecorder(ctrl), nil, metrics)

	err := engine.UpdateOrderStatus(context.Background(), "store202", domain.RoleStore, 42, "ready")

	req.ErrorIs(err, errors.ErrUpstreamUnavailable)
}
