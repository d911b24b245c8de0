//go:generate go run go.uber.org/mock/mockgen -source=realtime_service.go -destination=../mocks/mock_realtime_service.go -package=mocks
package services

import (
	"campusfood/contract"
	"campusfood/domain"
	"campusfood/runtime"
	"context"
)

// IRealtimeService is the surface the HTTP layer talks to. Role gates are
// enforced below this interface, before any dispatch or SQL mutation.
type IRealtimeService interface {
	Broadcast(sender string, senderRole domain.Role, scope domain.Scope, message string) (domain.Announcement, error)
	UpdateOrderStatus(ctx context.Context, senderID string, senderRole domain.Role, orderID int64, newStatus string) error
	ChatHistory(idA, idB string) ([]domain.ChatMessage, error)
	Announcements() ([]domain.Announcement, error)
}

type RealtimeService struct {
	engine        *runtime.Engine
	messages      contract.IMessageRepository
	announcements contract.IAnnouncementRepository
}

func NewRealtimeService(engine *runtime.Engine,
	messages contract.IMessageRepository,
	announcements contract.IAnnouncementRepository) *RealtimeService {
	return &RealtimeService{
		engine:        engine,
		messages:      messages,
		announcements: announcements,
	}
}

func (s *RealtimeService) Broadcast(sender string, senderRole domain.Role, scope domain.Scope, message string) (domain.Announcement, error) {
	return s.engine.Broadcast(sender, senderRole, scope, message)
}

func (s *RealtimeService) UpdateOrderStatus(ctx context.Context, senderID string, senderRole domain.Role, orderID int64, newStatus string) error {
	return s.engine.UpdateOrderStatus(ctx, senderID, senderRole, orderID, newStatus)
}

func (s *RealtimeService) ChatHistory(idA, idB string) ([]domain.ChatMessage, error) {
	return s.messages.Between(idA, idB)
}

func (s *RealtimeService) Announcements() ([]domain.Announcement, error) {
	return s.announcements.All()
}
