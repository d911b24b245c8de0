// Package domain contains core concepts of the real-time layer.
// This file defines the persisted chat and announcement records.
// Records are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one person-to-person message. Ordering key is CreatedAt,
// ties broken by insertion order in the store.
type ChatMessage struct {
	ID         uuid.UUID
	SenderID   string
	ReceiverID string
	SenderRole Role
	Message    string
	CreatedAt  time.Time
}

// AnnouncementType labels a broadcast record on the wire and in the store.
type AnnouncementType string

const TypeAnnouncement AnnouncementType = "announcement"

// Announcement is a role-scoped broadcast record.
type Announcement struct {
	ID         uuid.UUID
	Sender     string
	Message    string
	Type       AnnouncementType
	TargetRole Scope
	CreatedAt  time.Time
}
