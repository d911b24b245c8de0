package repositories

import (
	"campusfood/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementRepository_All_Descending(t *testing.T) {
	req := require.New(t)
	repository := NewAnnouncementRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	announcements := []domain.Announcement{
		{ID: uuid.New(), Sender: "store202", Message: "oldest", Type: domain.TypeAnnouncement, TargetRole: domain.ScopeStudent, CreatedAt: at},
		{ID: uuid.New(), Sender: "admin1", Message: "middle", Type: domain.TypeAnnouncement, TargetRole: domain.ScopeAll, CreatedAt: at.Add(1 * time.Minute)},
		{ID: uuid.New(), Sender: "store202", Message: "newest", Type: domain.TypeAnnouncement, TargetRole: domain.ScopeStore, CreatedAt: at.Add(2 * time.Minute)},
	}
	for _, a := range announcements {
		req.NoError(repository.Append(a))
	}

	// When fetching all announcements
	fetched, err := repository.All()
	req.NoError(err)

	// Then the newest comes first
	req.Len(fetched, 3)
	req.Equal("newest", fetched[0].Message)
	req.Equal("middle", fetched[1].Message)
	req.Equal("oldest", fetched[2].Message)
}

func TestAnnouncementRepository_Empty(t *testing.T) {
	req := require.New(t)
	repository := NewAnnouncementRepository(openTestDB(t), slog.Default())

	fetched, err := repository.All()
	req.NoError(err)
	req.Empty(fetched)
}

func TestAnnouncementRepository_Roundtrip_Preserves_Fields(t *testing.T) {
	req := require.New(t)
	repository := NewAnnouncementRepository(openTestDB(t), slog.Default())

	original := domain.Announcement{
		ID:         uuid.New(),
		Sender:     "admin1",
		Message:    "cafeteria closed friday",
		Type:       domain.TypeAnnouncement,
		TargetRole: domain.ScopeAll,
		CreatedAt:  time.Now().UTC(),
	}
	req.NoError(repository.Append(original))

	fetched, err := repository.All()
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal(original, fetched[0])
}
