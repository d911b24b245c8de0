package repositories

import (
	"campusfood/domain"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type storedAnnouncement struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	TargetRole string `json:"targetRole"`
	CreatedAt  int64  `json:"createdAt"`
}

type AnnouncementRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewAnnouncementRepository(db *badger.DB, log *slog.Logger) AnnouncementRepository {
	return AnnouncementRepository{db: db, log: log}
}

// Append persists an announcement under "ann:{timestamp_padded}:{uuid}",
// the same padded-key scheme the message repository uses.
func (a AnnouncementRepository) Append(ann domain.Announcement) error {
	key := fmt.Sprintf("ann:%019d:%s", ann.CreatedAt.UnixNano(), ann.ID)
	bytes, err := json.Marshal(fromAnnouncement(ann))
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// All retrieves every announcement, newest first. The reverse iterator is
// seeded just past the newest possible timestamp so it lands on the latest
// key of the prefix.
func (a AnnouncementRepository) All() ([]domain.Announcement, error) {
	prefix := []byte("ann:")

	var stored []storedAnnouncement
	err := a.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append([]byte{}, prefix...)
		seekKey = append(seekKey, []byte("9999999999999999999")...)

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var sa storedAnnouncement
				if err := json.Unmarshal(value, &sa); err != nil {
					return err
				}
				stored = append(stored, sa)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAnnouncements(stored)
}

func fromAnnouncement(ann domain.Announcement) storedAnnouncement {
	return storedAnnouncement{
		ID:         ann.ID.String(),
		Sender:     ann.Sender,
		Message:    ann.Message,
		Type:       string(ann.Type),
		TargetRole: string(ann.TargetRole),
		CreatedAt:  ann.CreatedAt.UnixNano(),
	}
}

func toAnnouncements(stored []storedAnnouncement) ([]domain.Announcement, error) {
	var convErr error
	announcements := lo.Map(stored, func(sa storedAnnouncement, _ int) domain.Announcement {
		parsedID, err := uuid.Parse(sa.ID)
		if err != nil {
			convErr = err
		}
		return domain.Announcement{
			ID:         parsedID,
			Sender:     sa.Sender,
			Message:    sa.Message,
			Type:       domain.AnnouncementType(sa.Type),
			TargetRole: domain.Scope(sa.TargetRole),
			CreatedAt:  time.Unix(0, sa.CreatedAt).UTC(),
		}
	})
	if convErr != nil {
		return nil, convErr
	}
	return announcements, nil
}
