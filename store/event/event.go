package event

import (
	"context"

	"collectordao/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Event{})

		if err := tx.AutoMigrate(core.Event{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_events_trace", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new event store
func New(db *db.DB) core.EventStore {
	return &eventStore{db: db}
}

type eventStore struct {
	db *db.DB
}

func (s *eventStore) Create(ctx context.Context, tx *db.DB, events []*core.Event) error {
	for _, event := range events {
		if err := tx.Update().Create(event).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *eventStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
