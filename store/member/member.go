package member

import (
	"context"

	"collectordao/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Member{})

		if err := tx.AutoMigrate(core.Member{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_members_address", "address").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new member store
func New(db *db.DB) core.MemberStore {
	return &memberStore{db: db}
}

type memberStore struct {
	db *db.DB
}

func (s *memberStore) Create(ctx context.Context, tx *db.DB, member *core.Member) error {
	return tx.Update().Create(member).Error
}

func (s *memberStore) Find(ctx context.Context, address string) (*core.Member, error) {
	var member core.Member
	if err := s.db.View().Where("address = ?", address).First(&member).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Member{}, nil
		}

		return nil, err
	}

	return &member, nil
}

func (s *memberStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Member{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *memberStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Member, error) {
	var members []*core.Member
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (s *memberStore) Update(ctx context.Context, tx *db.DB, member *core.Member, version int64) error {
	updates := map[string]interface{}{
		"voting_power": member.VotingPower,
		"version":      version,
	}

	u := tx.Update().Model(member).Where("version = ?", member.Version).Updates(updates)
	if u.Error != nil {
		return u.Error
	}

	if u.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	member.Version = version
	return nil
}
