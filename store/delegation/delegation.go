package delegation

import (
	"context"

	"collectordao/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Delegation{})

		if err := tx.AutoMigrate(core.Delegation{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_delegations_delegator", "delegator").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new delegation store
func New(db *db.DB) core.DelegationStore {
	return &delegationStore{db: db}
}

type delegationStore struct {
	db *db.DB
}

func (s *delegationStore) Create(ctx context.Context, tx *db.DB, delegation *core.Delegation) error {
	return tx.Update().Create(delegation).Error
}

func (s *delegationStore) Find(ctx context.Context, delegator string) (*core.Delegation, error) {
	var delegation core.Delegation
	if err := s.db.View().Where("delegator = ?", delegator).First(&delegation).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Delegation{}, nil
		}

		return nil, err
	}

	return &delegation, nil
}

func (s *delegationStore) Delete(ctx context.Context, tx *db.DB, delegator string) error {
	return tx.Update().Where("delegator = ?", delegator).Delete(core.Delegation{}).Error
}
