package proposal

import (
	"context"

	"collectordao/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Proposal{})

		if err := tx.AutoMigrate(core.Proposal{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_proposals_trace", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new proposal store
func New(db *db.DB) core.ProposalStore {
	return &proposalStore{db: db}
}

type proposalStore struct {
	db *db.DB
}

func (s *proposalStore) Create(ctx context.Context, tx *db.DB, proposal *core.Proposal) error {
	return tx.Update().Create(proposal).Error
}

func (s *proposalStore) Find(ctx context.Context, traceID string) (*core.Proposal, error) {
	var proposal core.Proposal
	if err := s.db.View().Where("trace_id = ?", traceID).First(&proposal).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Proposal{}, nil
		}

		return nil, err
	}

	return &proposal, nil
}

func (s *proposalStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Proposal, error) {
	var proposals []*core.Proposal
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&proposals).Error; err != nil {
		return nil, err
	}

	return proposals, nil
}

func (s *proposalStore) Update(ctx context.Context, tx *db.DB, proposal *core.Proposal, version int64) error {
	updates := map[string]interface{}{
		"for_votes":     proposal.ForVotes,
		"against_votes": proposal.AgainstVotes,
		"vote_count":    proposal.VoteCount,
		"executed_at":   proposal.ExecutedAt,
		"version":       version,
	}

	u := tx.Update().Model(proposal).Where("version = ?", proposal.Version).Updates(updates)
	if u.Error != nil {
		return u.Error
	}

	if u.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	proposal.Version = version
	return nil
}
