package vote

import (
	"context"
	"strings"

	"collectordao/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Vote{})

		if err := tx.AutoMigrate(core.Vote{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_votes_proposal_voter", "proposal_trace_id", "voter").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new vote store
func New(db *db.DB) core.VoteStore {
	return &voteStore{db: db}
}

type voteStore struct {
	db *db.DB
}

func (s *voteStore) Create(ctx context.Context, tx *db.DB, vote *core.Vote) error {
	if err := tx.Update().Create(vote).Error; err != nil {
		// the unique index backstops the one-vote invariant under races
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return core.ErrAlreadyVoted
		}

		return err
	}

	return nil
}

func (s *voteStore) Voted(ctx context.Context, proposalTraceID, voter string) (bool, error) {
	var vote core.Vote
	err := s.db.View().Where("proposal_trace_id = ? AND voter = ?", proposalTraceID, voter).First(&vote).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
