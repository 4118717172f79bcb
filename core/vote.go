package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/store/db"
)

// Vote a per-(proposal, voter) record; the direction only feeds the
// aggregate tallies, the row itself pins the one-vote invariant.
type Vote struct {
	ID              int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	ProposalTraceID string    `sql:"size:66" json:"proposal_trace_id,omitempty"`
	Voter           string    `sql:"size:42" json:"voter,omitempty"`
	Support         bool      `json:"support,omitempty"`
	Weight          int64     `json:"weight,omitempty"`
}

// Signature secp256k1 signature components of an off-chain ballot
type Signature struct {
	V uint8       `json:"v"`
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
}

type (
	// VoteStore vote record store interface
	VoteStore interface {
		Create(ctx context.Context, tx *db.DB, vote *Vote) error
		Voted(ctx context.Context, proposalTraceID, voter string) (bool, error)
	}

	// VoteService voting engine interface
	VoteService interface {
		// CastVote records a single member's vote with their current
		// effective weight.
		CastVote(ctx context.Context, voter string, proposalID common.Hash, support bool) error
		// CastVoteBySig recovers the voter from a structured off-chain
		// signature and delegates to CastVote.
		CastVoteBySig(ctx context.Context, proposalID common.Hash, support bool, sig Signature) error
		// CastVoteBySigBulk applies a batch of signed ballots in array
		// order; a failure on any element aborts the whole batch.
		CastVoteBySigBulk(ctx context.Context, proposalIDs []common.Hash, supports []bool, vs []uint8, rs, ss []common.Hash) error
	}
)
