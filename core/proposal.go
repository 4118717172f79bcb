package core

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// ProposalStatus proposal lifecycle state, recomputed on every query
type ProposalStatus int

const (
	// ProposalStatusNonexistent no proposal registered under the identity
	ProposalStatusNonexistent ProposalStatus = iota
	// ProposalStatusActive the voting window is open
	ProposalStatusActive
	// ProposalStatusSucceeded quorum and majority reached, awaiting execution
	ProposalStatusSucceeded
	// ProposalStatusExecuted terminal
	ProposalStatusExecuted
	// ProposalStatusFailed window closed without quorum or majority
	ProposalStatusFailed
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalStatusActive:
		return "active"
	case ProposalStatusSucceeded:
		return "succeeded"
	case ProposalStatusExecuted:
		return "executed"
	case ProposalStatusFailed:
		return "failed"
	default:
		return "nonexistent"
	}
}

// Action one delegated call of a proposal: send Value to Target with Payload
type Action struct {
	Target  string          `json:"target"`
	Value   decimal.Decimal `json:"value"`
	Payload []byte          `json:"payload,omitempty"`
}

type (
	// Proposal an action bundle under vote, identified by its content hash
	Proposal struct {
		ID              int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
		CreatedAt       time.Time      `json:"created_at,omitempty"`
		UpdatedAt       time.Time      `json:"updated_at,omitempty"`
		Version         int64          `json:"version,omitempty"`
		TraceID         string         `sql:"size:66" json:"trace_id,omitempty"`
		Creator         string         `sql:"size:42" json:"creator,omitempty"`
		StartAt         time.Time      `json:"start_at,omitempty"`
		EndAt           time.Time      `json:"end_at,omitempty"`
		ForVotes        int64          `json:"for_votes,omitempty"`
		AgainstVotes    int64          `json:"against_votes,omitempty"`
		VoteCount       int64          `json:"vote_count,omitempty"`
		MembersTotal    int64          `json:"members_total,omitempty"`
		Actions         types.JSONText `sql:"type:varchar(4096)" json:"actions,omitempty"`
		DescriptionHash string         `sql:"size:66" json:"description_hash,omitempty"`
		ExecutedAt      sql.NullTime   `json:"executed_at,omitempty"`
	}

	// ProposalStore proposal store interface
	ProposalStore interface {
		Create(ctx context.Context, tx *db.DB, proposal *Proposal) error
		Find(ctx context.Context, traceID string) (*Proposal, error)
		List(ctx context.Context, fromID int64, limit int) ([]*Proposal, error)
		Update(ctx context.Context, tx *db.DB, proposal *Proposal, version int64) error
	}

	// ProposalService proposal registry interface
	ProposalService interface {
		Create(ctx context.Context, creator string, targets []string, values []decimal.Decimal, payloads [][]byte, descriptionHash common.Hash) (*Proposal, error)
	}
)

// Exists reports whether the proposal is registered. StartAt stays zero
// only on the empty record returned for unknown identities.
func (p *Proposal) Exists() bool {
	return !p.StartAt.IsZero()
}

// Executed reports whether the execution engine has run the proposal.
func (p *Proposal) Executed() bool {
	return p.ExecutedAt.Valid
}

// Status derives the lifecycle state from time and stored tallies.
// Quorum counts voters, not weight: strictly more than a quarter of the
// membership snapshot must have cast a vote.
func (p *Proposal) Status(now time.Time) ProposalStatus {
	if !p.Exists() {
		return ProposalStatusNonexistent
	}

	if now.Before(p.EndAt) {
		return ProposalStatusActive
	}

	if p.Executed() {
		return ProposalStatusExecuted
	}

	if p.ForVotes > p.AgainstVotes && p.VoteCount*4 > p.MembersTotal {
		return ProposalStatusSucceeded
	}

	return ProposalStatusFailed
}

// ActionList decodes the stored action bundle.
func (p *Proposal) ActionList() ([]Action, error) {
	var actions []Action
	if err := p.Actions.Unmarshal(&actions); err != nil {
		return nil, err
	}

	return actions, nil
}

// HashProposal derives the content-addressed identity of an action
// bundle: a Keccak-256 digest over a length-prefixed, order-preserving
// encoding of the three arrays and the description hash. Identical
// inputs always map to the same identity.
func HashProposal(targets []string, values []decimal.Decimal, payloads [][]byte, descriptionHash common.Hash) (common.Hash, error) {
	if len(targets) != len(values) || len(targets) != len(payloads) {
		return common.Hash{}, &LengthMismatchError{
			Targets:  len(targets),
			Values:   len(values),
			Payloads: len(payloads),
		}
	}

	var buf bytes.Buffer
	writeChunk := func(b []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(b)))
		buf.Write(b)
	}

	_ = binary.Write(&buf, binary.BigEndian, uint32(len(targets)))
	for i := range targets {
		writeChunk([]byte(targets[i]))
		writeChunk([]byte(values[i].String()))
		writeChunk(payloads[i])
	}

	buf.Write(descriptionHash.Bytes())
	return crypto.Keccak256Hash(buf.Bytes()), nil
}
