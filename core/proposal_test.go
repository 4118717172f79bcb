package core

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashProposal(t *testing.T) {
	desc := crypto.Keccak256Hash([]byte("buy the punk"))
	targets := []string{"0xaa", "0xbb"}
	values := []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2)}
	payloads := [][]byte{[]byte("one"), []byte("two")}

	id, err := HashProposal(targets, values, payloads, desc)
	require.NoError(t, err)

	again, err := HashProposal(targets, values, payloads, desc)
	require.NoError(t, err)
	assert.Equal(t, id, again, "identical inputs, identical identity")

	reordered, err := HashProposal([]string{"0xbb", "0xaa"}, []decimal.Decimal{values[1], values[0]}, [][]byte{payloads[1], payloads[0]}, desc)
	require.NoError(t, err)
	assert.NotEqual(t, id, reordered, "order matters")

	otherValue, err := HashProposal(targets, []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(3)}, payloads, desc)
	require.NoError(t, err)
	assert.NotEqual(t, id, otherValue)

	otherDesc, err := HashProposal(targets, values, payloads, crypto.Keccak256Hash([]byte("buy the other punk")))
	require.NoError(t, err)
	assert.NotEqual(t, id, otherDesc)

	shorter, err := HashProposal(targets[:1], values[:1], payloads[:1], desc)
	require.NoError(t, err)
	assert.NotEqual(t, id, shorter)
}

func TestHashProposalLengthMismatch(t *testing.T) {
	_, err := HashProposal(
		[]string{"0xaa", "0xbb"},
		[]decimal.Decimal{decimal.NewFromInt(1)},
		[][]byte{nil, nil},
		common.Hash{},
	)

	var mismatch *LengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Targets)
	assert.Equal(t, 1, mismatch.Values)
	assert.Equal(t, 2, mismatch.Payloads)
}

func TestProposalStatus(t *testing.T) {
	now := time.Now()

	t.Run("nonexistent", func(t *testing.T) {
		var p Proposal
		assert.Equal(t, ProposalStatusNonexistent, p.Status(now))
	})

	base := func() *Proposal {
		return &Proposal{
			StartAt:      now.Add(-2 * time.Hour),
			EndAt:        now.Add(-time.Hour),
			MembersTotal: 4,
		}
	}

	t.Run("active", func(t *testing.T) {
		p := base()
		p.EndAt = now.Add(time.Hour)
		assert.Equal(t, ProposalStatusActive, p.Status(now))
	})

	t.Run("executed", func(t *testing.T) {
		p := base()
		p.ForVotes, p.VoteCount = 3, 2
		p.ExecutedAt = sql.NullTime{Time: now, Valid: true}
		assert.Equal(t, ProposalStatusExecuted, p.Status(now))
	})

	t.Run("quorum boundary", func(t *testing.T) {
		p := base()
		p.ForVotes, p.VoteCount = 3, 1
		// 1*4 == 4, not strictly greater
		assert.Equal(t, ProposalStatusFailed, p.Status(now))

		p.VoteCount = 2
		assert.Equal(t, ProposalStatusSucceeded, p.Status(now))
	})

	t.Run("majority is strict", func(t *testing.T) {
		p := base()
		p.ForVotes, p.AgainstVotes, p.VoteCount = 2, 2, 4
		assert.Equal(t, ProposalStatusFailed, p.Status(now))

		p.ForVotes = 3
		assert.Equal(t, ProposalStatusSucceeded, p.Status(now))
	})
}
