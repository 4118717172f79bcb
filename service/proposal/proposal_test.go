package proposal

import (
	"context"
	"testing"
	"time"

	"collectordao/core"
	"collectordao/core/coretest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (core.ProposalService, *coretest.Members, *coretest.Proposals, *coretest.Events) {
	members := coretest.NewMembers()
	proposals := coretest.NewProposals()
	events := coretest.NewEvents()
	system := &core.System{
		VotingPeriod: 7 * 24 * time.Hour,
	}

	return New(system, coretest.NewDB(members, proposals, events), members, proposals, events),
		members, proposals, events
}

func seedMember(t *testing.T, members *coretest.Members, address string, power int64) string {
	t.Helper()

	address = common.HexToAddress(address).Hex()
	require.Nil(t, members.Create(context.Background(), nil, &core.Member{
		Address:     address,
		VotingPower: power,
		JoinedAt:    time.Now().Add(-time.Hour),
	}))

	return address
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	service, members, proposals, events := newTestService()

	creator := seedMember(t, members, "0x01", 1)
	seedMember(t, members, "0x02", 1)

	targets := []string{"0x00000000000000000000000000000000000000f0"}
	values := []decimal.Decimal{decimal.New(5, -1)}
	payloads := [][]byte{[]byte("mint")}
	descriptionHash := crypto.Keccak256Hash([]byte("buy the rare one"))

	proposal, err := service.Create(ctx, creator, targets, values, payloads, descriptionHash)
	require.Nil(t, err)

	id, err := core.HashProposal(targets, values, payloads, descriptionHash)
	require.Nil(t, err)
	assert.Equal(t, id.Hex(), proposal.TraceID)
	assert.Equal(t, creator, proposal.Creator)
	assert.Equal(t, int64(2), proposal.MembersTotal)
	assert.Equal(t, proposal.StartAt.Add(7*24*time.Hour), proposal.EndAt)
	assert.Equal(t, core.ProposalStatusActive, proposal.Status(time.Now()))

	actions, err := proposal.ActionList()
	require.Nil(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, targets[0], actions[0].Target)
	assert.True(t, values[0].Equal(actions[0].Value))

	stored, err := proposals.Find(ctx, proposal.TraceID)
	require.Nil(t, err)
	assert.True(t, stored.Exists())

	assert.Equal(t, []string{core.EventProposalCreated}, events.Types())
}

func TestCreateByNonMember(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestService()

	_, err := service.Create(ctx, "0x01", []string{"0xf0"}, []decimal.Decimal{decimal.Zero}, [][]byte{nil}, common.Hash{})
	assert.ErrorIs(t, err, core.ErrNotMember)
}

func TestCreateByDelegatedOutMember(t *testing.T) {
	ctx := context.Background()
	service, members, _, _ := newTestService()

	creator := seedMember(t, members, "0x01", 0)

	_, err := service.Create(ctx, creator, []string{"0xf0"}, []decimal.Decimal{decimal.Zero}, [][]byte{nil}, common.Hash{})
	assert.ErrorIs(t, err, core.ErrNotMember)
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	service, members, _, _ := newTestService()

	creator := seedMember(t, members, "0x01", 1)

	targets := []string{"0xf0"}
	values := []decimal.Decimal{decimal.New(1, 0)}
	payloads := [][]byte{[]byte("x")}
	descriptionHash := crypto.Keccak256Hash([]byte("same bundle"))

	_, err := service.Create(ctx, creator, targets, values, payloads, descriptionHash)
	require.Nil(t, err)

	_, err = service.Create(ctx, creator, targets, values, payloads, descriptionHash)
	assert.ErrorIs(t, err, core.ErrDuplicateProposal)

	// a different description is a different identity
	_, err = service.Create(ctx, creator, targets, values, payloads, crypto.Keccak256Hash([]byte("other")))
	assert.Nil(t, err)
}

func TestCreateLengthMismatch(t *testing.T) {
	ctx := context.Background()
	service, members, _, _ := newTestService()

	creator := seedMember(t, members, "0x01", 1)

	_, err := service.Create(ctx, creator, []string{"0xf0", "0xf1"}, []decimal.Decimal{decimal.Zero}, [][]byte{nil}, common.Hash{})

	var mismatch *core.LengthMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
