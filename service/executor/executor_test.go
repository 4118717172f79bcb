package executor

import (
	"context"
	"encoding/json"
	"errors"
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

var errReverted = errors.New("reverted")

type fakeLedger struct {
	failTarget  string
	transferErr error
	transfers   []string
	calls       []string
}

func (l *fakeLedger) Transfer(_ context.Context, opponent string, _ decimal.Decimal, _ string) error {
	if l.transferErr != nil {
		return l.transferErr
	}

	l.transfers = append(l.transfers, opponent)
	return nil
}

func (l *fakeLedger) Call(_ context.Context, target string, _ decimal.Decimal, _ []byte) ([]byte, error) {
	if target == l.failTarget {
		return nil, errReverted
	}

	l.calls = append(l.calls, target)
	return nil, nil
}

type fakeMarketplace struct {
	price  decimal.Decimal
	buyErr error
	bought []string
}

func (m *fakeMarketplace) Price(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return m.price, nil
}

func (m *fakeMarketplace) Buy(_ context.Context, collection, tokenID string, _ decimal.Decimal) error {
	if m.buyErr != nil {
		return m.buyErr
	}

	m.bought = append(m.bought, collection+"/"+tokenID)
	return nil
}

type testEnv struct {
	service     core.ExecutionService
	members     *coretest.Members
	proposals   *coretest.Proposals
	events      *coretest.Events
	ledger      *fakeLedger
	marketplace *fakeMarketplace
	system      *core.System
	creator     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	members := coretest.NewMembers()
	proposals := coretest.NewProposals()
	events := coretest.NewEvents()
	ledger := &fakeLedger{}
	marketplace := &fakeMarketplace{price: decimal.New(5, 0)}
	system := &core.System{
		ChainID:         31337,
		Address:         common.HexToAddress("0x00000000000000000000000000000000000000da").Hex(),
		ExecutionReward: decimal.New(1, -2),
	}

	creator := common.HexToAddress("0x0c").Hex()
	require.Nil(t, members.Create(context.Background(), nil, &core.Member{
		Address:     creator,
		VotingPower: 1,
		JoinedAt:    time.Now().Add(-time.Hour),
	}))

	return &testEnv{
		service:     New(system, coretest.NewDB(members, proposals, events), members, proposals, events, ledger, marketplace),
		members:     members,
		proposals:   proposals,
		events:      events,
		ledger:      ledger,
		marketplace: marketplace,
		system:      system,
		creator:     creator,
	}
}

type bundle struct {
	targets         []string
	values          []decimal.Decimal
	payloads        [][]byte
	descriptionHash common.Hash
}

// seedSucceeded registers a proposal for the bundle whose voting window
// has closed with quorum and a winning margin.
func (e *testEnv) seedSucceeded(t *testing.T, b bundle) common.Hash {
	t.Helper()

	id, err := core.HashProposal(b.targets, b.values, b.payloads, b.descriptionHash)
	require.Nil(t, err)

	require.Nil(t, e.proposals.Create(context.Background(), nil, &core.Proposal{
		TraceID:      id.Hex(),
		Creator:      e.creator,
		StartAt:      time.Now().Add(-2 * time.Hour),
		EndAt:        time.Now().Add(-time.Hour),
		ForVotes:     3,
		AgainstVotes: 1,
		VoteCount:    4,
		MembersTotal: 10,
	}))

	return id
}

func simpleBundle(desc string) bundle {
	return bundle{
		targets:         []string{"0x00000000000000000000000000000000000000f0", "0x00000000000000000000000000000000000000f1"},
		values:          []decimal.Decimal{decimal.New(1, 0), decimal.New(2, 0)},
		payloads:        [][]byte{[]byte("a"), []byte("b")},
		descriptionHash: crypto.Keccak256Hash([]byte(desc)),
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	b := simpleBundle("pay the artists")
	id := env.seedSucceeded(t, b)

	caller := common.HexToAddress("0x0e").Hex()
	require.Nil(t, env.service.Execute(ctx, caller, b.targets, b.values, b.payloads, b.descriptionHash))

	proposal, err := env.proposals.Find(ctx, id.Hex())
	require.Nil(t, err)
	assert.True(t, proposal.Executed())
	assert.Equal(t, core.ProposalStatusExecuted, proposal.Status(time.Now()))

	creator, err := env.members.Find(ctx, env.creator)
	require.Nil(t, err)
	assert.Equal(t, int64(2), creator.VotingPower)

	assert.Equal(t, b.targets, env.ledger.calls)
	assert.Equal(t, []string{caller}, env.ledger.transfers)
	assert.Equal(t, []string{core.EventProposalExecuted}, env.events.Types())
}

func TestExecuteAllOrNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	b := simpleBundle("two calls, second reverts")
	id := env.seedSucceeded(t, b)
	env.ledger.failTarget = b.targets[1]

	caller := common.HexToAddress("0x0e").Hex()
	err := env.service.Execute(ctx, caller, b.targets, b.values, b.payloads, b.descriptionHash)
	require.ErrorIs(t, err, errReverted)

	// nothing sticks: the proposal is still executable
	proposal, err := env.proposals.Find(ctx, id.Hex())
	require.Nil(t, err)
	assert.False(t, proposal.Executed())
	assert.Equal(t, core.ProposalStatusSucceeded, proposal.Status(time.Now()))

	creator, err := env.members.Find(ctx, env.creator)
	require.Nil(t, err)
	assert.Equal(t, int64(1), creator.VotingPower)

	assert.Empty(t, env.events.Types())
	assert.Empty(t, env.ledger.transfers)

	// a retry after the target recovers goes through
	env.ledger.failTarget = ""
	require.Nil(t, env.service.Execute(ctx, caller, b.targets, b.values, b.payloads, b.descriptionHash))

	proposal, err = env.proposals.Find(ctx, id.Hex())
	require.Nil(t, err)
	assert.True(t, proposal.Executed())
}

func TestExecuteRewardBestEffort(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	b := simpleBundle("reward fails, execution stands")
	id := env.seedSucceeded(t, b)
	env.ledger.transferErr = errors.New("ledger down")

	require.Nil(t, env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash))

	proposal, err := env.proposals.Find(ctx, id.Hex())
	require.Nil(t, err)
	assert.True(t, proposal.Executed())
}

func TestExecuteStatusGates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	t.Run("still active", func(t *testing.T) {
		b := simpleBundle("still active")
		id, err := core.HashProposal(b.targets, b.values, b.payloads, b.descriptionHash)
		require.Nil(t, err)

		require.Nil(t, env.proposals.Create(ctx, nil, &core.Proposal{
			TraceID:      id.Hex(),
			Creator:      env.creator,
			StartAt:      time.Now().Add(-time.Hour),
			EndAt:        time.Now().Add(time.Hour),
			MembersTotal: 10,
		}))

		err = env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash)

		var stillActive *core.ProposalStillActiveError
		assert.ErrorAs(t, err, &stillActive)
	})

	t.Run("did not succeed", func(t *testing.T) {
		b := simpleBundle("no quorum")
		id, err := core.HashProposal(b.targets, b.values, b.payloads, b.descriptionHash)
		require.Nil(t, err)

		require.Nil(t, env.proposals.Create(ctx, nil, &core.Proposal{
			TraceID:      id.Hex(),
			Creator:      env.creator,
			StartAt:      time.Now().Add(-2 * time.Hour),
			EndAt:        time.Now().Add(-time.Hour),
			ForVotes:     2,
			VoteCount:    2,
			MembersTotal: 10,
		}))

		err = env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash)
		assert.ErrorIs(t, err, core.ErrProposalDidNotSucceed)
	})

	t.Run("unknown bundle", func(t *testing.T) {
		b := simpleBundle("never proposed")

		err := env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash)
		assert.ErrorIs(t, err, core.ErrProposalDidNotSucceed)
	})

	t.Run("already executed", func(t *testing.T) {
		b := simpleBundle("run twice")
		env.seedSucceeded(t, b)

		require.Nil(t, env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash))

		err := env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash)
		assert.ErrorIs(t, err, core.ErrAlreadyExecuted)
	})
}

func buyPayload(t *testing.T, collection, tokenID string, maxPrice decimal.Decimal) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"op":         OpBuyNFT,
		"collection": collection,
		"token_id":   tokenID,
		"max_price":  maxPrice,
	})
	require.Nil(t, err)

	return body
}

func TestExecuteBuyNFT(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.marketplace.price = decimal.New(5, 0)

	b := bundle{
		targets:         []string{env.system.Address},
		values:          []decimal.Decimal{decimal.Zero},
		payloads:        [][]byte{buyPayload(t, "punks", "42", decimal.New(10, 0))},
		descriptionHash: crypto.Keccak256Hash([]byte("buy punk 42")),
	}
	id := env.seedSucceeded(t, b)

	require.Nil(t, env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash))

	assert.Equal(t, []string{"punks/42"}, env.marketplace.bought)

	proposal, err := env.proposals.Find(ctx, id.Hex())
	require.Nil(t, err)
	assert.True(t, proposal.Executed())

	assert.Equal(t, []string{core.EventProposalExecuted, core.EventNFTPurchased}, env.events.Types())
}

func TestExecuteBuyNFTTooExpensive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.marketplace.price = decimal.New(11, 0)

	b := bundle{
		targets:         []string{env.system.Address},
		values:          []decimal.Decimal{decimal.Zero},
		payloads:        [][]byte{buyPayload(t, "punks", "42", decimal.New(10, 0))},
		descriptionHash: crypto.Keccak256Hash([]byte("buy punk 42 capped")),
	}
	id := env.seedSucceeded(t, b)

	err := env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash)

	var tooExpensive *core.TooExpensiveError
	require.ErrorAs(t, err, &tooExpensive)
	assert.True(t, tooExpensive.Price.Equal(decimal.New(11, 0)))

	proposal, err := env.proposals.Find(ctx, id.Hex())
	require.Nil(t, err)
	assert.False(t, proposal.Executed())
	assert.Empty(t, env.marketplace.bought)
}

func TestBuyNFTOutsideExecution(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	err := env.service.BuyNFT(ctx, &core.NFTPurchase{
		Collection: "punks",
		TokenID:    "42",
		MaxPrice:   decimal.New(10, 0),
	})
	assert.ErrorIs(t, err, core.ErrNotExecuting)
}

func TestBuyNFTMarketplaceFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.marketplace.buyErr = core.ErrBuyingNFT

	b := bundle{
		targets:         []string{env.system.Address},
		values:          []decimal.Decimal{decimal.Zero},
		payloads:        [][]byte{buyPayload(t, "punks", "42", decimal.New(10, 0))},
		descriptionHash: crypto.Keccak256Hash([]byte("marketplace rejects")),
	}
	id := env.seedSucceeded(t, b)

	err := env.service.Execute(ctx, "0x0e", b.targets, b.values, b.payloads, b.descriptionHash)
	require.ErrorIs(t, err, core.ErrBuyingNFT)

	proposal, err := env.proposals.Find(ctx, id.Hex())
	require.Nil(t, err)
	assert.False(t, proposal.Executed())
}
