package delegation

import (
	"context"
	"testing"
	"time"

	"collectordao/core"
	"collectordao/core/coretest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	service     core.DelegationService
	members     *coretest.Members
	delegations *coretest.Delegations
	events      *coretest.Events
}

func newTestEnv() *testEnv {
	members := coretest.NewMembers()
	delegations := coretest.NewDelegations()
	events := coretest.NewEvents()

	return &testEnv{
		service:     New(coretest.NewDB(members, delegations, events), members, delegations, events),
		members:     members,
		delegations: delegations,
		events:      events,
	}
}

func (e *testEnv) seedMember(t *testing.T, address string, power int64) string {
	t.Helper()

	address = common.HexToAddress(address).Hex()
	require.Nil(t, e.members.Create(context.Background(), nil, &core.Member{
		Address:     address,
		VotingPower: power,
		JoinedAt:    time.Now().Add(-time.Hour),
	}))

	return address
}

func (e *testEnv) power(t *testing.T, address string) int64 {
	t.Helper()

	member, err := e.members.Find(context.Background(), address)
	require.Nil(t, err)
	return member.VotingPower
}

func TestDelegate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	alice := env.seedMember(t, "0x0a", 2)
	bob := env.seedMember(t, "0x0b", 1)

	require.Nil(t, env.service.Delegate(ctx, alice, bob))

	assert.Equal(t, int64(0), env.power(t, alice))
	assert.Equal(t, int64(3), env.power(t, bob))

	edge, err := env.delegations.Find(ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, bob, edge.Delegatee)
	assert.Equal(t, int64(2), edge.Amount)

	assert.Equal(t, []string{core.EventMemberDelegated}, env.events.Types())
}

func TestDelegateFollowsChainToRoot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	alice := env.seedMember(t, "0x0a", 1)
	bob := env.seedMember(t, "0x0b", 1)
	carol := env.seedMember(t, "0x0c", 1)

	// bob already delegated to carol, so alice's weight lands on carol
	require.Nil(t, env.service.Delegate(ctx, bob, carol))
	require.Nil(t, env.service.Delegate(ctx, alice, bob))

	assert.Equal(t, int64(0), env.power(t, alice))
	assert.Equal(t, int64(0), env.power(t, bob))
	assert.Equal(t, int64(3), env.power(t, carol))
}

func TestDelegateChecks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	alice := env.seedMember(t, "0x0a", 1)
	bob := env.seedMember(t, "0x0b", 1)
	drained := env.seedMember(t, "0x0d", 0)

	t.Run("self delegation", func(t *testing.T) {
		err := env.service.Delegate(ctx, alice, alice)
		assert.ErrorIs(t, err, core.ErrDelegationLoop)
	})

	t.Run("no voting power", func(t *testing.T) {
		err := env.service.Delegate(ctx, drained, bob)
		assert.ErrorIs(t, err, core.ErrNoVotingPower)
	})

	t.Run("target not a member", func(t *testing.T) {
		err := env.service.Delegate(ctx, alice, "0x99")
		assert.ErrorIs(t, err, core.ErrNotMember)
	})

	t.Run("loop through chain", func(t *testing.T) {
		require.Nil(t, env.service.Delegate(ctx, alice, bob))

		// bob -> alice would close the cycle alice -> bob -> alice
		err := env.service.Delegate(ctx, bob, alice)
		assert.ErrorIs(t, err, core.ErrDelegationLoop)
	})
}

func TestUndo(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	alice := env.seedMember(t, "0x0a", 2)
	bob := env.seedMember(t, "0x0b", 1)

	require.Nil(t, env.service.Delegate(ctx, alice, bob))
	require.Nil(t, env.service.Undo(ctx, alice))

	assert.Equal(t, int64(2), env.power(t, alice))
	assert.Equal(t, int64(1), env.power(t, bob))

	edge, err := env.delegations.Find(ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, int64(0), edge.ID)

	assert.Equal(t, []string{core.EventMemberDelegated, core.EventDelegationRevoked}, env.events.Types())
}

func TestUndoFollowsChainToRoot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	alice := env.seedMember(t, "0x0a", 1)
	bob := env.seedMember(t, "0x0b", 1)
	carol := env.seedMember(t, "0x0c", 1)

	require.Nil(t, env.service.Delegate(ctx, alice, bob))

	// bob moves on after receiving alice's weight; alice's undo pulls
	// her recorded amount back from the current root
	require.Nil(t, env.service.Delegate(ctx, bob, carol))
	require.Nil(t, env.service.Undo(ctx, alice))

	assert.Equal(t, int64(1), env.power(t, alice))
	assert.Equal(t, int64(0), env.power(t, bob))
	assert.Equal(t, int64(2), env.power(t, carol))
}

func TestUndoWithoutDelegation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	alice := env.seedMember(t, "0x0a", 1)

	require.Nil(t, env.service.Undo(ctx, alice))
	assert.Equal(t, int64(1), env.power(t, alice))
	assert.Empty(t, env.events.Types())
}
