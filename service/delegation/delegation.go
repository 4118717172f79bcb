package delegation

import (
	"context"

	"collectordao/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

// New new delegation service
func New(
	database core.Transactor,
	members core.MemberStore,
	delegations core.DelegationStore,
	events core.EventStore,
) core.DelegationService {
	return &service{
		db:          database,
		members:     members,
		delegations: delegations,
		events:      events,
	}
}

type service struct {
	db          core.Transactor
	members     core.MemberStore
	delegations core.DelegationStore
	events      core.EventStore
}

type memberDelegated struct {
	Delegator string `json:"delegator"`
	Delegatee string `json:"delegatee"`
	Root      string `json:"root"`
	Amount    int64  `json:"amount"`
}

type delegationRevoked struct {
	Delegator string `json:"delegator"`
	Root      string `json:"root"`
	Amount    int64  `json:"amount"`
}

func (s *service) Delegate(ctx context.Context, delegator, target string) error {
	log := logger.FromContext(ctx).WithField("service", "delegation")

	delegator = common.HexToAddress(delegator).Hex()
	target = common.HexToAddress(target).Hex()

	if delegator == target {
		return core.ErrDelegationLoop
	}

	member, err := s.members.Find(ctx, delegator)
	if err != nil {
		log.WithError(err).Errorln("members.Find")
		return err
	}

	if member.VotingPower <= 0 {
		return core.ErrNoVotingPower
	}

	delegatee, err := s.members.Find(ctx, target)
	if err != nil {
		log.WithError(err).Errorln("members.Find")
		return err
	}

	if !delegatee.Joined() {
		return core.ErrNotMember
	}

	rootAddress, err := s.chainRoot(ctx, target, delegator)
	if err != nil {
		return err
	}

	root, err := s.members.Find(ctx, rootAddress)
	if err != nil {
		log.WithError(err).Errorln("members.Find")
		return err
	}

	moved := member.VotingPower

	err = s.db.Tx(func(tx *db.DB) error {
		root.VotingPower += moved
		if err := s.members.Update(ctx, tx, root, root.Version+1); err != nil {
			return err
		}

		member.VotingPower = 0
		if err := s.members.Update(ctx, tx, member, member.Version+1); err != nil {
			return err
		}

		edge := &core.Delegation{
			Delegator: delegator,
			Delegatee: target,
			Amount:    moved,
		}
		if err := s.delegations.Create(ctx, tx, edge); err != nil {
			return err
		}

		event := core.NewEvent(core.EventMemberDelegated, memberDelegated{
			Delegator: delegator,
			Delegatee: target,
			Root:      rootAddress,
			Amount:    moved,
		})

		return s.events.Create(ctx, tx, []*core.Event{event})
	})
	if err != nil {
		log.WithError(err).Errorln("delegate tx")
		return err
	}

	log.Infof("%s delegated %d to %s (root %s)", delegator, moved, target, rootAddress)
	return nil
}

func (s *service) Undo(ctx context.Context, delegator string) error {
	log := logger.FromContext(ctx).WithField("service", "delegation")

	delegator = common.HexToAddress(delegator).Hex()

	edge, err := s.delegations.Find(ctx, delegator)
	if err != nil {
		log.WithError(err).Errorln("delegations.Find")
		return err
	}

	if edge.ID == 0 {
		return nil
	}

	rootAddress, err := s.chainRoot(ctx, edge.Delegatee, delegator)
	if err != nil {
		return err
	}

	root, err := s.members.Find(ctx, rootAddress)
	if err != nil {
		log.WithError(err).Errorln("members.Find")
		return err
	}

	if root.VotingPower < edge.Amount {
		return core.ErrNoVotingPower
	}

	member, err := s.members.Find(ctx, delegator)
	if err != nil {
		log.WithError(err).Errorln("members.Find")
		return err
	}

	err = s.db.Tx(func(tx *db.DB) error {
		root.VotingPower -= edge.Amount
		if err := s.members.Update(ctx, tx, root, root.Version+1); err != nil {
			return err
		}

		member.VotingPower += edge.Amount
		if err := s.members.Update(ctx, tx, member, member.Version+1); err != nil {
			return err
		}

		if err := s.delegations.Delete(ctx, tx, delegator); err != nil {
			return err
		}

		event := core.NewEvent(core.EventDelegationRevoked, delegationRevoked{
			Delegator: delegator,
			Root:      rootAddress,
			Amount:    edge.Amount,
		})

		return s.events.Create(ctx, tx, []*core.Event{event})
	})
	if err != nil {
		log.WithError(err).Errorln("undo tx")
		return err
	}

	log.Infof("%s revoked delegation of %d from %s", delegator, edge.Amount, rootAddress)
	return nil
}

// chainRoot walks outgoing edges from start until an address without a
// delegation. The walk is bounded by the member count so adversarial
// chains terminate; reaching the delegator is a loop.
func (s *service) chainRoot(ctx context.Context, start, delegator string) (string, error) {
	total, err := s.members.Count(ctx)
	if err != nil {
		return "", err
	}

	current := start
	for i := int64(0); i <= total; i++ {
		edge, err := s.delegations.Find(ctx, current)
		if err != nil {
			return "", err
		}

		if edge.ID == 0 {
			return current, nil
		}

		current = edge.Delegatee
		if current == delegator {
			return "", core.ErrDelegationLoop
		}
	}

	return "", core.ErrDelegationLoop
}
