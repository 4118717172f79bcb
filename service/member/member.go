package member

import (
	"context"
	"time"

	"collectordao/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// New new member service
func New(
	system *core.System,
	database core.Transactor,
	members core.MemberStore,
	events core.EventStore,
) core.MemberService {
	return &service{
		system:  system,
		db:      database,
		members: members,
		events:  events,
	}
}

type service struct {
	system  *core.System
	db      core.Transactor
	members core.MemberStore
	events  core.EventStore
}

type membershipBought struct {
	Address     string    `json:"address"`
	VotingPower int64     `json:"voting_power"`
	JoinedAt    time.Time `json:"joined_at"`
}

func (s *service) Join(ctx context.Context, address string, payment decimal.Decimal) (*core.Member, error) {
	log := logger.FromContext(ctx).WithField("service", "member")

	address = common.HexToAddress(address).Hex()

	if !payment.Equal(s.system.MembershipPrice) {
		return nil, &core.WrongAmountError{Got: payment, Want: s.system.MembershipPrice}
	}

	existing, err := s.members.Find(ctx, address)
	if err != nil {
		log.WithError(err).Errorln("members.Find")
		return nil, err
	}

	// join-time based, so a member who delegated everything away still
	// cannot buy a second unit of weight
	if existing.Joined() {
		return nil, core.ErrAlreadyMember
	}

	member := &core.Member{
		Address:     address,
		VotingPower: 1,
		JoinedAt:    time.Now(),
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.members.Create(ctx, tx, member); err != nil {
			return err
		}

		event := core.NewEvent(core.EventMembershipBought, membershipBought{
			Address:     member.Address,
			VotingPower: member.VotingPower,
			JoinedAt:    member.JoinedAt,
		})

		return s.events.Create(ctx, tx, []*core.Event{event})
	})
	if err != nil {
		log.WithError(err).Errorln("join tx")
		return nil, err
	}

	log.Infof("member %s joined", member.Address)
	return member, nil
}
