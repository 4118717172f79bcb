package proposal

import (
	"context"
	"encoding/json"
	"time"

	"collectordao/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// New new proposal service
func New(
	system *core.System,
	database core.Transactor,
	members core.MemberStore,
	proposals core.ProposalStore,
	events core.EventStore,
) core.ProposalService {
	return &service{
		system:    system,
		db:        database,
		members:   members,
		proposals: proposals,
		events:    events,
	}
}

type service struct {
	system    *core.System
	db        core.Transactor
	members   core.MemberStore
	proposals core.ProposalStore
	events    core.EventStore
}

type proposalCreated struct {
	TraceID      string    `json:"trace_id"`
	Creator      string    `json:"creator"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	MembersTotal int64     `json:"members_total"`
	Actions      int       `json:"actions"`
}

func (s *service) Create(ctx context.Context, creator string, targets []string, values []decimal.Decimal, payloads [][]byte, descriptionHash common.Hash) (*core.Proposal, error) {
	log := logger.FromContext(ctx).WithField("service", "proposal")

	creator = common.HexToAddress(creator).Hex()

	member, err := s.members.Find(ctx, creator)
	if err != nil {
		log.WithError(err).Errorln("members.Find")
		return nil, err
	}

	if member.VotingPower <= 0 {
		return nil, core.ErrNotMember
	}

	id, err := core.HashProposal(targets, values, payloads, descriptionHash)
	if err != nil {
		return nil, err
	}

	existing, err := s.proposals.Find(ctx, id.Hex())
	if err != nil {
		log.WithError(err).Errorln("proposals.Find")
		return nil, err
	}

	if existing.Exists() {
		return nil, core.ErrDuplicateProposal
	}

	membersTotal, err := s.members.Count(ctx)
	if err != nil {
		log.WithError(err).Errorln("members.Count")
		return nil, err
	}

	actions := make([]core.Action, len(targets))
	for i := range targets {
		actions[i] = core.Action{
			Target:  targets[i],
			Value:   values[i],
			Payload: payloads[i],
		}
	}

	body, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	proposal := &core.Proposal{
		TraceID:         id.Hex(),
		Creator:         creator,
		StartAt:         now,
		EndAt:           now.Add(s.system.VotingPeriod),
		MembersTotal:    membersTotal,
		Actions:         body,
		DescriptionHash: descriptionHash.Hex(),
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.proposals.Create(ctx, tx, proposal); err != nil {
			return err
		}

		event := core.NewEvent(core.EventProposalCreated, proposalCreated{
			TraceID:      proposal.TraceID,
			Creator:      proposal.Creator,
			StartAt:      proposal.StartAt,
			EndAt:        proposal.EndAt,
			MembersTotal: proposal.MembersTotal,
			Actions:      len(actions),
		})

		return s.events.Create(ctx, tx, []*core.Event{event})
	})
	if err != nil {
		log.WithError(err).Errorln("create tx")
		return nil, err
	}

	log.Infof("proposal %s created by %s", proposal.TraceID, creator)
	return proposal, nil
}
