package vote

import (
	"context"
	"math/big"
	"time"

	"collectordao/core"
	"collectordao/pkg/eip712"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

// signDomainName the EIP-712 domain name members sign ballots under
const signDomainName = "CollectorDao"

var ballotTypeHash = crypto.Keccak256Hash([]byte("Ballot(uint256 proposalId,bool support)"))

// New new vote service
func New(
	system *core.System,
	database core.Transactor,
	members core.MemberStore,
	proposals core.ProposalStore,
	votes core.VoteStore,
	events core.EventStore,
) core.VoteService {
	return &service{
		system: system,
		db:     database,
		domain: eip712.Domain{
			Name:              signDomainName,
			ChainID:           big.NewInt(system.ChainID),
			VerifyingContract: common.HexToAddress(system.Address),
		},
		members:   members,
		proposals: proposals,
		votes:     votes,
		events:    events,
	}
}

type service struct {
	system    *core.System
	db        core.Transactor
	domain    eip712.Domain
	members   core.MemberStore
	proposals core.ProposalStore
	votes     core.VoteStore
	events    core.EventStore
}

type ballot struct {
	voter   string
	id      common.Hash
	support bool
}

type voteCast struct {
	ProposalTraceID string `json:"proposal_trace_id"`
	Voter           string `json:"voter"`
	Support         bool   `json:"support"`
	Weight          int64  `json:"weight"`
}

func (s *service) CastVote(ctx context.Context, voter string, proposalID common.Hash, support bool) error {
	b := ballot{
		voter:   common.HexToAddress(voter).Hex(),
		id:      proposalID,
		support: support,
	}

	return s.cast(ctx, time.Now(), []ballot{b})
}

func (s *service) CastVoteBySig(ctx context.Context, proposalID common.Hash, support bool, sig core.Signature) error {
	voter, err := s.recover(proposalID, support, sig)
	if err != nil {
		return err
	}

	// membership of the recovered signer is settled by the vote checks
	return s.cast(ctx, time.Now(), []ballot{{
		voter:   voter.Hex(),
		id:      proposalID,
		support: support,
	}})
}

func (s *service) CastVoteBySigBulk(ctx context.Context, proposalIDs []common.Hash, supports []bool, vs []uint8, rs, ss []common.Hash) error {
	n := len(proposalIDs)
	if len(supports) != n || len(vs) != n || len(rs) != n || len(ss) != n {
		return &core.SignatureLengthMismatchError{
			IDs:      n,
			Supports: len(supports),
			Vs:       len(vs),
			Rs:       len(rs),
			Ss:       len(ss),
		}
	}

	ballots := make([]ballot, n)
	for i := 0; i < n; i++ {
		voter, err := s.recover(proposalIDs[i], supports[i], core.Signature{V: vs[i], R: rs[i], S: ss[i]})
		if err != nil {
			return err
		}

		ballots[i] = ballot{
			voter:   voter.Hex(),
			id:      proposalIDs[i],
			support: supports[i],
		}
	}

	return s.cast(ctx, time.Now(), ballots)
}

func (s *service) recover(proposalID common.Hash, support bool, sig core.Signature) (common.Address, error) {
	structHash := crypto.Keccak256Hash(
		ballotTypeHash.Bytes(),
		proposalID.Bytes(),
		eip712.Word(support).Bytes(),
	)

	voter, err := eip712.Recover(eip712.Digest(s.domain, structHash), sig.V, sig.R, sig.S)
	if err != nil {
		return common.Address{}, core.ErrInvalidSignature
	}

	return voter, nil
}

// cast validates and applies a batch of ballots in order inside one
// transaction; the first invalid ballot aborts the whole batch.
func (s *service) cast(ctx context.Context, now time.Time, ballots []ballot) error {
	log := logger.FromContext(ctx).WithField("service", "vote")

	return s.db.Tx(func(tx *db.DB) error {
		var (
			proposals = make(map[string]*core.Proposal, len(ballots))
			order     = make([]string, 0, len(ballots))
			seen      = make(map[string]struct{}, len(ballots))
			events    = make([]*core.Event, 0, len(ballots))
		)

		for _, b := range ballots {
			member, err := s.members.Find(ctx, b.voter)
			if err != nil {
				log.WithError(err).Errorln("members.Find")
				return err
			}

			if member.VotingPower <= 0 {
				return core.ErrNoVotingPower
			}

			trace := b.id.Hex()
			proposal, ok := proposals[trace]
			if !ok {
				proposal, err = s.proposals.Find(ctx, trace)
				if err != nil {
					log.WithError(err).Errorln("proposals.Find")
					return err
				}

				proposals[trace] = proposal
				order = append(order, trace)
			}

			if status := proposal.Status(now); status != core.ProposalStatusActive {
				return &core.ProposalNotActiveError{Status: status}
			}

			key := trace + ":" + member.Address
			if _, dup := seen[key]; dup {
				return core.ErrAlreadyVoted
			}

			voted, err := s.votes.Voted(ctx, trace, member.Address)
			if err != nil {
				log.WithError(err).Errorln("votes.Voted")
				return err
			}

			if voted {
				return core.ErrAlreadyVoted
			}

			// ties go to the voter
			if member.JoinedAt.After(proposal.StartAt) {
				return core.ErrMemberJoinedTooLate
			}

			vote := &core.Vote{
				CreatedAt:       now,
				ProposalTraceID: trace,
				Voter:           member.Address,
				Support:         b.support,
				Weight:          member.VotingPower,
			}

			if err := s.votes.Create(ctx, tx, vote); err != nil {
				return err
			}

			if b.support {
				proposal.ForVotes += member.VotingPower
			} else {
				proposal.AgainstVotes += member.VotingPower
			}
			proposal.VoteCount++

			seen[key] = struct{}{}
			events = append(events, core.NewEvent(core.EventVoteCast, voteCast{
				ProposalTraceID: trace,
				Voter:           member.Address,
				Support:         b.support,
				Weight:          member.VotingPower,
			}))
		}

		for _, trace := range order {
			proposal := proposals[trace]
			if err := s.proposals.Update(ctx, tx, proposal, proposal.Version+1); err != nil {
				log.WithError(err).Errorln("proposals.Update")
				return err
			}
		}

		return s.events.Create(ctx, tx, events)
	})
}
