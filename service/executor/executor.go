package executor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"collectordao/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// OpBuyNFT the payload op routed back into this dao during execution
const OpBuyNFT = "buy_nft"

// New new executor service
func New(
	system *core.System,
	database core.Transactor,
	members core.MemberStore,
	proposals core.ProposalStore,
	events core.EventStore,
	ledger core.Ledger,
	marketplace core.Marketplace,
) core.ExecutionService {
	return &service{
		system:      system,
		db:          database,
		members:     members,
		proposals:   proposals,
		events:      events,
		ledger:      ledger,
		marketplace: marketplace,
		self:        common.HexToAddress(system.Address),
	}
}

type service struct {
	system      *core.System
	db          core.Transactor
	members     core.MemberStore
	proposals   core.ProposalStore
	events      core.EventStore
	ledger      core.Ledger
	marketplace core.Marketplace

	self common.Address

	// the host settles one transaction at a time; mu imposes the same
	// discipline on this engine, executing guards nested self-calls
	mu        sync.Mutex
	executing int32
	tx        *db.DB
}

type localOp struct {
	Op string `json:"op"`
}

type proposalExecuted struct {
	ProposalTraceID string    `json:"proposal_trace_id"`
	Creator         string    `json:"creator"`
	Caller          string    `json:"caller"`
	ExecutedAt      time.Time `json:"executed_at"`
}

type nftPurchased struct {
	Collection string          `json:"collection"`
	TokenID    string          `json:"token_id"`
	Price      decimal.Decimal `json:"price"`
}

func (s *service) Execute(ctx context.Context, caller string, targets []string, values []decimal.Decimal, payloads [][]byte, descriptionHash common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithField("service", "executor")

	caller = common.HexToAddress(caller).Hex()

	id, err := core.HashProposal(targets, values, payloads, descriptionHash)
	if err != nil {
		return err
	}

	proposal, err := s.proposals.Find(ctx, id.Hex())
	if err != nil {
		log.WithError(err).Errorln("proposals.Find")
		return err
	}

	now := time.Now()
	switch status := proposal.Status(now); status {
	case core.ProposalStatusActive:
		return &core.ProposalStillActiveError{End: proposal.EndAt}
	case core.ProposalStatusExecuted:
		return core.ErrAlreadyExecuted
	case core.ProposalStatusSucceeded:
	default:
		return core.ErrProposalDidNotSucceed
	}

	actions := make([]core.Action, len(targets))
	for i := range targets {
		actions[i] = core.Action{
			Target:  targets[i],
			Value:   values[i],
			Payload: payloads[i],
		}
	}

	err = s.db.Tx(func(tx *db.DB) error {
		// flip the flag first so a replay sequenced behind this
		// transaction lands on the AlreadyExecuted branch
		proposal.ExecutedAt = sql.NullTime{Time: now, Valid: true}
		if err := s.proposals.Update(ctx, tx, proposal, proposal.Version+1); err != nil {
			return err
		}

		creator, err := s.members.Find(ctx, proposal.Creator)
		if err != nil {
			return err
		}

		creator.VotingPower++
		if err := s.members.Update(ctx, tx, creator, creator.Version+1); err != nil {
			return err
		}

		event := core.NewEvent(core.EventProposalExecuted, proposalExecuted{
			ProposalTraceID: proposal.TraceID,
			Creator:         proposal.Creator,
			Caller:          caller,
			ExecutedAt:      now,
		})
		if err := s.events.Create(ctx, tx, []*core.Event{event}); err != nil {
			return err
		}

		atomic.StoreInt32(&s.executing, 1)
		s.tx = tx
		defer func() {
			atomic.StoreInt32(&s.executing, 0)
			s.tx = nil
		}()

		for idx, action := range actions {
			if err := s.call(ctx, action); err != nil {
				return fmt.Errorf("action %d: %w", idx, err)
			}
		}

		// reward delivery is best effort and never blocks execution
		if err := s.ledger.Transfer(ctx, caller, s.system.ExecutionReward, "execution reward "+proposal.TraceID); err != nil {
			log.WithError(err).Warnln("execution reward skipped")
		}

		return nil
	})
	if err != nil {
		log.WithError(err).Errorln("execute", id.Hex())
		return err
	}

	log.Infof("proposal %s executed by %s", proposal.TraceID, caller)
	return nil
}

func (s *service) call(ctx context.Context, action core.Action) error {
	if common.HexToAddress(action.Target) == s.self {
		var op localOp
		if err := json.Unmarshal(action.Payload, &op); err != nil {
			return err
		}

		switch op.Op {
		case OpBuyNFT:
			var purchase core.NFTPurchase
			if err := json.Unmarshal(action.Payload, &purchase); err != nil {
				return err
			}

			return s.BuyNFT(ctx, &purchase)
		default:
			return fmt.Errorf("unknown self call %q", op.Op)
		}
	}

	_, err := s.ledger.Call(ctx, action.Target, action.Value, action.Payload)
	return err
}

func (s *service) BuyNFT(ctx context.Context, purchase *core.NFTPurchase) error {
	if atomic.LoadInt32(&s.executing) == 0 {
		return core.ErrNotExecuting
	}

	price, err := s.marketplace.Price(ctx, purchase.Collection, purchase.TokenID)
	if err != nil {
		return err
	}

	if price.GreaterThan(purchase.MaxPrice) {
		return &core.TooExpensiveError{Price: price, Cap: purchase.MaxPrice}
	}

	// forward exactly the quoted price
	if err := s.marketplace.Buy(ctx, purchase.Collection, purchase.TokenID, price); err != nil {
		if err.Error() == "" {
			return core.ErrBuyingNFT
		}

		return err
	}

	event := core.NewEvent(core.EventNFTPurchased, nftPurchased{
		Collection: purchase.Collection,
		TokenID:    purchase.TokenID,
		Price:      price,
	})

	return s.events.Create(ctx, s.tx, []*core.Event{event})
}
