package cmd

import (
	"collectordao/core"
	delegationservice "collectordao/service/delegation"
	executorservice "collectordao/service/executor"
	memberservice "collectordao/service/member"
	proposalservice "collectordao/service/proposal"
	voteservice "collectordao/service/vote"

	"github.com/fox-one/pkg/store/db"
)

func provideMemberService(db *db.DB, system *core.System, members core.MemberStore, events core.EventStore) core.MemberService {
	return memberservice.New(system, db, members, events)
}

func provideProposalService(db *db.DB, system *core.System, members core.MemberStore, proposals core.ProposalStore, events core.EventStore) core.ProposalService {
	return proposalservice.New(system, db, members, proposals, events)
}

func provideVoteService(db *db.DB, system *core.System, members core.MemberStore, proposals core.ProposalStore, votes core.VoteStore, events core.EventStore) core.VoteService {
	return voteservice.New(system, db, members, proposals, votes, events)
}

func provideExecutionService(db *db.DB, system *core.System, members core.MemberStore, proposals core.ProposalStore, events core.EventStore) core.ExecutionService {
	return executorservice.New(system, db, members, proposals, events, provideLedger(), provideMarketplace())
}

// provideDelegationService returns nil unless the delegation variant is
// switched on; callers mount delegation routes only when it is not nil.
func provideDelegationService(db *db.DB, members core.MemberStore, delegations core.DelegationStore, events core.EventStore) core.DelegationService {
	if !cfg.Governance.Delegation {
		return nil
	}

	return delegationservice.New(db, members, delegations, events)
}
