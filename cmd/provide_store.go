package cmd

import (
	"collectordao/core"
	"collectordao/store/delegation"
	"collectordao/store/event"
	"collectordao/store/member"
	"collectordao/store/proposal"
	"collectordao/store/vote"

	"github.com/fox-one/pkg/store/db"
)

func provideMemberStore(db *db.DB) core.MemberStore {
	return member.Cache(member.New(db))
}

func provideProposalStore(db *db.DB) core.ProposalStore {
	return proposal.New(db)
}

func provideVoteStore(db *db.DB) core.VoteStore {
	return vote.New(db)
}

func provideDelegationStore(db *db.DB) core.DelegationStore {
	return delegation.New(db)
}

func provideEventStore(db *db.DB) core.EventStore {
	return event.New(db)
}
