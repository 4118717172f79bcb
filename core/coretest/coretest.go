// Package coretest provides in-memory store fakes for service tests.
// The fakes honor the same contracts as the gorm stores: Find returns
// an empty record for unknown keys, Update enforces the version column,
// and a failed transaction rolls every registered store back.
package coretest

import (
	"context"
	"sort"
	"time"

	"collectordao/core"

	"github.com/fox-one/pkg/store/db"
)

// Snapshotter is implemented by the fakes so DB can roll them back.
type Snapshotter interface {
	Snapshot() interface{}
	Restore(snap interface{})
}

// DB is an in-memory core.Transactor. It passes a nil *db.DB to fn;
// the fakes ignore the tx argument.
type DB struct {
	stores []Snapshotter
}

// NewDB new fake transactor over the given stores
func NewDB(stores ...Snapshotter) *DB {
	return &DB{stores: stores}
}

// Tx runs fn and restores every registered store when fn fails.
func (d *DB) Tx(fn func(tx *db.DB) error) error {
	snaps := make([]interface{}, len(d.stores))
	for i, s := range d.stores {
		snaps[i] = s.Snapshot()
	}

	if err := fn(nil); err != nil {
		for i, s := range d.stores {
			s.Restore(snaps[i])
		}

		return err
	}

	return nil
}

// Members an in-memory core.MemberStore
type Members struct {
	nextID  int64
	members map[string]*core.Member
}

// NewMembers new member store fake
func NewMembers() *Members {
	return &Members{members: map[string]*core.Member{}}
}

func (s *Members) Create(_ context.Context, _ *db.DB, member *core.Member) error {
	s.nextID++
	member.ID = s.nextID
	member.CreatedAt = time.Now()
	member.Version = 1

	cp := *member
	s.members[member.Address] = &cp
	return nil
}

func (s *Members) Find(_ context.Context, address string) (*core.Member, error) {
	if m, ok := s.members[address]; ok {
		cp := *m
		return &cp, nil
	}

	return &core.Member{}, nil
}

func (s *Members) Count(_ context.Context) (int64, error) {
	return int64(len(s.members)), nil
}

func (s *Members) List(_ context.Context, fromID int64, limit int) ([]*core.Member, error) {
	var list []*core.Member
	for _, m := range s.members {
		if m.ID > fromID {
			cp := *m
			list = append(list, &cp)
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

func (s *Members) Update(_ context.Context, _ *db.DB, member *core.Member, version int64) error {
	stored, ok := s.members[member.Address]
	if !ok || stored.Version != member.Version {
		return db.ErrOptimisticLock
	}

	member.Version = version
	cp := *member
	s.members[member.Address] = &cp
	return nil
}

func (s *Members) Snapshot() interface{} {
	snap := make(map[string]*core.Member, len(s.members))
	for k, v := range s.members {
		cp := *v
		snap[k] = &cp
	}

	return snap
}

func (s *Members) Restore(snap interface{}) {
	s.members = snap.(map[string]*core.Member)
}

// Proposals an in-memory core.ProposalStore
type Proposals struct {
	nextID    int64
	proposals map[string]*core.Proposal
}

// NewProposals new proposal store fake
func NewProposals() *Proposals {
	return &Proposals{proposals: map[string]*core.Proposal{}}
}

func (s *Proposals) Create(_ context.Context, _ *db.DB, proposal *core.Proposal) error {
	s.nextID++
	proposal.ID = s.nextID
	proposal.CreatedAt = time.Now()
	proposal.Version = 1

	cp := *proposal
	s.proposals[proposal.TraceID] = &cp
	return nil
}

func (s *Proposals) Find(_ context.Context, traceID string) (*core.Proposal, error) {
	if p, ok := s.proposals[traceID]; ok {
		cp := *p
		return &cp, nil
	}

	return &core.Proposal{}, nil
}

func (s *Proposals) List(_ context.Context, fromID int64, limit int) ([]*core.Proposal, error) {
	var list []*core.Proposal
	for _, p := range s.proposals {
		if p.ID > fromID {
			cp := *p
			list = append(list, &cp)
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

func (s *Proposals) Update(_ context.Context, _ *db.DB, proposal *core.Proposal, version int64) error {
	stored, ok := s.proposals[proposal.TraceID]
	if !ok || stored.Version != proposal.Version {
		return db.ErrOptimisticLock
	}

	proposal.Version = version
	cp := *proposal
	s.proposals[proposal.TraceID] = &cp
	return nil
}

func (s *Proposals) Snapshot() interface{} {
	snap := make(map[string]*core.Proposal, len(s.proposals))
	for k, v := range s.proposals {
		cp := *v
		snap[k] = &cp
	}

	return snap
}

func (s *Proposals) Restore(snap interface{}) {
	s.proposals = snap.(map[string]*core.Proposal)
}

// Votes an in-memory core.VoteStore
type Votes struct {
	nextID int64
	votes  map[string]*core.Vote
}

// NewVotes new vote store fake
func NewVotes() *Votes {
	return &Votes{votes: map[string]*core.Vote{}}
}

func voteKey(proposalTraceID, voter string) string {
	return proposalTraceID + "/" + voter
}

func (s *Votes) Create(_ context.Context, _ *db.DB, vote *core.Vote) error {
	key := voteKey(vote.ProposalTraceID, vote.Voter)
	if _, ok := s.votes[key]; ok {
		return core.ErrAlreadyVoted
	}

	s.nextID++
	vote.ID = s.nextID

	cp := *vote
	s.votes[key] = &cp
	return nil
}

func (s *Votes) Voted(_ context.Context, proposalTraceID, voter string) (bool, error) {
	_, ok := s.votes[voteKey(proposalTraceID, voter)]
	return ok, nil
}

func (s *Votes) Snapshot() interface{} {
	snap := make(map[string]*core.Vote, len(s.votes))
	for k, v := range s.votes {
		cp := *v
		snap[k] = &cp
	}

	return snap
}

func (s *Votes) Restore(snap interface{}) {
	s.votes = snap.(map[string]*core.Vote)
}

// Delegations an in-memory core.DelegationStore
type Delegations struct {
	nextID      int64
	delegations map[string]*core.Delegation
}

// NewDelegations new delegation store fake
func NewDelegations() *Delegations {
	return &Delegations{delegations: map[string]*core.Delegation{}}
}

func (s *Delegations) Create(_ context.Context, _ *db.DB, delegation *core.Delegation) error {
	s.nextID++
	delegation.ID = s.nextID
	delegation.CreatedAt = time.Now()

	cp := *delegation
	s.delegations[delegation.Delegator] = &cp
	return nil
}

func (s *Delegations) Find(_ context.Context, delegator string) (*core.Delegation, error) {
	if d, ok := s.delegations[delegator]; ok {
		cp := *d
		return &cp, nil
	}

	return &core.Delegation{}, nil
}

func (s *Delegations) Delete(_ context.Context, _ *db.DB, delegator string) error {
	delete(s.delegations, delegator)
	return nil
}

func (s *Delegations) Snapshot() interface{} {
	snap := make(map[string]*core.Delegation, len(s.delegations))
	for k, v := range s.delegations {
		cp := *v
		snap[k] = &cp
	}

	return snap
}

func (s *Delegations) Restore(snap interface{}) {
	s.delegations = snap.(map[string]*core.Delegation)
}

// Events an in-memory core.EventStore
type Events struct {
	nextID int64
	events []*core.Event
}

// NewEvents new event store fake
func NewEvents() *Events {
	return &Events{}
}

func (s *Events) Create(_ context.Context, _ *db.DB, events []*core.Event) error {
	for _, event := range events {
		s.nextID++
		event.ID = s.nextID
		event.CreatedAt = time.Now()

		cp := *event
		s.events = append(s.events, &cp)
	}

	return nil
}

func (s *Events) List(_ context.Context, fromID int64, limit int) ([]*core.Event, error) {
	var list []*core.Event
	for _, event := range s.events {
		if event.ID > fromID {
			cp := *event
			list = append(list, &cp)
		}

		if len(list) == limit {
			break
		}
	}

	return list, nil
}

// Types lists the stored event types in insert order.
func (s *Events) Types() []string {
	types := make([]string, len(s.events))
	for i, event := range s.events {
		types[i] = event.Type
	}

	return types
}

func (s *Events) Snapshot() interface{} {
	snap := make([]*core.Event, len(s.events))
	for i, event := range s.events {
		cp := *event
		snap[i] = &cp
	}

	return snap
}

func (s *Events) Restore(snap interface{}) {
	s.events = snap.([]*core.Event)
}
