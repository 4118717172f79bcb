package views

import (
	"time"

	"collectordao/core"
)

// Member member view
type Member struct {
	Address     string    `json:"address"`
	VotingPower int64     `json:"voting_power"`
	JoinedAt    time.Time `json:"joined_at"`
}

// MemberView render member view
func MemberView(m *core.Member) Member {
	return Member{
		Address:     m.Address,
		VotingPower: m.VotingPower,
		JoinedAt:    m.JoinedAt,
	}
}

// MemberViews render member views
func MemberViews(members []*core.Member) []Member {
	views := make([]Member, len(members))
	for i, m := range members {
		views[i] = MemberView(m)
	}

	return views
}

// Proposal proposal view with the derived status
type Proposal struct {
	TraceID         string        `json:"trace_id"`
	Creator         string        `json:"creator"`
	StartAt         time.Time     `json:"start_at"`
	EndAt           time.Time     `json:"end_at"`
	ForVotes        int64         `json:"for_votes"`
	AgainstVotes    int64         `json:"against_votes"`
	VoteCount       int64         `json:"vote_count"`
	MembersTotal    int64         `json:"members_total"`
	Actions         []core.Action `json:"actions,omitempty"`
	DescriptionHash string        `json:"description_hash"`
	Status          string        `json:"status"`
	ExecutedAt      *time.Time    `json:"executed_at,omitempty"`
}

// ProposalView render proposal view
func ProposalView(p *core.Proposal, now time.Time) Proposal {
	view := Proposal{
		TraceID:         p.TraceID,
		Creator:         p.Creator,
		StartAt:         p.StartAt,
		EndAt:           p.EndAt,
		ForVotes:        p.ForVotes,
		AgainstVotes:    p.AgainstVotes,
		VoteCount:       p.VoteCount,
		MembersTotal:    p.MembersTotal,
		DescriptionHash: p.DescriptionHash,
		Status:          p.Status(now).String(),
	}

	if actions, err := p.ActionList(); err == nil {
		view.Actions = actions
	}

	if p.ExecutedAt.Valid {
		t := p.ExecutedAt.Time
		view.ExecutedAt = &t
	}

	return view
}

// ProposalViews render proposal views
func ProposalViews(proposals []*core.Proposal, now time.Time) []Proposal {
	views := make([]Proposal, len(proposals))
	for i, p := range proposals {
		views[i] = ProposalView(p, now)
	}

	return views
}
