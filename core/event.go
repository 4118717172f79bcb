package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/jmoiron/sqlx/types"
)

const (
	// EventMembershipBought a new member joined
	EventMembershipBought = "membership-bought"
	// EventProposalCreated a proposal was registered
	EventProposalCreated = "proposal-created"
	// EventVoteCast a vote was recorded
	EventVoteCast = "vote-cast"
	// EventProposalExecuted a succeeded proposal was executed
	EventProposalExecuted = "proposal-executed"
	// EventNFTPurchased a marketplace purchase went through
	EventNFTPurchased = "nft-purchased"
	// EventMemberDelegated voting weight was delegated
	EventMemberDelegated = "member-delegated"
	// EventDelegationRevoked a delegation was undone
	EventDelegationRevoked = "delegation-revoked"
)

// Event an append-only outbox row; external observers reconstruct the
// proposal lifecycle from the stream without replaying state.
type Event struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
	TraceID   string         `sql:"size:36" json:"trace_id,omitempty"`
	Type      string         `sql:"size:36" json:"type,omitempty"`
	Payload   types.JSONText `sql:"type:varchar(2048)" json:"payload,omitempty"`
}

// NewEvent builds an event with a fresh trace id and a JSON payload.
func NewEvent(typ string, payload interface{}) *Event {
	body, _ := json.Marshal(payload)
	return &Event{
		TraceID: uuid.New(),
		Type:    typ,
		Payload: body,
	}
}

// EventStore event outbox interface
type EventStore interface {
	Create(ctx context.Context, tx *db.DB, events []*Event) error
	List(ctx context.Context, fromID int64, limit int) ([]*Event, error)
}
