package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Delegation an outgoing weight-transfer edge. Amount remembers how much
// weight moved at delegation time so an undo restores exactly that.
type Delegation struct {
	ID        int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Delegator string    `sql:"size:42" json:"delegator,omitempty"`
	Delegatee string    `sql:"size:42" json:"delegatee,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
}

type (
	// DelegationStore delegation edge store interface
	DelegationStore interface {
		Create(ctx context.Context, tx *db.DB, delegation *Delegation) error
		Find(ctx context.Context, delegator string) (*Delegation, error)
		Delete(ctx context.Context, tx *db.DB, delegator string) error
	}

	// DelegationService delegation graph interface
	DelegationService interface {
		// Delegate moves the caller's entire current weight to the root
		// of the target's delegation chain.
		Delegate(ctx context.Context, delegator, target string) error
		// Undo restores the weight recorded at delegation time and
		// clears the edge. Without an active delegation it is a no-op.
		Undo(ctx context.Context, delegator string) error
	}
)
