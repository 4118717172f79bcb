package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Member a dao member with voting weight
type Member struct {
	ID          int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	Version     int64     `json:"version,omitempty"`
	Address     string    `sql:"size:42" json:"address,omitempty"`
	VotingPower int64     `json:"voting_power,omitempty"`
	JoinedAt    time.Time `json:"joined_at,omitempty"`
}

// Joined reports whether the address ever bought a membership.
// A member keeps this property even after delegating all weight away.
func (m *Member) Joined() bool {
	return m.ID > 0 && !m.JoinedAt.IsZero()
}

// MemberStore member store interface
type MemberStore interface {
	Create(ctx context.Context, tx *db.DB, member *Member) error
	Find(ctx context.Context, address string) (*Member, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, fromID int64, limit int) ([]*Member, error)
	Update(ctx context.Context, tx *db.DB, member *Member, version int64) error
}

// MemberService membership ledger interface
type MemberService interface {
	// Join admits the caller after a payment of exactly the membership
	// price, granting one unit of voting power.
	Join(ctx context.Context, address string, payment decimal.Decimal) (*Member, error)
}
