package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Transactor runs fn inside a database transaction. *db.DB satisfies it.
type Transactor interface {
	Tx(fn func(tx *db.DB) error) error
}

// Ledger the opaque settlement layer: it moves value between accounts
// and forwards opaque calls to external endpoints. Either side effect
// completes fully or fails without partial state.
type Ledger interface {
	Transfer(ctx context.Context, opponent string, amount decimal.Decimal, memo string) error
	Call(ctx context.Context, target string, value decimal.Decimal, payload []byte) ([]byte, error)
}

// Marketplace the external nft marketplace boundary
type Marketplace interface {
	Price(ctx context.Context, collection, tokenID string) (decimal.Decimal, error)
	Buy(ctx context.Context, collection, tokenID string, amount decimal.Decimal) error
}

// NFTPurchase a marketplace purchase requested by a proposal action
type NFTPurchase struct {
	Collection string          `json:"collection"`
	TokenID    string          `json:"token_id"`
	MaxPrice   decimal.Decimal `json:"max_price"`
}

// ExecutionService execution engine interface
type ExecutionService interface {
	// Execute runs a succeeded proposal's action list all-or-nothing and
	// pays the invoking caller a best-effort reward.
	Execute(ctx context.Context, caller string, targets []string, values []decimal.Decimal, payloads [][]byte, descriptionHash common.Hash) error
	// BuyNFT purchases a token at its current marketplace price, capped.
	// Callable only from within a running execution.
	BuyNFT(ctx context.Context, purchase *NFTPurchase) error
}
