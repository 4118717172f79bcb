package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// System stores the governance constants fixed at boot.
type System struct {
	Version string

	// ChainID and Address bind the off-chain ballot signature domain to
	// this deployment.
	ChainID int64
	Address string

	MembershipPrice decimal.Decimal
	ExecutionReward decimal.Decimal
	VotingPeriod    time.Duration

	Genesis int64
}
