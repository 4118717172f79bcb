package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config collectordao config
type Config struct {
	App         App        `json:"app"`
	DB          db.Config  `json:"db"`
	Governance  Governance `json:"governance"`
	Settlement  Remote     `json:"settlement"`
	Marketplace Remote     `json:"marketplace"`
}

// App app config
type App struct {
	// ChainID and Address identify this deployment inside the ballot
	// signature domain.
	ChainID int64  `json:"chain_id" valid:"required"`
	Address string `json:"address" valid:"required"`
	Genesis int64  `json:"genesis"`
}

// Governance voting parameters
type Governance struct {
	MembershipPrice string `json:"membership_price"`
	ExecutionReward string `json:"execution_reward"`
	// VotingPeriod voting window length in seconds
	VotingPeriod int64 `json:"voting_period"`
	// Delegation mounts the weight-delegation variant. Off by default;
	// it is an alternative to signature voting, not a companion.
	Delegation bool `json:"delegation"`
}

// Remote an external collaborator endpoint
type Remote struct {
	Endpoint string `json:"endpoint" valid:"required"`
}
