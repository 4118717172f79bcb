package cmd

import (
	"time"

	"collectordao/core"
	marketplaceservice "collectordao/service/marketplace"
	settlementservice "collectordao/service/settlement"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/shopspring/decimal"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideSystem() *core.System {
	return &core.System{
		Version:         rootCmd.Version,
		ChainID:         cfg.App.ChainID,
		Address:         cfg.App.Address,
		MembershipPrice: decimal.RequireFromString(cfg.Governance.MembershipPrice),
		ExecutionReward: decimal.RequireFromString(cfg.Governance.ExecutionReward),
		VotingPeriod:    time.Duration(cfg.Governance.VotingPeriod) * time.Second,
		Genesis:         cfg.App.Genesis,
	}
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideLedger() core.Ledger {
	return settlementservice.New(settlementservice.Config{
		Endpoint: cfg.Settlement.Endpoint,
	})
}

func provideMarketplace() core.Marketplace {
	return marketplaceservice.New(marketplaceservice.Config{
		Endpoint: cfg.Marketplace.Endpoint,
	})
}
