package config

import (
	"collectordao/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(cfgFile string, cfg *core.Config) error {
	configUtil.AutomaticLoadEnv("COLLECTOR")
	if err := configUtil.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaultGovernance(&cfg.Governance)

	if _, err := govalidator.ValidateStruct(cfg.App); err != nil {
		return err
	}

	return nil
}

func defaultGovernance(g *core.Governance) {
	if g.MembershipPrice == "" {
		g.MembershipPrice = "1"
	}

	if g.ExecutionReward == "" {
		g.ExecutionReward = "0.01"
	}

	if g.VotingPeriod <= 0 {
		// seven days
		g.VotingPeriod = 7 * 24 * 60 * 60
	}
}
