package rest

import (
	"net/http"

	"collectordao/core"
	"collectordao/handler/render"
)

func handleInfo(system *core.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, render.H{
			"version":          system.Version,
			"chain_id":         system.ChainID,
			"address":          system.Address,
			"membership_price": system.MembershipPrice,
			"execution_reward": system.ExecutionReward,
			"voting_period":    int64(system.VotingPeriod.Seconds()),
		})
	}
}
