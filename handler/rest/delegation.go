package rest

import (
	"net/http"

	"collectordao/core"
	"collectordao/handler/param"
	"collectordao/handler/render"
)

func handleDelegate(delegationz core.DelegationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Delegator string `json:"delegator"`
			Target    string `json:"target"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		delegator, err := parseAddress(params.Delegator)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		target, err := parseAddress(params.Target)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := delegationz.Delegate(ctx, delegator, target); err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"delegated": true})
	}
}

func handleUndoDelegate(delegationz core.DelegationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Delegator string `json:"delegator"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		delegator, err := parseAddress(params.Delegator)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := delegationz.Undo(ctx, delegator); err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"revoked": true})
	}
}
