package rest

import (
	"net/http"
	"time"

	"collectordao/core"
	"collectordao/handler/param"
	"collectordao/handler/render"
	"collectordao/handler/views"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

type actionBundle struct {
	Targets         []string          `json:"targets"`
	Values          []decimal.Decimal `json:"values"`
	Payloads        []string          `json:"payloads"`
	Description     string            `json:"description"`
	DescriptionHash string            `json:"description_hash"`
}

// descriptionHash prefers the precomputed hash; a plain description is
// hashed here so both shapes derive the same identity.
func (b actionBundle) descriptionHash() (common.Hash, error) {
	if b.DescriptionHash != "" {
		return parseHash(b.DescriptionHash)
	}

	return crypto.Keccak256Hash([]byte(b.Description)), nil
}

func handleCreateProposal(proposalz core.ProposalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			actionBundle
			Creator string `json:"creator"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		creator, err := parseAddress(params.Creator)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		descriptionHash, err := params.descriptionHash()
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		payloads, err := parsePayloads(params.Payloads)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		proposal, err := proposalz.Create(ctx, creator, params.Targets, params.Values, payloads, descriptionHash)
		if err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"proposal": views.ProposalView(proposal, time.Now())})
	}
}

func handleProposal(proposals core.ProposalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		trace, err := parseHash(param.String(r, "trace"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		proposal, err := proposals.Find(ctx, trace.Hex())
		if err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"proposal": views.ProposalView(proposal, time.Now())})
	}
}

func handleListProposals(proposals core.ProposalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Cursor int64 `json:"cursor"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		const limit = 50
		list, err := proposals.List(ctx, params.Cursor, limit)
		if err != nil {
			fail(w, err)
			return
		}

		var nextCursor int64
		if len(list) == limit {
			nextCursor = list[limit-1].ID
		}

		render.JSON(w, render.H{
			"proposals": views.ProposalViews(list, time.Now()),
			"pagination": render.H{
				"next_cursor": nextCursor,
				"has_next":    nextCursor > 0,
			},
		})
	}
}

func handleExecute(executor core.ExecutionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			actionBundle
			Caller string `json:"caller"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		caller, err := parseAddress(params.Caller)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		descriptionHash, err := params.descriptionHash()
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		payloads, err := parsePayloads(params.Payloads)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := executor.Execute(ctx, caller, params.Targets, params.Values, payloads, descriptionHash); err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"executed": true})
	}
}
