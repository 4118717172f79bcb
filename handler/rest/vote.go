package rest

import (
	"net/http"

	"collectordao/core"
	"collectordao/handler/param"
	"collectordao/handler/render"

	"github.com/ethereum/go-ethereum/common"
)

func handleCastVote(votez core.VoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		trace, err := parseHash(param.String(r, "trace"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var params struct {
			Voter   string `json:"voter"`
			Support bool   `json:"support"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		voter, err := parseAddress(params.Voter)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := votez.CastVote(ctx, voter, trace, params.Support); err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"voted": true})
	}
}

func handleCastVoteBySig(votez core.VoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			ProposalID string `json:"proposal_id"`
			Support    bool   `json:"support"`
			V          uint8  `json:"v"`
			R          string `json:"r"`
			S          string `json:"s"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		trace, err := parseHash(params.ProposalID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		sig, err := parseSignature(params.V, params.R, params.S)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := votez.CastVoteBySig(ctx, trace, params.Support, sig); err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"voted": true})
	}
}

func handleCastVoteBySigBulk(votez core.VoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			ProposalIDs []string `json:"proposal_ids"`
			Supports    []bool   `json:"supports"`
			Vs          []uint8  `json:"v"`
			Rs          []string `json:"r"`
			Ss          []string `json:"s"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		ids := make([]common.Hash, len(params.ProposalIDs))
		for i, s := range params.ProposalIDs {
			id, err := parseHash(s)
			if err != nil {
				render.BadRequest(w, err)
				return
			}

			ids[i] = id
		}

		rs, err := parseHashes(params.Rs)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		ss, err := parseHashes(params.Ss)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := votez.CastVoteBySigBulk(ctx, ids, params.Supports, params.Vs, rs, ss); err != nil {
			fail(w, err)
			return
		}

		render.JSON(w, render.H{"voted": len(ids)})
	}
}

func parseSignature(v uint8, r, s string) (core.Signature, error) {
	rh, err := parseHash(r)
	if err != nil {
		return core.Signature{}, err
	}

	sh, err := parseHash(s)
	if err != nil {
		return core.Signature{}, err
	}

	return core.Signature{V: v, R: rh, S: sh}, nil
}

func parseHashes(raw []string) ([]common.Hash, error) {
	hashes := make([]common.Hash, len(raw))
	for i, s := range raw {
		h, err := parseHash(s)
		if err != nil {
			return nil, err
		}

		hashes[i] = h
	}

	return hashes, nil
}
