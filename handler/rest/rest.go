package rest

import (
	"fmt"
	"net/http"

	"collectordao/core"
	"collectordao/handler/codes"
	"collectordao/handler/render"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Handle mounts the governance rest api.
func Handle(
	system *core.System,
	memberz core.MemberService,
	members core.MemberStore,
	proposalz core.ProposalService,
	proposals core.ProposalStore,
	votez core.VoteService,
	executor core.ExecutionService,
	delegationz core.DelegationService,
) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		err := twirp.NotFoundError("not found")
		render.NotFoundRequest(w, err)
	})

	r.Get("/info", handleInfo(system))

	r.Post("/members", handleJoin(memberz))
	r.Get("/members", handleListMembers(members))
	r.Get("/members/{address}", handleMember(members))

	r.Post("/proposals", handleCreateProposal(proposalz))
	r.Get("/proposals", handleListProposals(proposals))
	r.Get("/proposals/{trace}", handleProposal(proposals))
	r.Post("/proposals/{trace}/votes", handleCastVote(votez))
	r.Post("/proposals/execute", handleExecute(executor))

	r.Post("/votes/signature", handleCastVoteBySig(votez))
	r.Post("/votes/signature/bulk", handleCastVoteBySigBulk(votez))

	// the delegation variant is mounted only when enabled
	if delegationz != nil {
		r.Post("/delegations", handleDelegate(delegationz))
		r.Delete("/delegations", handleUndoDelegate(delegationz))
	}

	return r
}

func fail(w http.ResponseWriter, err error) {
	status, code := codes.Of(err)
	render.Error(w, status, int(code), err)
}

func parseAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address %q", s)
	}

	return common.HexToAddress(s).Hex(), nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, err
	}

	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid hash length %d", len(b))
	}

	return common.BytesToHash(b), nil
}

func parsePayloads(raw []string) ([][]byte, error) {
	payloads := make([][]byte, len(raw))
	for i, s := range raw {
		if s == "" {
			continue
		}

		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}

		payloads[i] = b
	}

	return payloads, nil
}
