package codes

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"collectordao/core"

	"github.com/bmizerany/assert"
)

func TestOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   core.ErrorCode
	}{
		{core.ErrAlreadyMember, http.StatusConflict, core.ErrCodeAlreadyMember},
		{core.ErrNoVotingPower, http.StatusForbidden, core.ErrCodeNoVotingPower},
		{core.ErrAlreadyVoted, http.StatusConflict, core.ErrCodeAlreadyVoted},
		{core.ErrInvalidSignature, http.StatusUnauthorized, core.ErrCodeInvalidSignature},
		{core.ErrProposalDidNotSucceed, http.StatusConflict, core.ErrCodeProposalDidNotSucceed},
		{&core.LengthMismatchError{Targets: 2, Values: 1, Payloads: 1}, http.StatusBadRequest, core.ErrCodeLengthMismatch},
		{&core.ProposalStillActiveError{End: time.Now()}, http.StatusConflict, core.ErrCodeProposalStillActive},
		{fmt.Errorf("action 1: %w", core.ErrBuyingNFT), http.StatusBadGateway, core.ErrCodeBuyingNFT},
		{fmt.Errorf("db gone"), http.StatusInternalServerError, core.ErrCodeUnknown},
	}

	for _, c := range cases {
		status, code := Of(c.err)
		assert.Equal(t, c.status, status)
		assert.Equal(t, c.code, code)
	}
}
