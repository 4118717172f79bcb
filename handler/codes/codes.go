// Package codes maps domain errors to http statuses and api codes.
package codes

import (
	"errors"
	"net/http"

	"collectordao/core"
)

// Of returns the http status and api error code for err.
func Of(err error) (int, core.ErrorCode) {
	switch {
	case errors.Is(err, core.ErrAlreadyMember):
		return http.StatusConflict, core.ErrCodeAlreadyMember
	case errors.Is(err, core.ErrNotMember):
		return http.StatusForbidden, core.ErrCodeNotMember
	case errors.Is(err, core.ErrNoVotingPower):
		return http.StatusForbidden, core.ErrCodeNoVotingPower
	case errors.Is(err, core.ErrDelegationLoop):
		return http.StatusBadRequest, core.ErrCodeDelegationLoop
	case errors.Is(err, core.ErrDuplicateProposal):
		return http.StatusConflict, core.ErrCodeDuplicateProposal
	case errors.Is(err, core.ErrAlreadyVoted):
		return http.StatusConflict, core.ErrCodeAlreadyVoted
	case errors.Is(err, core.ErrMemberJoinedTooLate):
		return http.StatusForbidden, core.ErrCodeJoinedTooLate
	case errors.Is(err, core.ErrInvalidSignature):
		return http.StatusUnauthorized, core.ErrCodeInvalidSignature
	case errors.Is(err, core.ErrAlreadyExecuted):
		return http.StatusConflict, core.ErrCodeAlreadyExecuted
	case errors.Is(err, core.ErrProposalDidNotSucceed):
		return http.StatusConflict, core.ErrCodeProposalDidNotSucceed
	case errors.Is(err, core.ErrNotExecuting):
		return http.StatusForbidden, core.ErrCodeNotExecuting
	case errors.Is(err, core.ErrBuyingNFT):
		return http.StatusBadGateway, core.ErrCodeBuyingNFT
	}

	var (
		wrongAmount  *core.WrongAmountError
		lengths      *core.LengthMismatchError
		sigLengths   *core.SignatureLengthMismatchError
		notActive    *core.ProposalNotActiveError
		stillActive  *core.ProposalStillActiveError
		tooExpensive *core.TooExpensiveError
	)

	switch {
	case errors.As(err, &wrongAmount):
		return http.StatusBadRequest, core.ErrCodeWrongAmount
	case errors.As(err, &lengths):
		return http.StatusBadRequest, core.ErrCodeLengthMismatch
	case errors.As(err, &sigLengths):
		return http.StatusBadRequest, core.ErrCodeSignatureLengthMismatch
	case errors.As(err, &notActive):
		return http.StatusConflict, core.ErrCodeProposalNotActive
	case errors.As(err, &stillActive):
		return http.StatusConflict, core.ErrCodeProposalStillActive
	case errors.As(err, &tooExpensive):
		return http.StatusConflict, core.ErrCodeTooExpensive
	}

	return http.StatusInternalServerError, core.ErrCodeUnknown
}
