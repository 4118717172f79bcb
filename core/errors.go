package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrCodeUnknown unknown
	ErrCodeUnknown ErrorCode = 100000
	// ErrCodeOperationForbidden operation forbidden
	ErrCodeOperationForbidden ErrorCode = 100001

	// ErrCodeWrongAmount join payment does not match the membership price
	ErrCodeWrongAmount ErrorCode = 100100
	// ErrCodeAlreadyMember address has joined before
	ErrCodeAlreadyMember ErrorCode = 100101
	// ErrCodeNotMember address never joined
	ErrCodeNotMember ErrorCode = 100102
	// ErrCodeNoVotingPower effective weight is zero
	ErrCodeNoVotingPower ErrorCode = 100103
	// ErrCodeDelegationLoop delegation chain reaches back to the delegator
	ErrCodeDelegationLoop ErrorCode = 100104

	// ErrCodeLengthMismatch targets/values/payloads lengths differ
	ErrCodeLengthMismatch ErrorCode = 100200
	// ErrCodeDuplicateProposal identical action bundle already registered
	ErrCodeDuplicateProposal ErrorCode = 100201
	// ErrCodeProposalNotActive vote outside the voting window
	ErrCodeProposalNotActive ErrorCode = 100202
	// ErrCodeAlreadyVoted second vote for the same proposal
	ErrCodeAlreadyVoted ErrorCode = 100203
	// ErrCodeJoinedTooLate voter joined after the proposal started
	ErrCodeJoinedTooLate ErrorCode = 100204
	// ErrCodeInvalidSignature signer recovery failed
	ErrCodeInvalidSignature ErrorCode = 100205
	// ErrCodeSignatureLengthMismatch bulk arrays differ in length
	ErrCodeSignatureLengthMismatch ErrorCode = 100206

	// ErrCodeProposalStillActive execute before the window closed
	ErrCodeProposalStillActive ErrorCode = 100300
	// ErrCodeAlreadyExecuted second execute for the same proposal
	ErrCodeAlreadyExecuted ErrorCode = 100301
	// ErrCodeProposalDidNotSucceed quorum or majority missing
	ErrCodeProposalDidNotSucceed ErrorCode = 100302
	// ErrCodeNotExecuting marketplace purchase outside an execution
	ErrCodeNotExecuting ErrorCode = 100303
	// ErrCodeTooExpensive marketplace price above the proposal cap
	ErrCodeTooExpensive ErrorCode = 100304
	// ErrCodeBuyingNFT marketplace buy reverted without message
	ErrCodeBuyingNFT ErrorCode = 100305
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

var (
	// ErrAlreadyMember the address has joined before
	ErrAlreadyMember = errors.New("already a member")
	// ErrNotMember the address never joined
	ErrNotMember = errors.New("only members")
	// ErrNoVotingPower the member's effective weight is zero
	ErrNoVotingPower = errors.New("no voting power")
	// ErrAlreadyVoted one vote per proposal per member, permanently
	ErrAlreadyVoted = errors.New("already voted")
	// ErrMemberJoinedTooLate the voter joined after the proposal started
	ErrMemberJoinedTooLate = errors.New("member joined after proposal start")
	// ErrDuplicateProposal a live proposal with the same identity exists
	ErrDuplicateProposal = errors.New("proposal with identical actions and description already exists")
	// ErrAlreadyExecuted the proposal has been executed
	ErrAlreadyExecuted = errors.New("proposal already executed")
	// ErrProposalDidNotSucceed quorum or majority missing after the window
	ErrProposalDidNotSucceed = errors.New("proposal did not succeed")
	// ErrInvalidSignature signer recovery failed or yielded the zero address
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrNotExecuting marketplace purchases are execution-only
	ErrNotExecuting = errors.New("must be called during proposal execution")
	// ErrBuyingNFT the marketplace call failed without a message
	ErrBuyingNFT = errors.New("marketplace buy reverted without message")
	// ErrDelegationLoop following the delegatee chain reaches the delegator
	ErrDelegationLoop = errors.New("delegation loop detected")
)

// WrongAmountError join payment differs from the membership price.
type WrongAmountError struct {
	Got  decimal.Decimal
	Want decimal.Decimal
}

func (e *WrongAmountError) Error() string {
	return fmt.Sprintf("wrong payment amount: got %s, want %s", e.Got, e.Want)
}

// LengthMismatchError the three action arrays differ in length.
type LengthMismatchError struct {
	Targets  int
	Values   int
	Payloads int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("function length mismatch: %d targets, %d values, %d payloads", e.Targets, e.Values, e.Payloads)
}

// SignatureLengthMismatchError the five bulk vote arrays differ in length.
type SignatureLengthMismatchError struct {
	IDs      int
	Supports int
	Vs       int
	Rs       int
	Ss       int
}

func (e *SignatureLengthMismatchError) Error() string {
	return fmt.Sprintf("signature length mismatch: %d ids, %d supports, %d v, %d r, %d s", e.IDs, e.Supports, e.Vs, e.Rs, e.Ss)
}

// ProposalNotActiveError a vote arrived outside the voting window.
type ProposalNotActiveError struct {
	Status ProposalStatus
}

func (e *ProposalNotActiveError) Error() string {
	return fmt.Sprintf("proposal not active: status %s", e.Status)
}

// ProposalStillActiveError an execute arrived before the window closed.
type ProposalStillActiveError struct {
	End time.Time
}

func (e *ProposalStillActiveError) Error() string {
	return fmt.Sprintf("proposal still active until %s", e.End.Format(time.RFC3339))
}

// TooExpensiveError the marketplace price exceeds the proposal's cap.
type TooExpensiveError struct {
	Price decimal.Decimal
	Cap   decimal.Decimal
}

func (e *TooExpensiveError) Error() string {
	return fmt.Sprintf("too expensive: price %s above cap %s", e.Price, e.Cap)
}
