package recovery

import (
	"github.com/distr-sh/recoverd/internal/apierrors"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindOwnership
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	case KindOwnership:
		return "OwnershipError"
	case KindDependency:
		return "DependencyFailure"
	default:
		return "UnknownError"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return apierrors.ErrValidation
	case KindNotFound:
		return apierrors.ErrNotFound
	case KindConflict:
		return apierrors.ErrConflict
	case KindOwnership:
		return apierrors.ErrOwnership
	default:
		return apierrors.ErrDependency
	}
}

type Reason string

const (
	ReasonMissingID         Reason = "missing id"
	ReasonInvalidID         Reason = "invalid id"
	ReasonAccountNotFound   Reason = "account not found"
	ReasonAccountInactive   Reason = "account not active"
	ReasonNoData            Reason = "no data provided"
	ReasonInvalidToken      Reason = "invalid or expired token"
	ReasonMalformedKey      Reason = "malformed key"
	ReasonKeyOwnership      Reason = "key does not belong to given user"
	ReasonTokenConsumed     Reason = "token already consumed"
	ReasonDependencyFailure Reason = "dependency failure"
)

var reasonKinds = map[Reason]Kind{
	ReasonMissingID:         KindValidation,
	ReasonInvalidID:         KindValidation,
	ReasonAccountNotFound:   KindNotFound,
	ReasonAccountInactive:   KindValidation,
	ReasonNoData:            KindValidation,
	ReasonInvalidToken:      KindValidation,
	ReasonMalformedKey:      KindValidation,
	ReasonKeyOwnership:      KindOwnership,
	ReasonTokenConsumed:     KindConflict,
	ReasonDependencyFailure: KindDependency,
}

var reasonMessages = map[Reason]string{
	ReasonMissingID:         "The user id is missing",
	ReasonInvalidID:         "The user id is invalid",
	ReasonAccountNotFound:   "The user does not exist",
	ReasonAccountInactive:   "The account is not active",
	ReasonNoData:            "No data were provided",
	ReasonInvalidToken:      "The token is invalid or has expired",
	ReasonMalformedKey:      "The key provided is not a valid public key",
	ReasonKeyOwnership:      "The key provided doesn't belong to given user",
	ReasonTokenConsumed:     "The token has already been used",
	ReasonDependencyFailure: "The request could not be completed",
}

// RejectedError is the terminal state of a failed recovery attempt. It carries
// exactly one reason.
type RejectedError struct {
	Kind   Kind
	Reason Reason
	Err    error
}

func reject(reason Reason, cause error) *RejectedError {
	return &RejectedError{Kind: reasonKinds[reason], Reason: reason, Err: cause}
}

func (e *RejectedError) Error() string {
	if e.Err != nil {
		return string(e.Reason) + ": " + e.Err.Error()
	}
	return string(e.Reason)
}

// Message is the text shown to the caller.
func (e *RejectedError) Message() string {
	return reasonMessages[e.Reason]
}

func (e *RejectedError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind.sentinel(), e.Err}
	}
	return []error{e.Kind.sentinel()}
}
