package errs

import (
	"errors"
)

// Kind is the closed set of failures surfaced by coupon issuance.
type Kind string

const (
	KindCouponNotFound           Kind = "COUPON_NOT_FOUND"
	KindCouponDisabled           Kind = "COUPON_DISABLED"
	KindCouponNotAvailablePeriod Kind = "COUPON_NOT_AVAILABLE_PERIOD"
	KindCouponExhausted          Kind = "COUPON_EXHAUSTED"
	KindAlreadyIssued            Kind = "ALREADY_ISSUED"
	KindLockTimeout              Kind = "LOCK_TIMEOUT"
	KindIssuedCouponNotFound     Kind = "ISSUED_COUPON_NOT_FOUND"
	KindAlreadyUsed              Kind = "ALREADY_USED"
)

func (k Kind) String() string {
	return string(k)
}

type DomainError struct {
	kind      Kind
	code      string
	msg       string
	retryable bool
}

func (e *DomainError) Error() string {
	return e.msg
}

func (e *DomainError) Kind() Kind      { return e.kind }
func (e *DomainError) Code() string    { return e.code }
func (e *DomainError) Retryable() bool { return e.retryable }

// Domain-specific sentinel errors, compared with errors.Is
var (
	// Coupon errors
	ErrCouponNotFound           = &DomainError{kind: KindCouponNotFound, code: "CP01", msg: "coupon not found"}
	ErrCouponDisabled           = &DomainError{kind: KindCouponDisabled, code: "CP02", msg: "coupon is disabled"}
	ErrCouponNotAvailablePeriod = &DomainError{kind: KindCouponNotAvailablePeriod, code: "CP03", msg: "coupon is not in its issuance period"}
	ErrCouponExhausted          = &DomainError{kind: KindCouponExhausted, code: "CP04", msg: "coupon is exhausted"}

	// Issuance errors
	ErrAlreadyIssued = &DomainError{kind: KindAlreadyIssued, code: "CP05", msg: "coupon already issued to user"}
	ErrLockTimeout   = &DomainError{kind: KindLockTimeout, code: "CP06", msg: "timed out waiting for coupon lock", retryable: true}

	// Redemption errors
	ErrIssuedCouponNotFound = &DomainError{kind: KindIssuedCouponNotFound, code: "CP07", msg: "issued coupon not found"}
	ErrAlreadyUsed          = &DomainError{kind: KindAlreadyUsed, code: "CP08", msg: "issued coupon already used"}

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

// KindOf reports the domain kind carried anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func IsRetryable(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.retryable
	}
	return false
}
