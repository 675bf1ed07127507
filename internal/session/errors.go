package session

import "errors"

// ErrAuthRequired is returned by user-scoped operations while the store is
// anonymous. No network call is made in that case.
var ErrAuthRequired = errors.New("login required")

// Kind classifies a failed store operation for the page layer.
type Kind string

const (
	KindLogin    Kind = "login"
	KindRegister Kind = "register"
	KindTopUp    Kind = "topup"
	KindBooking  Kind = "booking"
	KindFetch    Kind = "fetch"
)

// OpError carries a presentable message for the page that triggered the
// operation. Message prefers the backend-supplied detail.
type OpError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *OpError) Error() string {
	return e.Message
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(kind Kind, err error) *OpError {
	return &OpError{Kind: kind, Message: err.Error(), Err: err}
}
