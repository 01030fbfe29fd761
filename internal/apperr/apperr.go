// Package apperr defines the error kinds shared by every service.
// Services wrap one of these sentinels with context, e.g.
// fmt.Errorf("%w: album %s", apperr.ErrNotFound, id); handlers map the
// kind to an HTTP status with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidInput marks a missing, oversize or mistyped payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized marks a request without a caller identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks a caller that does not own the target resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks an absent resource or share token.
	ErrNotFound = errors.New("not found")
	// ErrGone marks a share token that exists but has expired.
	ErrGone = errors.New("gone")
	// ErrStorage marks a blob backend transport or authorization failure.
	ErrStorage = errors.New("storage error")
	// ErrInternal is the catch-all for unexpected failures.
	ErrInternal = errors.New("internal error")
)

// New returns an error of the given kind carrying a client-safe message.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Invalid is shorthand for an ErrInvalidInput with a human-readable reason.
func Invalid(reason string) error {
	return New(ErrInvalidInput, reason)
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Message returns the client-safe text of err. Messages attached with New
// are returned verbatim; everything else collapses to the kind's message.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	for _, kind := range []error{ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrGone, ErrStorage} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal server error"
}
