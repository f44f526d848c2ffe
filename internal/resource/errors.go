package resource

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/harentsoaR/school-api/internal/store"
)

// Kind classifies engine failures for the transport layer.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindNotFound:
		return "not found"
	default:
		return "unavailable"
	}
}

// Error is returned by every Engine operation. Message is safe to show to
// API clients; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(err error, format string, args ...any) error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...), Err: errors.WithStack(err)}
}

// KindOf reports the kind of err. Errors that did not come from the engine
// are treated as KindUnavailable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

// fromStore converts a store error into an engine error.
func fromStore(err error, d Descriptor, id string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFound("%s %s not found", d.Name, id)
	case errors.Is(err, store.ErrDuplicate) && len(d.Unique) > 0:
		return &Error{
			Kind:    KindInvalidInput,
			Message: fmt.Sprintf("a %s with the same %s already exists", d.Name, strings.Join(d.Unique, " or ")),
			Err:     err,
		}
	case errors.Is(err, store.ErrRejected):
		return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf("%s rejected by store", d.Name), Err: err}
	default:
		return Unavailable(err, "%s store unavailable", d.Name)
	}
}
