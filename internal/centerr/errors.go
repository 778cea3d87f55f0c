// Package centerr is the error taxonomy of spec §7: a closed set of
// kinds, not a closed set of Go types, so callers can classify failures
// with errors.Is/errors.As while each site still attaches its own
// context via fmt.Errorf("%w", ...).
package centerr

import "errors"

// Kind is one of the six failure categories spec §7 names.
type Kind int

const (
	KindInputTerminal Kind = iota
	KindValidation
	KindGeneration
	KindCache
	KindUsage
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInputTerminal:
		return "InputTerminalError"
	case KindValidation:
		return "ValidationError"
	case KindGeneration:
		return "GenerationError"
	case KindCache:
		return "CacheError"
	case KindUsage:
		return "UsageError"
	case KindInvariant:
		return "InternalInvariantViolation"
	default:
		return "UnknownError"
	}
}

// Error carries a Kind alongside the wrapped cause, so a single
// errors.As(err, &centerr.Error{}) check recovers the taxonomy kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of kind k with no wrapped cause.
func New(k Kind, msg string) error { return &Error{Kind: k, Msg: msg} }

// Wrap builds an Error of kind k wrapping err.
func Wrap(k Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Is reports whether err (or anything it wraps) is a centerr.Error of kind k.
func Is(err error, k Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == k
	}
	return false
}

// Sentinel causes referenced by multiple packages.
var (
	ErrTerminalLost        = errors.New("terminal lost")
	ErrGenerationExhausted = errors.New("generation exhausted after retries")
	ErrGenerationTimeout   = errors.New("generation timed out")
)
