// Package apperr defines the closed set of failure kinds the CLI can report.
// Every handled error converges on one of these kinds at the top-level
// dispatch in cmd; nothing below that boundary prints or exits.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindUnexpected covers anything not classified below. Keep it first so
	// the zero value of Kind is the catch-all.
	KindUnexpected Kind = iota
	// KindConfig: no credential resolvable from flag, env, or key files.
	KindConfig
	// KindAuth: a credential was found but the service rejected it.
	KindAuth
	// KindValidation: bad or missing language code, conflicting flags.
	KindValidation
	// KindInput: input source missing, empty, unreadable, or undecodable.
	KindInput
	// KindOutput: writing the translated text failed.
	KindOutput
	// KindQuota: the service reported the usage allowance exhausted.
	KindQuota
	// KindProvider: any other failure originating at the remote service.
	KindProvider
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindQuota:
		return "quota"
	case KindProvider:
		return "provider"
	default:
		return "unexpected"
	}
}

// Error tags a human-readable detail message with a Kind. Wrapped causes are
// preserved for errors.Is/As chains.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a tagged error from a format string.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error while keeping it in the unwrap chain.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf classifies err. Errors that never passed through this package
// report KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
