package triage

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrToolchain    = errors.New("compatible toolchain unavailable")
	ErrAnalysisTool = errors.New("analysis tool unavailable")
	ErrLaunch       = errors.New("analysis tool failed to launch")
	ErrSink         = errors.New("report sink unusable")
	ErrHardFailure  = errors.New("analysis tool error outside known violations")
)

// Kind classifies fatal conditions.
type Kind uint8

const (
	KindToolchain Kind = iota + 1
	KindAnalysisTool
	KindLaunch
	KindSink
	KindHardFailure
)

func (k Kind) String() string {
	switch k {
	case KindToolchain:
		return "toolchain"
	case KindAnalysisTool:
		return "analysis-tool"
	case KindLaunch:
		return "launch"
	case KindSink:
		return "sink"
	case KindHardFailure:
		return "hard-failure"
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindToolchain:
		return ErrToolchain
	case KindAnalysisTool:
		return ErrAnalysisTool
	case KindLaunch:
		return ErrLaunch
	case KindSink:
		return ErrSink
	case KindHardFailure:
		return ErrHardFailure
	}
	return nil
}

// prefix mirrors the bracketed labels operators already grep for.
func (k Kind) prefix() string {
	switch k {
	case KindToolchain:
		return "[Cargo Error]"
	case KindSink:
		return "[Path Error]"
	default:
		return "[Miri Error]"
	}
}

// Error is a fatal condition carrying the literal cause text.
type Error struct {
	Kind  Kind
	Cause string
	Err   error
}

// Errorf builds an *Error with a formatted cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Cause: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around err, using its message as the cause.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: err.Error(), Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.prefix(), e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// IsFatal reports whether err is one of the conditions that abort a run.
func IsFatal(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
