// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome classifies the result of a Codec operation.
type Outcome int

// Constants defining the valid Outcome values.
const (
	// Success means the operation completed.
	Success Outcome = iota

	// NonFatal means the operation failed before the database was modified.
	// The caller may discard the input and retry.
	NonFatal

	// Fatal means the operation failed after records were written. The
	// database may contain a partially built document and must be treated
	// as inconsistent; the Codec does not roll back.
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case NonFatal:
		return "non-fatal"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Kind identifies the source of an error.
type Kind int

// Constants defining the valid Kind values.
const (
	KindSyntax   Kind = iota + 1 // malformed input text
	KindResource                 // reading input or writing output failed
	KindStore                    // the record store rejected an operation
	KindSchema                   // a record tree does not match the JSON schema
	KindUsage                    // invalid arguments
)

var kindStr = [...]string{
	KindSyntax:   "syntax",
	KindResource: "resource",
	KindStore:    "store",
	KindSchema:   "schema",
	KindUsage:    "usage",
}

func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindStr) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindStr[k]
}

// Error is the concrete type of errors reported by a Codec.
type Error struct {
	Outcome  Outcome
	Kind     Kind
	Message  string
	Filename string // input file name, if known
	Offset   int    // byte offset in the input, or -1 if unknown

	Err error // the underlying cause, if any
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("json I/O error: ")
	sb.WriteString(e.Message)
	if e.Filename != "" {
		fmt.Fprintf(&sb, " (file=`%s`)", e.Filename)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&sb, " (byte=%d)", e.Offset)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.Err }

// OutcomeOf reports the outcome indicated by err. A nil error is Success, and
// an error that does not wrap an *Error is Fatal.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Outcome
	}
	return Fatal
}

func newError(o Outcome, kind Kind, cause error, msg string, args ...any) *Error {
	return &Error{
		Outcome: o,
		Kind:    kind,
		Message: fmt.Sprintf(msg, args...),
		Offset:  -1,
		Err:     cause,
	}
}

// at sets the input offset of e and returns e.
func (e *Error) at(offset int) *Error { e.Offset = offset; return e }
