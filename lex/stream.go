// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package lex

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() []byte       // Returns a view of the raw (undecoded) text of the anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input stream.  If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc.  The text of the key is
	// still quoted; the handler is responsible for unescaping key values if the
	// plain string is required (see Unquote).
	BeginMember(loc Anchor) error

	// End the current object member giving the location and type of the token
	// that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input.
type Stream struct {
	s        *Scanner
	maxDepth int // 0 means unlimited
	depth    int
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return &Stream{s: NewScanner(r)} }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream { return &Stream{s: s} }

// AllowComments configures the scanner associated with s to accept (true) or
// reject (false) comment tokens. Accepted comments are discarded.
func (s *Stream) AllowComments(ok bool) { s.s.AllowComments(ok) }

// SetMaxDepth limits the nesting depth of objects and arrays to n. Input that
// nests more deeply is reported as a syntax error before the handler sees the
// offending container. If n ≤ 0, nesting depth is not limited.
func (s *Stream) SetMaxDepth(n int) { s.maxDepth = n }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses exactly one value from the input stream and delivers events to
// h. The value may be surrounded by whitespace (and comments, if enabled), but
// any other input before or after it is an error. In case of a syntax error,
// the returned error has type [*SyntaxError]. If a handler method reports an
// error, parsing stops and that error is returned unchanged.
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)
	s.depth = 0

	if err := s.nextToken(); err == io.EOF {
		s.syntaxError(io.ErrUnexpectedEOF, "expected a value, got end of input")
	} else if err != nil {
		s.syntaxError(err, "%v", err)
	}
	s.parseElement(h)

	if err := s.nextToken(); err == nil {
		s.syntaxError(nil, "unexpected %v after value", s.s.Token())
	} else if err != io.EOF {
		s.syntaxError(err, "%v", err)
	}
	h.EndOfInput(s.s)
	return nil
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.enter()
		s.checkError(h.BeginObject(s.s))
		s.parseMembers(h)
		s.require(RBrace)
		s.checkError(h.EndObject(s.s))
		s.depth--
	case LSquare:
		s.enter()
		s.checkError(h.BeginArray(s.s))
		s.parseElements(h)
		s.require(RSquare)
		s.checkError(h.EndArray(s.s))
		s.depth--
	case Integer, Number, String, True, False, Null:
		s.checkError(h.Value(s.s))
	case RBrace, RSquare, Comma, Colon:
		s.syntaxError(nil, "unexpected %v", tok)
	default:
		s.syntaxError(nil, "unknown token %v", tok)
	}
}

// enter records the opening of a container and enforces the depth limit.
func (s *Stream) enter() {
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		s.syntaxError(nil, "nesting depth exceeds %d", s.maxDepth)
	}
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	tok := s.advance(RBrace, String)
	if tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(h.BeginMember(s.s))
		s.advance(Colon)
		s.advance()
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := s.advance(RBrace, Comma)
		s.checkError(h.EndMember(s.s))
		if tok == RBrace {
			return // end of object
		}
		s.advance(String) // advance to next key
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	if tok := s.advance(); tok == RSquare {
		return // end of array
	}
	s.parseElement(h)
	for {
		if tok := s.advance(RSquare, Comma); tok == RSquare {
			return // end of array
		}
		s.advance()
		s.parseElement(h)
	}
}

// nextToken advances to the next non-comment token.
func (s *Stream) nextToken() error {
	for s.s.Next() {
		if tok := s.s.Token(); tok == LineComment || tok == BlockComment {
			continue
		}
		return nil
	}
	return cmp.Or(s.s.Err(), io.EOF)
}

func (s *Stream) advance(tokens ...Token) Token {
	if err := s.nextToken(); err != nil {
		s.syntaxError(err, "%v", tokLabel(tokens, err))
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !tokOneOf(tok, tokens) {
		s.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

func (s *Stream) require(token Token) {
	if tok := s.s.Token(); tok != token {
		s.syntaxError(nil, "expected %v, got %v", token, tok)
	}
}

func (s *Stream) syntaxError(err error, msg string, args ...any) {
	loc := s.s.Location()
	offset := loc.Pos
	var perr posError
	if errors.As(err, &perr) {
		offset = perr.pos
	} else if err != nil {
		offset = s.s.Offset()
	}
	panic(&SyntaxError{
		Location: loc.First,
		Offset:   offset,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		if err, ok := got.(error); ok {
			return fmt.Sprintf("expected more input, got error: %v", err)
		}
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	if err, ok := got.(error); ok {
		return fmt.Sprintf("expected %s, got error: %v", exp, err)
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// tokOneOf reports whether cur is an element of tokens.
func tokOneOf(cur Token, tokens []Token) bool {
	return slices.Contains(tokens, cur)
}

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Location LineCol
	Offset   int // byte offset of the error in the input
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
