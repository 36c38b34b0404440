// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/creachadair/recjson/lex"
	"github.com/creachadair/recjson/store"
	"github.com/tailscale/hujson"
)

// Parse parses a single JSON document from text and stores it in the DB,
// returning its top-level record. The document must be an array or object.
//
// Parsing is done in two passes. The first pass checks the syntax and nesting
// depth of the input without modifying the DB; an error in this pass has
// outcome NonFatal. In particular, input nested more deeply than the maximum
// depth is rejected with outcome NonFatal. The second pass creates the
// records; an error in this pass has outcome Fatal, and the DB may retain the
// records created before it.
func (c *Codec) Parse(text []byte) (*store.Record, error) { return c.parse(text, "", false) }

// ParseParam is as Parse, but the records it creates are parameter records,
// which the DB excludes from its indexes.
func (c *Codec) ParseParam(text []byte) (*store.Record, error) { return c.parse(text, "", true) }

// ParseReader reads all the input from r and parses it as Parse does. The name
// is used in diagnostics, and may be empty.
func (c *Codec) ParseReader(r io.Reader, name string) (*store.Record, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		e := newError(NonFatal, KindResource, err, "failed to read input")
		e.Filename = name
		return nil, c.report(e)
	}
	return c.parse(text, name, false)
}

// ParseFile reads and parses the contents of the named file.
func (c *Codec) ParseFile(filename string) (*store.Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		e := newError(NonFatal, KindResource, err, "failed to open input")
		e.Filename = filename
		return nil, c.report(e)
	}
	defer f.Close()
	return c.ParseReader(f, filename)
}

func (c *Codec) parse(text []byte, name string, isParam bool) (*store.Record, error) {
	if c.cfg.JWCC {
		std, err := hujson.Standardize(slices.Clone(text))
		if err != nil {
			e := newError(NonFatal, KindSyntax, err, "syntax error").at(hujsonOffset(text, err))
			e.Filename = name
			return nil, c.report(e)
		}
		text = std
	}

	if err := c.check(text); err != nil {
		err.Filename = name
		return nil, c.report(err)
	}
	doc, err := c.build(text, isParam)
	if err != nil {
		err.Filename = name
		return nil, c.report(err)
	}
	return doc, nil
}

// hujsonOffset recovers the byte offset of a hujson syntax error in text from
// the 1-based line and column in its message, or returns -1.
func hujsonOffset(text []byte, err error) int {
	var line, col int
	if _, serr := fmt.Sscanf(err.Error(), "hujson: line %d, column %d", &line, &col); serr != nil {
		return -1
	}
	pos := 0
	for ; line > 1; line-- {
		i := bytes.IndexByte(text[pos:], '\n')
		if i < 0 {
			return -1
		}
		pos += i + 1
	}
	if off := pos + col - 1; col > 0 && off <= len(text) {
		return off
	}
	return -1
}

func (c *Codec) newStream(text []byte) *lex.Stream {
	st := lex.NewStream(bytes.NewReader(text))
	st.AllowComments(c.cfg.AllowComments)
	return st
}

// check verifies the syntax of text and that it holds a single array or object
// within the depth limit.
func (c *Codec) check(text []byte) *Error {
	st := c.newStream(text)
	st.SetMaxDepth(c.cfg.MaxDepth)
	if err := st.Parse(new(checker)); err != nil {
		var serr *lex.SyntaxError
		if errors.As(err, &serr) {
			return newError(NonFatal, KindSyntax, err, "syntax error").at(serr.Offset)
		}
		return newError(NonFatal, KindSyntax, err, "syntax error")
	}
	return nil
}

// build parses text into records.
func (c *Codec) build(text []byte, isParam bool) (*store.Record, *Error) {
	b := newBuilder(c.db, &c.cfg, isParam)
	defer b.stk.reset()

	if err := c.newStream(text).Parse(b); err != nil {
		var e *Error
		var serr *lex.SyntaxError
		switch {
		case errors.As(err, &e):
			return nil, e
		case errors.As(err, &serr):
			return nil, newError(Fatal, KindSyntax, err, "JSON parsing failed").at(serr.Offset)
		default:
			return nil, newError(Fatal, KindSyntax, err, "JSON parsing failed")
		}
	}
	if b.doc == nil {
		return nil, newError(Fatal, KindSyntax, nil, "input did not contain a document")
	}
	return b.doc, nil
}

// A checker implements the lex.Handler interface to verify that the top-level
// value of the input is an array or object.
type checker struct{ depth int }

func (c *checker) BeginObject(lex.Anchor) error { c.depth++; return nil }
func (c *checker) EndObject(lex.Anchor) error   { c.depth--; return nil }
func (c *checker) BeginArray(lex.Anchor) error  { c.depth++; return nil }
func (c *checker) EndArray(lex.Anchor) error    { c.depth--; return nil }
func (c *checker) BeginMember(lex.Anchor) error { return nil }
func (c *checker) EndMember(lex.Anchor) error   { return nil }
func (c *checker) EndOfInput(lex.Anchor)        {}

func (c *checker) Value(loc lex.Anchor) error {
	if c.depth == 0 {
		pos := loc.Location()
		return &lex.SyntaxError{
			Location: pos.First,
			Offset:   pos.Pos,
			Message:  "document must be an array or object",
		}
	}
	return nil
}
