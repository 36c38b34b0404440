// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/creachadair/recjson"
	"github.com/creachadair/recjson/store"
)

// NestedArrays returns the text of an array nested depth levels deep, for
// example NestedArrays(3) == "[[[]]]".
func NestedArrays(depth int) string {
	return strings.Repeat("[", depth) + strings.Repeat("]", depth)
}

// NestedObjects returns the text of an object nested depth levels deep, for
// example NestedObjects(2) == `{"k":{}}`.
func NestedObjects(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(`{"k":`, depth-1) + "{}" + strings.Repeat("}", depth-1)
}

// NewCodec returns a Codec over a new empty store with the given settings.
// If cfg.Log is nil, diagnostics are captured in the returned buffer.
func NewCodec(cfg *recjson.Config, opts *store.Options) (*recjson.Codec, *bytes.Buffer) {
	var log bytes.Buffer
	var c recjson.Config
	if cfg != nil {
		c = *cfg
	}
	if c.Log == nil {
		c.Log = &log
	}
	return recjson.New(store.New(opts), &c), &log
}

// MustParse parses text with c, and fails t if that does not succeed.
func MustParse(t testing.TB, c *recjson.Codec, text string) *store.Record {
	t.Helper()
	doc, err := c.Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse %#q: unexpected error: %v", text, err)
	}
	return doc
}

// MustPrint renders doc with c, and fails t if that does not succeed.
func MustPrint(t testing.TB, c *recjson.Codec, doc *store.Record) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Print(&buf, doc); err != nil {
		t.Fatalf("Print: unexpected error: %v", err)
	}
	return buf.String()
}
