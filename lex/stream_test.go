// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package lex_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/creachadair/recjson/lex"
	"github.com/google/go-cmp/cmp"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"true", "Value true <true>\n."},
		{"  null\n", "Value null <null>\n."},
		{`-6.32`, "Value number <-6.32>\n."},
		{`"a\tb"`, "Value string <\"a\\tb\">\n."},

		{`{}`, "BeginObject\nEndObject\n."},

		{`{"a":15}`, `
BeginObject
BeginMember <"a">
Value integer <15>
EndMember "}"
EndObject
.`},

		{`{"x":null, "y":[true]}`, `
BeginObject
BeginMember <"x">
Value null <null>
EndMember ","
BeginMember <"y">
BeginArray
Value true <true>
EndArray
EndMember "}"
EndObject
.`},

		{`[]`, "BeginArray\nEndArray\n."},

		{` [1, [2.5, "x"]] `, `
BeginArray
Value integer <1>
BeginArray
Value number <2.5>
Value string <"x">
EndArray
EndArray
.`},
	}

	for _, test := range tests {
		st := lex.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		estr   string
		offset int
	}{
		{``, ``, `at 1:0: expected a value, got end of input`, 0},

		// Various kinds of unbalanced object bits.
		{`{`, `BeginObject`,
			`at 1:1: expected "}" or string, got error: EOF`, 1},
		{`}`, ``, `at 1:0: unexpected "}"`, 0},
		{`{false:1}`, `BeginObject`,
			`at 1:1: expected "}" or string, got false`, 1},
		{`{"true":}`, `
BeginObject
BeginMember <"true">`,
			`at 1:8: unexpected "}"`, 8},
		{`{"true":1,`, `
BeginObject
BeginMember <"true">
Value integer <1>
EndMember ","`,
			`at 1:10: expected string, got error: EOF`, 10},

		// Unbalanced array bits.
		{`[`, `BeginArray`,
			`at 1:1: expected more input, got error: EOF`, 1},
		{`]`, ``, `at 1:0: unexpected "]"`, 0},
		{`[15,`, `
BeginArray
Value integer <15>`,
			`at 1:4: expected more input, got error: EOF`, 4},
		{`[15,]`, `
BeginArray
Value integer <15>`,
			`at 1:4: unexpected "]"`, 4},

		// More than one value.
		{`1 2`, `Value integer <1>`, `at 1:2: unexpected integer after value`, 2},
		{`{} []`, "BeginObject\nEndObject", `at 1:3: unexpected "[" after value`, 3},

		// Invalid values.
		{`forthright`, ``, `at 1:0: unknown constant "forthright" (offset 10)`, 10},
		{`"what did you`, ``, `at 1:0: EOF (offset 13)`, 13},
	}

	for _, test := range tests {
		st := lex.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Errorf("Input: %#q: Parse did not report an error", test.input)
			continue
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
		var serr *lex.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: got error %T, want *SyntaxError", test.input, err)
		} else if serr.Offset != test.offset {
			t.Errorf("Input: %#q: got offset %d, want %d", test.input, serr.Offset, test.offset)
		}
	}
}

func TestStreamMaxDepth(t *testing.T) {
	parse := func(input string, depth int) (string, error) {
		st := lex.NewStream(strings.NewReader(input))
		st.SetMaxDepth(depth)
		th := new(testHandler)
		err := st.Parse(th)
		return th.output(), err
	}

	if _, err := parse(`[[{"a":[]}]]`, 4); err != nil {
		t.Errorf("Parse at the limit: unexpected error: %v", err)
	}
	if _, err := parse(`[[{"a":[[]]}]]`, 0); err != nil {
		t.Errorf("Parse without limit: unexpected error: %v", err)
	}

	out, err := parse(`[[[]]]`, 2)
	if err == nil {
		t.Fatal("Parse beyond the limit: got no error")
	}
	if got, want := err.Error(), "at 1:2: nesting depth exceeds 2"; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
	if diff := diffStrings("BeginArray\nBeginArray", out); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func TestStreamComments(t *testing.T) {
	const input = `/* lead */ [1, // one
  2 /* two */ ] // trail`
	const want = `
BeginArray
Value integer <1>
Value integer <2>
EndArray
.`

	st := lex.NewStream(strings.NewReader(input))
	if err := st.Parse(new(testHandler)); err == nil {
		t.Error("Parse with comments disabled: got no error")
	}

	st = lex.NewStream(strings.NewReader(input))
	st.AllowComments(true)
	th := new(testHandler)
	if err := st.Parse(th); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func TestStreamHandlerError(t *testing.T) {
	errStop := errors.New("stop here")
	st := lex.NewStream(strings.NewReader(`[1, 2, 3]`))
	th := &testHandler{failOn: "2", err: errStop}
	if err := st.Parse(th); err != errStop {
		t.Errorf("Parse: got error %v, want %v", err, errStop)
	}
	if diff := diffStrings("BeginArray\nValue integer <1>\nValue integer <2>", th.output()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

type testHandler struct {
	buf bytes.Buffer

	failOn string // if set, Value fails on this text
	err    error
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(loc lex.Anchor) error { t.pr("BeginObject"); return nil }
func (t *testHandler) EndObject(loc lex.Anchor) error   { t.pr("EndObject"); return nil }
func (t *testHandler) BeginArray(loc lex.Anchor) error  { t.pr("BeginArray"); return nil }
func (t *testHandler) EndArray(loc lex.Anchor) error    { t.pr("EndArray"); return nil }
func (t *testHandler) EndOfInput(loc lex.Anchor)        { t.pr(".") }

func (t *testHandler) BeginMember(loc lex.Anchor) error {
	t.pr("BeginMember <%s>", string(loc.Text()))
	return nil
}

func (t *testHandler) EndMember(loc lex.Anchor) error {
	t.pr("EndMember %s", loc.Token())
	return nil
}

func (t *testHandler) Value(loc lex.Anchor) error {
	t.pr(`Value %s <%s>`, loc.Token(), string(loc.Text()))
	if t.failOn != "" && string(loc.Text()) == t.failOn {
		return t.err
	}
	return nil
}
