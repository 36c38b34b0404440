// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/recjson/lex"
	"github.com/creachadair/recjson/store"
)

// anchor is a fake lex.Anchor for driving a builder directly.
type anchor struct {
	tok  lex.Token
	text string
}

func (a anchor) Token() lex.Token       { return a.tok }
func (a anchor) Text() []byte           { return []byte(a.text) }
func (a anchor) Location() lex.Location { return lex.Location{} }

func newTestCodec(cfg Config) *Codec {
	cfg.Log = io.Discard
	return New(store.New(nil), &cfg)
}

func wantError(t *testing.T, err error, o Outcome, k Kind) {
	t.Helper()
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Got error %v (%T), want *Error", err, err)
	}
	if e.Outcome != o || e.Kind != k {
		t.Errorf("Got error %v/%v (%v), want %v/%v", e.Outcome, e.Kind, e, o, k)
	}
}

func TestBuildDepth(t *testing.T) {
	c := newTestCodec(Config{MaxDepth: 5})
	nest := func(n int) []byte {
		return []byte(strings.Repeat("[", n) + strings.Repeat("]", n))
	}

	doc, err := c.build(nest(5), false)
	if err != nil {
		t.Fatalf("Build depth 5: unexpected error: %v", err)
	}
	if !c.db.IsDocument(doc) {
		t.Error("Build depth 5: result is not a document")
	}

	// Without the checking pass, the builder enforces the limit itself.
	_, err = c.build(nest(6), false)
	if err == nil {
		t.Fatal("Build depth 6: got nil error, want failure")
	}
	wantError(t, err, Fatal, KindResource)
	if !errors.Is(err, errStackFull) {
		t.Errorf("Build depth 6: got %v, want %v", err, errStackFull)
	}
}

func TestBuilderEvents(t *testing.T) {
	var (
		lbrace = anchor{lex.LBrace, "{"}
		rbrace = anchor{lex.RBrace, "}"}
		lsq    = anchor{lex.LSquare, "["}
		one    = anchor{lex.Integer, "1"}
	)
	key := func(s string) anchor { return anchor{lex.String, lex.Quote(s)} }

	t.Run("RepeatedKey", func(t *testing.T) {
		c := newTestCodec(Config{})
		b := newBuilder(c.db, &c.cfg, false)
		for _, step := range []func() error{
			func() error { return b.BeginObject(lbrace) },
			func() error { return b.BeginMember(key("a")) },
			func() error { return b.BeginMember(key("b")) },
			func() error { return b.Value(one) },
			func() error { return b.EndObject(rbrace) },
		} {
			if err := step(); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
		}
		if b.doc == nil || c.db.Len(b.doc) != 1 {
			t.Fatalf("Got document %v, want one member", b.doc)
		}
		pair := c.db.Field(b.doc, 0).Record()
		if got := c.db.Field(pair, store.KeyOffset).Str(); got != "b" {
			t.Errorf("Key: got %q, want %q", got, "b")
		}
	})

	t.Run("ValueWithoutKey", func(t *testing.T) {
		c := newTestCodec(Config{})
		b := newBuilder(c.db, &c.cfg, false)
		if err := b.BeginObject(lbrace); err != nil {
			t.Fatalf("BeginObject: %v", err)
		}
		wantError(t, b.Value(one), Fatal, KindSyntax)
	})

	t.Run("TopLevelScalar", func(t *testing.T) {
		c := newTestCodec(Config{})
		b := newBuilder(c.db, &c.cfg, false)
		wantError(t, b.Value(one), Fatal, KindSyntax)
	})

	t.Run("KeyOutsideObject", func(t *testing.T) {
		c := newTestCodec(Config{})
		b := newBuilder(c.db, &c.cfg, false)
		if err := b.BeginArray(lsq); err != nil {
			t.Fatalf("BeginArray: %v", err)
		}
		wantError(t, b.BeginMember(key("x")), Fatal, KindSyntax)
	})

	t.Run("Mismatch", func(t *testing.T) {
		c := newTestCodec(Config{})
		b := newBuilder(c.db, &c.cfg, false)
		if err := b.BeginArray(lsq); err != nil {
			t.Fatalf("BeginArray: %v", err)
		}
		wantError(t, b.EndObject(rbrace), Fatal, KindSyntax)
	})

	t.Run("SecondDocument", func(t *testing.T) {
		c := newTestCodec(Config{})
		b := newBuilder(c.db, &c.cfg, false)
		if err := b.BeginArray(lsq); err != nil {
			t.Fatalf("BeginArray: %v", err)
		}
		if err := b.EndArray(anchor{lex.RSquare, "]"}); err != nil {
			t.Fatalf("EndArray: %v", err)
		}
		wantError(t, b.BeginArray(lsq), Fatal, KindSyntax)
	})
}

func TestTruncateKey(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"aé€", 4, "aé"}, // é is 2 bytes, € is 3
		{"aé€", 2, "a"},
		{"€", 1, ""},
	}
	for _, tc := range tests {
		if got := truncateKey(tc.key, tc.n); got != tc.want {
			t.Errorf("truncateKey(%q, %d): got %q, want %q", tc.key, tc.n, got, tc.want)
		}
	}
}
