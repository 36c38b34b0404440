// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import (
	"strconv"
	"unicode/utf8"

	"github.com/creachadair/recjson/lex"
	"github.com/creachadair/recjson/store"
)

// A builder implements the lex.Handler interface to construct document
// records from parser events. Each array or object is buffered in a frame
// while it is open, and materialized as a record when it closes. Inside an
// object, each value is wrapped with its key in a key-value pair record.
//
// All errors reported by a builder are fatal: once any record has been
// created, a failure leaves the store holding a partial document.
type builder struct {
	db      *store.DB
	isParam bool
	maxKey  int
	strict  bool

	stk frameStack
	doc *store.Record // set when the outermost frame closes
}

func newBuilder(db *store.DB, cfg *Config, isParam bool) *builder {
	return &builder{
		db:      db,
		isParam: isParam,
		maxKey:  cfg.MaxKeyLen,
		strict:  cfg.StrictKeys,
		stk:     newFrameStack(cfg.MaxDepth),
	}
}

func (b *builder) fail(loc lex.Anchor, kind Kind, cause error, msg string, args ...any) error {
	return newError(Fatal, kind, cause, msg, args...).at(loc.Location().Pos)
}

func (b *builder) BeginObject(loc lex.Anchor) error { return b.begin(loc, objectFrame) }
func (b *builder) EndObject(loc lex.Anchor) error   { return b.end(loc, objectFrame) }
func (b *builder) BeginArray(loc lex.Anchor) error  { return b.begin(loc, arrayFrame) }
func (b *builder) EndArray(loc lex.Anchor) error    { return b.end(loc, arrayFrame) }
func (b *builder) EndMember(loc lex.Anchor) error   { return nil }
func (b *builder) EndOfInput(loc lex.Anchor)        {}

func (b *builder) begin(loc lex.Anchor, kind frameKind) error {
	if b.doc != nil {
		return b.fail(loc, KindSyntax, nil, "input contains more than one document")
	}
	if err := b.stk.push(kind); err != nil {
		return b.fail(loc, KindResource, err, "nesting too deep")
	}
	return nil
}

// end closes the innermost frame and materializes its record. The outermost
// record becomes the document; any other record is added to its parent.
func (b *builder) end(loc lex.Anchor, kind frameKind) error {
	f, err := b.stk.pop()
	if err != nil {
		return b.fail(loc, KindSyntax, err, "unbalanced end of %v", kind)
	} else if f.kind != kind {
		return b.fail(loc, KindSyntax, nil, "end of %v closes an open %v", kind, f.kind)
	}

	isTop := b.stk.depth() == 0
	var rec *store.Record
	if kind == arrayFrame {
		rec, err = b.db.CreateArray(f.elems, isTop, b.isParam)
	} else {
		rec, err = b.db.CreateObject(f.elems, isTop, b.isParam)
	}
	if err != nil {
		return b.fail(loc, KindStore, err, "failed to create %v record", kind)
	}
	if isTop {
		b.doc = rec
		return nil
	}
	return b.add(loc, b.db.EncodeRecord(rec))
}

// add appends v to the innermost frame. Inside an object, v is first paired
// with the pending key.
func (b *builder) add(loc lex.Anchor, v store.Value) error {
	f := b.stk.top()
	if f == nil {
		return b.fail(loc, KindSyntax, nil, "value outside of an array or object")
	}
	if f.kind == arrayFrame {
		f.elems = append(f.elems, v)
		return nil
	}

	if !f.hasKey {
		return b.fail(loc, KindSyntax, nil, "object value without a key")
	}
	key := b.db.EncodeStr(f.key)
	if key.IsIllegal() {
		return b.fail(loc, KindStore, store.ErrIllegal, "failed to encode key %q", f.key)
	}
	f.hasKey = false
	pair, err := b.db.CreateKVPair(key, v, b.isParam)
	if err != nil {
		return b.fail(loc, KindStore, err, "failed to create pair for key %q", f.key)
	}
	f.elems = append(f.elems, b.db.EncodeRecord(pair))
	return nil
}

// BeginMember records the key of an object member. A second key before a value
// replaces the first.
func (b *builder) BeginMember(loc lex.Anchor) error {
	f := b.stk.top()
	if f == nil || f.kind != objectFrame {
		return b.fail(loc, KindSyntax, nil, "key outside of an object")
	}
	key, err := lex.Unquote(loc.Text())
	if err != nil {
		return b.fail(loc, KindSyntax, err, "invalid object key")
	}
	if len(key) > b.maxKey {
		if b.strict {
			return b.fail(loc, KindSyntax, nil, "key exceeds %d bytes", b.maxKey)
		}
		key = truncateKey(key, b.maxKey)
	}
	f.key, f.hasKey = key, true
	return nil
}

// Value encodes a literal and adds it to the innermost frame.
func (b *builder) Value(loc lex.Anchor) error {
	text := string(loc.Text())
	var v store.Value
	switch tok := loc.Token(); tok {
	case lex.Integer:
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			v = b.db.EncodeInt(n)
			break
		}
		fallthrough // out of range for int64
	case lex.Number:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return b.fail(loc, KindSyntax, err, "invalid number %s", text)
		}
		v = b.db.EncodeDouble(f)
	case lex.String:
		s, err := lex.Unquote(loc.Text())
		if err != nil {
			return b.fail(loc, KindSyntax, err, "invalid string")
		}
		v = b.db.EncodeStr(s)
	case lex.True, lex.False:
		v = b.db.EncodeBool(tok == lex.True)
	case lex.Null:
		v = b.db.EncodeNull()
	default:
		return b.fail(loc, KindSyntax, nil, "unexpected %v", tok)
	}
	if v.IsIllegal() {
		return b.fail(loc, KindStore, store.ErrIllegal, "failed to encode %v value", loc.Token())
	}
	return b.add(loc, v)
}

// truncateKey shortens key to at most n bytes without splitting a rune.
func truncateKey(key string, n int) string {
	for n > 0 && !utf8.RuneStart(key[n]) {
		n--
	}
	return key[:n]
}
