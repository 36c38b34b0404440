// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package store_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/creachadair/recjson/store"
	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecode(t *testing.T) {
	db := store.New(nil)

	if v := db.EncodeInt(-25); v.Type() != store.IntType || v.Int() != -25 {
		t.Errorf("EncodeInt: got %v", v)
	}
	if v := db.EncodeInt(1 << 40); v.Int() != 1<<40 {
		t.Errorf("EncodeInt large: got %v", v)
	}
	if v := db.EncodeDouble(0.25); v.Type() != store.DoubleType || v.Double() != 0.25 {
		t.Errorf("EncodeDouble: got %v", v)
	}
	if v := db.EncodeStr("héllo"); v.Type() != store.StrType || v.Str() != "héllo" {
		t.Errorf("EncodeStr: got %v", v)
	}
	if v := db.EncodeBool(true); v.Type() != store.BoolType || !v.Bool() {
		t.Errorf("EncodeBool: got %v", v)
	}
	if v := db.EncodeNull(); v.Type() != store.NullType {
		t.Errorf("EncodeNull: got %v", v)
	}
	if v := db.EncodeRecord(nil); !v.IsIllegal() {
		t.Errorf("EncodeRecord(nil): got %v, want illegal", v)
	}

	t.Run("WrongType", func(t *testing.T) {
		mtest.MustPanic(t, func() { db.EncodeStr("x").Int() })
		mtest.MustPanic(t, func() { db.EncodeInt(1).Record() })
		mtest.MustPanic(t, func() { store.Illegal.Str() })
	})
}

func TestText(t *testing.T) {
	db := store.New(nil)
	tests := []struct {
		v    store.Value
		max  int
		want string
	}{
		{db.EncodeInt(0), 79, "0"},
		{db.EncodeInt(-1234567890123), 79, "-1234567890123"},
		{db.EncodeDouble(2), 79, "2.0"},
		{db.EncodeDouble(-0.5), 79, "-0.5"},
		{db.EncodeDouble(1e21), 79, "1e+21"},
		{db.EncodeBool(false), 79, "false"},
		{db.EncodeNull(), 79, "null"},
		{db.EncodeStr("abc"), 79, "abc"},
		{db.EncodeInt(123456), 3, "123"},
		{db.EncodeInt(42), -1, "42"},
		{store.Illegal, 79, ""},
	}
	for _, tc := range tests {
		if got := db.Text(tc.v, tc.max); got != tc.want {
			t.Errorf("Text(%v, %d): got %q, want %q", tc.v, tc.max, got, tc.want)
		}
	}
}

func TestRecords(t *testing.T) {
	db := store.New(nil)

	one, two := db.EncodeInt(1), db.EncodeStr("two")
	arr, err := db.CreateArray([]store.Value{one, two}, false, false)
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	if got := db.Shape(arr); got != store.ShapeArray {
		t.Errorf("Shape: got %v, want array", got)
	}
	if n := db.Len(arr); n != 2 {
		t.Errorf("Len: got %d, want 2", n)
	}
	if got := db.Field(arr, 1); got != two {
		t.Errorf("Field 1: got %v, want %v", got, two)
	}
	if got := db.Field(arr, 2); !got.IsIllegal() {
		t.Errorf("Field 2: got %v, want illegal", got)
	}
	if db.IsDocument(arr) {
		t.Error("IsDocument: got true for a nested array")
	}

	pair, err := db.CreateKVPair(db.EncodeStr("k"), db.EncodeRecord(arr), false)
	if err != nil {
		t.Fatalf("CreateKVPair: %v", err)
	}
	obj, err := db.CreateObject([]store.Value{db.EncodeRecord(pair)}, true, false)
	if err != nil {
		t.Fatalf("CreateObject: %v", err)
	}
	if got := db.Shape(pair); got != store.ShapePair {
		t.Errorf("Shape(pair): got %v", got)
	}
	if !db.IsDocument(obj) {
		t.Error("IsDocument: got false for a top-level object")
	}

	if err := db.SetField(arr, 0, db.EncodeNull()); err != nil {
		t.Errorf("SetField: unexpected error: %v", err)
	}
	if err := db.SetField(arr, 5, one); !errors.Is(err, store.ErrRange) {
		t.Errorf("SetField out of range: got %v, want %v", err, store.ErrRange)
	}
	if err := db.SetField(arr, 0, store.Illegal); !errors.Is(err, store.ErrIllegal) {
		t.Errorf("SetField illegal: got %v, want %v", err, store.ErrIllegal)
	}
	if _, err := db.CreateArray([]store.Value{one, store.Illegal}, false, false); !errors.Is(err, store.ErrIllegal) {
		t.Errorf("CreateArray illegal: got %v, want %v", err, store.ErrIllegal)
	}

	plain, err := db.CreateRecord(3)
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if got := db.Shape(plain); got != store.ShapeNone {
		t.Errorf("Shape(plain): got %v, want none", got)
	}
	if got := db.Field(plain, 2).Type(); got != store.NullType {
		t.Errorf("Plain field type: got %v, want null", got)
	}

	ids := func(seq func(func(*store.Record) bool)) []uint64 {
		var out []uint64
		for r := range seq {
			out = append(out, r.ID())
		}
		return out
	}
	if diff := cmp.Diff([]uint64{arr.ID(), pair.ID(), obj.ID(), plain.ID()}, ids(db.Records())); diff != "" {
		t.Errorf("Records (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint64{obj.ID()}, ids(db.Documents())); diff != "" {
		t.Errorf("Documents (-want, +got):\n%s", diff)
	}
}

func TestParamIndex(t *testing.T) {
	db := store.New(nil)

	mk := func(isParam bool) *store.Record {
		t.Helper()
		p, err := db.CreateKVPair(db.EncodeStr("name"), db.EncodeStr("a"), isParam)
		if err != nil {
			t.Fatalf("CreateKVPair: %v", err)
		}
		doc, err := db.CreateObject([]store.Value{db.EncodeRecord(p)}, true, isParam)
		if err != nil {
			t.Fatalf("CreateObject: %v", err)
		}
		return doc
	}
	visible, hidden := mk(false), mk(true)
	if !db.IsParam(hidden) || db.IsParam(visible) {
		t.Errorf("IsParam: got %v, %v; want false, true", db.IsParam(visible), db.IsParam(hidden))
	}

	docs := slices.Collect(db.Documents())
	if len(docs) != 1 || docs[0] != visible {
		t.Errorf("Documents: got %v, want only %v", docs, visible.ID())
	}
	if got := db.FindPairs("name"); len(got) != 1 {
		t.Errorf("FindPairs: got %d pairs, want 1", len(got))
	}

	st := db.Stats()
	if st.Records != 4 || st.Params != 2 || st.Documents != 1 || st.Pairs != 1 {
		t.Errorf("Stats: got %+v", st)
	}
	if st.ID != db.ID() {
		t.Errorf("Stats ID: got %v, want %v", st.ID, db.ID())
	}
}

func TestReindex(t *testing.T) {
	db := store.New(nil)
	p, err := db.CreateKVPair(db.EncodeStr("old"), db.EncodeInt(1), false)
	if err != nil {
		t.Fatalf("CreateKVPair: %v", err)
	}
	if err := db.SetField(p, store.KeyOffset, db.EncodeStr("new")); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if got := db.FindPairs("old"); len(got) != 0 {
		t.Errorf("FindPairs(old): got %d, want 0", len(got))
	}
	if got := db.FindPairs("new"); len(got) != 1 || got[0] != p {
		t.Errorf("FindPairs(new): got %v, want [%v]", got, p.ID())
	}
}

func TestCapacity(t *testing.T) {
	db := store.New(&store.Options{Capacity: 6, MaxStrLen: 4})

	if v := db.EncodeStr("toolong"); !v.IsIllegal() {
		t.Errorf("EncodeStr over MaxStrLen: got %v, want illegal", v)
	}
	s := db.EncodeStr("abcd") // 2 units
	if s.IsIllegal() {
		t.Fatal("EncodeStr: unexpected illegal value")
	}
	if v := db.EncodeInt(7); v.IsIllegal() {
		t.Error("EncodeInt small: unexpected illegal value")
	}
	if _, err := db.CreateArray([]store.Value{s}, false, false); err != nil { // 2 units
		t.Fatalf("CreateArray: %v", err)
	}
	if _, err := db.CreateArray([]store.Value{s, s}, false, false); !errors.Is(err, store.ErrFull) {
		t.Errorf("CreateArray over capacity: got %v, want %v", err, store.ErrFull)
	}
	if v := db.EncodeDouble(1.5); v.IsIllegal() { // 1 unit, 5 used
		t.Error("EncodeDouble: unexpected illegal value")
	}
	if v := db.EncodeInt(1 << 40); v.IsIllegal() { // 1 unit, 6 used
		t.Error("EncodeInt large: unexpected illegal value")
	}
	if v := db.EncodeDouble(2.5); !v.IsIllegal() {
		t.Errorf("EncodeDouble when full: got %v, want illegal", v)
	}
	if st := db.Stats(); st.Used != 6 || st.Capacity != 6 {
		t.Errorf("Stats: got used %d of %d, want 6 of 6", st.Used, st.Capacity)
	}
}

func TestDistinctIDs(t *testing.T) {
	if a, b := store.New(nil), store.New(nil); a.ID() == b.ID() {
		t.Errorf("Two stores share ID %v", a.ID())
	}
}
