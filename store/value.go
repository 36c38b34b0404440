// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the type tag of an encoded Value.
type Type byte

// Constants defining the valid Type values.
const (
	IllegalType Type = iota // the illegal sentinel
	NullType                // JSON null
	RecordType              // reference to a record
	IntType                 // signed 64-bit integer
	DoubleType              // 64-bit floating point
	StrType                 // string
	BoolType                // true or false
)

var typeStr = [...]string{
	IllegalType: "illegal",
	NullType:    "null",
	RecordType:  "record",
	IntType:     "int",
	DoubleType:  "double",
	StrType:     "string",
	BoolType:    "bool",
}

func (t Type) String() string {
	if int(t) >= len(typeStr) {
		return typeStr[IllegalType]
	}
	return typeStr[t]
}

// A Value is an encoded reference to a primitive value or a record. Values are
// produced by the Encode methods of a DB. The zero Value is the illegal
// sentinel, which encoders return on failure.
type Value struct {
	typ Type
	num uint64 // int, double, or bool payload
	str string
	rec *Record
}

// Illegal is the illegal sentinel value.
var Illegal Value

// Type reports the type tag of v.
func (v Value) Type() Type { return v.typ }

// IsIllegal reports whether v is the illegal sentinel.
func (v Value) IsIllegal() bool { return v.typ == IllegalType }

// Int decodes an integer value. It panics if v does not have type IntType.
func (v Value) Int() int64 { v.mustBe(IntType); return int64(v.num) }

// Double decodes a floating-point value. It panics if v does not have type
// DoubleType.
func (v Value) Double() float64 { v.mustBe(DoubleType); return math.Float64frombits(v.num) }

// Str decodes a string value. It panics if v does not have type StrType.
func (v Value) Str() string { v.mustBe(StrType); return v.str }

// Bool decodes a Boolean value. It panics if v does not have type BoolType.
func (v Value) Bool() bool { v.mustBe(BoolType); return v.num != 0 }

// Record decodes a record reference. It panics if v does not have type
// RecordType.
func (v Value) Record() *Record { v.mustBe(RecordType); return v.rec }

func (v Value) mustBe(t Type) {
	if v.typ != t {
		panic(fmt.Sprintf("store: cannot decode %v value as %v", v.typ, t))
	}
}

// String renders v for debugging.
func (v Value) String() string {
	switch v.typ {
	case StrType:
		return strconv.Quote(v.str)
	case RecordType:
		return fmt.Sprintf("record#%d", v.rec.id)
	case IllegalType:
		return "<illegal>"
	}
	return literalText(v)
}

// literalText renders the text of a literal value.
func literalText(v Value) string {
	switch v.typ {
	case NullType:
		return "null"
	case IntType:
		return strconv.FormatInt(int64(v.num), 10)
	case DoubleType:
		return formatDouble(math.Float64frombits(v.num))
	case BoolType:
		return strconv.FormatBool(v.num != 0)
	case StrType:
		return v.str
	}
	return ""
}

// formatDouble renders f in its shortest form, always including a decimal
// point or an exponent so the text reads back as a float.
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// Text renders a literal value as short text, truncated to at most max bytes.
// Integers are rendered in base 10, doubles in their shortest form, and the
// constants as "true", "false", and "null". Strings are rendered without
// quotation. Record references and the illegal sentinel render as "".
// If max < 0, the text is not truncated.
func (db *DB) Text(v Value, max int) string {
	s := literalText(v)
	if max >= 0 && len(s) > max {
		s = s[:max]
	}
	return s
}

// intCost reports the number of storage units needed for an integer. Small
// integers are stored inline in the encoded value.
func intCost(v int64) int {
	if v >= -(1<<28) && v < 1<<28 {
		return 0
	}
	return 1
}

// strCost reports the number of storage units needed for a string.
func strCost(s string) int { return 1 + (len(s)+7)/8 }

// EncodeNull returns the encoded null constant.
func (db *DB) EncodeNull() Value { return Value{typ: NullType} }

// EncodeBool returns the encoding of a Boolean constant.
func (db *DB) EncodeBool(b bool) Value {
	v := Value{typ: BoolType}
	if b {
		v.num = 1
	}
	return v
}

// EncodeInt returns the encoding of an integer, or Illegal if the store is out
// of capacity.
func (db *DB) EncodeInt(n int64) Value {
	if !db.reserve(intCost(n)) {
		return Illegal
	}
	return Value{typ: IntType, num: uint64(n)}
}

// EncodeDouble returns the encoding of a float, or Illegal if the store is out
// of capacity or f is not finite.
func (db *DB) EncodeDouble(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) || !db.reserve(1) {
		return Illegal
	}
	return Value{typ: DoubleType, num: math.Float64bits(f)}
}

// EncodeStr returns the encoding of a string, or Illegal if the string is
// longer than the configured limit or the store is out of capacity.
func (db *DB) EncodeStr(s string) Value {
	if db.opts.MaxStrLen > 0 && len(s) > db.opts.MaxStrLen {
		return Illegal
	}
	if !db.reserve(strCost(s)) {
		return Illegal
	}
	return Value{typ: StrType, str: s}
}

// EncodeRecord returns a reference to r, or Illegal if r == nil.
func (db *DB) EncodeRecord(r *Record) Value {
	if r == nil {
		return Illegal
	}
	return Value{typ: RecordType, rec: r}
}
