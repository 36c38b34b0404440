// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import "github.com/creachadair/recjson/store"

// Export converts the document whose top-level record is doc into plain Go
// values: objects become map[string]any, arrays become []any, and literals
// become int64, float64, string, bool, or nil. If an object has duplicate
// keys, the last one wins.
//
// Export checks the structure of the tree as Print does.
func (c *Codec) Export(doc *store.Record) (any, error) {
	if !c.db.IsDocument(doc) {
		return nil, c.report(newError(NonFatal, KindUsage, nil, "given record is not a document"))
	}
	x := exporter{db: c.db, maxDepth: 2*c.cfg.MaxDepth + 1}
	v, err := x.record(doc)
	if err != nil {
		return nil, c.report(err)
	}
	return v, nil
}

type exporter struct {
	db              *store.DB
	depth, maxDepth int
}

func (x *exporter) record(rec *store.Record) (any, *Error) {
	x.depth++
	defer func() { x.depth-- }()
	if x.depth > x.maxDepth {
		return nil, schemaError("record tree nested more than %d levels", x.maxDepth)
	}

	switch x.db.Shape(rec) {
	case store.ShapeObject:
		out := make(map[string]any, x.db.Len(rec))
		for i := range x.db.Len(rec) {
			v := x.db.Field(rec, i)
			if v.Type() != store.RecordType {
				return nil, schemaError("object had an element of invalid type")
			}
			key, val, err := x.pair(v.Record())
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil

	case store.ShapeArray:
		out := make([]any, x.db.Len(rec))
		for i := range out {
			v, err := x.value(x.db.Field(rec, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, schemaError("record is not an array or object")
}

func (x *exporter) pair(rec *store.Record) (string, any, *Error) {
	key := x.db.Field(rec, store.KeyOffset)
	if key.Type() != store.StrType {
		return "", nil, schemaError("key is of invalid type")
	}
	val, err := x.value(x.db.Field(rec, store.ValueOffset))
	return key.Str(), val, err
}

func (x *exporter) value(v store.Value) (any, *Error) {
	switch v.Type() {
	case store.RecordType:
		return x.record(v.Record())
	case store.IntType:
		return v.Int(), nil
	case store.DoubleType:
		return v.Double(), nil
	case store.StrType:
		return v.Str(), nil
	case store.BoolType:
		return v.Bool(), nil
	case store.NullType:
		return nil, nil
	}
	return nil, schemaError("value is of invalid type")
}
