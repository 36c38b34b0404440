// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package store

import (
	"fmt"
	"slices"
)

// Field offsets of a key-value pair record.
const (
	KeyOffset   = 0
	ValueOffset = 1
)

type meta uint8

const (
	metaArray meta = 1 << iota
	metaObject
	metaPair
	metaDocument // top-level record of a document
	metaParam    // excluded from indexes
)

// A Record is a fixed-length sequence of encoded values owned by a DB. Use the
// methods of the DB to read and write its fields.
type Record struct {
	id     uint64
	meta   meta
	fields []Value
}

// ID returns the identifier of r, unique within its DB.
func (r *Record) ID() uint64 { return r.id }

// Shape identifies the schema shape of a record.
type Shape byte

// Constants defining the valid Shape values.
const (
	ShapeNone   Shape = iota // a plain record
	ShapeArray               // an array of values
	ShapeObject              // an object whose fields are key-value pairs
	ShapePair                // a key-value pair
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	case ShapePair:
		return "pair"
	}
	return "none"
}

// newRecordLocked allocates a record with n fields and adds it to the store. The
// caller must hold db.mu.
func (db *DB) newRecordLocked(n int, m meta) (*Record, error) {
	if !db.reserveLocked(1 + n) {
		return nil, fmt.Errorf("create record of %d fields: %w", n, ErrFull)
	}
	db.nextID++
	r := &Record{id: db.nextID, meta: m, fields: make([]Value, n)}
	db.records = append(db.records, r)
	return r, nil
}

func (db *DB) createSchema(elems []Value, m meta) (*Record, error) {
	if i := slices.IndexFunc(elems, Value.IsIllegal); i >= 0 {
		return nil, fmt.Errorf("element %d: %w", i, ErrIllegal)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	r, err := db.newRecordLocked(len(elems), m)
	if err != nil {
		return nil, err
	}
	copy(r.fields, elems)
	if m&metaPair != 0 {
		db.indexLocked(r)
	}
	return r, nil
}

func schemaMeta(base meta, isDocument, isParam bool) meta {
	if isDocument {
		base |= metaDocument
	}
	if isParam {
		base |= metaParam
	}
	return base
}

// CreateRecord creates a plain record with n fields, all initially null.
// A plain record has no schema shape.
func (db *DB) CreateRecord(n int) (*Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, err := db.newRecordLocked(n, 0)
	if err != nil {
		return nil, err
	}
	for i := range r.fields {
		r.fields[i] = Value{typ: NullType}
	}
	return r, nil
}

// CreateArray creates an array record whose fields are elems, in order.
// If isDocument is true, the record is marked as the top level of a document.
// If isParam is true, the record is excluded from the store indexes.
func (db *DB) CreateArray(elems []Value, isDocument, isParam bool) (*Record, error) {
	return db.createSchema(elems, schemaMeta(metaArray, isDocument, isParam))
}

// CreateObject creates an object record whose fields are elems, in order.
// The elements should be references to key-value pair records.
// The flags have the same meaning as for CreateArray.
func (db *DB) CreateObject(elems []Value, isDocument, isParam bool) (*Record, error) {
	return db.createSchema(elems, schemaMeta(metaObject, isDocument, isParam))
}

// CreateKVPair creates a key-value pair record. Unless isParam is true, the
// pair is added to the key index when its key is a string.
func (db *DB) CreateKVPair(key, value Value, isParam bool) (*Record, error) {
	return db.createSchema([]Value{key, value}, schemaMeta(metaPair, false, isParam))
}

// indexLocked adds a pair record to the key index. The caller must hold db.mu.
func (db *DB) indexLocked(r *Record) {
	if r.meta&metaParam != 0 || len(r.fields) <= KeyOffset {
		return
	}
	if key := r.fields[KeyOffset]; key.typ == StrType {
		db.keys[key.str] = append(db.keys[key.str], r)
	}
}

// unindexLocked removes a pair record from the key index. The caller must
// hold db.mu.
func (db *DB) unindexLocked(r *Record) {
	if len(r.fields) <= KeyOffset || r.fields[KeyOffset].typ != StrType {
		return
	}
	key := r.fields[KeyOffset].str
	db.keys[key] = slices.DeleteFunc(db.keys[key], func(q *Record) bool { return q == r })
	if len(db.keys[key]) == 0 {
		delete(db.keys, key)
	}
}

// SetField stores v as field i of r.
func (db *DB) SetField(r *Record, i int, v Value) error {
	if v.IsIllegal() {
		return fmt.Errorf("set field %d: %w", i, ErrIllegal)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if i < 0 || i >= len(r.fields) {
		return fmt.Errorf("set field %d of %d: %w", i, len(r.fields), ErrRange)
	}
	reindex := r.meta&metaPair != 0 && i == KeyOffset
	if reindex {
		db.unindexLocked(r)
	}
	r.fields[i] = v
	if reindex {
		db.indexLocked(r)
	}
	return nil
}

// Field returns field i of r, or Illegal if i is out of range.
func (db *DB) Field(r *Record, i int) Value {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if i < 0 || i >= len(r.fields) {
		return Illegal
	}
	return r.fields[i]
}

// Len returns the number of fields of r.
func (db *DB) Len(r *Record) int { return len(r.fields) }

// Shape reports the schema shape of r.
func (db *DB) Shape(r *Record) Shape {
	switch {
	case r.meta&metaArray != 0:
		return ShapeArray
	case r.meta&metaObject != 0:
		return ShapeObject
	case r.meta&metaPair != 0:
		return ShapePair
	}
	return ShapeNone
}

// IsDocument reports whether r is the top-level record of a document.
func (db *DB) IsDocument(r *Record) bool {
	return r != nil && r.meta&metaDocument != 0 && r.meta&(metaArray|metaObject) != 0
}

// IsParam reports whether r is a parameter record.
func (db *DB) IsParam(r *Record) bool { return r.meta&metaParam != 0 }
