// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package store implements an in-memory store of tagged records.
//
// A record is an ordered, fixed-length sequence of encoded values. Records may
// carry a schema shape (array, object, or key-value pair) and flags marking
// them as the top-level record of a document or as a parameter. Parameter
// records are kept out of the store's indexes: they are not returned by
// Records, Documents, or FindPairs.
//
// The methods of a DB are safe for concurrent use by multiple goroutines.
package store

import (
	"errors"
	"iter"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrFull is reported when the store is out of capacity.
	ErrFull = errors.New("store: out of capacity")

	// ErrIllegal is reported when an illegal value is stored in a record.
	ErrIllegal = errors.New("store: illegal value")

	// ErrRange is reported for a field index out of range.
	ErrRange = errors.New("store: field index out of range")
)

// Options are settings for a DB. A nil *Options is ready for use and
// provides default values as described.
type Options struct {
	// Capacity limits the total storage units the DB may allocate. A record
	// of n fields uses 1+n units, a string uses one unit plus one per eight
	// bytes, a double uses one unit, and an integer outside ±2^28 uses one
	// unit. If Capacity ≤ 0, the store is unbounded.
	Capacity int

	// MaxStrLen limits the length in bytes of encoded strings. If MaxStrLen
	// ≤ 0, strings are not limited.
	MaxStrLen int
}

// A DB is an in-memory record store.
type DB struct {
	id   uuid.UUID
	opts Options

	mu      sync.RWMutex
	used    int
	nextID  uint64
	records []*Record            // all records, in creation order
	keys    map[string][]*Record // indexed key-value pairs, by key
}

// New constructs a new empty DB with the given options.
func New(opts *Options) *DB {
	db := &DB{id: uuid.New(), keys: make(map[string][]*Record)}
	if opts != nil {
		db.opts = *opts
	}
	return db
}

// ID returns the unique identifier of db.
func (db *DB) ID() uuid.UUID { return db.id }

// reserve allocates n storage units and reports whether it succeeded.
func (db *DB) reserve(n int) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.reserveLocked(n)
}

func (db *DB) reserveLocked(n int) bool {
	if db.opts.Capacity > 0 && db.used+n > db.opts.Capacity {
		return false
	}
	db.used += n
	return true
}

// Records returns a sequence of all the records of db that are not parameter
// records, in creation order.
func (db *DB) Records() iter.Seq[*Record] {
	return db.scan(func(r *Record) bool { return r.meta&metaParam == 0 })
}

// Documents returns a sequence of all the document records of db that are not
// parameter records, in creation order.
func (db *DB) Documents() iter.Seq[*Record] {
	return db.scan(func(r *Record) bool { return r.meta&(metaDocument|metaParam) == metaDocument })
}

func (db *DB) scan(keep func(*Record) bool) iter.Seq[*Record] {
	db.mu.RLock()
	var out []*Record
	for _, r := range db.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	db.mu.RUnlock()

	return func(yield func(*Record) bool) {
		for _, r := range out {
			if !yield(r) {
				return
			}
		}
	}
}

// FindPairs returns the indexed key-value pair records whose key is the
// string key, in creation order.
func (db *DB) FindPairs(key string) []*Record {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]*Record(nil), db.keys[key]...)
}

// Stats record summary statistics about the contents of a DB.
type Stats struct {
	ID        uuid.UUID // the store identifier
	Records   int       // total number of records
	Params    int       // number of parameter records
	Documents int       // number of indexed documents
	Pairs     int       // number of indexed key-value pairs
	Used      int       // storage units in use
	Capacity  int       // storage limit (0 means unlimited)
}

// Stats returns summary statistics for db.
func (db *DB) Stats() Stats {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s := Stats{
		ID:       db.id,
		Records:  len(db.records),
		Used:     db.used,
		Capacity: max(db.opts.Capacity, 0),
	}
	for _, r := range db.records {
		switch {
		case r.meta&metaParam != 0:
			s.Params++
		case r.meta&metaDocument != 0:
			s.Documents++
		}
	}
	for _, rs := range db.keys {
		s.Pairs += len(rs)
	}
	return s
}
