// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import (
	"fmt"
	"io"
	"os"

	"github.com/creachadair/recjson/store"
)

const (
	// DefaultMaxDepth is the default limit on nesting of arrays and objects.
	DefaultMaxDepth = 99

	// DefaultMaxKeyLen is the default limit on the length in bytes of object
	// keys. Longer keys are truncated unless Config.StrictKeys is set.
	DefaultMaxKeyLen = 79

	// textMax bounds the rendered length of a literal value.
	textMax = 79
)

// Config carries settings for a Codec. A nil *Config is ready for use and
// provides default values as described.
type Config struct {
	// MaxDepth limits the nesting depth of arrays and objects in a document.
	// If MaxDepth ≤ 0, DefaultMaxDepth is used.
	MaxDepth int

	// MaxKeyLen limits the length in bytes of an object key. If MaxKeyLen ≤
	// 0, DefaultMaxKeyLen is used.
	MaxKeyLen int

	// If StrictKeys is true, a key longer than MaxKeyLen is a fatal error.
	// Otherwise such keys are silently truncated to at most MaxKeyLen bytes,
	// ending on a UTF-8 rune boundary.
	StrictKeys bool

	// If AllowComments is true, line and block comments in the input are
	// accepted and ignored.
	AllowComments bool

	// If JWCC is true, the input may be JSON with comments and trailing
	// commas, and is converted to standard JSON before parsing.
	JWCC bool

	// Diagnostics for failed operations are written to Log. If Log == nil,
	// they are written to os.Stderr; use io.Discard to suppress them.
	Log io.Writer
}

func (c *Config) maxDepth() int {
	if c == nil || c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c *Config) maxKeyLen() int {
	if c == nil || c.MaxKeyLen <= 0 {
		return DefaultMaxKeyLen
	}
	return c.MaxKeyLen
}

func (c *Config) log() io.Writer {
	if c == nil || c.Log == nil {
		return os.Stderr
	}
	return c.Log
}

// A Codec converts between JSON text and documents stored in a DB. A Codec
// does not lock the DB against concurrent modification by other writers;
// only one parse should be in flight per Codec at a time.
type Codec struct {
	db  *store.DB
	cfg Config
}

// New constructs a Codec that stores documents in db.
func New(db *store.DB, cfg *Config) *Codec {
	c := &Codec{db: db}
	if cfg != nil {
		c.cfg = *cfg
	}
	c.cfg.MaxDepth = cfg.maxDepth()
	c.cfg.MaxKeyLen = cfg.maxKeyLen()
	c.cfg.Log = cfg.log()
	return c
}

// DB returns the record store of c.
func (c *Codec) DB() *store.DB { return c.db }

// report writes a diagnostic for e to the log and returns e.
func (c *Codec) report(e *Error) error {
	fmt.Fprintln(c.cfg.Log, e.Error())
	return e
}
