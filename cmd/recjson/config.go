// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/recjson"
	"github.com/creachadair/recjson/store"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// Config is the format of a configuration file. Settings given as flags on
// the command line override those in the file.
type Config struct {
	MaxDepth   int  `yaml:"max-depth"`
	MaxKeyLen  int  `yaml:"max-key-len"`
	StrictKeys bool `yaml:"strict-keys"`
	Comments   bool `yaml:"comments"`
	JWCC       bool `yaml:"jwcc"`
	Capacity   int  `yaml:"capacity"`
	MaxStrLen  int  `yaml:"max-string-len"`
}

// loadConfig reads a configuration file. Unknown settings are an error.
// An empty file yields the default settings.
func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f, yaml.DisallowUnknownField())
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	if cfg.MaxDepth < 0 || cfg.MaxKeyLen < 0 || cfg.Capacity < 0 || cfg.MaxStrLen < 0 {
		return nil, fmt.Errorf("config %q: limits must not be negative", path)
	}
	return &cfg, nil
}

// settings are the options shared by all subcommands.
type settings struct {
	configFile string
	verbose    int
	flags      Config // values set by flags
	cfg        Config // effective settings
}

func (s *settings) bind(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVarP(&s.configFile, "config", "c", "", "configuration file (YAML)")
	pf.CountVarP(&s.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	pf.IntVar(&s.flags.MaxDepth, "max-depth", 0, "maximum nesting depth of arrays and objects")
	pf.IntVar(&s.flags.MaxKeyLen, "max-key-len", 0, "maximum length in bytes of object keys")
	pf.BoolVar(&s.flags.StrictKeys, "strict-keys", false, "reject keys longer than the maximum")
	pf.BoolVar(&s.flags.Comments, "comments", false, "allow comments in the input")
	pf.BoolVar(&s.flags.JWCC, "jwcc", false, "accept JSON with comments and trailing commas")
	pf.IntVar(&s.flags.Capacity, "capacity", 0, "store capacity in storage units (0 is unlimited)")
	pf.IntVar(&s.flags.MaxStrLen, "max-string-len", 0, "maximum length in bytes of strings (0 is unlimited)")
}

// load computes the effective settings from the configuration file, if any,
// and the flags set on the command line.
func (s *settings) load(cmd *cobra.Command) error {
	if s.configFile != "" {
		cfg, err := loadConfig(s.configFile)
		if err != nil {
			return err
		}
		s.cfg = *cfg
		log.Debugf("loaded config from %q", s.configFile)
	}

	fs := cmd.Flags()
	if fs.Changed("max-depth") {
		s.cfg.MaxDepth = s.flags.MaxDepth
	}
	if fs.Changed("max-key-len") {
		s.cfg.MaxKeyLen = s.flags.MaxKeyLen
	}
	if fs.Changed("strict-keys") {
		s.cfg.StrictKeys = s.flags.StrictKeys
	}
	if fs.Changed("comments") {
		s.cfg.Comments = s.flags.Comments
	}
	if fs.Changed("jwcc") {
		s.cfg.JWCC = s.flags.JWCC
	}
	if fs.Changed("capacity") {
		s.cfg.Capacity = s.flags.Capacity
	}
	if fs.Changed("max-string-len") {
		s.cfg.MaxStrLen = s.flags.MaxStrLen
	}
	return nil
}

// newCodec constructs a codec over a new empty store with the effective
// settings. Diagnostics are written to the error output of cmd.
func (s *settings) newCodec(cmd *cobra.Command) *recjson.Codec {
	db := store.New(&store.Options{
		Capacity:  s.cfg.Capacity,
		MaxStrLen: s.cfg.MaxStrLen,
	})
	log.Debugf("new store %s (capacity %d)", db.ID(), s.cfg.Capacity)
	return recjson.New(db, &recjson.Config{
		MaxDepth:      s.cfg.MaxDepth,
		MaxKeyLen:     s.cfg.MaxKeyLen,
		StrictKeys:    s.cfg.StrictKeys,
		AllowComments: s.cfg.Comments,
		JWCC:          s.cfg.JWCC,
		Log:           cmd.ErrOrStderr(),
	})
}
