// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program recjson imports JSON documents into an in-memory record store and
// writes them back out.
//
// Usage:
//
//	recjson fmt [-w] [file]        # import and pretty-print a document
//	recjson import file...         # import documents and report store statistics
//	recjson query <path> [file]    # select values with a JSONPath expression
//
// The exit status is 0 on success, 1 if an input could not be processed, and
// 2 if a failure left the store with a partially imported document.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/recjson"
	"github.com/creachadair/recjson/store"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"github.com/tliron/kutil/util"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("recjson")

func main() {
	// util.Exit flushes the buffered log writer before exiting.
	util.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	code := exitCode(err)
	var rerr *recjson.Error
	if err != nil && !errors.As(err, &rerr) {
		// Codec errors are already reported on the log.
		fmt.Fprintf(stderr, "recjson: %v\n", err)
	}
	return code
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var rerr *recjson.Error
	switch {
	case err == nil:
		return 0
	case errors.As(err, &rerr) && rerr.Outcome == recjson.Fatal:
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	var s settings

	root := &cobra.Command{
		Use:           "recjson",
		Short:         "Import JSON documents into a record store",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(s.verbose, nil)
			return s.load(cmd)
		},
	}
	s.bind(root)

	root.AddCommand(newFmtCmd(&s))
	root.AddCommand(newImportCmd(&s))
	root.AddCommand(newQueryCmd(&s))
	return root
}

// A docRef is an imported document and the name of its input.
type docRef struct {
	name string
	doc  *store.Record
}

// parseInput imports a single document from the named file, or from the
// standard input of cmd if name is "" or "-".
func parseInput(cmd *cobra.Command, c *recjson.Codec, name string) (*docRef, error) {
	var err error
	ref := &docRef{name: name}
	if name == "" || name == "-" {
		ref.name = "<stdin>"
		ref.doc, err = c.ParseReader(cmd.InOrStdin(), ref.name)
	} else {
		ref.doc, err = c.ParseFile(name)
	}
	if err != nil {
		log.Debugf("import %s failed: %v", ref.name, recjson.OutcomeOf(err))
		return nil, err
	}
	log.Infof("imported %s (%d top-level fields)", ref.name, c.DB().Len(ref.doc))
	return ref, nil
}
