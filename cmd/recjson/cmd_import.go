// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"

	"github.com/creachadair/recjson"
	"github.com/creachadair/recjson/store"
	"github.com/spf13/cobra"
)

func newImportCmd(s *settings) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import JSON documents and report store statistics",
		Long: `Import each file as a JSON document into a single new store, then print
statistics about the contents of the store.

If no files are provided, one document is read from stdin. An input that
cannot be parsed is reported and skipped. Importing stops at the first
failure that leaves a partial document in the store.

Use --key to report the number of indexed members with a given key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			c := s.newCodec(cmd)

			var errs []error
			for _, name := range args {
				if _, err := parseInput(cmd, c, name); err != nil {
					errs = append(errs, err)
					if recjson.OutcomeOf(err) == recjson.Fatal {
						break
					}
				}
			}

			out := cmd.OutOrStdout()
			writeStats(out, c.DB().Stats())
			for _, key := range keys {
				fmt.Fprintf(out, "key %q\t%d\n", key, len(c.DB().FindPairs(key)))
			}
			return worstError(errs)
		},
	}

	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "report the members with this key (repeatable)")

	return cmd
}

func writeStats(w io.Writer, st store.Stats) {
	fmt.Fprintf(w, "store\t%s\n", st.ID)
	fmt.Fprintf(w, "documents\t%d\n", st.Documents)
	fmt.Fprintf(w, "records\t%d\n", st.Records)
	fmt.Fprintf(w, "pairs\t%d\n", st.Pairs)
	if st.Capacity > 0 {
		fmt.Fprintf(w, "used\t%d/%d\n", st.Used, st.Capacity)
	} else {
		fmt.Fprintf(w, "used\t%d\n", st.Used)
	}
}

// worstError returns the error among errs with the most severe outcome,
// or nil if errs is empty.
func worstError(errs []error) error {
	var worst error
	for _, err := range errs {
		if worst == nil || recjson.OutcomeOf(err) > recjson.OutcomeOf(worst) {
			worst = err
		}
	}
	if len(errs) > 1 && recjson.OutcomeOf(worst) != recjson.Fatal {
		log.Warningf("%d inputs failed", len(errs))
	}
	return worst
}
