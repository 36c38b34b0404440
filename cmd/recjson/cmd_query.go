// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theory/jsonpath"
)

func newQueryCmd(s *settings) *cobra.Command {
	var first bool

	cmd := &cobra.Command{
		Use:   "query <path> [file]",
		Short: "Select values from a JSON document with a JSONPath expression",
		Long: `Import a JSON document and print the values selected by a JSONPath
(RFC 9535) expression, one per line as compact JSON.

If no file is provided, or the file is "-", the document is read from stdin.
If no values are selected, the command fails.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := jsonpath.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}
			var name string
			if len(args) > 1 {
				name = args[1]
			}

			c := s.newCodec(cmd)
			ref, err := parseInput(cmd, c, name)
			if err != nil {
				return err
			}
			v, err := c.Export(ref.doc)
			if err != nil {
				return err
			}

			nodes := path.Select(v)
			log.Infof("path %s selected %d values", args[0], len(nodes))
			if len(nodes) == 0 {
				return fmt.Errorf("no values match %s", args[0])
			}
			if first {
				nodes = nodes[:1]
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			for _, node := range nodes {
				if err := enc.Encode(node); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&first, "first", false, "print only the first selected value")

	return cmd
}
