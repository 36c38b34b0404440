// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func newFmtCmd(s *settings) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Import a JSON document and pretty-print it",
		Long: `Import a JSON document into a new store and print it to stdout.

If no file is provided, or the file is "-", the document is read from stdin.
Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) != 0 {
				name = args[0]
			}
			if overwrite && (name == "" || name == "-") {
				return errors.New("-w requires a file argument")
			}

			c := s.newCodec(cmd)
			ref, err := parseInput(cmd, c, name)
			if err != nil {
				return err
			}
			if !overwrite {
				return c.Print(cmd.OutOrStdout(), ref.doc)
			}

			var buf bytes.Buffer
			if err := c.Print(&buf, ref.doc); err != nil {
				return err
			}
			log.Infof("rewriting %s", name)
			return os.WriteFile(name, buf.Bytes(), 0644)
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
