// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package lex implements a JSON scanner and an event-driven stream parser.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and reports whether one is available:
//
//	s := lex.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//	if err := s.Err(); err != nil {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// # Streaming
//
// The Stream type parses a single JSON value and reports its structure by
// calling methods on a Handler. In case of error, parsing is terminated and
// an error of concrete type *lex.SyntaxError is returned, unless the error was
// reported by the Handler itself, in which case it is returned unchanged.
//
//	s := lex.NewStream(input)
//	s.SetMaxDepth(99)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// The parser ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported.
package lex
