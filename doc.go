// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package recjson converts between JSON text and documents held in a record
// store.
//
// # Documents
//
// A document is the tree of records built from one JSON array or object. Each
// array becomes an array record whose fields are its elements, in order. Each
// object becomes an object record whose fields refer to key-value pair
// records, one per member, in the order the members appear. Literal values are
// stored directly in the fields of their container.
//
//	{"name": "a", "tags": [1, 2, 3]}
//
//	object ─┬─ pair("name", "a")
//	        └─ pair("tags", ─── array(1, 2, 3))
//
// # Parsing
//
// Construct a Codec for a store and call Parse to add a document:
//
//	c := recjson.New(db, nil)
//	doc, err := c.Parse(text)
//	switch recjson.OutcomeOf(err) {
//	case recjson.NonFatal:
//	   // The input was rejected; the store is unchanged.
//	case recjson.Fatal:
//	   // The store may hold a partial document.
//	}
//
// Records created by ParseParam are parameter records, which the store
// excludes from its indexes.
//
// # Printing
//
// Print renders a document as indented JSON:
//
//	{
//	  "name": "a"
//	  ,"tags": [1,2,3]
//	}
//
// Each object member is on its own line, and a comma precedes each member
// after the first. Arrays are rendered on a single line.
package recjson
