// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package recjson

import (
	"bytes"
	"io"

	"github.com/creachadair/recjson/lex"
	"github.com/creachadair/recjson/store"
)

// Print writes the document whose top-level record is doc to w as JSON text.
//
// Object members are written one per line, indented two spaces per level of
// nesting, with the separating comma at the start of each member after the
// first. Arrays are written on a single line. The output ends with a newline.
//
// Print reports an error of kind KindUsage if doc is not the top-level record
// of a document, and of kind KindSchema if a record in the tree does not
// have the expected structure. The output is rendered completely before it is
// written, so nothing is written to w in case of error.
func (c *Codec) Print(w io.Writer, doc *store.Record) error {
	if !c.db.IsDocument(doc) {
		return c.report(newError(NonFatal, KindUsage, nil, "given record is not a document"))
	}
	p := &printer{db: c.db, maxDepth: 2*c.cfg.MaxDepth + 1}
	if err := p.render(doc, 0, false, true); err != nil {
		return c.report(err)
	}
	if _, err := w.Write(p.buf.Bytes()); err != nil {
		return c.report(newError(NonFatal, KindResource, err, "failed to write output"))
	}
	return nil
}

type printer struct {
	db  *store.DB
	buf bytes.Buffer

	depth, maxDepth int // records currently being rendered, and the limit
}

func schemaError(msg string, args ...any) *Error {
	return newError(NonFatal, KindSchema, nil, msg, args...)
}

// render writes the JSON text for rec at the given indentation level. If comma
// is true, a separating comma is written first. If newline is true, the text
// ends with a newline.
func (p *printer) render(rec *store.Record, indent int, comma, newline bool) *Error {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return schemaError("record tree nested more than %d levels", p.maxDepth)
	}

	switch p.db.Shape(rec) {
	case store.ShapeObject:
		p.comma(comma)
		p.buf.WriteString("{\n")
		for i := range p.db.Len(rec) {
			v := p.db.Field(rec, i)
			if v.Type() != store.RecordType {
				return schemaError("object had an element of invalid type")
			}
			if err := p.render(v.Record(), indent+1, i > 0, true); err != nil {
				return err
			}
		}
		p.indent(indent)
		p.buf.WriteByte('}')
		p.newline(newline)

	case store.ShapeArray:
		p.comma(comma)
		p.buf.WriteByte('[')
		for i := range p.db.Len(rec) {
			v := p.db.Field(rec, i)
			if v.Type() == store.RecordType {
				if err := p.render(v.Record(), indent, i > 0, false); err != nil {
					return err
				}
				continue
			}
			p.comma(i > 0)
			if err := p.literal(v); err != nil {
				return err
			}
		}
		p.buf.WriteByte(']')
		p.newline(newline)

	default:
		// Anything else must be a key-value pair.
		key := p.db.Field(rec, store.KeyOffset)
		val := p.db.Field(rec, store.ValueOffset)
		if key.Type() != store.StrType {
			return schemaError("key is of invalid type")
		}
		p.indent(indent)
		p.comma(comma)
		p.buf.Write(lex.AppendQuote(nil, key.Str()))
		p.buf.WriteString(": ")

		if val.Type() == store.RecordType {
			return p.render(val.Record(), indent, false, true)
		}
		if err := p.literal(val); err != nil {
			return err
		}
		p.buf.WriteByte('\n')
	}
	return nil
}

// literal writes the text of a non-record value.
func (p *printer) literal(v store.Value) *Error {
	switch v.Type() {
	case store.StrType:
		p.buf.Write(lex.AppendQuote(nil, v.Str()))
	case store.IllegalType:
		return schemaError("value is of invalid type")
	default:
		p.buf.WriteString(p.db.Text(v, textMax))
	}
	return nil
}

func (p *printer) comma(ok bool) {
	if ok {
		p.buf.WriteByte(',')
	}
}

func (p *printer) newline(ok bool) {
	if ok {
		p.buf.WriteByte('\n')
	}
}

func (p *printer) indent(n int) {
	for range n {
		p.buf.WriteString("  ")
	}
}
