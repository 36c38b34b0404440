// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package lex

import (
	"errors"

	"github.com/creachadair/recjson/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(AppendQuote(nil, src)) }

// AppendQuote appends the JSON string encoding of src to dst, including the
// enclosing quotation marks, and returns the extended slice.
func AppendQuote(dst []byte, src string) []byte {
	dst = append(dst, '"')
	dst = escape.Append(dst, mem.S(src))
	return append(dst, '"')
}

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src []byte) (string, error) {
	n := len(src)
	if n < 2 || src[0] != '"' || src[n-1] != '"' {
		return "", errors.New("missing quotations")
	}
	return escape.Unquote(mem.B(src[1 : n-1]))
}
