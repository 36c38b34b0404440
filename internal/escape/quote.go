// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Append appends src to dst, escaping characters that may not appear
// literally in a JSON string. Quotation marks are not added.
func Append(dst []byte, src mem.RO) []byte {
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		if r < utf8.RuneSelf {
			switch {
			case r < ' ' && controlEsc[r] != 0:
				dst = append(dst, '\\', controlEsc[r])
			case r < ' ':
				dst = append(dst, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
			case r == '\\' || r == '"':
				dst = append(dst, '\\', byte(r))
			default:
				dst = append(dst, byte(r))
			}
			continue
		}

		switch r {
		case '\ufffd': // replacement rune
			dst = append(dst, `\ufffd`...)
		case '\u2028': // line separator
			dst = append(dst, `\u2028`...)
		case '\u2029': // paragraph separator
			dst = append(dst, `\u2029`...)
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}
