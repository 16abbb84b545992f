package filterx

import "unicode/utf8"

const hexDigits = "0123456789abcdef"

// appendEscapedJSON appends s with JSON-safe escaping: the quote and the
// backslash get a backslash, control characters become \uXXXX and bytes
// that are not valid UTF-8 become \\xHH.
func appendEscapedJSON(dst []byte, s string) []byte {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, '\\', '\\', 'x', hexDigits[s[i]>>4], hexDigits[s[i]&0xf])
			i++
			continue
		}
		switch {
		case r == '"':
			dst = append(dst, '\\', '"')
		case r == '\\':
			dst = append(dst, '\\', '\\')
		case r < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xf])
		default:
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return dst
}

// appendEscapedBinary appends s escaping the characters in quoteChars and
// the backslash with a backslash, and anything unprintable as \xHH. Used
// by the kv formatter for quoted values.
func appendEscapedBinary(dst []byte, s, quoteChars string) []byte {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, '\\', 'x', hexDigits[s[i]>>4], hexDigits[s[i]&0xf])
			i++
			continue
		}
		switch {
		case containsRune(quoteChars, r) || r == '\\':
			dst = append(dst, '\\')
			dst = append(dst, s[i:i+size]...)
		case r < 0x20:
			dst = append(dst, '\\', 'x', hexDigits[r>>4], hexDigits[r&0xf])
		default:
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return dst
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
