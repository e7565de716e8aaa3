package display

import "unicode/utf16"

// DecodeWide converts a fixed-width, null-terminated UTF-16 buffer into a
// string. Decoding stops at the first zero code unit or at the end of the
// buffer; unpaired surrogates become U+FFFD.
func DecodeWide(s []uint16) string {
	end := len(s)
	for i, c := range s {
		if c == 0 {
			end = i
			break
		}
	}
	return string(utf16.Decode(s[:end]))
}
