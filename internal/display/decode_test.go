package display

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
)

func TestDecodeWide(t *testing.T) {
	tests := []struct {
		name string
		in   []uint16
		want string
	}{
		{name: "empty buffer", in: nil, want: ""},
		{name: "leading null", in: []uint16{0, 'a', 'b'}, want: ""},
		{name: "null in the middle", in: []uint16{'a', 'b', 0, 'c'}, want: "ab"},
		{name: "no null consumes whole buffer", in: []uint16{'a', 'b', 'c'}, want: "abc"},
		{name: "garbage after terminator is ignored", in: []uint16{'x', 0, 0xD800, 'y'}, want: "x"},
		{name: "surrogate pair", in: append(utf16.Encode([]rune("é😀")), 0), want: "é😀"},
		{name: "unpaired surrogate is replaced", in: []uint16{'a', 0xD800, 'b', 0}, want: "a�b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeWide(tt.in))
		})
	}
}

func TestDecodeWideFixedBuffer(t *testing.T) {
	var buf [32]uint16
	copy(buf[:], utf16.Encode([]rune(`\\.\DISPLAY1`)))
	assert.Equal(t, `\\.\DISPLAY1`, DecodeWide(buf[:]))

	for i := range buf {
		buf[i] = 'z'
	}
	assert.Len(t, DecodeWide(buf[:]), len(buf))
}

func TestTerminated(t *testing.T) {
	assert.Equal(t, []uint16{'a', 0}, terminated([]uint16{'a', 0, 'b'}))
	assert.Equal(t, []uint16{'a', 'b', 0}, terminated([]uint16{'a', 'b'}))
}
