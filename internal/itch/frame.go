package itch

import "encoding/binary"

// ForEachFrame walks a buffer of length-prefixed records, invoking fn with
// each complete payload (length prefix stripped). It returns the number of
// bytes consumed; a trailing partial record is left for the caller to carry
// into the next read.
func ForEachFrame(buf []byte, fn func(payload []byte)) int {
	off := 0
	for off+2 <= len(buf) {
		n := int(binary.BigEndian.Uint16(buf[off:]))
		if off+2+n > len(buf) {
			break
		}
		fn(buf[off+2 : off+2+n])
		off += 2 + n
	}
	return off
}
