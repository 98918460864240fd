// Package itch parses the inbound binary market-data feed.
//
// The feed is a stream of length-prefixed records: a 2-byte big-endian
// length N followed by N payload bytes whose first byte is the message
// type tag. All multi-byte integers are big-endian. Prices arrive already
// scaled by 10^4; the 6-byte timestamps are widened to 8 bytes by
// zero-extension.
//
// The decoder is stateless over the payload and never allocates: it parses
// field-by-field into an owned DecodedMessage and signals truncated or
// unrecognized input with Valid=false rather than an error, so the market
// data thread stays branch-cheap and silent.
package itch

import (
	"encoding/binary"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// Message type tags (payload byte 0).
const (
	TagAddOrder     byte = 'A'
	TagOrderDelete  byte = 'D'
	TagOrderReplace byte = 'U'
)

// Payload sizes in bytes, type tag included, length prefix excluded.
//
//	AddOrder:     tag:1 locate:2 tracking:2 ts:6 ref:8 side:1 shares:4 stock:8 price:4
//	OrderDelete:  tag:1 locate:2 tracking:2 ts:6 ref:8
//	OrderReplace: tag:1 locate:2 tracking:2 ts:6 orig:8 new:8 shares:4 price:4
const (
	AddOrderSize     = 36
	OrderDeleteSize  = 19
	OrderReplaceSize = 35
)

// Field offsets within a payload. The locate and tracking fields are framing
// metadata the book does not consume; they are skipped, not decoded.
const (
	offTimestamp = 5
	offOrderRef  = 11

	offAddSide   = 19
	offAddShares = 20
	offAddStock  = 24
	offAddPrice  = 32

	offRepNewRef = 19
	offRepShares = 27
	offRepPrice  = 31
)

// uint48 reads a 6-byte big-endian integer widened to 64 bits.
func uint48(b []byte) uint64 {
	return uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
}

// putUint48 writes the low 6 bytes of v big-endian.
func putUint48(b []byte, v uint64) {
	b[0] = byte(v >> 40)
	b[1] = byte(v >> 32)
	b[2] = byte(v >> 24)
	b[3] = byte(v >> 16)
	b[4] = byte(v >> 8)
	b[5] = byte(v)
}

// PadTag converts a symbol name into the 8-byte space-padded wire tag.
// Names longer than 8 bytes are truncated.
func PadTag(name string) [8]byte {
	var tag [8]byte
	for i := range tag {
		tag[i] = ' '
	}
	copy(tag[:], name)
	return tag
}

// AppendAddOrder appends a framed AddOrder record (length prefix included).
// Used by the simulated feed and by tests; the live feed arrives pre-framed.
func AppendAddOrder(buf []byte, ts types.Timestamp, ref types.OrderID, side types.Side, shares types.Quantity, stock [8]byte, price types.Price) []byte {
	var p [2 + AddOrderSize]byte
	binary.BigEndian.PutUint16(p[0:2], AddOrderSize)
	p[2] = TagAddOrder
	putUint48(p[2+offTimestamp:], ts)
	binary.BigEndian.PutUint64(p[2+offOrderRef:], ref)
	if side == types.Buy {
		p[2+offAddSide] = 'B'
	} else {
		p[2+offAddSide] = 'S'
	}
	binary.BigEndian.PutUint32(p[2+offAddShares:], shares)
	copy(p[2+offAddStock:], stock[:])
	binary.BigEndian.PutUint32(p[2+offAddPrice:], uint32(price))
	return append(buf, p[:]...)
}

// AppendOrderDelete appends a framed OrderDelete record.
func AppendOrderDelete(buf []byte, ts types.Timestamp, ref types.OrderID) []byte {
	var p [2 + OrderDeleteSize]byte
	binary.BigEndian.PutUint16(p[0:2], OrderDeleteSize)
	p[2] = TagOrderDelete
	putUint48(p[2+offTimestamp:], ts)
	binary.BigEndian.PutUint64(p[2+offOrderRef:], ref)
	return append(buf, p[:]...)
}

// AppendOrderReplace appends a framed OrderReplace record.
func AppendOrderReplace(buf []byte, ts types.Timestamp, origRef, newRef types.OrderID, shares types.Quantity, price types.Price) []byte {
	var p [2 + OrderReplaceSize]byte
	binary.BigEndian.PutUint16(p[0:2], OrderReplaceSize)
	p[2] = TagOrderReplace
	putUint48(p[2+offTimestamp:], ts)
	binary.BigEndian.PutUint64(p[2+offOrderRef:], origRef)
	binary.BigEndian.PutUint64(p[2+offRepNewRef:], newRef)
	binary.BigEndian.PutUint32(p[2+offRepShares:], shares)
	binary.BigEndian.PutUint32(p[2+offRepPrice:], uint32(price))
	return append(buf, p[:]...)
}
