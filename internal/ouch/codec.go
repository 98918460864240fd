// Package ouch encodes and decodes the outbound order-entry protocol.
//
// Messages are fixed packed layouts: big-endian integers, space-padded text
// fields, fixed-point prices at scale 10^4. The gateway emits the EnterOrder
// image of every accepted order so an egress capture sees exactly what would
// hit the wire; decode exists for the simulator and tests.
package ouch

import (
	"encoding/binary"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// Message type tags.
const (
	TagEnterOrder    byte = 'O'
	TagCancelOrder   byte = 'X'
	TagExecutedOrder byte = 'E'
)

// Wire sizes.
//
//	EnterOrder:    type:1 token:8 side:1 shares:4 stock:8 price:4 tif:4
//	               firm:4 display:1 capacity:1 iso:1 min_qty:4 cross:1
//	               customer:1
//	CancelOrder:   type:1 token:8 shares:4
//	ExecutedOrder: type:1 ts:8 token:8 shares:4 price:4 match:8
const (
	EnterOrderSize    = 43
	CancelOrderSize   = 13
	ExecutedOrderSize = 33
)

// EnterOrder field offsets.
const (
	offToken    = 1
	offSide     = 9
	offShares   = 10
	offStock    = 14
	offPrice    = 22
	offTIF      = 26
	offFirm     = 30
	offDisplay  = 34
	offCapacity = 35
	offISO      = 36
	offMinQty   = 37
	offCross    = 41
	offCustomer = 42
)

// EnterOrder is a new-order submission.
type EnterOrder struct {
	Token       types.OrderID
	Side        types.Side
	Shares      types.Quantity
	Stock       [8]byte
	Price       types.Price
	TimeInForce uint32
	Firm        [4]byte
	Display     byte
	Capacity    byte
	ISO         byte
	MinQty      uint32
	CrossType   byte
	Customer    byte
}

// DefaultFirm is the space-padded firm identifier stamped on egress.
var DefaultFirm = [4]byte{'T', 'R', 'S', 'L'}

// NewEnterOrder builds an EnterOrder with the standing defaults: day order,
// displayed, principal capacity, retail customer.
func NewEnterOrder(token types.OrderID, side types.Side, shares types.Quantity, stock [8]byte, price types.Price) EnterOrder {
	return EnterOrder{
		Token:     token,
		Side:      side,
		Shares:    shares,
		Stock:     stock,
		Price:     price,
		Firm:      DefaultFirm,
		Display:   'Y',
		Capacity:  'P',
		ISO:       'N',
		CrossType: 'N',
		Customer:  'R',
	}
}

// Append encodes the message onto buf.
func (m EnterOrder) Append(buf []byte) []byte {
	var p [EnterOrderSize]byte
	p[0] = TagEnterOrder
	binary.BigEndian.PutUint64(p[offToken:], m.Token)
	if m.Side == types.Buy {
		p[offSide] = 'B'
	} else {
		p[offSide] = 'S'
	}
	binary.BigEndian.PutUint32(p[offShares:], m.Shares)
	copy(p[offStock:], m.Stock[:])
	binary.BigEndian.PutUint32(p[offPrice:], uint32(m.Price))
	binary.BigEndian.PutUint32(p[offTIF:], m.TimeInForce)
	copy(p[offFirm:], m.Firm[:])
	p[offDisplay] = m.Display
	p[offCapacity] = m.Capacity
	p[offISO] = m.ISO
	binary.BigEndian.PutUint32(p[offMinQty:], m.MinQty)
	p[offCross] = m.CrossType
	p[offCustomer] = m.Customer
	return append(buf, p[:]...)
}

// DecodeEnterOrder parses an EnterOrder image. ok is false when the buffer
// is short or mistagged.
func DecodeEnterOrder(buf []byte) (m EnterOrder, ok bool) {
	if len(buf) < EnterOrderSize || buf[0] != TagEnterOrder {
		return m, false
	}
	m.Token = binary.BigEndian.Uint64(buf[offToken:])
	if buf[offSide] == 'B' {
		m.Side = types.Buy
	} else {
		m.Side = types.Sell
	}
	m.Shares = binary.BigEndian.Uint32(buf[offShares:])
	copy(m.Stock[:], buf[offStock:])
	m.Price = types.Price(binary.BigEndian.Uint32(buf[offPrice:]))
	m.TimeInForce = binary.BigEndian.Uint32(buf[offTIF:])
	copy(m.Firm[:], buf[offFirm:])
	m.Display = buf[offDisplay]
	m.Capacity = buf[offCapacity]
	m.ISO = buf[offISO]
	m.MinQty = binary.BigEndian.Uint32(buf[offMinQty:])
	m.CrossType = buf[offCross]
	m.Customer = buf[offCustomer]
	return m, true
}

// CancelOrder requests removal of a resting order. Shares 0 cancels all.
type CancelOrder struct {
	Token  types.OrderID
	Shares types.Quantity
}

// Append encodes the message onto buf.
func (m CancelOrder) Append(buf []byte) []byte {
	var p [CancelOrderSize]byte
	p[0] = TagCancelOrder
	binary.BigEndian.PutUint64(p[1:], m.Token)
	binary.BigEndian.PutUint32(p[9:], m.Shares)
	return append(buf, p[:]...)
}

// ExecutedOrder reports a fill against a previously entered order.
type ExecutedOrder struct {
	Timestamp types.Timestamp
	Token     types.OrderID
	Shares    types.Quantity
	Price     types.Price
	MatchID   uint64
}

// Append encodes the message onto buf.
func (m ExecutedOrder) Append(buf []byte) []byte {
	var p [ExecutedOrderSize]byte
	p[0] = TagExecutedOrder
	binary.BigEndian.PutUint64(p[1:], m.Timestamp)
	binary.BigEndian.PutUint64(p[9:], m.Token)
	binary.BigEndian.PutUint32(p[17:], m.Shares)
	binary.BigEndian.PutUint32(p[21:], uint32(m.Price))
	binary.BigEndian.PutUint64(p[25:], m.MatchID)
	return append(buf, p[:]...)
}

// DecodeExecutedOrder parses an ExecutedOrder image.
func DecodeExecutedOrder(buf []byte) (m ExecutedOrder, ok bool) {
	if len(buf) < ExecutedOrderSize || buf[0] != TagExecutedOrder {
		return m, false
	}
	m.Timestamp = binary.BigEndian.Uint64(buf[1:])
	m.Token = binary.BigEndian.Uint64(buf[9:])
	m.Shares = binary.BigEndian.Uint32(buf[17:])
	m.Price = types.Price(binary.BigEndian.Uint32(buf[21:]))
	m.MatchID = binary.BigEndian.Uint64(buf[25:])
	return m, true
}
