package itch

import (
	"encoding/binary"
	"errors"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// EventType classifies a decoded market-data message.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventAdd
	EventDelete
	EventReplace
)

func (e EventType) String() string {
	switch e {
	case EventAdd:
		return "ADD"
	case EventDelete:
		return "DELETE"
	case EventReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// DecodedMessage is the typed form of one wire record. Valid=false means
// truncated or unrecognized input; consumers drop it without logging.
type DecodedMessage struct {
	Event      EventType
	ExchangeTS types.Timestamp // ns since session start, from the wire
	ArrivalTS  types.Timestamp // monotonic arrival time, passed through
	OrderID    types.OrderID
	NewOrderID types.OrderID // replace only
	SymbolID   types.SymbolID
	Side       types.Side // add only
	Price      types.Price
	Quantity   types.Quantity
	Valid      bool
}

// symbolTableSize is the open-addressed table capacity. Power of two so the
// probe sequence is a mask, sized well above any realistic universe.
const symbolTableSize = 4096

// ErrSymbolTableFull is returned when registration probes every slot.
var ErrSymbolTableFull = errors.New("itch: symbol hash table full")

type symbolEntry struct {
	tag uint64
	id  types.SymbolID
}

// Decoder parses framed payloads into DecodedMessages. Symbol resolution is
// an open-addressed, linear-probed hash of the 8-byte stock tag, populated
// once at startup and read-only on the hot path.
type Decoder struct {
	table [symbolTableSize]symbolEntry
}

// NewDecoder creates a decoder with an empty symbol table.
func NewDecoder() *Decoder {
	d := &Decoder{}
	for i := range d.table {
		d.table[i].id = types.InvalidSymbol
	}
	return d
}

// hashTag is FNV-1a over the 8 tag bytes, folded and masked to table size.
func hashTag(tag uint64) uint32 {
	h := uint64(14695981039346656037)
	for i := 0; i < 8; i++ {
		h ^= (tag >> (i * 8)) & 0xFF
		h *= 1099511628211
	}
	return uint32(h^(h>>32)) & (symbolTableSize - 1)
}

func tagKey(tag [8]byte) uint64 {
	return binary.LittleEndian.Uint64(tag[:])
}

// RegisterSymbol maps a space-padded 8-byte tag to a symbol id. Registering
// the same tag twice is idempotent (the first id wins).
func (d *Decoder) RegisterSymbol(tag [8]byte, id types.SymbolID) error {
	key := tagKey(tag)
	idx := hashTag(key)
	for i := uint32(0); i < symbolTableSize; i++ {
		slot := &d.table[(idx+i)&(symbolTableSize-1)]
		if slot.id == types.InvalidSymbol {
			slot.tag = key
			slot.id = id
			return nil
		}
		if slot.tag == key {
			return nil
		}
	}
	return ErrSymbolTableFull
}

// LookupSymbol resolves a tag to its id, or InvalidSymbol on miss.
func (d *Decoder) LookupSymbol(tag [8]byte) types.SymbolID {
	key := tagKey(tag)
	idx := hashTag(key)
	for i := uint32(0); i < symbolTableSize; i++ {
		slot := &d.table[(idx+i)&(symbolTableSize-1)]
		if slot.tag == key && slot.id != types.InvalidSymbol {
			return slot.id
		}
		if slot.id == types.InvalidSymbol {
			return types.InvalidSymbol
		}
	}
	return types.InvalidSymbol
}

// Decode parses one payload (length prefix already stripped by the framer).
// arrival is the monotonic receive timestamp, passed through untouched.
func (d *Decoder) Decode(payload []byte, arrival types.Timestamp) DecodedMessage {
	msg := DecodedMessage{ArrivalTS: arrival, SymbolID: types.InvalidSymbol}
	if len(payload) < 1 {
		return msg
	}

	switch payload[0] {
	case TagAddOrder:
		if len(payload) < AddOrderSize {
			return msg
		}
		msg.Event = EventAdd
		msg.ExchangeTS = uint48(payload[offTimestamp:])
		msg.OrderID = binary.BigEndian.Uint64(payload[offOrderRef:])
		if payload[offAddSide] == 'B' {
			msg.Side = types.Buy
		} else {
			msg.Side = types.Sell
		}
		msg.Quantity = binary.BigEndian.Uint32(payload[offAddShares:])
		var tag [8]byte
		copy(tag[:], payload[offAddStock:offAddStock+8])
		msg.SymbolID = d.LookupSymbol(tag)
		msg.Price = types.Price(binary.BigEndian.Uint32(payload[offAddPrice:]))
		msg.Valid = true

	case TagOrderDelete:
		if len(payload) < OrderDeleteSize {
			return msg
		}
		msg.Event = EventDelete
		msg.ExchangeTS = uint48(payload[offTimestamp:])
		msg.OrderID = binary.BigEndian.Uint64(payload[offOrderRef:])
		msg.Valid = true

	case TagOrderReplace:
		if len(payload) < OrderReplaceSize {
			return msg
		}
		msg.Event = EventReplace
		msg.ExchangeTS = uint48(payload[offTimestamp:])
		msg.OrderID = binary.BigEndian.Uint64(payload[offOrderRef:])
		msg.NewOrderID = binary.BigEndian.Uint64(payload[offRepNewRef:])
		msg.Quantity = binary.BigEndian.Uint32(payload[offRepShares:])
		msg.Price = types.Price(binary.BigEndian.Uint32(payload[offRepPrice:]))
		msg.Valid = true
	}

	return msg
}
