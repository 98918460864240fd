// Package book maintains the per-symbol incremental L2 order book.
//
// The book is the strategy thread's private view of the market. It consumes
// decoded add/delete/replace messages and keeps two flat, sorted level
// arrays (bids descending, asks ascending) plus an order index so deletes
// and replaces resolve in amortized O(1).
//
// Storage is allocation-free after construction: live orders come from a
// fixed arena and are chained through bucket heads by index, with a NIL
// sentinel instead of pointers. Pool exhaustion drops the offending add —
// observable through a counter and a warn log, never fatal, and never
// corrupting the level arrays.
//
// Concurrency: none. A Book is owned by exactly one thread.
package book

import (
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/clock"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

const (
	// MaxLevels bounds each side's flat level array. Real depth sits far
	// below this, which keeps the insertion memmove cache-friendly.
	MaxLevels = 100

	// poolCapacity is the live-order arena size.
	poolCapacity = 100_000

	// indexSize is the bucket-head count: power of two, ≥1.3× the pool so
	// chains stay short at full load.
	indexSize = 131_072

	nilIdx = ^uint32(0)
)

// Level is one aggregation bucket: all resting quantity at one price.
type Level struct {
	Price      types.Price
	Quantity   types.Quantity
	OrderCount uint32
}

// Listener receives best-bid-offer change events. Supplied at construction;
// the book is not moved across threads, so implementations need no locking.
type Listener interface {
	OnBBO(types.BBOUpdate)
}

type orderEntry struct {
	id       types.OrderID
	price    types.Price
	quantity types.Quantity
	side     types.Side
	next     uint32
}

// Book is the aggregated L2 book for a single symbol.
type Book struct {
	symbolID types.SymbolID

	arena  []orderEntry
	free   []uint32 // stack of free arena indices
	chains []uint32 // bucket heads into the arena, nilIdx-terminated

	bids [MaxLevels]Level
	asks [MaxLevels]Level

	listener Listener
	logger   *zap.Logger

	poolDrops uint64
	live      int
}

// New creates an empty book for the given symbol. listener may be nil.
func New(symbolID types.SymbolID, listener Listener, logger *zap.Logger) *Book {
	b := &Book{
		symbolID: symbolID,
		arena:    make([]orderEntry, poolCapacity),
		free:     make([]uint32, poolCapacity),
		chains:   make([]uint32, indexSize),
		listener: listener,
		logger:   logger,
	}
	for i := range b.free {
		b.free[i] = uint32(i)
	}
	for i := range b.chains {
		b.chains[i] = nilIdx
	}
	for i := range b.asks {
		b.asks[i].Price = types.InvalidPrice
	}
	return b
}

func hashOrderID(id types.OrderID) uint32 {
	// Fibonacci multiplicative hash; the high bits mix well for the
	// sequential reference numbers exchanges hand out.
	return uint32((id*0x9E3779B97F4A7C15)>>32) & (indexSize - 1)
}

// Update applies one decoded message. Messages that are invalid, or that
// carry a symbol id for a different book, are ignored without mutation.
func (b *Book) Update(msg *itch.DecodedMessage) {
	if !msg.Valid {
		return
	}
	if msg.SymbolID != types.InvalidSymbol && msg.SymbolID != b.symbolID {
		return
	}

	// Snapshot the tops before mutating; the listener fires on any change
	// of top-slot price or quantity on either side.
	prevBid := b.bids[0]
	prevAsk := b.asks[0]

	switch msg.Event {
	case itch.EventAdd:
		b.addOrder(msg.OrderID, msg.Side, msg.Price, msg.Quantity)
	case itch.EventDelete:
		b.deleteOrder(msg.OrderID)
	case itch.EventReplace:
		// Replace keeps the original order's side: look it up first, then
		// delete-and-add. An unknown original ref is a no-op.
		if side, ok := b.sideOf(msg.OrderID); ok {
			b.deleteOrder(msg.OrderID)
			b.addOrder(msg.NewOrderID, side, msg.Price, msg.Quantity)
		}
	}

	if b.listener != nil {
		if b.bids[0].Price != prevBid.Price || b.bids[0].Quantity != prevBid.Quantity ||
			b.asks[0].Price != prevAsk.Price || b.asks[0].Quantity != prevAsk.Quantity {
			b.listener.OnBBO(types.BBOUpdate{
				SymbolID: b.symbolID,
				BidPrice: b.bids[0].Price,
				BidQty:   b.bids[0].Quantity,
				AskPrice: b.asks[0].Price,
				AskQty:   b.asks[0].Quantity,
				Monotime: clock.Monotime(),
			})
		}
	}
}

func (b *Book) addOrder(id types.OrderID, side types.Side, price types.Price, qty types.Quantity) {
	if len(b.free) == 0 {
		b.poolDrops++
		if b.logger != nil {
			b.logger.Warn("order pool exhausted, dropping add",
				zap.Uint32("symbol_id", b.symbolID),
				zap.Uint64("order_id", id),
			)
		}
		return
	}
	idx := b.free[len(b.free)-1]
	b.free = b.free[:len(b.free)-1]

	h := hashOrderID(id)
	b.arena[idx] = orderEntry{id: id, price: price, quantity: qty, side: side, next: b.chains[h]}
	b.chains[h] = idx
	b.live++

	b.updateLevel(side, price, int64(qty))
}

func (b *Book) deleteOrder(id types.OrderID) {
	h := hashOrderID(id)
	prev := nilIdx
	for cur := b.chains[h]; cur != nilIdx; cur = b.arena[cur].next {
		e := &b.arena[cur]
		if e.id == id {
			b.updateLevel(e.side, e.price, -int64(e.quantity))
			if prev == nilIdx {
				b.chains[h] = e.next
			} else {
				b.arena[prev].next = e.next
			}
			b.free = append(b.free, cur)
			b.live--
			return
		}
		prev = cur
	}
}

func (b *Book) sideOf(id types.OrderID) (types.Side, bool) {
	for cur := b.chains[hashOrderID(id)]; cur != nilIdx; cur = b.arena[cur].next {
		if b.arena[cur].id == id {
			return b.arena[cur].side, true
		}
	}
	return 0, false
}

// updateLevel is the hot routine: apply a signed quantity delta at one price
// on one side, inserting, adjusting, or removing the level in its sorted
// flat array.
func (b *Book) updateLevel(side types.Side, price types.Price, delta int64) {
	var levels *[MaxLevels]Level
	var sentinel types.Price
	if side == types.Buy {
		levels, sentinel = &b.bids, 0
	} else {
		levels, sentinel = &b.asks, types.InvalidPrice
	}

	for i := 0; i < MaxLevels; i++ {
		if levels[i].Price == price && price != sentinel {
			q := int64(levels[i].Quantity) + delta
			if delta > 0 {
				levels[i].OrderCount++
			} else if levels[i].OrderCount > 0 {
				levels[i].OrderCount--
			}
			if q <= 0 {
				copy(levels[i:MaxLevels-1], levels[i+1:MaxLevels])
				levels[MaxLevels-1] = Level{Price: sentinel}
				return
			}
			levels[i].Quantity = types.Quantity(q)
			return
		}

		emptySlot := levels[i].Price == sentinel
		correctOrder := (side == types.Buy && levels[i].Price < price) ||
			(side == types.Sell && levels[i].Price > price)

		if emptySlot || correctOrder {
			if delta < 0 {
				// Removing quantity at a price with no level means the
				// caller's view is inconsistent; leave the array untouched.
				return
			}
			copy(levels[i+1:MaxLevels], levels[i:MaxLevels-1])
			levels[i] = Level{Price: price, Quantity: types.Quantity(delta), OrderCount: 1}
			return
		}
	}
}

// BestBid returns the top bid level (Price 0 when the side is empty).
func (b *Book) BestBid() Level { return b.bids[0] }

// BestAsk returns the top ask level (Price InvalidPrice when empty).
func (b *Book) BestAsk() Level { return b.asks[0] }

// Bids exposes the bid level array, top first.
func (b *Book) Bids() *[MaxLevels]Level { return &b.bids }

// Asks exposes the ask level array, top first.
func (b *Book) Asks() *[MaxLevels]Level { return &b.asks }

// SymbolID returns the symbol this book tracks.
func (b *Book) SymbolID() types.SymbolID { return b.symbolID }

// PoolDrops returns how many adds were dropped to pool exhaustion.
func (b *Book) PoolDrops() uint64 { return b.poolDrops }

// LiveOrders returns the number of orders currently held in the arena.
func (b *Book) LiveOrders() int { return b.live }
