// Package types defines shared data structures used across all packages.
//
// This package is the common vocabulary for the trading pipeline — fixed-point
// prices, symbol and order identifiers, strategy orders, and execution
// reports. It has no dependencies on internal packages, so it can be imported
// by any layer.
package types

// ————————————————————————————————————————————————————————————————————————
// Core scalars
// ————————————————————————————————————————————————————————————————————————

// Price is a signed fixed-point price scaled by PriceScale (10^4).
// A price of 1500000 means 150.0000.
type Price = int64

// PriceScale is the fixed-point scale applied to all prices.
const PriceScale Price = 10_000

// InvalidPrice marks "no ask level". The bid side uses 0 for "no level".
const InvalidPrice Price = int64(^uint64(0) >> 1)

// Quantity is a share count. Level updates apply signed deltas internally,
// so book code works with int64 and narrows at the edges.
type Quantity = uint32

// SymbolID indexes into the symbol universe. The id space is dense and small.
type SymbolID = uint32

// InvalidSymbol is returned for unregistered symbol tags.
const InvalidSymbol SymbolID = ^SymbolID(0)

// OrderID is an exchange or strategy assigned order reference.
type OrderID = uint64

// Timestamp is nanoseconds, either since session start (exchange timestamps)
// or from the monotonic clock (arrival timestamps).
type Timestamp = uint64

// Side is the direction of an order.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType enumerates supported order lifecycles.
type OrderType uint8

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Market {
		return "MARKET"
	}
	return "LIMIT"
}

// ————————————————————————————————————————————————————————————————————————
// Orders
// ————————————————————————————————————————————————————————————————————————

// OrderAction distinguishes new orders from cancels on the strategy ring.
type OrderAction uint8

const (
	ActionNew OrderAction = iota
	ActionCancel
)

// StrategyOrder is produced by a strategy, validated by risk, then routed.
// Once accepted, ownership is surrendered to the execution path.
type StrategyOrder struct {
	Action        OrderAction
	ClientOrderID OrderID
	SymbolID      SymbolID
	Side          Side
	Price         Price
	Quantity      Quantity
	Type          OrderType
}

// Notional returns price × quantity in fixed-point units.
func (o StrategyOrder) Notional() int64 {
	return o.Price * int64(o.Quantity)
}

// ————————————————————————————————————————————————————————————————————————
// Execution reports
// ————————————————————————————————————————————————————————————————————————

// OrderStatus is the lifecycle state carried on execution reports.
type OrderStatus uint8

const (
	StatusNew OrderStatus = iota
	StatusPartial
	StatusFilled
	StatusCanceled
	StatusRejected
)

func (s OrderStatus) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusPartial:
		return "PARTIAL"
	case StatusFilled:
		return "FILLED"
	case StatusCanceled:
		return "CANCELED"
	default:
		return "REJECTED"
	}
}

// ExecutionReport flows back from an execution path to the strategy.
type ExecutionReport struct {
	TSC               Timestamp
	ClientOrderID     OrderID
	SymbolID          SymbolID
	Status            OrderStatus
	FillPrice         Price
	FillQuantity      Quantity
	RemainingQuantity Quantity
}

// IsFill reports whether the report carries executed quantity.
func (r ExecutionReport) IsFill() bool {
	return r.Status == StatusPartial || r.Status == StatusFilled
}

// ————————————————————————————————————————————————————————————————————————
// Book events
// ————————————————————————————————————————————————————————————————————————

// BBOUpdate is delivered to the book's listener whenever the top of book
// changes in price or quantity on either side.
type BBOUpdate struct {
	SymbolID SymbolID
	BidPrice Price
	BidQty   Quantity
	AskPrice Price
	AskQty   Quantity
	Monotime Timestamp
}

// Mid returns the midpoint of the BBO. Only meaningful when both sides
// have a valid top (BidPrice > 0 and AskPrice != InvalidPrice).
func (b BBOUpdate) Mid() Price {
	return (b.BidPrice + b.AskPrice) / 2
}
