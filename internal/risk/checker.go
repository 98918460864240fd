// Package risk enforces pre-trade limits on the execution thread.
//
// The checker sits between the strategy's order ring and the router. Every
// order passes three checks — size, hypothetical position, notional — in
// pure integer arithmetic; a rejection is a counted drop, not an error.
//
// Position is maintained from fills only. The "position after this order"
// view deliberately ignores in-flight orders: simplicity over exposure-net
// precision.
package risk

import (
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// Config sets the fixed limits. MaxNotional is in whole currency units and
// is compared against price×quantity after scaling by the price scale.
type Config struct {
	MaxOrderSize      types.Quantity
	MaxPositionShares int64
	MaxNotional       int64
}

// RejectReason classifies why an order failed the checks.
type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectOrderSize
	RejectPosition
	RejectNotional
)

func (r RejectReason) String() string {
	switch r {
	case RejectOrderSize:
		return "order_size"
	case RejectPosition:
		return "position"
	case RejectNotional:
		return "notional"
	default:
		return "none"
	}
}

// Checker validates orders and tracks the fill-derived position. Owned by
// the execution thread; no locking.
type Checker struct {
	cfg    Config
	logger *zap.Logger

	position int64

	// sides indexes client order id -> side for accepted orders, so fills
	// can be applied to the position without guessing direction.
	sides map[types.OrderID]types.Side

	accepts uint64
	rejects [4]uint64 // indexed by RejectReason

	// onReject, when set, observes each rejection (telemetry hook).
	onReject func(RejectReason)
}

// SetRejectHook installs a callback invoked on every rejection. Call before
// the execution thread starts.
func (c *Checker) SetRejectHook(fn func(RejectReason)) { c.onReject = fn }

// NewChecker creates a checker with the given limits. logger may be nil.
func NewChecker(cfg Config, logger *zap.Logger) *Checker {
	return &Checker{
		cfg:    cfg,
		logger: logger,
		sides:  make(map[types.OrderID]types.Side),
	}
}

// CheckOrder validates o against the limits. Accepted orders are remembered
// in the side index; rejected orders are counted and dropped.
func (c *Checker) CheckOrder(o *types.StrategyOrder) bool {
	if o.Quantity > c.cfg.MaxOrderSize {
		return c.reject(o, RejectOrderSize)
	}

	hypothetical := c.position
	if o.Side == types.Buy {
		hypothetical += int64(o.Quantity)
	} else {
		hypothetical -= int64(o.Quantity)
	}
	if abs64(hypothetical) > c.cfg.MaxPositionShares {
		return c.reject(o, RejectPosition)
	}

	if o.Notional() > c.cfg.MaxNotional*types.PriceScale {
		return c.reject(o, RejectNotional)
	}

	c.accepts++
	c.sides[o.ClientOrderID] = o.Side
	return true
}

// OnExecution applies a fill to the position using the side recorded at
// accept time. Terminal reports drop the id from the index.
func (c *Checker) OnExecution(r *types.ExecutionReport) {
	side, ok := c.sides[r.ClientOrderID]
	if !ok {
		return
	}
	if r.IsFill() {
		if side == types.Buy {
			c.position += int64(r.FillQuantity)
		} else {
			c.position -= int64(r.FillQuantity)
		}
	}
	switch r.Status {
	case types.StatusFilled, types.StatusCanceled, types.StatusRejected:
		delete(c.sides, r.ClientOrderID)
	}
}

func (c *Checker) reject(o *types.StrategyOrder, reason RejectReason) bool {
	c.rejects[reason]++
	if c.onReject != nil {
		c.onReject(reason)
	}
	if c.logger != nil {
		c.logger.Warn("risk reject",
			zap.String("reason", reason.String()),
			zap.Uint64("client_order_id", o.ClientOrderID),
			zap.String("side", o.Side.String()),
			zap.Int64("price", o.Price),
			zap.Uint32("quantity", o.Quantity),
		)
	}
	return false
}

// Position returns the current fill-derived position.
func (c *Checker) Position() int64 { return c.position }

// Accepts returns how many orders passed all checks.
func (c *Checker) Accepts() uint64 { return c.accepts }

// Rejects returns the reject count for one reason.
func (c *Checker) Rejects(reason RejectReason) uint64 { return c.rejects[reason] }

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
