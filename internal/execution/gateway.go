// Package execution owns the order path downstream of risk: the smart order
// router, the software gateway simulator, and the order-state tracker.
//
// Everything here runs on the execution thread. The gateway pretends to be
// an exchange — it acknowledges, matches with price-time priority against
// its own resting book, and emits execution reports on an SPSC ring the
// engine drains back to the strategy.
package execution

import (
	"io"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/clock"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/ouch"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/spsc"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/symbols"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// reportRingCapacity bounds the gateway's outbound report queue.
const reportRingCapacity = 8192

type restingOrder struct {
	order types.StrategyOrder
	seq   uint64 // arrival sequence for time priority
}

// GatewaySim is a minimal crossing engine. Bids rest sorted descending by
// (price, arrival), asks ascending; an incoming order matches at resting
// prices, and any limit residue joins the book. Market orders never rest.
type GatewaySim struct {
	universe *symbols.Universe
	logger   *zap.Logger

	bids []restingOrder
	asks []restingOrder

	reports *spsc.Ring[types.ExecutionReport]
	seq     uint64

	// egress, when set, receives the OUCH EnterOrder image of every order
	// accepted by the gateway.
	egress    io.Writer
	egressBuf []byte

	fees         decimal.Decimal // accrued taker fees on fills
	fillNotional decimal.Decimal

	reportDrops uint64
}

// NewGatewaySim creates the simulator. universe (for fee rates and egress
// tags) and logger may be nil.
func NewGatewaySim(universe *symbols.Universe, logger *zap.Logger) *GatewaySim {
	return &GatewaySim{
		universe: universe,
		logger:   logger,
		reports:  spsc.New[types.ExecutionReport](reportRingCapacity),
	}
}

// SetEgress directs an OUCH image of each accepted order to w. Call before
// the engine starts; the gateway does not synchronize the writer.
func (g *GatewaySim) SetEgress(w io.Writer) { g.egress = w }

// SendOrder processes one order: acknowledge, match, maybe rest.
func (g *GatewaySim) SendOrder(o *types.StrategyOrder) {
	if o.Action == types.ActionCancel {
		g.cancel(o.ClientOrderID)
		return
	}
	if o.Quantity == 0 {
		return
	}

	g.writeEgress(o)
	g.emit(types.ExecutionReport{
		TSC:               clock.Monotime(),
		ClientOrderID:     o.ClientOrderID,
		SymbolID:          o.SymbolID,
		Status:            types.StatusNew,
		RemainingQuantity: o.Quantity,
	})

	remaining := g.match(o)

	if remaining > 0 && o.Type == types.Limit {
		g.rest(o, remaining)
	}
}

// PollReport drains the next execution report. Consumer side of the ring.
func (g *GatewaySim) PollReport(out *types.ExecutionReport) bool {
	return g.reports.Pop(out)
}

// match crosses o against the opposite side and returns the unfilled
// remainder. Fills print at the resting price.
func (g *GatewaySim) match(o *types.StrategyOrder) types.Quantity {
	remaining := o.Quantity

	opposite := &g.asks
	crosses := func(restPx types.Price) bool { return o.Price >= restPx }
	if o.Side == types.Sell {
		opposite = &g.bids
		crosses = func(restPx types.Price) bool { return o.Price <= restPx }
	}
	if o.Type == types.Market {
		crosses = func(types.Price) bool { return true }
	}

	for remaining > 0 && len(*opposite) > 0 {
		best := &(*opposite)[0]
		if !crosses(best.order.Price) {
			break
		}

		fillQty := remaining
		if best.order.Quantity < fillQty {
			fillQty = best.order.Quantity
		}
		remaining -= fillQty
		best.order.Quantity -= fillQty

		status := types.StatusPartial
		if remaining == 0 {
			status = types.StatusFilled
		}
		g.emit(types.ExecutionReport{
			TSC:               clock.Monotime(),
			ClientOrderID:     o.ClientOrderID,
			SymbolID:          o.SymbolID,
			Status:            status,
			FillPrice:         best.order.Price,
			FillQuantity:      fillQty,
			RemainingQuantity: remaining,
		})
		g.accrueFees(o.SymbolID, best.order.Price, fillQty)

		if best.order.Quantity == 0 {
			*opposite = (*opposite)[1:]
		}
	}
	return remaining
}

// rest inserts the residue into its side, keeping (price, arrival) order.
func (g *GatewaySim) rest(o *types.StrategyOrder, qty types.Quantity) {
	entry := restingOrder{order: *o, seq: g.nextSeq()}
	entry.order.Quantity = qty

	side := &g.bids
	better := func(a, b types.Price) bool { return a > b }
	if o.Side == types.Sell {
		side = &g.asks
		better = func(a, b types.Price) bool { return a < b }
	}

	i := 0
	for i < len(*side) {
		if better(entry.order.Price, (*side)[i].order.Price) {
			break
		}
		i++
	}
	*side = append(*side, restingOrder{})
	copy((*side)[i+1:], (*side)[i:])
	(*side)[i] = entry
}

func (g *GatewaySim) cancel(id types.OrderID) {
	for _, side := range []*[]restingOrder{&g.bids, &g.asks} {
		for i := range *side {
			if (*side)[i].order.ClientOrderID == id {
				o := (*side)[i].order
				*side = append((*side)[:i], (*side)[i+1:]...)
				g.emit(types.ExecutionReport{
					TSC:               clock.Monotime(),
					ClientOrderID:     id,
					SymbolID:          o.SymbolID,
					Status:            types.StatusCanceled,
					RemainingQuantity: o.Quantity,
				})
				return
			}
		}
	}
}

func (g *GatewaySim) emit(r types.ExecutionReport) {
	if !g.reports.Push(r) {
		g.reportDrops++
	}
}

func (g *GatewaySim) accrueFees(sym types.SymbolID, px types.Price, qty types.Quantity) {
	if g.universe == nil {
		return
	}
	info := g.universe.Get(sym)
	if info == nil {
		return
	}
	notional := decimal.New(px*int64(qty), 0).Div(decimal.New(int64(types.PriceScale), 0))
	g.fillNotional = g.fillNotional.Add(notional)
	g.fees = g.fees.Add(notional.Mul(info.TakerFee))
}

func (g *GatewaySim) writeEgress(o *types.StrategyOrder) {
	if g.egress == nil {
		return
	}
	var tag [8]byte
	if g.universe != nil {
		if info := g.universe.Get(o.SymbolID); info != nil {
			tag = info.Tag
		}
	}
	if tag == ([8]byte{}) {
		tag = itch.PadTag("")
	}
	g.egressBuf = ouch.NewEnterOrder(o.ClientOrderID, o.Side, o.Quantity, tag, o.Price).Append(g.egressBuf[:0])
	g.egress.Write(g.egressBuf)
}

func (g *GatewaySim) nextSeq() uint64 {
	g.seq++
	return g.seq
}

// RestingBids returns the resting bid count.
func (g *GatewaySim) RestingBids() int { return len(g.bids) }

// RestingAsks returns the resting ask count.
func (g *GatewaySim) RestingAsks() int { return len(g.asks) }

// AccruedFees returns the taker fees accrued across all fills.
func (g *GatewaySim) AccruedFees() decimal.Decimal { return g.fees }

// FillNotional returns the total filled notional in currency units.
func (g *GatewaySim) FillNotional() decimal.Decimal { return g.fillNotional }

// ReportDrops returns how many reports were lost to a full ring.
func (g *GatewaySim) ReportDrops() uint64 { return g.reportDrops }
