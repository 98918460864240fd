package strategy

import (
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/book"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/spsc"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// OBIMakerConfig tunes the imbalance maker.
type OBIMakerConfig struct {
	// SpreadCapture is the half-spread posted around mid, fixed-point.
	SpreadCapture types.Price
	// SkewFactor converts imbalance in [-1, 1] into a price shift.
	SkewFactor float64
}

// OBIMaker quotes symmetrically around mid and skews the pair with the
// order-book imbalance at the top of book:
//
//	obi  = (bidQty - askQty) / (bidQty + askQty)
//	skew = obi * skewFactor
//
// More resting bids than asks shifts both quotes up to lean into the flow.
// Unlike the Quoter it reacts only to BBO changes, not every message.
type OBIMaker struct {
	cfg      OBIMakerConfig
	symbolID types.SymbolID
	book     *book.Book
	orders   *spsc.Ring[types.StrategyOrder]

	inventory int64
	nextID    types.OrderID

	orderDrops uint64
}

// NewOBIMaker creates the imbalance maker for one symbol.
func NewOBIMaker(symbolID types.SymbolID, cfg OBIMakerConfig, logger *zap.Logger) *OBIMaker {
	if cfg.SpreadCapture <= 0 {
		cfg.SpreadCapture = 500
	}
	m := &OBIMaker{
		cfg:      cfg,
		symbolID: symbolID,
		orders:   spsc.New[types.StrategyOrder](orderRingCapacity),
		nextID:   1,
	}
	m.book = book.New(symbolID, m, logger)
	return m
}

// OnMarketData feeds the book; quoting happens from the BBO listener.
func (m *OBIMaker) OnMarketData(msg *itch.DecodedMessage) {
	m.book.Update(msg)
}

// OnExecution adjusts inventory with the same best-ask heuristic the
// reservation quoter uses.
func (m *OBIMaker) OnExecution(r *types.ExecutionReport) {
	if r.SymbolID != m.symbolID || !r.IsFill() {
		return
	}
	if r.FillPrice < m.book.BestAsk().Price {
		m.inventory += int64(r.FillQuantity)
	} else {
		m.inventory -= int64(r.FillQuantity)
	}
}

// PollOrder drains the next pending order.
func (m *OBIMaker) PollOrder(out *types.StrategyOrder) bool {
	return m.orders.Pop(out)
}

// OnBBO implements book.Listener.
func (m *OBIMaker) OnBBO(u types.BBOUpdate) {
	if u.BidPrice == 0 || u.AskPrice == types.InvalidPrice {
		return
	}
	mid := u.Mid()

	var obi float64
	if total := float64(u.BidQty) + float64(u.AskQty); total > 0 {
		obi = (float64(u.BidQty) - float64(u.AskQty)) / total
	}
	skew := types.Price(obi * m.cfg.SkewFactor)

	m.emit(types.Buy, mid-m.cfg.SpreadCapture+skew)
	m.emit(types.Sell, mid+m.cfg.SpreadCapture+skew)
}

func (m *OBIMaker) emit(side types.Side, price types.Price) {
	o := types.StrategyOrder{
		Action:        types.ActionNew,
		ClientOrderID: m.nextID,
		SymbolID:      m.symbolID,
		Side:          side,
		Price:         price,
		Quantity:      quoteSize,
		Type:          types.Limit,
	}
	if !m.orders.Push(o) {
		m.orderDrops++
		return
	}
	m.nextID++
}

// Inventory returns the current signed position estimate.
func (m *OBIMaker) Inventory() int64 { return m.inventory }

// Book exposes the maker's book for inspection.
func (m *OBIMaker) Book() *book.Book { return m.book }
