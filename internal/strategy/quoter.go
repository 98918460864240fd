package strategy

import (
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/book"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/spsc"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// QuoterConfig tunes the reservation-price model.
//
//   - Gamma: risk aversion. Higher moves the reservation price further per
//     share of inventory.
//   - Sigma: volatility estimate. Scales both the inventory adjustment and
//     the spread floor.
//   - Tick:  price quantization for outgoing quotes.
type QuoterConfig struct {
	Gamma float64
	Sigma float64
	Tick  types.Price
}

// Quoter posts a two-sided quote around a reservation price:
//
//	mid         = (bid + ask) / 2
//	reservation = mid - inventory * gamma * sigma^2
//	half_spread = max(sigma * 5000, (ask - bid) / 2)   // never cross
//	bid/ask     = reservation -/+ half_spread, quantized down to tick
//
// Inventory shifts the quote pair so fills pull the position back toward
// flat. All state is owned by the strategy thread.
type Quoter struct {
	cfg      QuoterConfig
	symbolID types.SymbolID
	book     *book.Book
	orders   *spsc.Ring[types.StrategyOrder]
	logger   *zap.Logger

	inventory int64
	nextID    types.OrderID

	quotesEmitted uint64
	orderDrops    uint64
}

// NewQuoter creates a reservation-price quoter for one symbol.
func NewQuoter(symbolID types.SymbolID, cfg QuoterConfig, logger *zap.Logger) *Quoter {
	if cfg.Tick <= 0 {
		cfg.Tick = 100
	}
	q := &Quoter{
		cfg:      cfg,
		symbolID: symbolID,
		orders:   spsc.New[types.StrategyOrder](orderRingCapacity),
		logger:   logger,
		nextID:   1,
	}
	q.book = book.New(symbolID, nil, logger)
	return q
}

// OnMarketData updates the book, then runs one inference step.
func (q *Quoter) OnMarketData(msg *itch.DecodedMessage) {
	q.book.Update(msg)
	q.infer()
}

// OnExecution adjusts inventory on fills for the owned symbol. The side is
// inferred by comparing the fill price to the current best ask — a buy fill
// should land below it. The approximation is intentional; the risk layer
// keeps the exact per-order side index.
func (q *Quoter) OnExecution(r *types.ExecutionReport) {
	if r.SymbolID != q.symbolID || !r.IsFill() {
		return
	}
	if r.FillPrice < q.book.BestAsk().Price {
		q.inventory += int64(r.FillQuantity)
	} else {
		q.inventory -= int64(r.FillQuantity)
	}
}

// PollOrder drains the next pending order.
func (q *Quoter) PollOrder(out *types.StrategyOrder) bool {
	return q.orders.Pop(out)
}

func (q *Quoter) infer() {
	bid := q.book.BestBid()
	ask := q.book.BestAsk()
	if bid.Price == 0 || ask.Price == types.InvalidPrice {
		return
	}

	mid := float64(bid.Price+ask.Price) / 2.0

	halfSpread := q.cfg.Sigma * 5000.0
	if market := float64(ask.Price-bid.Price) / 2.0; halfSpread < market {
		halfSpread = market
	}

	reservation := mid - float64(q.inventory)*q.cfg.Gamma*q.cfg.Sigma*q.cfg.Sigma

	optimalBid := quantizeDown(types.Price(reservation-halfSpread), q.cfg.Tick)
	optimalAsk := quantizeDown(types.Price(reservation+halfSpread), q.cfg.Tick)

	if optimalBid > 0 {
		q.emit(types.Buy, optimalBid)
	}
	if optimalAsk > optimalBid {
		q.emit(types.Sell, optimalAsk)
	}
}

func (q *Quoter) emit(side types.Side, price types.Price) {
	o := types.StrategyOrder{
		Action:        types.ActionNew,
		ClientOrderID: q.nextID,
		SymbolID:      q.symbolID,
		Side:          side,
		Price:         price,
		Quantity:      quoteSize,
		Type:          types.Limit,
	}
	if !q.orders.Push(o) {
		q.orderDrops++
		return
	}
	q.nextID++
	q.quotesEmitted++
}

// Inventory returns the current signed position estimate.
func (q *Quoter) Inventory() int64 { return q.inventory }

// Book exposes the quoter's book for inspection.
func (q *Quoter) Book() *book.Book { return q.book }

// QuotesEmitted returns the number of orders queued so far.
func (q *Quoter) QuotesEmitted() uint64 { return q.quotesEmitted }

// OrderDrops returns how many orders were lost to a full outbound ring.
func (q *Quoter) OrderDrops() uint64 { return q.orderDrops }

func quantizeDown(px, tick types.Price) types.Price {
	return (px / tick) * tick
}
