package feed

import (
	"errors"
	"time"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/clock"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// simInterval paces the synthetic feed.
const simInterval = 200 * time.Millisecond

// Sim default quote prices, fixed-point: a two-sided market around 150.00.
const (
	simBidPrice types.Price = 1_500_000
	simAskPrice types.Price = 1_500_500
)

// SimFeed fabricates a framed AddOrder every 200 ms, alternating a bid at
// 150.0000 and an ask at 150.0500 with incrementing order references. It is
// the default source when live mode is off, and gives the pipeline a stable
// two-sided book to quote against.
type SimFeed struct {
	tag     [8]byte
	nextRef types.OrderID
	sellNow bool
	started bool
	last    time.Time
}

// NewSimFeed creates a simulator emitting orders tagged with symbol name.
func NewSimFeed(symbol string) *SimFeed {
	return &SimFeed{
		tag:     itch.PadTag(symbol),
		nextRef: 10_000,
	}
}

// Start arms the simulator.
func (s *SimFeed) Start() error {
	s.started = true
	s.last = time.Now()
	return nil
}

// Stop disarms the simulator.
func (s *SimFeed) Stop() { s.started = false }

// Receive produces the next synthetic record once the pacing interval has
// elapsed, sleeping the remainder so the caller's loop idles at the sim
// cadence instead of spinning.
func (s *SimFeed) Receive(buf []byte) (int, error) {
	if !s.started {
		return 0, errors.New("feed: simulator not started")
	}

	if wait := simInterval - time.Since(s.last); wait > 0 {
		time.Sleep(wait)
	}
	s.last = time.Now()

	s.nextRef++
	price := simBidPrice
	side := types.Buy
	if s.sellNow {
		price = simAskPrice
		side = types.Sell
	}
	s.sellNow = !s.sellNow

	rec := itch.AppendAddOrder(nil, clock.Monotime(), s.nextRef, side, 100, s.tag, price)
	if len(rec) > len(buf) {
		return 0, errors.New("feed: receive buffer too small")
	}
	return copy(buf, rec), nil
}
