// Package strategy hosts the quoting models that turn market data into
// orders.
//
// A Strategy owns its order book and an outbound SPSC ring. The strategy
// thread feeds it decoded messages and execution reports; the engine drains
// its orders into the risk queue. Two models ship:
//
//   - Quoter: reservation-price quoting — a bid below and an ask above a
//     risk-adjusted mid that shifts against accumulated inventory.
//   - OBIMaker: symmetric quotes around mid, skewed by order-book imbalance.
//
// The model is chosen by config at engine construction; the engine holds
// only this interface.
package strategy

import (
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// Strategy is the capability set the engine drives.
type Strategy interface {
	// OnMarketData feeds one decoded message through the model's book and
	// lets it react. Called only from the strategy thread.
	OnMarketData(msg *itch.DecodedMessage)

	// OnExecution informs the model of a fill or state change for one of
	// its own orders.
	OnExecution(r *types.ExecutionReport)

	// PollOrder moves the next pending order into out, returning false
	// when none is queued.
	PollOrder(out *types.StrategyOrder) bool

	// Inventory reports the model's current signed position estimate.
	Inventory() int64
}

// orderRingCapacity bounds each model's outbound queue.
const orderRingCapacity = 1024

// quoteSize is the constant per-quote share size.
const quoteSize types.Quantity = 100
