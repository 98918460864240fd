package execution

import (
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// OrderState is the OMS view of one working order.
type OrderState struct {
	ClientOrderID types.OrderID
	SymbolID      types.SymbolID
	Side          types.Side
	Price         types.Price
	Quantity      types.Quantity
	Status        types.OrderStatus
	FilledQty     types.Quantity
}

// OMS tracks every order the router accepts until it reaches a terminal
// state. It is the authoritative client-order-id index: reports that arrive
// for unknown ids are counted and dropped rather than guessed at.
type OMS struct {
	logger *zap.Logger

	active map[types.OrderID]*OrderState

	unknownReports uint64
}

// NewOMS creates an empty order tracker. logger may be nil.
func NewOMS(logger *zap.Logger) *OMS {
	return &OMS{
		logger: logger,
		active: make(map[types.OrderID]*OrderState),
	}
}

// Track records an accepted order as working.
func (m *OMS) Track(o *types.StrategyOrder) {
	m.active[o.ClientOrderID] = &OrderState{
		ClientOrderID: o.ClientOrderID,
		SymbolID:      o.SymbolID,
		Side:          o.Side,
		Price:         o.Price,
		Quantity:      o.Quantity,
		Status:        types.StatusNew,
	}
}

// OnExecutionReport applies a report to the tracked state. Terminal states
// release the order.
func (m *OMS) OnExecutionReport(r *types.ExecutionReport) {
	state, ok := m.active[r.ClientOrderID]
	if !ok {
		m.unknownReports++
		return
	}
	state.Status = r.Status
	if r.IsFill() {
		state.FilledQty += r.FillQuantity
	}
	switch r.Status {
	case types.StatusFilled, types.StatusCanceled, types.StatusRejected:
		delete(m.active, r.ClientOrderID)
	}
}

// Get returns the working state for an id, or nil.
func (m *OMS) Get(id types.OrderID) *OrderState {
	return m.active[id]
}

// ActiveCount returns the number of working orders.
func (m *OMS) ActiveCount() int { return len(m.active) }

// UnknownReports returns how many reports referenced untracked ids.
func (m *OMS) UnknownReports() uint64 { return m.unknownReports }
