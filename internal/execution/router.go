package execution

import (
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/clock"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/hw"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/symbols"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// RoutePath identifies which execution path handled an order.
type RoutePath uint8

const (
	PathCPU RoutePath = iota
	PathHW
)

func (p RoutePath) String() string {
	if p == PathHW {
		return "hw"
	}
	return "cpu"
}

// RouteTelemetry receives the measured dispatch latency of each routed
// order, separated by path. The telemetry collector satisfies this.
type RouteTelemetry interface {
	ObserveRoute(path RoutePath, ns uint64)
}

// Router splits accepted orders between the software gateway and the
// hardware driver based on the symbol's routing flag, timing each dispatch.
type Router struct {
	universe  *symbols.Universe
	gateway   *GatewaySim
	driver    *hw.Driver
	telemetry RouteTelemetry
	logger    *zap.Logger
}

// NewRouter wires the two paths. telemetry and logger may be nil.
func NewRouter(universe *symbols.Universe, gateway *GatewaySim, driver *hw.Driver, telemetry RouteTelemetry, logger *zap.Logger) *Router {
	return &Router{
		universe:  universe,
		gateway:   gateway,
		driver:    driver,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Route dispatches one accepted order to its path.
func (r *Router) Route(o *types.StrategyOrder) {
	path := PathCPU
	if info := r.universe.Get(o.SymbolID); info != nil && info.PreferHWExec && r.driver != nil {
		path = PathHW
	}

	start := clock.Monotime()
	if path == PathHW {
		r.driver.SendOrder(o)
	} else {
		r.gateway.SendOrder(o)
	}
	elapsed := clock.Monotime() - start

	if r.telemetry != nil {
		r.telemetry.ObserveRoute(path, elapsed)
	}
}
