package execution

import (
	"testing"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/hw"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/symbols"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

type routeCapture struct {
	cpu, hw int
}

func (c *routeCapture) ObserveRoute(path RoutePath, ns uint64) {
	if path == PathHW {
		c.hw++
	} else {
		c.cpu++
	}
}

// TestRouterDispatch covers the prefer_hw_exec split: symbol A goes to the
// hardware driver, symbol B to the software gateway.
func TestRouterDispatch(t *testing.T) {
	t.Parallel()

	u := symbols.NewUniverse()
	u.Add(symbols.Info{ID: 1, Name: "HWSYM", Tag: itch.PadTag("HWSYM"), PreferHWExec: true})
	u.Add(symbols.Info{ID: 2, Name: "CPUSYM", Tag: itch.PadTag("CPUSYM")})

	driver := hw.NewDriver(nil)
	driver.Init()
	gateway := NewGatewaySim(u, nil)
	tele := &routeCapture{}
	router := NewRouter(u, gateway, driver, tele, nil)

	onA := &types.StrategyOrder{Action: types.ActionNew, ClientOrderID: 1, SymbolID: 1, Side: types.Buy, Price: 1000000, Quantity: 100, Type: types.Limit}
	router.Route(onA)

	if driver.ExecCount() != 1 {
		t.Errorf("hw exec count = %d, want 1", driver.ExecCount())
	}
	var r types.ExecutionReport
	if gateway.PollReport(&r) {
		t.Error("hardware-routed order must not reach the gateway")
	}

	onB := &types.StrategyOrder{Action: types.ActionNew, ClientOrderID: 2, SymbolID: 2, Side: types.Buy, Price: 1000000, Quantity: 100, Type: types.Limit}
	router.Route(onB)

	if driver.ExecCount() != 1 {
		t.Error("cpu-routed order must not touch the hardware counter")
	}
	if !gateway.PollReport(&r) || r.ClientOrderID != 2 {
		t.Error("cpu-routed order should produce a gateway report")
	}

	if tele.hw != 1 || tele.cpu != 1 {
		t.Errorf("telemetry observed hw=%d cpu=%d, want 1/1", tele.hw, tele.cpu)
	}
}

func TestRouterUnknownSymbolUsesCPUPath(t *testing.T) {
	t.Parallel()

	u := symbols.NewUniverse()
	driver := hw.NewDriver(nil)
	driver.Init()
	gateway := NewGatewaySim(u, nil)
	router := NewRouter(u, gateway, driver, nil, nil)

	o := &types.StrategyOrder{Action: types.ActionNew, ClientOrderID: 1, SymbolID: 42, Side: types.Sell, Price: 1, Quantity: 1, Type: types.Limit}
	router.Route(o)

	if driver.ExecCount() != 0 {
		t.Error("unknown symbol should not route to hardware")
	}
	var r types.ExecutionReport
	if !gateway.PollReport(&r) {
		t.Error("unknown symbol should fall through to the gateway")
	}
}

func TestOMSLifecycle(t *testing.T) {
	t.Parallel()
	m := NewOMS(nil)

	o := &types.StrategyOrder{ClientOrderID: 1, SymbolID: 1, Side: types.Buy, Price: 1000000, Quantity: 100}
	m.Track(o)
	if m.ActiveCount() != 1 {
		t.Fatalf("active = %d, want 1", m.ActiveCount())
	}

	m.OnExecutionReport(&types.ExecutionReport{ClientOrderID: 1, Status: types.StatusPartial, FillQuantity: 40})
	state := m.Get(1)
	if state == nil || state.FilledQty != 40 || state.Status != types.StatusPartial {
		t.Errorf("state after partial = %+v", state)
	}

	m.OnExecutionReport(&types.ExecutionReport{ClientOrderID: 1, Status: types.StatusFilled, FillQuantity: 60})
	if m.ActiveCount() != 0 {
		t.Error("filled order should be released")
	}

	m.OnExecutionReport(&types.ExecutionReport{ClientOrderID: 9, Status: types.StatusFilled})
	if m.UnknownReports() != 1 {
		t.Errorf("unknown reports = %d, want 1", m.UnknownReports())
	}
}
