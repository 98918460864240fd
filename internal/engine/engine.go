// Package engine is the central orchestrator of the trading pipeline.
//
// It wires together all subsystems:
//
//  1. A feed source (UDP multicast in live mode, an in-process simulator
//     otherwise) supplies length-prefixed market data records.
//  2. The md thread frames and decodes them, pushing typed events onto the
//     market-data ring.
//  3. The strategy thread feeds its book, emits quote pairs, and drains
//     them onto the order ring; every N events it refreshes the hardware
//     strategy parameters.
//  4. The exec thread validates orders pre-trade, routes survivors to the
//     software gateway or the register block, and loops execution reports
//     back to the strategy.
//
// The three loops run on pinned OS threads joined by wait-free SPSC rings;
// every ring drops on full and exports the drop count as telemetry.
//
// Lifecycle: New() → Run() → Stop(), with states
// Created → Running → Stopping → Stopped. Stop is idempotent, waits on one
// WaitGroup until all three threads have exited (in no particular order),
// and releases every resource regardless of which path shut the engine down.
package engine

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/clock"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/config"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/execution"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/feed"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/hw"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/risk"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/spsc"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/strategy"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/symbols"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/telemetry"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// Ring capacities. Sized so the strategy never blocks on a full queue in
// normal operation; overflow is a counted drop.
const (
	mdRingCapacity    = 16384
	orderRingCapacity = 8192
	execRingCapacity  = 8192
)

// Core assignments for the three pinned loops.
const (
	mdCore       = 1
	strategyCore = 2
	execCore     = 3
)

// pnlRefreshReports is how many gateway reports pass between PnL pushes to
// the collector. The gateway's fee figures are decimals, so the refresh is
// throttled off the per-report path.
const pnlRefreshReports = 100

// State is the engine lifecycle position.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// Engine owns the queues, components, and threads of the pipeline.
type Engine struct {
	cfg    config.Config
	logger *zap.Logger

	universe  *symbols.Universe
	decoder   *itch.Decoder
	strategy  strategy.Strategy
	checker   *risk.Checker
	oms       *execution.OMS
	gateway   *execution.GatewaySim
	router    *execution.Router
	driver    *hw.Driver
	receiver  feed.Receiver
	collector *telemetry.Collector
	publisher *telemetry.Publisher

	mdRing    *spsc.Ring[itch.DecodedMessage]
	orderRing *spsc.Ring[types.StrategyOrder]
	execRing  *spsc.Ring[types.ExecutionReport]

	state   atomic.Int32
	running atomic.Bool
	wg      sync.WaitGroup
}

// New constructs and wires every component. The symbol universe, decoder
// registrations, and the strategy all come from config; nothing global.
func New(cfg config.Config, logger *zap.Logger) (*Engine, error) {
	e := &Engine{
		cfg:       cfg,
		logger:    logger.Named("engine"),
		mdRing:    spsc.New[itch.DecodedMessage](mdRingCapacity),
		orderRing: spsc.New[types.StrategyOrder](orderRingCapacity),
		execRing:  spsc.New[types.ExecutionReport](execRingCapacity),
	}

	universe, err := buildUniverse(cfg.Symbols)
	if err != nil {
		return nil, err
	}
	e.universe = universe

	e.decoder = itch.NewDecoder()
	var registerErr error
	universe.All(func(info *symbols.Info) {
		if err := e.decoder.RegisterSymbol(info.Tag, info.ID); err != nil {
			registerErr = err
		}
	})
	if registerErr != nil {
		return nil, fmt.Errorf("register symbols: %w", registerErr)
	}

	strategySymbol := universe.IDOf(cfg.Strategy.Symbol)
	if strategySymbol == types.InvalidSymbol {
		return nil, fmt.Errorf("strategy symbol %q not registered", cfg.Strategy.Symbol)
	}
	tick := types.Price(100)
	if info := universe.Get(strategySymbol); info != nil && info.TickSize > 0 {
		tick = info.TickSize
	}
	switch cfg.Strategy.Model {
	case "obi":
		e.strategy = strategy.NewOBIMaker(strategySymbol, strategy.OBIMakerConfig{
			SpreadCapture: types.Price(cfg.Strategy.SpreadCapture),
			SkewFactor:    cfg.Strategy.SkewFactor,
		}, logger.Named("strategy"))
	default:
		e.strategy = strategy.NewQuoter(strategySymbol, strategy.QuoterConfig{
			Gamma: cfg.Strategy.Gamma,
			Sigma: cfg.Strategy.Sigma,
			Tick:  tick,
		}, logger.Named("strategy"))
	}

	e.collector = telemetry.NewCollector(telemetry.CollectorConfig{
		PushURL: cfg.Telemetry.PushURL,
	}, logger.Named("telemetry"))
	if cfg.Telemetry.ListenAddr != "" {
		e.publisher = telemetry.NewPublisher(telemetry.PublisherConfig{
			ListenAddr:     cfg.Telemetry.ListenAddr,
			AllowedOrigins: cfg.Telemetry.AllowedOrigins,
		}, e.collector, logger.Named("telemetry"))
	}

	e.checker = risk.NewChecker(risk.Config{
		MaxOrderSize:      cfg.Risk.MaxOrderSize,
		MaxPositionShares: cfg.Risk.MaxPositionShares,
		MaxNotional:       cfg.Risk.MaxNotional,
	}, logger.Named("risk"))
	e.checker.SetRejectHook(func(r risk.RejectReason) {
		e.collector.RecordRiskReject(r.String())
	})

	e.oms = execution.NewOMS(logger.Named("oms"))
	e.gateway = execution.NewGatewaySim(universe, logger.Named("gateway"))

	if cfg.Hardware.Enabled {
		e.driver = hw.NewDriver(logger.Named("hw"))
		if err := e.driver.Init(); err != nil {
			return nil, fmt.Errorf("hardware driver init: %w", err)
		}
	}
	e.router = execution.NewRouter(universe, e.gateway, e.driver, e.collector, logger.Named("router"))

	if cfg.LiveMode {
		e.receiver = feed.NewMulticastReceiver(feed.MulticastConfig{
			Group:           cfg.Feed.Group,
			Port:            cfg.Feed.Port,
			Interface:       cfg.Feed.Interface,
			ReadBufferBytes: cfg.Feed.ReadBufferBytes,
		}, logger.Named("feed"))
	} else {
		e.receiver = feed.NewSimFeed(cfg.Strategy.Symbol)
	}

	e.logger.Info("engine components initialized",
		zap.Bool("live_mode", cfg.LiveMode),
		zap.String("strategy_model", cfg.Strategy.Model),
		zap.Int("symbols", universe.Len()),
	)
	return e, nil
}

func buildUniverse(symbolCfgs []config.SymbolConfig) (*symbols.Universe, error) {
	u := symbols.NewUniverse()
	for _, s := range symbolCfgs {
		makerFee, takerFee := decimal.Zero, decimal.Zero
		var err error
		if s.MakerFee != "" {
			if makerFee, err = decimal.NewFromString(s.MakerFee); err != nil {
				return nil, fmt.Errorf("symbol %s maker_fee: %w", s.Name, err)
			}
		}
		if s.TakerFee != "" {
			if takerFee, err = decimal.NewFromString(s.TakerFee); err != nil {
				return nil, fmt.Errorf("symbol %s taker_fee: %w", s.Name, err)
			}
		}
		if err := u.Add(symbols.Info{
			ID:           s.ID,
			Name:         s.Name,
			Tag:          itch.PadTag(s.Name),
			LotSize:      s.LotSize,
			TickSize:     types.Price(s.TickSize),
			MakerFee:     makerFee,
			TakerFee:     takerFee,
			PreferHWExec: s.PreferHWExec,
		}); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Run starts the pipeline: receiver, telemetry, and the three pinned
// threads spawned in reverse data-flow order. Only valid from Created.
func (e *Engine) Run() error {
	if !e.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		return fmt.Errorf("engine run: invalid state %s", State(e.state.Load()))
	}

	if err := e.receiver.Start(); err != nil {
		e.state.Store(int32(StateStopped))
		return fmt.Errorf("start receiver: %w", err)
	}

	e.collector.Start()
	if e.publisher != nil {
		e.publisher.Start()
	}

	e.running.Store(true)

	e.wg.Add(3)
	go e.execLoop()
	go e.strategyLoop()
	go e.mdLoop()

	e.logger.Info("engine running")
	return nil
}

// Stop shuts the pipeline down: clears the running flag, stops the
// receiver, joins the threads, then releases telemetry. Idempotent.
func (e *Engine) Stop() {
	if !e.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return
	}

	e.running.Store(false)
	e.receiver.Stop()
	e.wg.Wait()

	if e.publisher != nil {
		e.publisher.Stop()
	}
	e.collector.Stop()

	e.state.Store(int32(StateStopped))
	e.logger.Info("engine stopped")
}

// CurrentState returns the lifecycle position.
func (e *Engine) CurrentState() State {
	return State(e.state.Load())
}

// Collector exposes the telemetry aggregate (monitoring, tests).
func (e *Engine) Collector() *telemetry.Collector { return e.collector }

// mdLoop polls the feed source, frames and decodes records, and pushes
// valid events onto the market-data ring.
func (e *Engine) mdLoop() {
	defer e.wg.Done()
	if err := pinThread(mdCore); err != nil {
		e.logger.Warn("md thread pinning failed", zap.Error(err))
	}
	if err := elevatePriority(); err != nil {
		e.logger.Debug("priority elevation unavailable", zap.Error(err))
	}
	e.logger.Info("md thread running", zap.Int("core", mdCore))

	buf := make([]byte, 2048)
	for e.running.Load() {
		n, err := e.receiver.Receive(buf)
		if err != nil || n == 0 {
			continue
		}
		arrival := clock.Monotime()

		itch.ForEachFrame(buf[:n], func(payload []byte) {
			msg := e.decoder.Decode(payload, arrival)
			if !msg.Valid {
				return
			}
			e.collector.RecordMessageDecoded()
			if !e.mdRing.Push(msg) {
				e.collector.RecordQueueDrop("md")
			}
		})
	}
}

// strategyLoop feeds market data and execution reports to the strategy and
// drains its orders toward risk. Every ParamRefreshEvents market events it
// refreshes the hardware strategy parameters.
func (e *Engine) strategyLoop() {
	defer e.wg.Done()
	if err := pinThread(strategyCore); err != nil {
		e.logger.Warn("strategy thread pinning failed", zap.Error(err))
	}
	e.logger.Info("strategy thread running", zap.Int("core", strategyCore))

	refreshEvery := e.cfg.Hardware.ParamRefreshEvents
	if refreshEvery <= 0 {
		refreshEvery = 100
	}

	var (
		msg     itch.DecodedMessage
		report  types.ExecutionReport
		order   types.StrategyOrder
		counter int
	)
	for e.running.Load() {
		workDone := false

		if e.mdRing.Pop(&msg) {
			e.strategy.OnMarketData(&msg)
			workDone = true
			counter++

			emitted := false
			for e.strategy.PollOrder(&order) {
				emitted = true
				if !e.orderRing.Push(order) {
					e.collector.RecordQueueDrop("orders")
				}
			}
			if emitted {
				e.collector.ObserveTickToTrade(uint64(clock.Monotime() - msg.ArrivalTS))
			}
		}

		if e.execRing.Pop(&report) {
			e.strategy.OnExecution(&report)
			workDone = true
		}

		if counter >= refreshEvery {
			if e.driver != nil {
				e.driver.UpdateStrategyParams(0.1, e.cfg.Strategy.Gamma, e.cfg.Risk.MaxPositionShares)
			}
			e.collector.SetInventory(e.strategy.Inventory())
			counter = 0
		}

		if !workDone {
			// Keep spinning on the rings, but hand the P back so the
			// runtime's other goroutines are not starved on small hosts.
			runtime.Gosched()
		}
	}
}

// execLoop validates and routes orders, then loops gateway reports back to
// the strategy feedback ring.
func (e *Engine) execLoop() {
	defer e.wg.Done()
	if err := pinThread(execCore); err != nil {
		e.logger.Warn("exec thread pinning failed", zap.Error(err))
	}
	e.logger.Info("exec thread running", zap.Int("core", execCore))

	var (
		order       types.StrategyOrder
		report      types.ExecutionReport
		reportsSeen int
	)
	for e.running.Load() {
		workDone := false

		if e.orderRing.Pop(&order) {
			workDone = true
			if e.checker.CheckOrder(&order) {
				e.oms.Track(&order)
				e.router.Route(&order)
			}
		}

		for e.gateway.PollReport(&report) {
			workDone = true
			reportsSeen++
			e.checker.OnExecution(&report)
			e.oms.OnExecutionReport(&report)
			if !e.execRing.Push(report) {
				e.collector.RecordQueueDrop("exec")
			}
		}

		if reportsSeen >= pnlRefreshReports {
			e.collector.SetPnL(e.gateway.FillNotional().Sub(e.gateway.AccruedFees()))
			reportsSeen = 0
		}

		if !workDone {
			runtime.Gosched()
		}
	}
}
