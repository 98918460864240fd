package telemetry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/execution"
)

// CollectorConfig tunes aggregation and the optional push sink.
type CollectorConfig struct {
	// FlushInterval is the snapshot cadence. Zero means one second.
	FlushInterval time.Duration
	// PushURL, when set, receives an InfluxDB line-protocol POST of every
	// snapshot whose window recorded at least one tick-to-trade
	// observation. Empty disables pushing.
	PushURL string
}

// latencyStats is a windowed latency aggregate. Producers touch only
// atomics; min/max use CAS loops. drain is
// called from the flush goroutine and may lose the handful of observations
// in flight during the reset — telemetry is lossy by design.
type latencyStats struct {
	count atomic.Uint64
	sum   atomic.Uint64
	min   atomic.Uint64
	max   atomic.Uint64
}

func (s *latencyStats) observe(ns uint64) {
	s.count.Add(1)
	s.sum.Add(ns)
	for {
		cur := s.min.Load()
		if cur != 0 && ns >= cur {
			break
		}
		if s.min.CompareAndSwap(cur, ns) {
			break
		}
	}
	for {
		cur := s.max.Load()
		if ns <= cur {
			break
		}
		if s.max.CompareAndSwap(cur, ns) {
			break
		}
	}
}

func (s *latencyStats) drain() (count, sum, min, max uint64) {
	count = s.count.Swap(0)
	sum = s.sum.Swap(0)
	min = s.min.Swap(0)
	max = s.max.Swap(0)
	return
}

// Snapshot is the published view of one flush window.
type Snapshot struct {
	Timestamp time.Time `json:"ts"`

	TickToTradeCount  uint64 `json:"t2t_count"`
	TickToTradeAvgNs  uint64 `json:"t2t_avg_ns"`
	TickToTradeMinNs  uint64 `json:"t2t_min_ns"`
	TickToTradeMaxNs  uint64 `json:"t2t_max_ns"`
	CPURouteCount     uint64 `json:"cpu_route_count"`
	CPURouteAvgNs     uint64 `json:"cpu_route_avg_ns"`
	HWRouteCount      uint64 `json:"hw_route_count"`
	HWRouteAvgNs      uint64 `json:"hw_route_avg_ns"`
	MessagesDecoded   uint64 `json:"messages_decoded"`
	QueueDrops        uint64 `json:"queue_drops"`
	RiskRejects       uint64 `json:"risk_rejects"`
	PnL               string `json:"pnl"`
	StrategyInventory int64  `json:"inventory"`
}

// Collector aggregates pipeline metrics. The producer side is wait-free:
// prometheus counters and plain atomics, nothing else. The only mutex in
// the package guards the per-second snapshot copy-out in flush(), which
// runs on the background flusher, never on a pinned thread.
type Collector struct {
	cfg    CollectorConfig
	logger *zap.Logger

	registry *prometheus.Registry

	messagesDecoded prometheus.Counter
	queueDrops      *prometheus.CounterVec
	riskRejects     *prometheus.CounterVec
	routeDispatches *prometheus.CounterVec
	poolDrops       prometheus.Counter
	inventoryGauge  prometheus.Gauge

	t2t      latencyStats
	routeCPU latencyStats
	routeHW  latencyStats

	totalDecoded atomic.Uint64
	totalDrops   atomic.Uint64
	totalRejects atomic.Uint64
	inventory    atomic.Int64
	pnl          atomic.Pointer[decimal.Decimal]

	mu   sync.Mutex // guards last only, during snapshot copy-out
	last Snapshot

	client  *resty.Client
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewCollector builds the collector and registers its prometheus series on
// a private registry (exposed through Registry for the publisher).
func NewCollector(cfg CollectorConfig, logger *zap.Logger) *Collector {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	c := &Collector{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	c.messagesDecoded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trishul", Name: "messages_decoded_total",
		Help: "Valid market data messages decoded.",
	})
	c.queueDrops = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trishul", Name: "queue_drops_total",
		Help: "Messages dropped on full rings, by queue.",
	}, []string{"queue"})
	c.riskRejects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trishul", Name: "risk_rejects_total",
		Help: "Orders rejected pre-trade, by reason.",
	}, []string{"reason"})
	c.routeDispatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trishul", Name: "route_dispatches_total",
		Help: "Orders dispatched, by execution path.",
	}, []string{"path"})
	c.poolDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trishul", Name: "book_pool_drops_total",
		Help: "Adds dropped to order-pool exhaustion.",
	})
	c.inventoryGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trishul", Name: "strategy_inventory_shares",
		Help: "Signed strategy inventory.",
	})

	c.registry.MustRegister(
		c.messagesDecoded, c.queueDrops, c.riskRejects,
		c.routeDispatches, c.poolDrops, c.inventoryGauge,
	)

	if cfg.PushURL != "" {
		c.client = resty.New().SetTimeout(2 * time.Second)
	}
	return c
}

// Registry exposes the prometheus registry for the publisher's /metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Start launches the flush loop.
func (c *Collector) Start() {
	if c.started {
		return
	}
	c.started = true
	go c.flushLoop()
}

// Stop ends the flush loop and waits for it. Idempotent.
func (c *Collector) Stop() {
	if !c.started {
		return
	}
	c.started = false
	close(c.stopCh)
	<-c.doneCh
}

// RecordMessageDecoded counts one valid decode.
func (c *Collector) RecordMessageDecoded() {
	c.messagesDecoded.Inc()
	c.totalDecoded.Add(1)
}

// RecordQueueDrop counts a drop on the named ring.
func (c *Collector) RecordQueueDrop(queue string) {
	c.queueDrops.WithLabelValues(queue).Inc()
	c.totalDrops.Add(1)
}

// RecordRiskReject counts a pre-trade rejection.
func (c *Collector) RecordRiskReject(reason string) {
	c.riskRejects.WithLabelValues(reason).Inc()
	c.totalRejects.Add(1)
}

// RecordPoolDrop counts a book pool-exhaustion drop.
func (c *Collector) RecordPoolDrop() { c.poolDrops.Inc() }

// ObserveTickToTrade records one tick-to-trade latency.
func (c *Collector) ObserveTickToTrade(ns uint64) {
	c.t2t.observe(ns)
}

// ObserveRoute implements execution.RouteTelemetry.
func (c *Collector) ObserveRoute(path execution.RoutePath, ns uint64) {
	c.routeDispatches.WithLabelValues(path.String()).Inc()
	if path == execution.PathHW {
		c.routeHW.observe(ns)
	} else {
		c.routeCPU.observe(ns)
	}
}

// SetPnL publishes the latest fill PnL figure.
func (c *Collector) SetPnL(pnl decimal.Decimal) {
	c.pnl.Store(&pnl)
}

// SetInventory publishes the strategy's current inventory.
func (c *Collector) SetInventory(shares int64) {
	c.inventoryGauge.Set(float64(shares))
	c.inventory.Store(shares)
}

// LastSnapshot returns the most recent flushed snapshot.
func (c *Collector) LastSnapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Collector) flushLoop() {
	defer close(c.doneCh)
	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			c.flush()
			return
		case <-ticker.C:
			c.flush()
		}
	}
}

func (c *Collector) flush() {
	t2tCount, t2tSum, t2tMin, t2tMax := c.t2t.drain()
	cpuCount, cpuSum, _, _ := c.routeCPU.drain()
	hwCount, hwSum, _, _ := c.routeHW.drain()

	pnl := decimal.Zero
	if p := c.pnl.Load(); p != nil {
		pnl = *p
	}

	snap := Snapshot{
		Timestamp:         time.Now(),
		TickToTradeCount:  t2tCount,
		TickToTradeMinNs:  t2tMin,
		TickToTradeMaxNs:  t2tMax,
		CPURouteCount:     cpuCount,
		HWRouteCount:      hwCount,
		MessagesDecoded:   c.totalDecoded.Load(),
		QueueDrops:        c.totalDrops.Load(),
		RiskRejects:       c.totalRejects.Load(),
		PnL:               pnl.String(),
		StrategyInventory: c.inventory.Load(),
	}
	if t2tCount > 0 {
		snap.TickToTradeAvgNs = t2tSum / t2tCount
	}
	if cpuCount > 0 {
		snap.CPURouteAvgNs = cpuSum / cpuCount
	}
	if hwCount > 0 {
		snap.HWRouteAvgNs = hwSum / hwCount
	}

	c.mu.Lock()
	c.last = snap
	c.mu.Unlock()

	if c.client != nil && snap.TickToTradeCount > 0 {
		c.push(snap)
	}
}

// push sends the snapshot as one InfluxDB line-protocol measurement. A
// failed push is logged and dropped; telemetry is lossy by design.
func (c *Collector) push(s Snapshot) {
	line := fmt.Sprintf(
		"trishul_metrics t2t_avg=%d,t2t_min=%d,t2t_max=%d,decoded=%d,drops=%d,rejects=%d,inventory=%d,pnl=%s %d",
		s.TickToTradeAvgNs, s.TickToTradeMinNs, s.TickToTradeMaxNs,
		s.MessagesDecoded, s.QueueDrops, s.RiskRejects,
		s.StrategyInventory, s.PnL, s.Timestamp.UnixNano(),
	)
	if _, err := c.client.R().SetBody(line).Post(c.cfg.PushURL); err != nil {
		if c.logger != nil {
			c.logger.Warn("telemetry push failed", zap.Error(err))
		}
	}
}
