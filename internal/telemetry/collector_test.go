package telemetry

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/execution"
)

func TestHistogramRecordAndPercentiles(t *testing.T) {
	t.Parallel()
	var h LatencyHistogram

	for i := uint64(1); i <= 100; i++ {
		h.Record(i * 100) // 100ns..10000ns
	}
	if h.Count() != 100 {
		t.Fatalf("count = %d, want 100", h.Count())
	}
	if mean := h.Mean(); mean != 5050 {
		t.Errorf("mean = %d, want 5050", mean)
	}
	if p50 := h.Percentile(50); p50 < 4900 || p50 > 5200 {
		t.Errorf("p50 = %d, want ~5000", p50)
	}
	if p99 := h.Percentile(99); p99 < 9800 {
		t.Errorf("p99 = %d, want >= 9800", p99)
	}

	h.Reset()
	if h.Count() != 0 || h.Mean() != 0 || h.Percentile(50) != 0 {
		t.Error("reset should zero the histogram")
	}
}

func TestHistogramOverflowLandsInLastBucket(t *testing.T) {
	t.Parallel()
	var h LatencyHistogram
	h.Record(50_000_000)
	if got := h.Percentile(100); got != histBuckets*histBucketWidth {
		t.Errorf("overflow percentile = %d, want %d", got, histBuckets*histBucketWidth)
	}
}

func TestCollectorSnapshotAggregates(t *testing.T) {
	t.Parallel()
	c := NewCollector(CollectorConfig{FlushInterval: time.Hour}, nil)

	c.RecordMessageDecoded()
	c.RecordMessageDecoded()
	c.RecordQueueDrop("md")
	c.RecordRiskReject("order_size")
	c.ObserveTickToTrade(1000)
	c.ObserveTickToTrade(3000)
	c.ObserveRoute(execution.PathCPU, 500)
	c.ObserveRoute(execution.PathHW, 200)
	c.SetInventory(-250)
	c.SetPnL(decimal.NewFromFloat(12.5))

	c.flush()
	snap := c.LastSnapshot()

	if snap.MessagesDecoded != 2 {
		t.Errorf("decoded = %d, want 2", snap.MessagesDecoded)
	}
	if snap.QueueDrops != 1 || snap.RiskRejects != 1 {
		t.Errorf("drops/rejects = %d/%d, want 1/1", snap.QueueDrops, snap.RiskRejects)
	}
	if snap.TickToTradeCount != 2 || snap.TickToTradeAvgNs != 2000 {
		t.Errorf("t2t count/avg = %d/%d, want 2/2000", snap.TickToTradeCount, snap.TickToTradeAvgNs)
	}
	if snap.TickToTradeMinNs != 1000 || snap.TickToTradeMaxNs != 3000 {
		t.Errorf("t2t min/max = %d/%d", snap.TickToTradeMinNs, snap.TickToTradeMaxNs)
	}
	if snap.CPURouteCount != 1 || snap.HWRouteCount != 1 {
		t.Errorf("route counts = %d/%d, want 1/1", snap.CPURouteCount, snap.HWRouteCount)
	}
	if snap.StrategyInventory != -250 {
		t.Errorf("inventory = %d, want -250", snap.StrategyInventory)
	}
	if snap.PnL != "12.5" {
		t.Errorf("pnl = %q, want 12.5", snap.PnL)
	}

	// The windowed stats reset; totals persist.
	c.flush()
	snap = c.LastSnapshot()
	if snap.TickToTradeCount != 0 {
		t.Error("t2t window should reset per flush")
	}
	if snap.MessagesDecoded != 2 {
		t.Error("decoded total should persist across flushes")
	}
}

func TestCollectorStartStopIdempotent(t *testing.T) {
	t.Parallel()
	c := NewCollector(CollectorConfig{FlushInterval: time.Millisecond}, nil)
	c.Start()
	c.Start()
	time.Sleep(5 * time.Millisecond)
	c.Stop()
	c.Stop()
}
