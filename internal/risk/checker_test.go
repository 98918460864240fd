package risk

import (
	"testing"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

func testConfig() Config {
	return Config{
		MaxOrderSize:      1000,
		MaxPositionShares: 10_000,
		MaxNotional:       1_000_000,
	}
}

func order(id types.OrderID, side types.Side, px types.Price, qty types.Quantity) *types.StrategyOrder {
	return &types.StrategyOrder{Action: types.ActionNew, ClientOrderID: id, SymbolID: 1, Side: side, Price: px, Quantity: qty, Type: types.Limit}
}

func fillAt(c *Checker, id types.OrderID, qty types.Quantity) {
	c.OnExecution(&types.ExecutionReport{ClientOrderID: id, Status: types.StatusFilled, FillQuantity: qty})
}

func TestCheckOrderLimits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		setup  func(*Checker)
		order  *types.StrategyOrder
		want   bool
		reason RejectReason
	}{
		{
			name:  "accept within all limits",
			order: order(1, types.Buy, 100*types.PriceScale, 500),
			want:  true,
		},
		{
			name:   "reject oversized order",
			order:  order(2, types.Buy, 100*types.PriceScale, 10_500),
			want:   false,
			reason: RejectOrderSize,
		},
		{
			name: "reject position breach from long position",
			setup: func(c *Checker) {
				// Build a 9800-share position through ten filled buys.
				for i := 0; i < 10; i++ {
					id := types.OrderID(10 + i)
					c.CheckOrder(order(id, types.Buy, 10*types.PriceScale, 980))
					fillAt(c, id, 980)
				}
			},
			order:  order(3, types.Buy, 10*types.PriceScale, 500),
			want:   false,
			reason: RejectPosition,
		},
		{
			name:   "reject notional breach",
			order:  order(4, types.Buy, 2001*types.PriceScale, 500),
			want:   false,
			reason: RejectNotional,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewChecker(testConfig(), nil)
			if tc.setup != nil {
				tc.setup(c)
			}
			before := c.Rejects(tc.reason)
			if got := c.CheckOrder(tc.order); got != tc.want {
				t.Fatalf("CheckOrder = %v, want %v", got, tc.want)
			}
			if !tc.want && c.Rejects(tc.reason) != before+1 {
				t.Errorf("reject counter for %s did not increment", tc.reason)
			}
		})
	}
}

// TestSizeRejectionMonotonic: an order rejected for size stays rejected for
// every larger quantity.
func TestSizeRejectionMonotonic(t *testing.T) {
	t.Parallel()
	c := NewChecker(testConfig(), nil)

	for _, qty := range []types.Quantity{1001, 2000, 50_000, 1 << 30} {
		if c.CheckOrder(order(1, types.Buy, types.PriceScale, qty)) {
			t.Errorf("qty %d passed; size rejection must be monotonic", qty)
		}
	}
}

// TestPositionMonotonic: if an order passes at position P, it passes at any
// position strictly closer to zero exposure on that side.
func TestPositionMonotonic(t *testing.T) {
	t.Parallel()

	buildPosition := func(c *Checker, target int64) {
		if target == 0 {
			return
		}
		side := types.Buy
		if target < 0 {
			side, target = types.Sell, -target
		}
		for target > 0 {
			q := types.Quantity(500)
			if int64(q) > target {
				q = types.Quantity(target)
			}
			id := types.OrderID(1_000_000 + target)
			c.CheckOrder(order(id, side, types.PriceScale, q))
			fillAt(c, id, q)
			target -= int64(q)
		}
	}

	probe := order(7, types.Buy, types.PriceScale, 500)

	atLimit := NewChecker(testConfig(), nil)
	buildPosition(atLimit, 9400)
	if !atLimit.CheckOrder(probe) {
		t.Fatal("probe should pass at position 9400")
	}

	for _, pos := range []int64{9000, 5000, 0, -5000} {
		c := NewChecker(testConfig(), nil)
		buildPosition(c, pos)
		if !c.CheckOrder(probe) {
			t.Errorf("probe failed at position %d but passed at 9400", pos)
		}
	}
}

func TestPositionTracksFillsBySide(t *testing.T) {
	t.Parallel()
	c := NewChecker(testConfig(), nil)

	c.CheckOrder(order(1, types.Buy, types.PriceScale, 300))
	c.OnExecution(&types.ExecutionReport{ClientOrderID: 1, Status: types.StatusPartial, FillQuantity: 100})
	c.OnExecution(&types.ExecutionReport{ClientOrderID: 1, Status: types.StatusFilled, FillQuantity: 200})
	if c.Position() != 300 {
		t.Errorf("position = %d, want 300", c.Position())
	}

	c.CheckOrder(order(2, types.Sell, types.PriceScale, 100))
	fillAt(c, 2, 100)
	if c.Position() != 200 {
		t.Errorf("position = %d, want 200", c.Position())
	}

	// Fill for an id never accepted is ignored.
	fillAt(c, 99, 500)
	if c.Position() != 200 {
		t.Errorf("position = %d after unknown fill, want 200", c.Position())
	}

	// Terminal report drops the id; a late duplicate is ignored.
	fillAt(c, 2, 100)
	if c.Position() != 200 {
		t.Errorf("position = %d after stale fill, want 200", c.Position())
	}
}
