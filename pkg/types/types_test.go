package types

import "testing"

func TestSideOpposite(t *testing.T) {
	t.Parallel()

	if Buy.Opposite() != Sell {
		t.Error("Buy.Opposite() should be Sell")
	}
	if Sell.Opposite() != Buy {
		t.Error("Sell.Opposite() should be Buy")
	}
}

func TestOrderNotional(t *testing.T) {
	t.Parallel()

	o := StrategyOrder{Price: 100 * PriceScale, Quantity: 500}
	if got, want := o.Notional(), int64(100*10000*500); got != want {
		t.Errorf("Notional() = %d, want %d", got, want)
	}
}

func TestExecutionReportIsFill(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{StatusNew, false},
		{StatusPartial, true},
		{StatusFilled, true},
		{StatusCanceled, false},
		{StatusRejected, false},
	}
	for _, tc := range cases {
		r := ExecutionReport{Status: tc.status}
		if r.IsFill() != tc.want {
			t.Errorf("IsFill() for %s = %v, want %v", tc.status, r.IsFill(), tc.want)
		}
	}
}

func TestBBOMid(t *testing.T) {
	t.Parallel()

	b := BBOUpdate{BidPrice: 1500000, AskPrice: 1500500}
	if got := b.Mid(); got != 1500250 {
		t.Errorf("Mid() = %d, want 1500250", got)
	}
}
