package ouch

import (
	"testing"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

func TestEnterOrderRoundTrip(t *testing.T) {
	t.Parallel()

	in := NewEnterOrder(12345, types.Buy, 100, itch.PadTag("AAPL"), 1500000)
	buf := in.Append(nil)
	if len(buf) != EnterOrderSize {
		t.Fatalf("encoded size = %d, want %d", len(buf), EnterOrderSize)
	}
	if buf[0] != TagEnterOrder {
		t.Errorf("tag = %c, want O", buf[0])
	}
	if buf[9] != 'B' {
		t.Errorf("side byte = %c, want B", buf[9])
	}
	if string(buf[14:22]) != "AAPL    " {
		t.Errorf("stock field = %q, want space-padded AAPL", buf[14:22])
	}

	out, ok := DecodeEnterOrder(buf)
	if !ok {
		t.Fatal("decode failed")
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestEnterOrderSellSide(t *testing.T) {
	t.Parallel()

	buf := NewEnterOrder(1, types.Sell, 50, itch.PadTag("MSFT"), 4000000).Append(nil)
	if buf[9] != 'S' {
		t.Errorf("side byte = %c, want S", buf[9])
	}
	out, ok := DecodeEnterOrder(buf)
	if !ok || out.Side != types.Sell {
		t.Error("sell side lost in round trip")
	}
}

func TestDecodeEnterOrderRejectsShortOrMistagged(t *testing.T) {
	t.Parallel()

	buf := NewEnterOrder(1, types.Buy, 1, itch.PadTag("A"), 1).Append(nil)
	if _, ok := DecodeEnterOrder(buf[:EnterOrderSize-1]); ok {
		t.Error("short buffer should not decode")
	}
	buf[0] = 'Z'
	if _, ok := DecodeEnterOrder(buf); ok {
		t.Error("mistagged buffer should not decode")
	}
}

func TestExecutedOrderRoundTrip(t *testing.T) {
	t.Parallel()

	in := ExecutedOrder{Timestamp: 123456789, Token: 42, Shares: 300, Price: 999900, MatchID: 7}
	buf := in.Append(nil)
	if len(buf) != ExecutedOrderSize {
		t.Fatalf("encoded size = %d, want %d", len(buf), ExecutedOrderSize)
	}
	out, ok := DecodeExecutedOrder(buf)
	if !ok {
		t.Fatal("decode failed")
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestCancelOrderEncoding(t *testing.T) {
	t.Parallel()

	buf := CancelOrder{Token: 99, Shares: 0}.Append(nil)
	if len(buf) != CancelOrderSize {
		t.Fatalf("encoded size = %d, want %d", len(buf), CancelOrderSize)
	}
	if buf[0] != TagCancelOrder {
		t.Errorf("tag = %c, want X", buf[0])
	}
}
