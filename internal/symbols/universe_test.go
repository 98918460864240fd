package symbols

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/itch"
	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

func TestAddGetLookup(t *testing.T) {
	t.Parallel()
	u := NewUniverse()

	err := u.Add(Info{
		ID:       1,
		Name:     "AAPL",
		Tag:      itch.PadTag("AAPL"),
		LotSize:  100,
		TickSize: 100,
		MakerFee: decimal.NewFromFloat(-0.0002),
		TakerFee: decimal.NewFromFloat(0.0003),
	})
	if err != nil {
		t.Fatal(err)
	}

	info := u.Get(1)
	if info == nil {
		t.Fatal("Get(1) = nil")
	}
	if info.Name != "AAPL" || info.TickSize != 100 {
		t.Errorf("unexpected record: %+v", info)
	}
	if u.IDOf("AAPL") != 1 {
		t.Errorf("IDOf(AAPL) = %d, want 1", u.IDOf("AAPL"))
	}
	if u.IDOf("MSFT") != types.InvalidSymbol {
		t.Error("unknown name should resolve to InvalidSymbol")
	}
	if u.Get(2) != nil {
		t.Error("Get of unregistered id should be nil")
	}
	if u.Len() != 1 {
		t.Errorf("Len = %d, want 1", u.Len())
	}
}

func TestSparseIDsLeaveGapsUnregistered(t *testing.T) {
	t.Parallel()
	u := NewUniverse()

	if err := u.Add(Info{ID: 5, Name: "TSLA", Tag: itch.PadTag("TSLA")}); err != nil {
		t.Fatal(err)
	}
	for id := types.SymbolID(0); id < 5; id++ {
		if u.Get(id) != nil {
			t.Errorf("Get(%d) should be nil in a gap", id)
		}
	}
	if u.Get(5) == nil {
		t.Error("Get(5) should resolve")
	}

	count := 0
	u.All(func(*Info) { count++ })
	if count != 1 {
		t.Errorf("All visited %d records, want 1", count)
	}
}

func TestAddRejectsReservedID(t *testing.T) {
	t.Parallel()
	u := NewUniverse()
	if err := u.Add(Info{ID: types.InvalidSymbol, Name: "BAD"}); err == nil {
		t.Error("Add with the invalid sentinel id should error")
	}
}
