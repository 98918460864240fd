// Package symbols holds the process-wide registry of tradable instruments.
//
// The universe is built once during engine construction from config and is
// read-only afterwards; it is passed by reference to every component that
// needs metadata (the decoder for tag registration, the router for the
// hardware-execution flag, the gateway for fees). There is no global
// instance.
package symbols

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// Info is the metadata record for one instrument. Fees are decimal rates
// (e.g. -0.0002 for a maker rebate) applied by the gateway's fill
// bookkeeping — never on the order hot path.
type Info struct {
	ID           types.SymbolID
	Name         string
	Tag          [8]byte // space-padded 8-byte wire tag
	LotSize      uint32
	TickSize     types.Price
	MakerFee     decimal.Decimal
	TakerFee     decimal.Decimal
	PreferHWExec bool
}

// Universe maps dense symbol ids to metadata with O(1) lookup both ways.
type Universe struct {
	byID   []Info
	byName map[string]types.SymbolID
}

// NewUniverse creates an empty registry.
func NewUniverse() *Universe {
	return &Universe{byName: make(map[string]types.SymbolID)}
}

// Add registers a symbol. Ids are dense and small; the slice grows to fit.
// Re-adding an id overwrites its record (startup-only, so last write wins).
func (u *Universe) Add(info Info) error {
	if info.ID == types.InvalidSymbol {
		return fmt.Errorf("symbols: id %d is reserved", info.ID)
	}
	if int(info.ID) >= len(u.byID) {
		grown := make([]Info, info.ID+1)
		copy(grown, u.byID)
		for i := len(u.byID); i < len(grown); i++ {
			grown[i].ID = types.InvalidSymbol
		}
		u.byID = grown
	}
	u.byID[info.ID] = info
	u.byName[info.Name] = info.ID
	return nil
}

// Get returns the record for id, or nil if unregistered.
func (u *Universe) Get(id types.SymbolID) *Info {
	if int(id) >= len(u.byID) || u.byID[id].ID == types.InvalidSymbol {
		return nil
	}
	return &u.byID[id]
}

// IDOf resolves a symbol name, returning InvalidSymbol on miss.
func (u *Universe) IDOf(name string) types.SymbolID {
	if id, ok := u.byName[name]; ok {
		return id
	}
	return types.InvalidSymbol
}

// Len returns the number of registered symbols.
func (u *Universe) Len() int { return len(u.byName) }

// All iterates the registered records in id order.
func (u *Universe) All(fn func(*Info)) {
	for i := range u.byID {
		if u.byID[i].ID != types.InvalidSymbol {
			fn(&u.byID[i])
		}
	}
}
