// Package hw drives the hardware offload path through a memory-mapped
// register block.
//
// The control plane is a 4096-byte shared region laid out as packed 64-bit
// words: command and liveness, strategy parameter slots the CPU refreshes,
// status counters the device maintains, and an order-injection group. In
// production the region would be an mmap of the device BAR; here it is an
// in-process byte slice with identical layout, which is what the router and
// tests program against.
//
// The block is owned by the execution thread; raw register access is
// bounds-checked, nothing else is synchronized.
package hw

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

// Register offsets into the control block.
const (
	RegCommand       = 0x00
	RegHeartbeat     = 0x08
	RegBaseSkew      = 0x10 // int64, fixed-point ×10^4
	RegGamma         = 0x18 // uint64, fixed-point ×10^4
	RegMaxPosition   = 0x20
	RegMinSpread     = 0x28
	RegInventory     = 0x30 // int64, device-maintained
	RegExecCount     = 0x38
	RegInjectTrigger = 0x40
	RegInjectPrice   = 0x48
	RegInjectQty     = 0x50
	RegInjectSide    = 0x58
)

// regionSize is the mapped control-block size (one page).
const regionSize = 4096

// heartbeatMagic is written on init so a reader can tell the block is live.
const heartbeatMagic = 0xDEADBEEF

// paramScale converts float parameters to the block's fixed-point words.
const paramScale = 10_000

// Driver programs the register block.
type Driver struct {
	region []byte
	logger *zap.Logger
}

// NewDriver allocates the simulated control region. logger may be nil.
func NewDriver(logger *zap.Logger) *Driver {
	return &Driver{
		region: make([]byte, regionSize),
		logger: logger,
	}
}

// Init resets the block and enables the device.
func (d *Driver) Init() error {
	for i := range d.region {
		d.region[i] = 0
	}
	d.WriteReg(RegCommand, 1)
	d.WriteReg(RegHeartbeat, heartbeatMagic)
	if d.logger != nil {
		d.logger.Info("hardware control block active",
			zap.Uint64("heartbeat", d.ReadReg(RegHeartbeat)),
		)
	}
	return nil
}

// SendOrder injects one order: price, quantity, and side are written first,
// then the trigger word — the device latches the group on the trigger edge.
// The execution counter advances with each injection.
func (d *Driver) SendOrder(o *types.StrategyOrder) {
	d.WriteReg(RegInjectPrice, uint64(o.Price))
	d.WriteReg(RegInjectQty, uint64(o.Quantity))
	var side uint64
	if o.Side == types.Buy {
		side = 1
	}
	d.WriteReg(RegInjectSide, side)
	d.WriteReg(RegInjectTrigger, 1)
	d.WriteReg(RegExecCount, d.ReadReg(RegExecCount)+1)
}

// UpdateStrategyParams refreshes the parameter slots the device quotes from.
func (d *Driver) UpdateStrategyParams(skew, gamma float64, maxPos int64) {
	d.writeRegInt(RegBaseSkew, int64(skew*paramScale))
	d.WriteReg(RegGamma, uint64(gamma*paramScale))
	d.WriteReg(RegMaxPosition, uint64(maxPos))
}

// ExecCount returns the execution counter, which SendOrder advances once per
// injected order.
func (d *Driver) ExecCount() uint64 {
	return d.ReadReg(RegExecCount)
}

// Inventory returns the device-side inventory word.
func (d *Driver) Inventory() int64 {
	return int64(d.ReadReg(RegInventory))
}

// WriteReg stores a 64-bit word at offset. Out-of-range writes are dropped.
func (d *Driver) WriteReg(offset int, value uint64) {
	if offset < 0 || offset+8 > len(d.region) {
		return
	}
	binary.LittleEndian.PutUint64(d.region[offset:], value)
}

// ReadReg loads the 64-bit word at offset. Out-of-range reads return 0.
func (d *Driver) ReadReg(offset int) uint64 {
	if offset < 0 || offset+8 > len(d.region) {
		return 0
	}
	return binary.LittleEndian.Uint64(d.region[offset:])
}

func (d *Driver) writeRegInt(offset int, value int64) {
	d.WriteReg(offset, uint64(value))
}
