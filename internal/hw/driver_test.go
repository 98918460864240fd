package hw

import (
	"testing"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

func TestInitResetsAndEnables(t *testing.T) {
	t.Parallel()
	d := NewDriver(nil)
	d.WriteReg(RegExecCount, 42)

	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if d.ReadReg(RegCommand) != 1 {
		t.Error("command register should be 1 after init")
	}
	if d.ReadReg(RegHeartbeat) != heartbeatMagic {
		t.Error("heartbeat magic missing after init")
	}
	if d.ExecCount() != 0 {
		t.Error("exec counter should reset on init")
	}
}

func TestSendOrderProgramsInjectionGroup(t *testing.T) {
	t.Parallel()
	d := NewDriver(nil)
	d.Init()

	o := &types.StrategyOrder{Side: types.Buy, Price: 1500000, Quantity: 100}
	d.SendOrder(o)

	if got := d.ReadReg(RegInjectPrice); got != 1500000 {
		t.Errorf("inject price = %d, want 1500000", got)
	}
	if got := d.ReadReg(RegInjectQty); got != 100 {
		t.Errorf("inject qty = %d, want 100", got)
	}
	if got := d.ReadReg(RegInjectSide); got != 1 {
		t.Errorf("inject side = %d, want 1 (buy)", got)
	}
	if got := d.ReadReg(RegInjectTrigger); got != 1 {
		t.Errorf("trigger = %d, want 1", got)
	}
	if d.ExecCount() != 1 {
		t.Errorf("exec count = %d, want 1", d.ExecCount())
	}

	sell := &types.StrategyOrder{Side: types.Sell, Price: 1, Quantity: 1}
	d.SendOrder(sell)
	if got := d.ReadReg(RegInjectSide); got != 0 {
		t.Errorf("inject side = %d, want 0 (sell)", got)
	}
	if d.ExecCount() != 2 {
		t.Errorf("exec count = %d, want 2", d.ExecCount())
	}
}

func TestUpdateStrategyParamsScalesFixedPoint(t *testing.T) {
	t.Parallel()
	d := NewDriver(nil)
	d.Init()

	d.UpdateStrategyParams(0.1, 2.0, 1000)

	if got := int64(d.ReadReg(RegBaseSkew)); got != 1000 {
		t.Errorf("base skew = %d, want 1000 (0.1 x 10^4)", got)
	}
	if got := d.ReadReg(RegGamma); got != 20000 {
		t.Errorf("gamma = %d, want 20000 (2.0 x 10^4)", got)
	}
	if got := d.ReadReg(RegMaxPosition); got != 1000 {
		t.Errorf("max position = %d, want 1000", got)
	}

	// Negative skew survives the fixed-point conversion.
	d.UpdateStrategyParams(-0.5, 1.0, 1)
	if got := int64(d.ReadReg(RegBaseSkew)); got != -5000 {
		t.Errorf("base skew = %d, want -5000", got)
	}
}

func TestRegisterAccessBounds(t *testing.T) {
	t.Parallel()
	d := NewDriver(nil)

	d.WriteReg(regionSize-4, 0xFFFF) // straddles the end: dropped
	d.WriteReg(-8, 1)
	if d.ReadReg(regionSize-4) != 0 {
		t.Error("out-of-range write should be dropped")
	}
	if d.ReadReg(regionSize) != 0 || d.ReadReg(-1) != 0 {
		t.Error("out-of-range read should return 0")
	}

	d.WriteReg(regionSize-8, 0xAB)
	if d.ReadReg(regionSize-8) != 0xAB {
		t.Error("last aligned word should be addressable")
	}
}
