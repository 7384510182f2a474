// Package clock converts elapsed wall-clock time into CPU cycle budgets and
// drives the bus forward by that many cycles.
package clock

import "github.com/nesgo/nesgo/internal/bus"

// NTSCCycleRate is the NTSC 2A03 CPU clock rate in Hz.
const NTSCCycleRate = 1789773

// nsPerSecond is the number of nanoseconds in a second; Tick divides
// elapsedNS*cycleRate by it to get whole cycles in integer arithmetic.
const nsPerSecond = 1_000_000_000

// Driver accumulates elapsed nanoseconds and steps a *bus.Bus by whole CPU
// instructions until the accumulated budget is spent, carrying the
// remainder forward so average speed converges on cycleRate regardless of
// how unevenly Tick is called.
type Driver struct {
	bus         *bus.Bus
	cycleRate   int64
	accumulator int64
}

// New creates a Driver for bus running at cycleRate Hz (use NTSCCycleRate
// for standard NTSC timing).
func New(b *bus.Bus, cycleRate int64) *Driver {
	return &Driver{bus: b, cycleRate: cycleRate}
}

// Tick adds elapsedNS to the accumulator, derives a whole-cycle budget from
// it, and steps the bus one CPU instruction at a time until that budget is
// exhausted. The CPU is always advanced before the PPU within each step,
// since bus.Step ticks the PPU exactly 3x per CPU cycle consumed.
//
// It returns the *cpu.TrapError propagated from bus.Step when the CPU
// halts. The whole budget has already been taken from the accumulator by
// then and the unspent part is not returned, since resuming from a trap
// starts a fresh Driver.
func (d *Driver) Tick(elapsedNS int64) error {
	if elapsedNS <= 0 {
		return nil
	}

	d.accumulator += elapsedNS * d.cycleRate
	budget := d.accumulator / nsPerSecond
	d.accumulator -= budget * nsPerSecond

	spent := int64(0)
	for spent < budget {
		startCycles := d.bus.GetCycleCount()
		if err := d.bus.Step(); err != nil {
			return err
		}
		spent += int64(d.bus.GetCycleCount() - startCycles)
	}
	return nil
}

// Reset clears the accumulated remainder, used when resuming after a pause
// or a system reset to avoid a stale carry-over burst of cycles.
func (d *Driver) Reset() {
	d.accumulator = 0
}
