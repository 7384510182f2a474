// Package system exposes the whole emulator core as a single owned value, a
// host-facing facade over the bus, clock and cartridge loader.
package system

import (
	"bytes"
	"fmt"

	"github.com/nesgo/nesgo/internal/bus"
	"github.com/nesgo/nesgo/internal/cartridge"
	"github.com/nesgo/nesgo/internal/clock"
	"github.com/nesgo/nesgo/internal/input"
)

// CPUSnapshot reports CPU register and flag state for debug tooling.
type CPUSnapshot = bus.CPUState

// System owns one NES core: bus, CPU, PPU, APU and cartridge, driven forward
// by elapsed wall-clock time.
type System struct {
	bus            *bus.Bus
	driver         *clock.Driver
	debugPaletteID uint8
}

// New creates a System with no cartridge loaded. LoadROM must be called
// before Tick will produce meaningful output.
func New() *System {
	b := bus.New()
	return &System{
		bus:    b,
		driver: clock.New(b, clock.NTSCCycleRate),
	}
}

// LoadROM parses an iNES image and wires it into the bus, replacing any
// cartridge previously loaded.
func (s *System) LoadROM(data []byte) error {
	cart, err := cartridge.LoadFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	s.bus.LoadCartridge(cart)
	s.driver.Reset()
	return nil
}

// Reset re-initializes CPU/PPU/joypad state and reseeds PC from the reset
// vector, without unloading the cartridge.
func (s *System) Reset() {
	s.bus.Reset()
	s.driver.Reset()
}

// Tick advances the system by elapsedNS nanoseconds of wall-clock time. It
// returns a non-nil error, wrapping *cpu.TrapError, if the CPU halted
// during this tick; the caller decides whether to stop or keep calling
// Tick (which resumes from the halted PC and will trap again immediately).
func (s *System) Tick(elapsedNS int64) error {
	return s.driver.Tick(elapsedNS)
}

// Framebuffer returns the current 256x240 screen framebuffer. The returned
// slice is a live view; callers must not read it concurrently with Tick.
func (s *System) Framebuffer() []uint32 {
	return s.bus.GetFrameBuffer()
}

// DebugTileBank renders pattern table 0 or 1 as a 128x128 grayscale image.
func (s *System) DebugTileBank(table int) []uint32 {
	return s.bus.PPU.TileBank(table)
}

// DebugPaletteStrip renders the 32-entry palette RAM as a 32x1 color strip.
func (s *System) DebugPaletteStrip() []uint32 {
	return s.bus.PPU.PaletteStrip()
}

// DebugNametable renders nametable 0-3 as a 256x240 image using the
// currently selected debug palette.
func (s *System) DebugNametable(index int) []uint32 {
	return s.bus.PPU.Nametable(index, s.debugPaletteID)
}

// SetDebugPaletteID selects which background palette (0-3) DebugNametable
// uses to resolve non-zero color indices.
func (s *System) SetDebugPaletteID(id uint8) {
	s.debugPaletteID = id
}

// DebugCPU returns a snapshot of CPU registers and flags.
func (s *System) DebugCPU() CPUSnapshot {
	return s.bus.GetCPUState()
}

// KeyDown presses button on joypad 1.
func (s *System) KeyDown(button input.Button) {
	s.bus.SetControllerButton(0, button, true)
}

// KeyUp releases button on joypad 1.
func (s *System) KeyUp(button input.Button) {
	s.bus.SetControllerButton(0, button, false)
}

// KeyDown2 presses button on joypad 2.
func (s *System) KeyDown2(button input.Button) {
	s.bus.SetControllerButton(1, button, true)
}

// KeyUp2 releases button on joypad 2.
func (s *System) KeyUp2(button input.Button) {
	s.bus.SetControllerButton(1, button, false)
}
