// Package interfaces collects the narrow capability interfaces the memory
// bus consumes from its collaborators. Nothing in this package has logic;
// it exists so the bus can depend on small, independently testable
// contracts instead of reaching into the concrete CPU/PPU/DMA/cartridge
// structs directly.
package interfaces

// IdleSink accepts "advance N cycles" from the bus. In production this is
// the CPU scheduler's cycle accumulator; in tests it's usually a counter.
type IdleSink interface {
	Advance(cycles uint32)
}

// IORegisterBank is the byte-wise I/O register dispatcher. Every bus access
// to the I/O region, regardless of width, is decomposed into byte reads and
// writes against this interface so that register side effects stay exact.
type IORegisterBank interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, v uint8)
}

// BackupKind identifies the cartridge backup chip a ROM is paired with.
type BackupKind uint8

const (
	BackupNone BackupKind = iota
	BackupSRAM
	BackupEEPROM
	BackupFlash64K
	BackupFlash128K
)

// BackupStorage is the cartridge save-chip facade: byte read/write plus the
// EEPROM detection window used to tell EEPROM command addresses apart from
// ordinary ROM addresses inside cartridge space.
type BackupStorage interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, v uint8)
	Kind() BackupKind
	// EEPROMWindow reports the mask and inclusive [low, high] address range
	// within cartridge space that is routed to EEPROM command handling
	// instead of ROM. Only meaningful when Kind() == BackupEEPROM.
	EEPROMWindow() (mask, low, high uint32)
}

// GPIOFacade is the cartridge GPIO register facade used by RTC/solar-sensor
// carts. Readable reports whether the GPIO window currently shadows ROM.
type GPIOFacade interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, v uint8)
	Readable() bool
}

// VideoModeSource answers the one PPU question the bus needs to resolve
// 8-bit VRAM write legality: the current display mode (DISPCNT bits 0-2).
type VideoModeSource interface {
	DisplayMode() uint8
}

// CPUObserver is the read-only slice of CPU state the bus needs: current
// PC, Thumb/ARM state, and the last two prefetched instruction words (used
// by the open-bus resolver and the BIOS latch).
type CPUObserver interface {
	PC() uint32
	IsThumb() bool
	Prefetch() [2]uint32
}

// DMAView reports whether the DMA engine is the one driving the bus right
// now, and what it last transferred. internal/bus uses IsRunning for the
// prefetch buffer's "no DMA running" gate; open-bus resolution reads
// BusTelemetry instead.
type DMAView interface {
	IsRunning() bool
	LastValue() uint32
}

// Watchpoint is consulted before every timed (non-raw) access. Debugger
// peek/poke and DMA use the *_raw entry points instead, which never fire
// watchpoints.
type Watchpoint interface {
	OnAccess(addr uint32, width uint8, write bool)
}

// BusTelemetry is the small mutable record the bus publishes for DMA and
// the open-bus resolver to read back.
type BusTelemetry struct {
	GamepakBusInUse      bool
	WasLastAccessFromDMA bool
	DMABus               uint32
}
