// Package bus is the access engine from spec.md §4.3/§4.4: the single
// entry point the CPU and DMA use to read and write the GBA's address
// space. It owns every piece of state spec.md §3 lists (BIOS/ROM/RAM
// blobs, timing tables, prefetch buffer, bus telemetry) and wires them
// to internal/regionmap, internal/timing, internal/prefetch, and
// internal/openbus rather than reimplementing any of their logic.
package bus

import (
	"fmt"

	"goba/internal/cartridge"
	"goba/internal/dbg"
	"goba/internal/interfaces"
	"goba/internal/memory"
	"goba/internal/prefetch"
	"goba/internal/timing"
	"goba/internal/video"
)

// Bus is the sole owner of GBA memory state. Every field here is touched
// only by the emulator thread (spec.md §5); there are no locks.
type Bus struct {
	cpu    interfaces.CPUObserver
	dma    interfaces.DMAView
	io     interfaces.IORegisterBank
	backup interfaces.BackupStorage
	gpio   interfaces.GPIOFacade
	video  interfaces.VideoModeSource
	idle   interfaces.IdleSink
	watch  interfaces.Watchpoint

	bios  *memory.BIOS
	ewram *memory.WRAM
	iwram *memory.WRAM
	pram  *video.PRAM
	vram  *video.VRAM
	oam   *video.OAM
	rom   *cartridge.ROM

	timing   *timing.Table
	prefetch *prefetch.Buffer

	biosLatch uint32
	telemetry interfaces.BusTelemetry
}

// Config bundles every collaborator and blob NewBus needs. Watch is the
// only optional collaborator; a nil Watch means watchpoints are never
// consulted, per spec.md §4.3. BIOS may also be short or empty: it is
// zero-padded to 16 KiB.
type Config struct {
	BIOS []byte
	ROM  []byte

	CPU    interfaces.CPUObserver
	DMA    interfaces.DMAView
	IO     interfaces.IORegisterBank
	Backup interfaces.BackupStorage
	GPIO   interfaces.GPIOFacade
	Video  interfaces.VideoModeSource
	Idle   interfaces.IdleSink
	Watch  interfaces.Watchpoint
}

// NewBus constructs a Bus with fresh RAM/VRAM/OAM/Palette backing and the
// given BIOS/ROM images, rejecting a Config that is missing a required
// collaborator the same way the teacher's own constructors reject a nil
// dependency: an explicit wrapped error, not a panic discovered later.
func NewBus(cfg Config) (*Bus, error) {
	switch {
	case cfg.CPU == nil:
		return nil, fmt.Errorf("bus: CPU observer is required")
	case cfg.DMA == nil:
		return nil, fmt.Errorf("bus: DMA view is required")
	case cfg.IO == nil:
		return nil, fmt.Errorf("bus: I/O register bank is required")
	case cfg.Backup == nil:
		return nil, fmt.Errorf("bus: backup storage facade is required")
	case cfg.GPIO == nil:
		return nil, fmt.Errorf("bus: GPIO facade is required")
	case cfg.Video == nil:
		return nil, fmt.Errorf("bus: video mode source is required")
	case cfg.Idle == nil:
		return nil, fmt.Errorf("bus: idle-cycle sink is required")
	case len(cfg.ROM) == 0:
		return nil, fmt.Errorf("bus: ROM image is empty")
	}

	return &Bus{
		cpu:    cfg.CPU,
		dma:    cfg.DMA,
		io:     cfg.IO,
		backup: cfg.Backup,
		gpio:   cfg.GPIO,
		video:  cfg.Video,
		idle:   cfg.Idle,
		watch:  cfg.Watch,

		bios:  memory.NewBIOS(cfg.BIOS),
		ewram: memory.NewEWRAM(),
		iwram: memory.NewIWRAM(),
		pram:  video.NewPRAM(),
		vram:  video.NewVRAM(),
		oam:   video.NewOAM(),
		rom:   cartridge.NewROM(cfg.ROM),

		timing:   timing.New(),
		prefetch: prefetch.New(),
	}, nil
}

// GamepakBusInUse reports the telemetry flag the access engine sets on
// every timed access, per spec.md §3/§6 ("the bus ... writes
// gamepak_bus_in_use"). CPU/DMA arbitration reads this externally.
func (b *Bus) GamepakBusInUse() bool { return b.telemetry.GamepakBusInUse }

// Telemetry returns a snapshot of the small record spec.md §3 calls "bus
// telemetry". SetDMATelemetry is how an external DMA engine publishes
// its half of it.
func (b *Bus) Telemetry() interfaces.BusTelemetry { return b.telemetry }

// SetDMATelemetry lets the (out-of-scope) DMA engine record that it just
// drove the bus and with what value, for the open-bus resolver and for
// any other collaborator reading Telemetry().
func (b *Bus) SetDMATelemetry(wasFromDMA bool, dmaBus uint32) {
	b.telemetry.WasLastAccessFromDMA = wasFromDMA
	b.telemetry.DMABus = dmaBus
}

func alignAddr(addr uint32, width uint8) uint32 {
	switch width {
	case 2:
		return addr &^ 1
	case 4:
		return addr &^ 3
	default:
		return addr
	}
}

func ror16(v uint16, bits uint8) uint16 {
	bits &= 15
	return (v >> bits) | (v << (16 - bits))
}

func ror32(v uint32, bits uint32) uint32 {
	bits &= 31
	return (v >> bits) | (v << (32 - bits))
}

// widthReader is the shape every native-width RAM backend in
// internal/memory and internal/video shares; readWidth lets the
// dispatch tables in read.go pick a width without per-backend
// boilerplate.
type widthReader interface {
	Read8(off uint32) uint8
	Read16(off uint32) uint16
	Read32(off uint32) uint32
}

func readWidth[T widthReader](r T, off uint32, width uint8) uint32 {
	switch width {
	case 1:
		return uint32(r.Read8(off))
	case 2:
		return uint32(r.Read16(off))
	default:
		return r.Read32(off)
	}
}

// widthWriter is the WRAM shape: unlike Palette/VRAM/OAM, EWRAM and
// IWRAM accept 8-bit writes directly with no promotion or restriction.
type widthWriter interface {
	Write8(off uint32, v uint8)
	Write16(off uint32, v uint16)
	Write32(off uint32, v uint32)
}

func writeWidth[T widthWriter](w T, off uint32, width uint8, value uint32) {
	switch width {
	case 1:
		w.Write8(off, uint8(value))
	case 2:
		w.Write16(off, uint16(value))
	default:
		w.Write32(off, value)
	}
}

// logInvalidAccess reports an access to an unmapped region through the
// structured debug log channel, per spec.md §7(a) — it never aborts.
// Illegal-width writes are dropped by their region handlers without
// calling it.
func logInvalidAccess(addr uint32, width uint8, write bool) {
	kind := "read"
	if write {
		kind = "write"
	}
	dbg.Printf("bus: invalid %s at %#08x (width=%d)\n", kind, addr, width)
}
