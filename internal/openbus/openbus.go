// Package openbus resolves the value observed when the CPU reads an
// unmapped or unreadable address, per spec.md §4.6. It depends on nothing
// but the CPU's own observability surface and the DMA telemetry the bus
// already tracks — it never touches backing storage.
package openbus

import (
	"fmt"

	"goba/internal/interfaces"
	"goba/internal/regionmap"
)

// Resolve returns the open-bus value for a read of the given width at
// addr, narrowed and rotated the way a real aligned bus read would be.
//
// spec.md §9(a) notes that the IWRAM/Thumb case below deliberately
// disagrees with every other PC region (the source's own comment marks it
// "???"); it is reproduced exactly as specified rather than "fixed".
func Resolve(addr uint32, width uint8, cpu interfaces.CPUObserver, telemetry interfaces.BusTelemetry) uint32 {
	value := resolveValue(addr, cpu, telemetry)
	shift := 8 * (addr & 3)
	narrowed := value >> shift
	switch width {
	case 1:
		return narrowed & 0xFF
	case 2:
		return narrowed & 0xFFFF
	default:
		return narrowed
	}
}

// resolveValue checks the sticky "last access was DMA" latch first, not
// whether DMA happens to be running right now: on the access immediately
// after a burst finishes, DMA is no longer running but the bus should
// still echo back the last value it drove, per spec.md §4.6.
func resolveValue(addr uint32, cpu interfaces.CPUObserver, telemetry interfaces.BusTelemetry) uint32 {
	if telemetry.WasLastAccessFromDMA {
		return telemetry.DMABus
	}

	pf := cpu.Prefetch()
	if !cpu.IsThumb() {
		return pf[1]
	}

	pc := cpu.PC()
	region := regionmap.Decode(pc).Kind
	switch region {
	case regionmap.EWRAM, regionmap.PRAM, regionmap.VRAM, regionmap.CartROM:
		return pf[1] | (pf[1] << 16)
	case regionmap.BIOS, regionmap.OAM:
		if pc&2 == 0 {
			return pf[1] | (pf[1] << 16)
		}
		return pf[0] | (pf[1] << 16)
	case regionmap.IWRAM:
		if pc&2 == 0 {
			return pf[1] | (pf[0] << 16)
		}
		return pf[0] | (pf[1] << 16)
	default:
		panic(fmt.Sprintf("openbus: unreachable PC region %d for pc=%#08x (read addr=%#08x)", region, pc, addr))
	}
}
