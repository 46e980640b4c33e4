package bus

import "goba/internal/regionmap"

// chargeCycles implements spec.md §4.4's timing-accrual steps 2-6 (step 1,
// alignment, already happened in the caller). It either hands the cart
// bus to the prefetch buffer or advances the idle sink directly.
func (b *Bus) chargeCycles(addr uint32, width uint8, sequential bool) {
	desc := regionmap.Decode(addr)
	if desc.IsCart() && regionmap.IsCartStrideBoundary(addr) {
		sequential = false
	}

	region := regionmap.Code(addr)
	cycles := b.timing.Cycles(width, sequential, region)
	b.telemetry.GamepakBusInUse = desc.IsCart()

	if desc.IsCart() && b.timing.PrefetchEnabled() && !b.dma.IsRunning() {
		thumb := b.cpu.IsThumb()
		reload := b.timing.Cycles(4, true, region)
		if thumb {
			reload = b.timing.Cycles(2, true, region)
		}
		if b.prefetch.Access(addr, cycles, thumb, reload, b.idle) {
			b.telemetry.GamepakBusInUse = false
		}
		return
	}

	b.idle.Advance(cycles)
}
