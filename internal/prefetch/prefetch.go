// Package prefetch implements the cartridge prefetch buffer state machine
// from spec.md §4.5: a small FIFO of sequential cart-bus fetches that fills
// during gaps in CPU demand and collapses the latency of later sequential
// reads. It is a pure state machine — Access and Step are its only two
// transitions, each a function of the current snapshot and its scalar
// input — by design, per spec.md §9 ("do not introduce threads here").
package prefetch

import "goba/internal/interfaces"

// Buffer is the prefetch FIFO. The zero value is a valid, unarmed buffer
// as it exists immediately after reset.
type Buffer struct {
	insnLen  uint32
	capacity uint32
	reload   uint32
	countdown uint32
	size     uint32
	head     uint32
	tail     uint32
	armed    bool
}

// New returns an unarmed buffer, equivalent to the state right after reset.
func New() *Buffer {
	return &Buffer{}
}

// Reset clears the buffer back to its unarmed, post-reset state.
func (b *Buffer) Reset() {
	*b = Buffer{}
}

func (b *Buffer) Armed() bool     { return b.armed }
func (b *Buffer) Size() uint32    { return b.size }
func (b *Buffer) Head() uint32    { return b.head }
func (b *Buffer) Tail() uint32    { return b.tail }
func (b *Buffer) Countdown() uint32 { return b.countdown }
func (b *Buffer) InsnLen() uint32 { return b.insnLen }
func (b *Buffer) Capacity() uint32 { return b.capacity }
func (b *Buffer) Reload() uint32  { return b.reload }

// RestoreState overwrites every field of the buffer at once, for
// internal/bus's save-state Restore. There is no public way to reach
// these fields individually; a restore is always a full replacement of
// the snapshot taken by the matching getters.
func (b *Buffer) RestoreState(armed bool, size, head, tail, countdown, insnLen, capacity, reload uint32) {
	b.armed = armed
	b.size = size
	b.head = head
	b.tail = tail
	b.countdown = countdown
	b.insnLen = insnLen
	b.capacity = capacity
	b.reload = reload
}

// Access processes one cartridge-bus request from the CPU. reload is the
// sequential-access cycle cost to re-arm with on a miss, computed by the
// caller (the access engine) from the current timing table and the CPU's
// Thumb/ARM state, so this package stays independent of internal/timing.
//
// It reports whether the cart bus should be released for the CPU
// (gamepak_bus_in_use := false) as a result of a buffer hit; on a miss the
// bus stays in use and the caller is responsible for any further charge.
func (b *Buffer) Access(addr uint32, intendedCycles uint32, thumb bool, reload uint32, idle interfaces.IdleSink) (releaseBus bool) {
	if b.armed && b.tail == addr {
		if b.size == 0 {
			// The front-most slot is still in flight: wait for it to land,
			// then consume it. tail advances and size decrements same as
			// the size>0 branch below, but head does not move — there was
			// nothing queued ahead of this slot to advance into. size
			// underflows to its max uint32 value here, which deliberately
			// leaves the buffer looking full (size >= capacity) to the
			// next Step call until the buffer is re-armed by a miss.
			idle.Advance(b.countdown)
			b.tail += b.insnLen
			b.size--
		} else {
			b.tail += b.insnLen
			b.size--
			idle.Advance(1)
		}
		return true
	}

	// Miss: charge the penalty, then re-arm against the new address.
	idle.Advance(intendedCycles)
	if thumb {
		b.insnLen, b.capacity = 2, 8
	} else {
		b.insnLen, b.capacity = 4, 4
	}
	b.reload = reload
	b.countdown = b.reload
	b.tail = addr + b.insnLen
	b.head = b.tail
	b.size = 0
	b.armed = true
	return false
}

// Step advances the buffer by cycles elapsed while the CPU is not driving
// the cart bus, filling pending sequential fetches as their countdowns
// expire. Cycles left over once the buffer is full are discarded.
func (b *Buffer) Step(cycles uint32) {
	for b.size < b.capacity && cycles >= b.countdown {
		cycles -= b.countdown
		b.head += b.insnLen
		b.countdown = b.reload
		b.size++
	}
	if b.size < b.capacity {
		b.countdown -= cycles
	}
}
