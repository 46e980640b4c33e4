package bus

import (
	"goba/internal/cartridge"
	"goba/internal/interfaces"
	"goba/internal/regionmap"
)

// Write8, Write16, and Write32 are the timed write entry points from
// spec.md §4.3.
func (b *Bus) Write8(addr uint32, v uint8, sequential bool) {
	b.timedWrite(addr, 1, uint32(v), sequential)
}

func (b *Bus) Write16(addr uint32, v uint16, sequential bool) {
	b.timedWrite(addr, 2, uint32(v), sequential)
}

func (b *Bus) Write32(addr uint32, v uint32, sequential bool) {
	b.timedWrite(addr, 4, v, sequential)
}

// Write8Raw, Write16Raw, and Write32Raw skip cycle accounting and
// watchpoint evaluation, per spec.md §4.3.
func (b *Bus) Write8Raw(addr uint32, v uint8) {
	b.writeDispatch(addr, 1, uint32(v))
}

func (b *Bus) Write16Raw(addr uint32, v uint16) {
	b.writeDispatch(addr, 2, uint32(v))
}

func (b *Bus) Write32Raw(addr uint32, v uint32) {
	b.writeDispatch(addr, 4, v)
}

func (b *Bus) timedWrite(addr uint32, width uint8, value uint32, sequential bool) {
	aligned := alignAddr(addr, width)
	if b.watch != nil {
		b.watch.OnAccess(aligned, width, true)
	}
	b.chargeCycles(aligned, width, sequential)
	b.writeDispatch(addr, width, value)
}

// writeDispatch is the write half of the region dispatch table. As in
// readDispatch, every region but cartridge SRAM sees the aligned address.
func (b *Bus) writeDispatch(addr uint32, width uint8, value uint32) {
	desc := regionmap.Decode(addr)
	if desc.Kind == regionmap.CartSRAM {
		b.writeCartSRAM(addr, width, value)
		return
	}

	aligned := alignAddr(addr, width)
	switch desc.Kind {
	case regionmap.BIOS:
		// Silently dropped: real BIOS ROM ignores writes (spec.md §7).
	case regionmap.EWRAM:
		writeWidth(b.ewram, regionmap.EWRAMOffset(aligned), width, value)
	case regionmap.IWRAM:
		writeWidth(b.iwram, regionmap.IWRAMOffset(aligned), width, value)
	case regionmap.IO:
		b.writeIO(aligned, width, value)
	case regionmap.PRAM:
		b.writePRAM(aligned, width, value)
	case regionmap.VRAM:
		b.writeVRAM(aligned, width, value)
	case regionmap.OAM:
		b.writeOAM(aligned, width, value)
	case regionmap.CartROM:
		b.writeCartROM(aligned, width, value)
	default:
		logInvalidAccess(aligned, width, true)
	}
}

// writeIO decomposes the write into bytes against the I/O bank, then
// rederives the timing table if the write touched WAITCNT (offset
// 0x204-0x205 within the bank), per spec.md §4.2's recompute-on-write
// rule. Recompute is idempotent, so there is no harm in the bus deciding
// this instead of the I/O bank itself.
func (b *Bus) writeIO(addr uint32, width uint8, value uint32) {
	b.io.WriteByte(addr, uint8(value))
	if width >= 2 {
		b.io.WriteByte(addr+1, uint8(value>>8))
	}
	if width == 4 {
		b.io.WriteByte(addr+2, uint8(value>>16))
		b.io.WriteByte(addr+3, uint8(value>>24))
	}

	off := addr & ioBankMask
	if touchesWaitcnt(off, width) {
		waitcnt := uint16(b.io.ReadByte(waitcntOffset)) | uint16(b.io.ReadByte(waitcntOffset+1))<<8
		b.timing.Recompute(waitcnt)
	}
}

const (
	ioBankMask    = 0x3FF
	waitcntOffset = 0x204
)

func touchesWaitcnt(off uint32, width uint8) bool {
	end := off + uint32(width) - 1
	return off <= waitcntOffset+1 && end >= waitcntOffset
}

// writePRAM promotes an 8-bit write to both bytes of the enclosing
// halfword; 16/32-bit writes are direct (spec.md §3/§4.3).
func (b *Bus) writePRAM(addr uint32, width uint8, value uint32) {
	off := regionmap.PRAMOffset(addr)
	if width == 1 {
		b.pram.WriteSplat8(off, uint8(value))
		return
	}
	writeWidth(b.pram, off, width, value)
}

// writeVRAM gates 8-bit writes to the BG region below the current
// display mode's boundary: there they splat to the enclosing halfword,
// above it they are dropped. 16/32-bit writes are direct everywhere, per
// spec.md §3/§4.3.
func (b *Bus) writeVRAM(addr uint32, width uint8, value uint32) {
	off := regionmap.VRAMOffset(addr)
	if width == 1 {
		if !b.vram8BitWriteLegal(off) {
			return
		}
		b.vram.WriteSplat8(off, uint8(value))
		return
	}
	writeWidth(b.vram, off, width, value)
}

func (b *Bus) vram8BitWriteLegal(off uint32) bool {
	boundary := uint32(0x10000)
	if b.video.DisplayMode() >= 3 {
		boundary = 0x14000
	}
	return off < boundary
}

// writeOAM silently drops 8-bit writes; 16/32-bit writes are direct
// (spec.md §3/§4.3).
func (b *Bus) writeOAM(addr uint32, width uint8, value uint32) {
	if width == 1 {
		return
	}
	off := regionmap.OAMOffset(addr)
	writeWidth(b.oam, off, width, value)
}

// writeCartROM only accepts writes into the EEPROM or GPIO windows;
// everything else is a dropped write to read-only ROM, per spec.md §4.3.
func (b *Bus) writeCartROM(addr uint32, width uint8, value uint32) {
	off := regionmap.CartOffset(addr)

	if b.backup.Kind() == interfaces.BackupEEPROM {
		mask, low, high := b.backup.EEPROMWindow()
		if masked := off & mask; masked >= low && masked <= high {
			b.backup.WriteByte(off, uint8(value))
			return
		}
	}
	if cartridge.InWindow(off) {
		b.gpio.WriteByte(off, uint8(value))
	}
}

// writeCartSRAM rotates the value right by 8*(addr mod width-in-bytes)
// and commits only the low byte, per spec.md §4.3/§8.
func (b *Bus) writeCartSRAM(addr uint32, width uint8, value uint32) {
	off := regionmap.SRAMOffset(addr)
	rot := 8 * (addr % uint32(width))
	b.backup.WriteByte(off, uint8(ror32(value, rot)))
}
