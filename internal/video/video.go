// Package video holds the three small byte-addressable backends the PPU
// shares with the bus: Palette RAM, VRAM, and OAM. It is pure storage —
// the display-mode-dependent legality of 8-bit VRAM writes and the
// OAM/Palette write-promotion rules live in internal/bus, which is the
// only place spec.md §4.3 actually specifies them.
package video

import "goba/internal/memutil"

// Sizes from spec.md §3.
const (
	PRAMSize = 1 * 1024
	VRAMSize = 96 * 1024
	OAMSize  = 1 * 1024
)

// PRAM is Palette RAM: 512 entries of BGR555, 16/32-bit native.
type PRAM struct{ data []byte }

func NewPRAM() *PRAM { return &PRAM{data: make([]byte, PRAMSize)} }

func (p *PRAM) Read16(off uint32) uint16     { return memutil.ReadLE16(p.data, off) }
func (p *PRAM) Write16(off uint32, v uint16) { memutil.WriteLE16(p.data, off, v) }
func (p *PRAM) Read32(off uint32) uint32     { return memutil.ReadLE32(p.data, off) }
func (p *PRAM) Write32(off uint32, v uint32) { memutil.WriteLE32(p.data, off, v) }

// WriteSplat8 writes b to both bytes of the halfword enclosing off&^1,
// implementing the 8-bit write promotion every RAM region that is
// 16/32-bit-native on real hardware uses when an 8-bit write is legal.
func (p *PRAM) WriteSplat8(off uint32, b uint8) {
	aligned := off &^ 1
	p.data[aligned] = b
	p.data[aligned+1] = b
}

func (p *PRAM) Read8(off uint32) uint8     { return p.data[off] }
func (p *PRAM) Write8(off uint32, b uint8) { p.data[off] = b }

// Bytes exposes the backing array for internal/bus's Snapshot/Restore.
func (p *PRAM) Bytes() []byte { return p.data }

// VRAM is Video RAM: 96 KiB of tile/bitmap/OBJ data, 16/32-bit native.
type VRAM struct{ data []byte }

func NewVRAM() *VRAM { return &VRAM{data: make([]byte, VRAMSize)} }

func (v *VRAM) Read16(off uint32) uint16       { return memutil.ReadLE16(v.data, off) }
func (v *VRAM) Write16(off uint32, val uint16) { memutil.WriteLE16(v.data, off, val) }
func (v *VRAM) Read32(off uint32) uint32       { return memutil.ReadLE32(v.data, off) }
func (v *VRAM) Write32(off uint32, val uint32) { memutil.WriteLE32(v.data, off, val) }
func (v *VRAM) Read8(off uint32) uint8         { return v.data[off] }
func (v *VRAM) Write8(off uint32, b uint8)     { v.data[off] = b }

// Bytes exposes the backing array for internal/bus's Snapshot/Restore.
func (v *VRAM) Bytes() []byte { return v.data }

// WriteSplat8 is VRAM's analogue of PRAM.WriteSplat8. Whether it is legal
// to call for a given offset and display mode is internal/bus's call,
// per spec.md §4.3's BG-region boundary rule.
func (v *VRAM) WriteSplat8(off uint32, b uint8) {
	aligned := off &^ 1
	v.data[aligned] = b
	v.data[aligned+1] = b
}

// OAM is Object Attribute Memory: 128 entries of sprite attributes,
// 32-bit native; 8-bit writes are always illegal here (spec.md §3).
type OAM struct{ data []byte }

func NewOAM() *OAM { return &OAM{data: make([]byte, OAMSize)} }

func (o *OAM) Read16(off uint32) uint16     { return memutil.ReadLE16(o.data, off) }
func (o *OAM) Write16(off uint32, v uint16) { memutil.WriteLE16(o.data, off, v) }
func (o *OAM) Read32(off uint32) uint32     { return memutil.ReadLE32(o.data, off) }
func (o *OAM) Write32(off uint32, v uint32) { memutil.WriteLE32(o.data, off, v) }
func (o *OAM) Read8(off uint32) uint8       { return o.data[off] }
func (o *OAM) Write8(off uint32, b uint8)   { o.data[off] = b }

// Bytes exposes the backing array for internal/bus's Snapshot/Restore.
func (o *OAM) Bytes() []byte { return o.data }
