package memory

import "goba/internal/memutil"

// EWRAMSize and IWRAMSize are the physical backing sizes from spec.md §3.
const (
	EWRAMSize = 256 * 1024
	IWRAMSize = 32 * 1024
)

// WRAM is a plain writable byte array shared by External and Internal
// WRAM; the two only differ in size and mirror mask, both of which are
// handled by internal/regionmap before a caller ever reaches here.
type WRAM struct {
	data []byte
}

// NewEWRAM allocates a zeroed External WRAM backing array.
func NewEWRAM() *WRAM { return &WRAM{data: make([]byte, EWRAMSize)} }

// NewIWRAM allocates a zeroed Internal WRAM backing array.
func NewIWRAM() *WRAM { return &WRAM{data: make([]byte, IWRAMSize)} }

// Bytes exposes the backing array directly for snapshotting; callers
// outside this package only use it through internal/bus's Snapshot/Restore.
func (w *WRAM) Bytes() []byte { return w.data }

func (w *WRAM) Read8(off uint32) uint8   { return w.data[off] }
func (w *WRAM) Write8(off uint32, v uint8) { w.data[off] = v }

func (w *WRAM) Read16(off uint32) uint16    { return memutil.ReadLE16(w.data, off) }
func (w *WRAM) Write16(off uint32, v uint16) { memutil.WriteLE16(w.data, off, v) }

func (w *WRAM) Read32(off uint32) uint32    { return memutil.ReadLE32(w.data, off) }
func (w *WRAM) Write32(off uint32, v uint32) { memutil.WriteLE32(w.data, off, v) }
