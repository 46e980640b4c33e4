package bus

import (
	"testing"

	"goba/internal/cartridge"
	"goba/internal/io"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusRejectsMissingCollaborator(t *testing.T) {
	_, err := NewBus(Config{ROM: []byte{1}})
	require.Error(t, err)
}

func TestNewBusRejectsEmptyROM(t *testing.T) {
	state := newTestState()
	_, err := NewBus(Config{
		CPU:    state,
		DMA:    state,
		IO:     io.NewBank(),
		Backup: cartridge.NewSRAM(),
		GPIO:   cartridge.NewGPIO(),
		Video:  io.NewBank(),
		Idle:   &countingIdle{},
	})
	require.Error(t, err)
}

func TestEWRAMWidthRoundTrip(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write32(0x02000000, 0xCAFEF00D, false)
	assert.Equal(t, uint32(0xCAFEF00D), b.Read32(0x02000000, false))
	assert.Equal(t, uint16(0xF00D), b.Read16(0x02000000, false))
	assert.Equal(t, uint8(0x0D), b.Read8(0x02000000, false))
}

func TestIWRAMWidthRoundTrip(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write16(0x03000010, 0x1234, false)
	assert.Equal(t, uint16(0x1234), b.Read16(0x03000010, false))
}

func TestOAM8BitWriteDropped(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write32(0x07000000, 0xAAAAAAAA, false)
	b.Write8(0x07000000, 0xFF, false)
	assert.Equal(t, uint32(0xAAAAAAAA), b.Read32(0x07000000, false),
		"an 8-bit OAM write must be silently dropped")
}

func TestPaletteRAM8BitWriteSplats(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write8(0x05000010, 0x7E, false)
	assert.Equal(t, uint16(0x7E7E), b.Read16(0x05000010, false),
		"an 8-bit Palette RAM write must splat to both bytes of the halfword")
}

func TestVRAM8BitWriteLegalBelowBGBoundaryMode0(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	// DISPCNT defaults to mode 0; the BG boundary is 64 KiB.
	b.Write8(0x06000100, 0x11, false)
	assert.Equal(t, uint16(0x1111), b.Read16(0x06000100, false))
}

func TestVRAM8BitWriteDroppedAboveBGBoundaryMode0(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write32(0x06010000, 0xAAAAAAAA, false) // OBJ VRAM, above the mode 0 BG boundary
	b.Write8(0x06010000, 0xFF, false)
	assert.Equal(t, uint32(0xAAAAAAAA), b.Read32(0x06010000, false),
		"an 8-bit write above the BG boundary must be silently dropped")
}

func TestVRAM8BitWriteLegalAboveBoundaryInBitmapMode(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write8(0x04000000, 0x03, false) // DISPCNT low 3 bits = mode 3: boundary moves to 80 KiB
	b.Write8(0x06010000, 0x22, false)
	assert.Equal(t, uint16(0x2222), b.Read16(0x06010000, false),
		"mode 3+ extends the legal 8-bit BG write boundary to 80 KiB")
}

func TestCartROMOutOfBoundsPattern(t *testing.T) {
	b, _, _ := newTestBus(0x100)
	got := b.Read16(0x08000200, false)
	assert.Equal(t, uint16(0x0100), got)
}

func TestCartROMInBoundsWriteDropped(t *testing.T) {
	b, _, _ := newTestBus(0x10)
	b.Write8Raw(0x08000000, 0x42) // ROM writes are dropped; this proves it
	assert.NotEqual(t, uint8(0x42), b.Read8Raw(0x08000000))
}

func TestUnalignedRead32Rotated(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write32(0x02000000, 0x12345678, false)
	got := b.Read32Rotated(0x02000001, false)
	assert.Equal(t, ror32(0x12345678, 8), got)
}

func TestUnalignedRead16Rotated(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write16(0x03000000, 0xABCD, false)
	got := b.Read16Rotated(0x03000001, false)
	assert.Equal(t, ror16(0xABCD, 8), got)
}

func TestCartSRAMByteReplicationOnRead(t *testing.T) {
	b, _, _ := newTestBus(0x10)
	b.Write8(0x0E000000, 0x5A, false)
	assert.Equal(t, uint32(0x5A5A5A5A), b.Read32(0x0E000000, false))
	assert.Equal(t, uint16(0x5A5A), b.Read16(0x0E000000, false))
}

func TestCartSRAMRotateOnWrite(t *testing.T) {
	b, _, _ := newTestBus(0x10)
	b.Write32(0x0E000001, 0x12345678, false)
	want := uint8(ror32(0x12345678, 8))
	assert.Equal(t, want, b.Read8(0x0E000001, false))
}

func TestEEPROMReadDelegatesToByteHookForAllWidths(t *testing.T) {
	eeprom := cartridge.NewEEPROM(512, false)
	// addr's cart-local offset is 0xFFFF00; masked against the small
	// EEPROM window's 0xFFFF mask that's 0xFF00, and 0xFFFF00 mod the
	// 512-byte backing store is 0x100 — that's where the read actually
	// lands.
	eeprom.WriteByte(0x100, 0x9A)
	b, _, _ := newTestBusWithBackup(0x10, eeprom)

	// addr is in the last 256 bytes of cart space, inside the small
	// EEPROM command window; spec.md §9(b) says every width delegates to the 8-bit hook
	// verbatim, so a 16-bit read returns the same narrow byte value,
	// not a real 16-bit load.
	addr := uint32(0x0DFFFF00)
	got16 := b.Read16(addr, false)
	assert.Equal(t, uint16(0x9A), got16)
}

func TestWAITCNTRecomputeOnWrite(t *testing.T) {
	b, _, idle := newTestBus(0x1000)
	idle.total = 0

	b.Write16(0x04000204, 0x4000, false) // prefetch enable bit
	idle.total = 0
	b.Read8(0x08000000, false)
	assert.True(t, b.telemetry.GamepakBusInUse || idle.total > 0,
		"a cart read after enabling prefetch should charge cycles through one of the two paths")
}

func TestPrefetchSequentialHitIsCheaperThanMiss(t *testing.T) {
	b, state, idle := newTestBus(0x1000)
	b.Write16(0x04000204, 0x4000, false) // enable prefetch, WS0 defaults
	state.SetThumb(true)

	idle.total = 0
	b.Read16(0x08000000, false) // miss: arms the buffer
	missCost := idle.total

	b.prefetch.Step(b.prefetch.Reload()) // let one sequential slot fill

	idle.total = 0
	b.Read16(0x08000002, true) // sequential hit against the filled slot
	hitCost := idle.total

	assert.Less(t, hitCost, missCost,
		"a prefetch hit against an already-filled slot must be cheaper than the original miss")
}

func TestCartStrideBoundaryForcesNonSequential(t *testing.T) {
	b, _, idle := newTestBus(0x1000)
	idle.total = 0
	b.Read16(0x08020000, true) // exactly on the 128 KiB stride boundary
	nonSeqCost := idle.total

	idle.total = 0
	b.Read16(0x08020000, false)
	assert.Equal(t, nonSeqCost, idle.total,
		"a sequential request landing on the stride boundary must be billed as non-sequential")
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	b.Write32(0x02000000, 0xFEEDFACE, false)
	b.Write16(0x05000000, 0x1234, false)

	data, err := b.Snapshot()
	require.NoError(t, err)

	b.Write32(0x02000000, 0, false)
	b.Write16(0x05000000, 0, false)

	require.NoError(t, b.Restore(data))
	assert.Equal(t, uint32(0xFEEDFACE), b.Read32(0x02000000, false))
	assert.Equal(t, uint16(0x1234), b.Read16(0x05000000, false))
}

func TestRead8RawAndWrite8RawSkipWatchpoints(t *testing.T) {
	b, _, _ := newTestBus(0x1000)
	var fired bool
	b.watch = watchFunc(func(addr uint32, width uint8, write bool) { fired = true })

	b.Write8Raw(0x02000000, 0x11)
	b.Read8Raw(0x02000000)
	assert.False(t, fired, "raw accessors must never fire watchpoints")

	b.Write8(0x02000000, 0x22, false)
	assert.True(t, fired, "timed accessors must fire watchpoints")
}

type watchFunc func(addr uint32, width uint8, write bool)

func (f watchFunc) OnAccess(addr uint32, width uint8, write bool) { f(addr, width, write) }

func newTestState() *stateDouble { return &stateDouble{} }

// stateDouble is a minimal CPUObserver+DMAView double for the
// constructor-validation tests above, which don't need a real
// *cpu.State.
type stateDouble struct{}

func (stateDouble) PC() uint32          { return 0 }
func (stateDouble) IsThumb() bool       { return false }
func (stateDouble) Prefetch() [2]uint32 { return [2]uint32{} }
func (stateDouble) IsRunning() bool     { return false }
func (stateDouble) LastValue() uint32   { return 0 }
