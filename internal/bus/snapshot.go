package bus

import "encoding/json"

// snapshot is the JSON-serializable form of every piece of state the bus
// itself owns (spec.md §3's "shared resources owned exclusively by the
// bus"), minus BIOS/ROM images, which are loaded from files and never
// need to round-trip through a save state, and minus the timing tables,
// which are not serialized and which Restore leaves as they are.
type snapshot struct {
	EWRAM []byte `json:"ewram"`
	IWRAM []byte `json:"iwram"`
	PRAM  []byte `json:"pram"`
	VRAM  []byte `json:"vram"`
	OAM   []byte `json:"oam"`

	BIOSLatch uint32 `json:"bios_latch"`

	Telemetry struct {
		GamepakBusInUse      bool   `json:"gamepak_bus_in_use"`
		WasLastAccessFromDMA bool   `json:"was_last_access_from_dma"`
		DMABus               uint32 `json:"dma_bus"`
	} `json:"telemetry"`

	Prefetch prefetchSnapshot `json:"prefetch"`
}

// prefetchSnapshot mirrors internal/prefetch.Buffer's private fields
// through its exported getters; the bus is the only caller allowed to
// reach into another package's state this way, since it is the sole
// owner of the Buffer it snapshots.
type prefetchSnapshot struct {
	Armed     bool   `json:"armed"`
	Size      uint32 `json:"size"`
	Head      uint32 `json:"head"`
	Tail      uint32 `json:"tail"`
	Countdown uint32 `json:"countdown"`
	InsnLen   uint32 `json:"insn_len"`
	Capacity  uint32 `json:"capacity"`
	Reload    uint32 `json:"reload"`
}

// Snapshot serializes the bus-owned state listed on snapshot to JSON, for the
// save-state caller spec.md §4.3's read/write-raw entry points exist to
// serve.
func (b *Bus) Snapshot() ([]byte, error) {
	s := snapshot{
		EWRAM:     b.ewram.Bytes(),
		IWRAM:     b.iwram.Bytes(),
		PRAM:      b.pram.Bytes(),
		VRAM:      b.vram.Bytes(),
		OAM:       b.oam.Bytes(),
		BIOSLatch: b.biosLatch,
		Prefetch: prefetchSnapshot{
			Armed:     b.prefetch.Armed(),
			Size:      b.prefetch.Size(),
			Head:      b.prefetch.Head(),
			Tail:      b.prefetch.Tail(),
			Countdown: b.prefetch.Countdown(),
			InsnLen:   b.prefetch.InsnLen(),
			Capacity:  b.prefetch.Capacity(),
			Reload:    b.prefetch.Reload(),
		},
	}
	s.Telemetry.GamepakBusInUse = b.telemetry.GamepakBusInUse
	s.Telemetry.WasLastAccessFromDMA = b.telemetry.WasLastAccessFromDMA
	s.Telemetry.DMABus = b.telemetry.DMABus

	return json.Marshal(s)
}

// Restore replaces the state a prior Snapshot captured with its contents.
// The prefetch buffer is restored through Buffer.RestoreState, which
// overwrites all of its fields at once, rather than by poking private
// fields directly.
func (b *Bus) Restore(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	copy(b.ewram.Bytes(), s.EWRAM)
	copy(b.iwram.Bytes(), s.IWRAM)
	copy(b.pram.Bytes(), s.PRAM)
	copy(b.vram.Bytes(), s.VRAM)
	copy(b.oam.Bytes(), s.OAM)
	b.biosLatch = s.BIOSLatch
	b.telemetry.GamepakBusInUse = s.Telemetry.GamepakBusInUse
	b.telemetry.WasLastAccessFromDMA = s.Telemetry.WasLastAccessFromDMA
	b.telemetry.DMABus = s.Telemetry.DMABus
	b.prefetch.RestoreState(s.Prefetch.Armed, s.Prefetch.Size, s.Prefetch.Head,
		s.Prefetch.Tail, s.Prefetch.Countdown, s.Prefetch.InsnLen, s.Prefetch.Capacity,
		s.Prefetch.Reload)

	return nil
}
