package bus

import (
	"goba/internal/cartridge"
	"goba/internal/cpu"
	"goba/internal/interfaces"
	"goba/internal/io"
)

// countingIdle is the test double for interfaces.IdleSink, matching
// nevisdale-nestic's own preference for small hand-rolled doubles over
// mocking frameworks.
type countingIdle struct {
	total uint32
}

func (c *countingIdle) Advance(cycles uint32) { c.total += cycles }

// newTestBus builds a Bus with fresh, unexported backends wired through
// the same Config path production code uses, plus a *cpu.State doing
// double duty as both CPUObserver and DMAView (it satisfies both, and
// tests only need a DMA-not-running default).
func newTestBus(romSize int) (*Bus, *cpu.State, *countingIdle) {
	state := cpu.NewState()
	idle := &countingIdle{}
	ioBank := io.NewBank()
	b, err := NewBus(Config{
		BIOS:   make([]byte, 0x4000),
		ROM:    make([]byte, romSize),
		CPU:    state,
		DMA:    state,
		IO:     ioBank,
		Backup: cartridge.NewSRAM(),
		GPIO:   cartridge.NewGPIO(),
		Video:  ioBank,
		Idle:   idle,
	})
	if err != nil {
		panic(err)
	}
	return b, state, idle
}

// newTestBusWithBackup is newTestBus with a caller-supplied backup
// facade, for tests that need EEPROM/Flash rather than the SRAM default.
func newTestBusWithBackup(romSize int, backup interfaces.BackupStorage) (*Bus, *cpu.State, *countingIdle) {
	state := cpu.NewState()
	idle := &countingIdle{}
	ioBank := io.NewBank()
	b, err := NewBus(Config{
		BIOS:   make([]byte, 0x4000),
		ROM:    make([]byte, romSize),
		CPU:    state,
		DMA:    state,
		IO:     ioBank,
		Backup: backup,
		GPIO:   cartridge.NewGPIO(),
		Video:  ioBank,
		Idle:   idle,
	})
	if err != nil {
		panic(err)
	}
	return b, state, idle
}
