package cartridge

import "goba/internal/interfaces"

// Backup is a plain byte-addressable store satisfying
// interfaces.BackupStorage. It is shared by every backup kind since the
// bus only ever talks to it through ReadByte/WriteByte/Kind/EEPROMWindow;
// real SRAM, EEPROM, and Flash chips differ in capacity, command
// protocol, and persistence strategy, none of which the bus's scope
// touches.
type Backup struct {
	data []byte
	kind interfaces.BackupKind

	// eepromMask/eepromLow/eepromHigh are only meaningful when kind is
	// BackupEEPROM; every other kind reports a window that never matches.
	eepromMask, eepromLow, eepromHigh uint32
}

const (
	sramSize      = 32 * 1024
	flash64KSize  = 64 * 1024
	flash128KSize = 128 * 1024

	// eepromSmallWindowLow/High bound the small EEPROM command window.
	// Checked against the cart offset masked with 0xFFFF, it matches the
	// last 256 bytes of every 64 KiB block of cart space, the last 256
	// bytes of the whole space among them.
	eepromSmallWindowLow  = 0x0000FF00
	eepromSmallWindowHigh = 0x0000FFFF
)

// NewSRAM allocates a plain 32 KiB SRAM backing store.
func NewSRAM() *Backup {
	return &Backup{data: make([]byte, sramSize), kind: interfaces.BackupSRAM}
}

// NewEEPROM allocates an EEPROM backing store. largeWindow selects a
// window of mask 0xFFFF and range 0x0000-0xFFFF, which every cart offset
// matches, so all of cart ROM space is routed to EEPROM; otherwise the
// small window described at eepromSmallWindowLow is used.
func NewEEPROM(size uint32, largeWindow bool) *Backup {
	b := &Backup{data: make([]byte, size), kind: interfaces.BackupEEPROM}
	if largeWindow {
		b.eepromMask = 0x0000FFFF
		b.eepromLow = 0x00000000
		b.eepromHigh = 0x0000FFFF
	} else {
		b.eepromMask = 0x0000FFFF
		b.eepromLow = eepromSmallWindowLow
		b.eepromHigh = eepromSmallWindowHigh
	}
	return b
}

// NewFlash64K allocates a 64 KiB Flash backing store (Panasonic/Sanyo-class chips).
func NewFlash64K() *Backup {
	return &Backup{data: make([]byte, flash64KSize), kind: interfaces.BackupFlash64K}
}

// NewFlash128K allocates a 128 KiB Flash backing store (Macronix/Sanyo-class chips).
func NewFlash128K() *Backup {
	return &Backup{data: make([]byte, flash128KSize), kind: interfaces.BackupFlash128K}
}

func (b *Backup) ReadByte(addr uint32) uint8 {
	return b.data[addr%uint32(len(b.data))]
}

func (b *Backup) WriteByte(addr uint32, v uint8) {
	b.data[addr%uint32(len(b.data))] = v
}

func (b *Backup) Kind() interfaces.BackupKind { return b.kind }

// EEPROMWindow returns the (mask, low, high) triple internal/bus uses to
// detect whether a cart ROM-space address should be delegated to EEPROM
// instead of ROM. For non-EEPROM kinds the window is empty (low > high),
// so the bus's range check never matches.
func (b *Backup) EEPROMWindow() (mask, low, high uint32) {
	if b.kind != interfaces.BackupEEPROM {
		return 0, 1, 0
	}
	return b.eepromMask, b.eepromLow, b.eepromHigh
}
