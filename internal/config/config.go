// Package config turns command-line flags and a ROM image into the
// Config the access engine (internal/bus) needs to start: file paths,
// an initial WAITCNT value, and a resolved cartridge backup kind. None
// of this is bus policy — spec.md §1 explicitly keeps ROM validation
// and backup-chip selection out of the bus itself, so it lives here,
// one layer up, the way the teacher's own main.go keeps flag parsing
// out of internal/bus.
package config

import (
	"bytes"
	"flag"
	"fmt"

	"goba/internal/interfaces"
)

// Config holds everything cmd/goba needs to assemble a Bus, gathered
// from flags and (for BackupKind, when Backup is "auto") the ROM image
// itself.
type Config struct {
	ROMPath   string
	BIOSPath  string
	SaveDir   string
	CPUProfile string
	MemProfile string

	// Backup is the flag's raw value: "auto", "none", "sram", "eeprom",
	// "eeprom64", "flash64k", or "flash128k". ResolveBackupKind turns it into a
	// concrete interfaces.BackupKind, sniffing the ROM when it is "auto".
	Backup string

	// InitialWAITCNT is written to the WAITCNT I/O register when cmd/goba
	// builds the Bus, so the timing table starts out derived from it; the
	// default of 0 matches the table internal/timing.New builds.
	InitialWAITCNT uint
}

// Parse builds a Config from os.Args-style flags. It is a thin wrapper
// over a *flag.FlagSet rather than the package-level flag.Parse so that
// tests can call it with an arbitrary argv, matching the teacher's own
// single flag.String("rom", ...) idiom generalized to more than one flag.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("goba", flag.ContinueOnError)

	cfg := Config{}
	fs.StringVar(&cfg.ROMPath, "rom", "", "path to the ROM image (required)")
	fs.StringVar(&cfg.BIOSPath, "bios", "", "path to the BIOS image (required)")
	fs.StringVar(&cfg.SaveDir, "save-dir", ".", "directory for backup save files")
	fs.StringVar(&cfg.Backup, "backup", "auto", "backup chip: auto, none, sram, eeprom, eeprom64, flash64k, flash128k")
	fs.UintVar(&cfg.InitialWAITCNT, "waitcnt", 0, "initial WAITCNT value")
	fs.StringVar(&cfg.CPUProfile, "cpuprofile", "", "write a CPU profile to this directory")
	fs.StringVar(&cfg.MemProfile, "memprofile", "", "write a memory profile to this directory")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.ROMPath == "" {
		return Config{}, fmt.Errorf("config: -rom is required")
	}
	if cfg.BIOSPath == "" {
		return Config{}, fmt.Errorf("config: -bios is required")
	}
	return cfg, nil
}

// backupSignatures are the ASCII markers real cartridge linkers embed
// in the ROM image to identify the save chip they were built against.
// They are checked in this order and the first marker found wins, so a
// ROM containing more than one marker resolves to the earliest entry.
var backupSignatures = []struct {
	marker []byte
	kind   interfaces.BackupKind
	large  bool
}{
	{[]byte("EEPROM_V"), interfaces.BackupEEPROM, false},
	{[]byte("FLASH1M_V"), interfaces.BackupFlash128K, false},
	{[]byte("FLASH512_V"), interfaces.BackupFlash64K, false},
	{[]byte("FLASH_V"), interfaces.BackupFlash64K, false},
	{[]byte("SRAM_V"), interfaces.BackupSRAM, false},
}

// DetectBackupKind scans rom for the linker markers real GBA games embed
// to identify their save chip, returning BackupSRAM (the most common
// real-world default) when none is found. This is best-effort, matching
// spec.md §7's "bus does not validate ROM images" stance for the layer
// that actually guesses — a wrong guess only costs save compatibility,
// never correctness of the memory map itself.
func DetectBackupKind(rom []byte) interfaces.BackupKind {
	for _, sig := range backupSignatures {
		if bytes.Contains(rom, sig.marker) {
			return sig.kind
		}
	}
	return interfaces.BackupSRAM
}

// ResolveBackupKind turns the -backup flag value into a concrete kind,
// sniffing rom when the flag is "auto" or left unset.
func ResolveBackupKind(flagValue string, rom []byte) (interfaces.BackupKind, error) {
	switch flagValue {
	case "", "auto":
		return DetectBackupKind(rom), nil
	case "none":
		return interfaces.BackupNone, nil
	case "sram":
		return interfaces.BackupSRAM, nil
	case "eeprom":
		return interfaces.BackupEEPROM, nil
	case "eeprom64":
		return interfaces.BackupEEPROM, nil
	case "flash64k":
		return interfaces.BackupFlash64K, nil
	case "flash128k":
		return interfaces.BackupFlash128K, nil
	default:
		return interfaces.BackupNone, fmt.Errorf("config: unrecognized -backup value %q", flagValue)
	}
}

// EEPROMLargeWindow reports whether the -backup flag explicitly asked
// for the large EEPROM command window (see cartridge.NewEEPROM) instead
// of the default small window.
func EEPROMLargeWindow(flagValue string) bool {
	return flagValue == "eeprom64"
}

// EEPROMSize returns the backing store size for the requested EEPROM
// variant: 512 bytes (4 Kbit, the common case) or 8 KiB (64 Kbit, large
// carts) for "eeprom64".
func EEPROMSize(flagValue string) uint32 {
	if flagValue == "eeprom64" {
		return 8 * 1024
	}
	return 512
}
