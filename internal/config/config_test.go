package config

import (
	"testing"

	"goba/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiresROMAndBIOS(t *testing.T) {
	_, err := Parse([]string{})
	require.Error(t, err)

	_, err = Parse([]string{"-rom", "game.gba"})
	require.Error(t, err)

	cfg, err := Parse([]string{"-rom", "game.gba", "-bios", "bios.bin"})
	require.NoError(t, err)
	assert.Equal(t, "game.gba", cfg.ROMPath)
	assert.Equal(t, "bios.bin", cfg.BIOSPath)
	assert.Equal(t, "auto", cfg.Backup)
}

func TestDetectBackupKindFromMarkers(t *testing.T) {
	cases := []struct {
		name string
		rom  []byte
		want interfaces.BackupKind
	}{
		{"eeprom", []byte("junkEEPROM_Vjunk"), interfaces.BackupEEPROM},
		{"flash1m", []byte("junkFLASH1M_Vjunk"), interfaces.BackupFlash128K},
		{"flash512", []byte("junkFLASH512_Vjunk"), interfaces.BackupFlash64K},
		{"flash", []byte("junkFLASH_Vjunk"), interfaces.BackupFlash64K},
		{"sram", []byte("junkSRAM_Vjunk"), interfaces.BackupSRAM},
		{"none found", []byte("no markers here"), interfaces.BackupSRAM},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DetectBackupKind(c.rom))
		})
	}
}

func TestResolveBackupKindOverridesDetection(t *testing.T) {
	rom := []byte("junkEEPROM_Vjunk")
	kind, err := ResolveBackupKind("sram", rom)
	require.NoError(t, err)
	assert.Equal(t, interfaces.BackupSRAM, kind)

	kind, err = ResolveBackupKind("auto", rom)
	require.NoError(t, err)
	assert.Equal(t, interfaces.BackupEEPROM, kind)

	_, err = ResolveBackupKind("not-a-real-kind", rom)
	require.Error(t, err)
}

func TestEEPROMSizeAndWindow(t *testing.T) {
	assert.Equal(t, uint32(512), EEPROMSize("eeprom"))
	assert.Equal(t, uint32(8*1024), EEPROMSize("eeprom64"))
	assert.False(t, EEPROMLargeWindow("eeprom"))
	assert.True(t, EEPROMLargeWindow("eeprom64"))
}
