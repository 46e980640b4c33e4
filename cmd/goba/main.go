// Command goba wires the memory bus's collaborators together and runs
// the two-thread harness from internal/emu, the same shape as the
// teacher's own main.go (flag-parsed ROM path, component construction,
// a run loop, periodic FPS logging) generalized to the full collaborator
// set internal/bus.Config now needs.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goba/internal/bus"
	"goba/internal/cartridge"
	"goba/internal/config"
	"goba/internal/cpu"
	"goba/internal/dbg"
	"goba/internal/emu"
	"goba/internal/interfaces"
	"goba/internal/io"
	"goba/rom"

	"github.com/pkg/profile"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if cfg.CPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.CPUProfile)).Stop()
	} else if cfg.MemProfile != "" {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.MemProfile)).Stop()
	}

	romImage, err := rom.Load(cfg.ROMPath)
	if err != nil {
		log.Fatal(err)
	}
	biosImage, err := rom.Load(cfg.BIOSPath)
	if err != nil {
		log.Fatal(err)
	}

	backupKind, err := config.ResolveBackupKind(cfg.Backup, romImage.Data)
	if err != nil {
		log.Fatal(err)
	}

	b, err := newBus(cfg, romImage.Data, biosImage.Data, backupKind)
	if err != nil {
		log.Fatal(err)
	}

	stepper := &demoStepper{bus: b}
	em := emu.New(stepper)

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		em.Send(emu.Message{Kind: emu.KindExit})
		cancel()
	}()

	em.Send(emu.Message{Kind: emu.KindRun})

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dbg.Printf("running\n")
			}
		}
	}()

	em.Run(ctx)
}

// buildBackup constructs the backup facade config.ResolveBackupKind
// chose, since internal/cartridge only exposes one constructor per kind
// rather than a single enum-driven factory (each kind needs different
// constructor arguments). BackupNone has no constructor of its own and
// gets the same plain SRAM store as BackupSRAM.
func buildBackup(kind interfaces.BackupKind, flagValue string) *cartridge.Backup {
	switch kind {
	case interfaces.BackupEEPROM:
		return cartridge.NewEEPROM(config.EEPROMSize(flagValue), config.EEPROMLargeWindow(flagValue))
	case interfaces.BackupFlash64K:
		return cartridge.NewFlash64K()
	case interfaces.BackupFlash128K:
		return cartridge.NewFlash128K()
	default:
		return cartridge.NewSRAM()
	}
}

// demoStepper is the minimal Stepper this command can honestly provide
// without an ARM7TDMI core: instruction decode is explicitly out of
// scope for this module (spec.md §1), so there is nothing real to step.
// It exists only so cmd/goba has something to hand internal/emu and
// exercise the bus's raw accessors; a real front-end would replace this
// with the CPU/PPU/DMA scheduler spec.md treats as external.
type demoStepper struct {
	bus    *bus.Bus
	cycles uint32
}

func (d *demoStepper) Step() (frameReady bool) {
	d.bus.Read32Raw(0)
	d.cycles++
	return d.cycles%280896 == 0
}

func newBus(cfg config.Config, romData, biosData []byte, backupKind interfaces.BackupKind) (*bus.Bus, error) {
	state := cpu.NewState()
	ioBank := io.NewBank()
	gpio := cartridge.NewGPIO()
	backup := buildBackup(backupKind, cfg.Backup)
	idle := &cycleSink{}

	b, err := bus.NewBus(bus.Config{
		BIOS:   biosData,
		ROM:    romData,
		CPU:    state,
		DMA:    state,
		IO:     ioBank,
		Backup: backup,
		GPIO:   gpio,
		Video:  ioBank,
		Idle:   idle,
	})
	if err != nil {
		return nil, err
	}
	// Writing WAITCNT (0x04000204) through the bus rederives its timing
	// table from the -waitcnt flag.
	b.Write16Raw(0x04000204, uint16(cfg.InitialWAITCNT))
	return b, nil
}

// cycleSink is the idle-cycle sink spec.md §2 calls a CPU scheduler
// collaborator; the scheduler itself is out of scope, so this just
// counts.
type cycleSink struct {
	total uint64
}

func (c *cycleSink) Advance(cycles uint32) { c.total += uint64(cycles) }
