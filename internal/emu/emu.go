// Package emu is the two-thread harness spec.md §5 describes around
// the bus: a front-end thread that pushes control messages and reads
// presentation state, and an emulator thread that owns the bus and
// drains the message channel at safe points between bus operations.
// Nothing in this package touches bus internals directly — it only
// ever calls through the narrow Stepper collaborator, the same way the
// bus itself only ever calls through its own collaborator interfaces.
package emu

import (
	"context"
	"sync"
)

// messageBacklog bounds the channel so a flood of key events from the
// front-end thread can never block it; the emulator drains the channel
// faster than any human input stream can fill it.
const messageBacklog = 64

// Stepper is the one hook the emulator thread needs from whatever owns
// CPU decode, PPU scanline timing, and DMA sequencing — all of which
// spec.md §1 places outside this module. Step runs one unit of machine
// work (conventionally one CPU instruction's worth of bus activity) and
// reports whether a frame became ready.
type Stepper interface {
	Step() (frameReady bool)
}

// Emulator wires a Stepper to the shared framebuffer/audio ring and the
// control-message channel, matching the teacher's own single
// for-loop-plus-frame-ready-check shape in main.go, split across the
// two threads spec.md §5 calls for.
type Emulator struct {
	step  Stepper
	frame *FrameBuffer
	audio *AudioRing

	messages chan Message
	sendMu   sync.Mutex

	runningMu sync.Mutex
	running   bool
}

func New(step Stepper) *Emulator {
	return &Emulator{
		step:     step,
		frame:    NewFrameBuffer(),
		audio:    NewAudioRing(),
		messages: make(chan Message, messageBacklog),
	}
}

func (e *Emulator) FrameBuffer() *FrameBuffer { return e.frame }
func (e *Emulator) AudioRing() *AudioRing     { return e.audio }

// Send pushes a control message from the front-end thread. The mutex
// around the channel send matches spec.md §5's "locked by a mutex on
// each push"; it exists to serialize pushes from multiple front-end
// goroutines (input polling, window-close handling), not to protect
// the channel itself, which is already safe for concurrent use.
func (e *Emulator) Send(msg Message) bool {
	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	select {
	case e.messages <- msg:
		return true
	default:
		return false
	}
}

// Run is the emulator-thread loop: drain pending messages, then, while
// running, step the machine until told otherwise or ctx is canceled.
// It returns when ctx is canceled or a KindExit message is drained.
func (e *Emulator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-e.messages:
			if !e.handle(msg) {
				return
			}
			continue
		default:
		}

		if !e.isRunning() {
			select {
			case <-ctx.Done():
				return
			case msg := <-e.messages:
				if !e.handle(msg) {
					return
				}
			}
			continue
		}

		e.step.Step()
	}
}

func (e *Emulator) handle(msg Message) (keepGoing bool) {
	switch msg.Kind {
	case KindRun:
		e.setRunning(true)
	case KindPause:
		e.setRunning(false)
	case KindReset:
		// Accepted and ignored: the narrow Stepper interface has only
		// Step, and this loop calls nothing else on it.
	case KindExit:
		return false
	case KindKeyDown, KindKeyUp:
		// Key routing belongs to whatever Stepper implementation owns
		// input state; this loop only has to deliver the message.
	}
	return true
}

func (e *Emulator) isRunning() bool {
	e.runningMu.Lock()
	defer e.runningMu.Unlock()
	return e.running
}

func (e *Emulator) setRunning(r bool) {
	e.runningMu.Lock()
	defer e.runningMu.Unlock()
	e.running = r
}
