package emu

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// countingStepper is a minimal Stepper double; it reports a frame ready
// every frameEvery calls and records how many times Step ran.
type countingStepper struct {
	calls      int
	frameEvery int
}

func (s *countingStepper) Step() (frameReady bool) {
	s.calls++
	return s.frameEvery > 0 && s.calls%s.frameEvery == 0
}

func TestSendNonBlockingWhenFull(t *testing.T) {
	e := New(&countingStepper{})
	for i := 0; i < messageBacklog; i++ {
		ok := e.Send(Message{Kind: KindKeyDown, Key: uint8(i)})
		assert.True(t, ok, "send %d should succeed before the backlog fills", i)
	}
	ok := e.Send(Message{Kind: KindKeyDown, Key: 0xFF})
	assert.False(t, ok, "send past a full backlog must fail rather than block")
}

func TestRunStepsOnlyWhileRunning(t *testing.T) {
	stepper := &countingStepper{}
	e := New(stepper)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	// Paused by default: no amount of waiting should produce steps.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, stepper.calls, "emulator must not step before a KindRun message")

	e.Send(Message{Kind: KindRun})
	time.Sleep(20 * time.Millisecond)
	assert.Greater(t, stepper.calls, 0, "emulator must step once running")

	e.Send(Message{Kind: KindPause})
	time.Sleep(5 * time.Millisecond)
	paused := stepper.calls
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, stepper.calls, "emulator must stop stepping once paused")

	e.Send(Message{Kind: KindExit})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after KindExit")
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	e := New(&countingStepper{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestFrameBufferUpdateAndSnapshotAreIndependent(t *testing.T) {
	fb := NewFrameBuffer()
	fb.Update(func(img *image.RGBA) {
		img.Set(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	})

	snap := fb.Snapshot()
	assert.Equal(t, uint8(0xFF), snap.RGBAAt(0, 0).R)

	// Mutating the snapshot must never reach back into the live buffer.
	snap.Set(0, 0, color.RGBA{})
	fb.Update(func(img *image.RGBA) {
		assert.Equal(t, uint8(0xFF), img.RGBAAt(0, 0).R)
	})
}
