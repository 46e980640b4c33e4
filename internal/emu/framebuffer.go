package emu

import (
	"image"
	"sync"
)

// Screen resolution, per spec.md §5's "shared framebuffer" collaborator.
const (
	ScreenWidth  = 240
	ScreenHeight = 160
)

// FrameBuffer is the image the emulator thread draws into and the
// front-end thread copies out for presentation, each side serialized by
// its own RWMutex acquisition (spec.md §5: "protected by its own mutex
// that the front-end acquires around reads").
type FrameBuffer struct {
	mu  sync.RWMutex
	img *image.RGBA
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{img: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))}
}

// Update replaces the frame contents. Called only from the emulator
// thread, at the point the PPU (out of scope here) reports a frame ready.
func (f *FrameBuffer) Update(fn func(img *image.RGBA)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.img)
}

// Snapshot copies the current frame out for the front-end thread to
// present, without holding the lock for the duration of a render.
func (f *FrameBuffer) Snapshot() *image.RGBA {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := image.NewRGBA(f.img.Bounds())
	copy(out.Pix, f.img.Pix)
	return out
}
