package emu

import "sync"

// audioRingCapacity is sized for roughly a quarter second of stereo
// 16-bit samples at the GBA's usual 32768 Hz output rate, generous
// enough that the front-end's consumption jitter never starves it.
const audioRingCapacity = 32768 / 4 * 2

// AudioRing is the fixed-capacity circular buffer the emulator thread
// (out-of-scope APU, really) writes samples into and the front-end
// thread drains for playback, each guarded by the mutex spec.md §5
// requires around the shared audio buffer.
type AudioRing struct {
	mu   sync.Mutex
	buf  [audioRingCapacity]int16
	head int
	tail int
	size int
}

func NewAudioRing() *AudioRing { return &AudioRing{} }

// Write appends samples, dropping the oldest unread samples if the ring
// is full rather than blocking the emulator thread.
func (a *AudioRing) Write(samples []int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.buf[a.head] = s
		a.head = (a.head + 1) % audioRingCapacity
		if a.size == audioRingCapacity {
			a.tail = (a.tail + 1) % audioRingCapacity
		} else {
			a.size++
		}
	}
}

// Read drains up to len(out) samples into out, returning the count
// actually read.
func (a *AudioRing) Read(out []int16) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for n < len(out) && a.size > 0 {
		out[n] = a.buf[a.tail]
		a.tail = (a.tail + 1) % audioRingCapacity
		a.size--
		n++
	}
	return n
}

// Available reports how many unread samples are currently buffered.
func (a *AudioRing) Available() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}
