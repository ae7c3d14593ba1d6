package perception

import "sync"

// Bridge holds the most recent camera frame. It is written by the
// transport whenever a new image arrives and read by the control loop.
type Bridge struct {
	mu    sync.RWMutex
	frame *Frame

	received uint64
	rejected uint64
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// OnFrame converts the image to BGR and replaces the current frame.
// Invalid images are rejected and the previous frame is kept.
func (b *Bridge) OnFrame(image Image) error {
	frame, err := image.ToBGRFrame()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.rejected++
		return err
	}
	b.frame = frame
	b.received++
	return nil
}

// CurrentFrame returns the latest frame, if any frame was received yet.
// The returned frame must not be modified.
func (b *Bridge) CurrentFrame() (*Frame, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame, b.frame != nil
}

// Counters returns the number of accepted and rejected images
func (b *Bridge) Counters() (received uint64, rejected uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.received, b.rejected
}
