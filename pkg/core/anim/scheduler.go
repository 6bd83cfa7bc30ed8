package anim

import "time"

// FrameFunc is a frame callback.
type FrameFunc func(now time.Time)

// FrameScheduler delivers frame callbacks. Each RequestFrame call must
// result in at most one invocation of fn, on the host's scheduling thread.
type FrameScheduler interface {
	RequestFrame(fn FrameFunc)
}

// DefaultFrameInterval is one frame at 60 Hz, rounded down.
const DefaultFrameInterval = 16 * time.Millisecond

// ManualScheduler is a FrameScheduler driven explicitly by the caller.
// Its clock only advances when a frame is run.
type ManualScheduler struct {
	now      time.Time
	interval time.Duration
	pending  []FrameFunc
	frames   int
}

// NewManualScheduler creates a scheduler whose clock starts at start and
// advances by interval per frame. A zero interval uses DefaultFrameInterval.
func NewManualScheduler(start time.Time, interval time.Duration) *ManualScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &ManualScheduler{now: start, interval: interval}
}

// RequestFrame queues fn for the next frame.
func (s *ManualScheduler) RequestFrame(fn FrameFunc) {
	s.pending = append(s.pending, fn)
}

// Now returns the virtual clock.
func (s *ManualScheduler) Now() time.Time { return s.now }

// Pending returns the number of callbacks waiting for the next frame.
func (s *ManualScheduler) Pending() int { return len(s.pending) }

// Frames returns the number of frames run so far.
func (s *ManualScheduler) Frames() int { return s.frames }

// Advance moves the clock forward one frame and runs every callback queued
// before the call. Callbacks requested during the frame wait for the next
// one. It returns the number of callbacks run.
func (s *ManualScheduler) Advance() int {
	s.now = s.now.Add(s.interval)
	s.frames++
	batch := s.pending
	s.pending = nil
	for _, fn := range batch {
		fn(s.now)
	}
	return len(batch)
}

// RunUntilIdle advances frames until nothing is pending or maxFrames have
// run, and returns the number of frames run. maxFrames <= 0 means no limit.
func (s *ManualScheduler) RunUntilIdle(maxFrames int) int {
	n := 0
	for len(s.pending) > 0 && (maxFrames <= 0 || n < maxFrames) {
		s.Advance()
		n++
	}
	return n
}
