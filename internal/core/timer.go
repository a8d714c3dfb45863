package core

import "time"

// FixedStep paces frame playback at a steady number of frames per second.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting fps.
func NewFixedStep(fps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetRate(fps)
	return fs
}

// SetRate changes the playback rate. Non-positive rates fall back to 2 fps.
func (f *FixedStep) SetRate(fps int) {
	if fps <= 0 {
		fps = 2
	}
	f.step = time.Second / time.Duration(fps)
}

// Restart drops any accumulated time, so the next step is a full interval away.
func (f *FixedStep) Restart() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStep reports whether playback should advance by one frame.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
