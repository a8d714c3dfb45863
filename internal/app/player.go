package app

import (
	"apviz/internal/core"
	"apviz/internal/frame"
)

// Player tracks the current frame and autoplay state of a viewer.
type Player struct {
	frames  *frame.Collection
	index   int
	playing bool
	loop    bool
	clock   *core.FixedStep
}

// NewPlayer starts at index; a negative or out-of-range index selects the
// last frame.
func NewPlayer(frames *frame.Collection, index, fps int, loop bool) *Player {
	p := &Player{frames: frames, loop: loop, clock: core.NewFixedStep(fps)}
	p.Seek(index)
	return p
}

// Index is the frame currently shown.
func (p *Player) Index() int { return p.index }

// Frame returns the current frame, or nil for an empty collection.
func (p *Player) Frame() *frame.Frame { return p.frames.ByIndex(p.index) }

// Len is the number of frames.
func (p *Player) Len() int { return p.frames.Len() }

// Playing reports whether autoplay is on.
func (p *Player) Playing() bool { return p.playing }

// Toggle flips autoplay.
func (p *Player) Toggle() {
	p.playing = !p.playing
	p.clock.Restart()
}

// Seek moves to index, clamped to the collection.
func (p *Player) Seek(index int) {
	n := p.frames.Len()
	if index < 0 || index >= n {
		index = n - 1
	}
	p.index = max(index, 0)
}

// Next advances one frame. It reports false at the last frame unless looping.
func (p *Player) Next() bool {
	switch {
	case p.index < p.frames.Len()-1:
		p.index++
	case p.loop && p.frames.Len() > 0:
		p.index = 0
	default:
		return false
	}
	return true
}

// Prev goes back one frame.
func (p *Player) Prev() bool {
	if p.index == 0 {
		return false
	}
	p.index--
	return true
}

// Tick advances when autoplay is due. Playback stops at the last frame
// unless looping.
func (p *Player) Tick() {
	if p.playing && p.clock.ShouldStep() {
		p.advance()
	}
}

func (p *Player) advance() {
	if !p.Next() {
		p.playing = false
	}
}
