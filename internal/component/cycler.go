package component

import (
	"context"
	"time"
)

const (
	// CycleInterval is the time each label stays up.
	CycleInterval = 2500 * time.Millisecond

	// FadeWindow is how long a label is hidden while it changes. It must stay
	// shorter than CycleInterval.
	FadeWindow = 250 * time.Millisecond
)

// Frame is one observable state of a Cycler.
type Frame struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	Animating bool   `json:"animating"`
}

// Cycler rotates through a fixed list of labels. Each cycle has two steps:
// Begin hides the current label, Advance moves to the next one and shows it.
type Cycler struct {
	labels    []string
	index     int
	animating bool
}

// NewCycler returns a cycler showing the first of labels. labels must not be
// empty.
func NewCycler(labels []string) *Cycler {
	return &Cycler{labels: labels}
}

// NewCyclerAt returns a cycler showing labels[index], so a reconnecting
// client continues where it was. Indexes outside the list start at 0.
func NewCyclerAt(labels []string, index int) *Cycler {
	c := NewCycler(labels)
	if index >= 0 && index < len(labels) {
		c.index = index
	}
	return c
}

// Frame returns the current state.
func (c *Cycler) Frame() Frame {
	return Frame{Index: c.index, Label: c.labels[c.index], Animating: c.animating}
}

// Begin starts the fade-out of the current label.
func (c *Cycler) Begin() Frame {
	c.animating = true
	return c.Frame()
}

// Advance moves to the next label, wrapping at the end, and ends the fade.
func (c *Cycler) Advance() Frame {
	c.index = (c.index + 1) % len(c.labels)
	c.animating = false
	return c.Frame()
}

// Run drives the cycle until ctx is done: every interval it emits the Begin
// frame, then after fade the Advance frame. Non-positive durations fall back
// to CycleInterval and FadeWindow; a fade not shorter than interval is
// clamped to half of it.
func (c *Cycler) Run(ctx context.Context, interval, fade time.Duration, emit func(Frame)) {
	if interval <= 0 {
		interval = CycleInterval
	}
	if fade <= 0 {
		fade = FadeWindow
	}
	if fade >= interval {
		fade = interval / 2
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fadeTimer := time.NewTimer(fade)
	fadeTimer.Stop()
	defer fadeTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit(c.Begin())
			fadeTimer.Reset(fade)
		case <-fadeTimer.C:
			emit(c.Advance())
		}
	}
}
