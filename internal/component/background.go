package component

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	OrbCount = 8
	DotCount = 25

	// ShimmerInterval is how often dots get new opacity and scale.
	ShimmerInterval = 1500 * time.Millisecond

	// ParallaxFactor scales the pointer's distance from the viewport center
	// into an orb offset, in percent.
	ParallaxFactor = 0.02
)

var (
	orbColors = [2]string{"rgba(138, 157, 115, 0.15)", "rgba(245, 228, 193, 0.15)"}
	dotColors = [3]string{"#8a9d73", "#a8b895", "#e6bc6a"}
)

// Orb is a large blurred shape that drifts with the pointer.
type Orb struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
	Color   string  `json:"color"`
}

// Dot is a small shape whose opacity and scale shimmer over time.
type Dot struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
	Scale   float64 `json:"scale"`
}

// Color returns the dot's fill, fixed by its ID.
func (d Dot) Color() string { return dotColors[d.ID%len(dotColors)] }

// Pointer is a pointer position in percent of the viewport.
type Pointer struct {
	X float64
	Y float64
}

// Center is the pointer position used before any pointer input.
var Center = Pointer{X: 50, Y: 50}

// PointerFromViewport converts client coordinates into a Pointer. The page
// script repeats this and Parallax on every mousemove; the server only draws
// the first frame, at Center.
func PointerFromViewport(clientX, clientY, width, height float64) Pointer {
	if width <= 0 || height <= 0 {
		return Center
	}
	return Pointer{X: clientX / width * 100, Y: clientY / height * 100}
}

// Parallax returns where the orb is drawn for pointer p.
func (o Orb) Parallax(p Pointer) (x, y float64) {
	return o.X + (p.X-50)*ParallaxFactor, o.Y + (p.Y-50)*ParallaxFactor
}

// Background is the decorative layer: a fixed set of orbs and dots created
// once and shimmered on a timer.
type Background struct {
	rng  *rand.Rand
	orbs []Orb
	dots []Dot
}

// NewBackground generates the shapes from rng. A nil rng uses a randomly
// seeded source.
func NewBackground(rng *rand.Rand) *Background {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	b := &Background{rng: rng}

	b.orbs = make([]Orb, OrbCount)
	for i := range b.orbs {
		b.orbs[i] = Orb{
			ID:      i,
			X:       rng.Float64() * 100,
			Y:       rng.Float64() * 100,
			Size:    rng.Float64()*80 + 40,
			Opacity: rng.Float64()*0.15 + 0.05,
			Color:   orbColors[i%len(orbColors)],
		}
	}

	b.dots = make([]Dot, DotCount)
	for i := range b.dots {
		b.dots[i] = Dot{
			ID:      i,
			X:       rng.Float64() * 100,
			Y:       rng.Float64() * 100,
			Opacity: dotOpacity(rng),
			Scale:   dotScale(rng),
		}
	}
	return b
}

func dotOpacity(rng *rand.Rand) float64 { return rng.Float64()*0.7 + 0.2 }
func dotScale(rng *rand.Rand) float64   { return rng.Float64()*0.8 + 0.4 }

// Orbs returns a copy of the orbs.
func (b *Background) Orbs() []Orb { return append([]Orb(nil), b.orbs...) }

// Dots returns a copy of the dots.
func (b *Background) Dots() []Dot { return append([]Dot(nil), b.dots...) }

// Shimmer gives every dot a new opacity and scale. Positions never change.
func (b *Background) Shimmer() {
	for i := range b.dots {
		b.dots[i].Opacity = dotOpacity(b.rng)
		b.dots[i].Scale = dotScale(b.rng)
	}
}

// Run shimmers the dots every interval and passes each new frame to emit,
// until ctx is done. A non-positive interval means ShimmerInterval.
func (b *Background) Run(ctx context.Context, interval time.Duration, emit func([]Dot)) {
	if interval <= 0 {
		interval = ShimmerInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Shimmer()
			emit(b.Dots())
		}
	}
}
