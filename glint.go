package glint

import (
	"time"

	"github.com/tanema/gween/ease"
)

// RGB is an 8-bit color without alpha. Outline alpha is animated separately
// by the fade loop.
type RGB struct {
	R, G, B uint8
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Defaults applied by New to zero-valued numeric options.
const (
	DefaultLongTaskThreshold = 50 * time.Millisecond
	DefaultResetCountTimeout = 5 * time.Second
	DefaultMaxRenders        = 20
)

// Default fade colors: violet for sparse renders, shading toward magenta as
// the render count approaches MaxRenders.
var (
	DefaultStartColor = RGB{R: 115, G: 97, B: 230}
	DefaultEndColor   = RGB{R: 185, G: 49, B: 115}
)

// Options configures an Engine. Start from DefaultOptions: the zero value
// has detection disabled. Numeric fields left at zero are normalized to the
// package defaults by New.
type Options struct {
	// Enabled turns commit classification on. SetEnabled flips it at runtime.
	Enabled bool

	// IncludeChildren is the default "include descendants" flag applied by
	// Engine.Register when no explicit AllowOptions are given.
	IncludeChildren bool

	// RunInProduction permits attaching to a host that reports a production
	// environment. Off by default: glint is a development tool.
	RunInProduction bool

	// PlaySound forwards each outline activation to the Audio sink.
	PlaySound bool

	// Log writes one stderr line per detected render.
	Log bool

	// ShowToolbar is published through the engine's Store for external
	// chrome; glint itself draws no toolbar.
	ShowToolbar bool

	// Report accumulates per-component render history (Engine.Report).
	Report bool

	// LongTaskThreshold is the commit-scan duration above which OnLongTask
	// fires.
	LongTaskThreshold time.Duration

	// ResetCountTimeout is the quiet period after which repeated renders on
	// an outline stop counting as unstable.
	ResetCountTimeout time.Duration

	// MaxRenders is the render count at which the outline color saturates
	// at EndColor.
	MaxRenders int

	// StartColor and EndColor bound the render-count color interpolation.
	// Leaving both zero selects the package defaults.
	StartColor RGB
	EndColor   RGB

	// FadeEase shapes the outline fade. Nil selects ease.Linear, which gives
	// alpha = base × (1 − frame/totalFrames).
	FadeEase ease.TweenFunc

	// Audio receives geiger-style render ticks when PlaySound is set.
	Audio AudioSink

	// OnLongTask fires when a commit scan exceeds LongTaskThreshold.
	OnLongTask func(d time.Duration)

	// Consumer callbacks, invoked per commit in strict order:
	// OnCommitStart, then OnRender for every emitted render, then
	// OnCommitFinish. OnPaintStart/OnPaintFinish bracket each outline's time
	// on screen.
	OnCommitStart  func()
	OnRender       func(target Target, r Render)
	OnCommitFinish func()
	OnPaintStart   func(o *ActiveOutline)
	OnPaintFinish  func(o *ActiveOutline)
}

// DefaultOptions returns the standard configuration: detection enabled,
// descendants included, sound/log/report off, toolbar flag on.
func DefaultOptions() Options {
	return Options{
		Enabled:           true,
		IncludeChildren:   true,
		ShowToolbar:       true,
		LongTaskThreshold: DefaultLongTaskThreshold,
		ResetCountTimeout: DefaultResetCountTimeout,
		MaxRenders:        DefaultMaxRenders,
		StartColor:        DefaultStartColor,
		EndColor:          DefaultEndColor,
	}
}

// Keys published through the engine's Store for external chrome.
const (
	StoreEnabled  = "enabled"
	StorePaused   = "paused"
	StoreToolbar  = "toolbar"
	StoreOutlines = "outlines"
)
