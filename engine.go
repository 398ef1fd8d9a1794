package glint

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// Engine owns every piece of glint state: options, the observer store, the
// allow table, the geometry resolver, the outline queues, the animator, and
// the overlay surface. Create one with New, hook it up with Attach, and
// drive it from the game loop with Update and Draw.
//
// There is no global state beyond the debug mirror; init and reset are
// explicit, and everything hangs off the Engine by reference.
//
// No atomics, no locks — glint is single-threaded. The commit hook and the
// frame ticks all run on the host's update goroutine.
type Engine struct {
	opts    Options
	fade    ease.TweenFunc
	debug   bool
	enabled bool
	paused  bool

	// Host hook state.
	host     Host
	prevHook CommitHook
	attached bool

	// Optional ECS bridge.
	sink RenderSink

	// Subsystems.
	store *Store
	allow *allowTable
	geom  *resolver
	rep   *report

	// Clock; swapped in tests.
	now func() time.Time

	// Frame scheduling. A nil ticker uses the internal queue drained by
	// Update.
	ticker    Ticker
	tickQueue []func()

	// Commit scan scratch.
	scanVisited map[Node]bool

	// Outline scheduling.
	pending      []*PendingOutline
	pendingIndex map[Target]*PendingOutline
	phase1       []*PendingOutline
	painted      map[string]bool
	flushQueued  bool
	flushStats   debugStats

	// Animation.
	active      map[string]*ActiveOutline
	activeOrder []*ActiveOutline
	animating   bool
	drawList    []outlineDraw

	// Painting.
	overlay      *ebiten.Image
	viewW, viewH int
	fillVerts    []ebiten.Vertex
	fillInds     []uint32
	strokeVerts  []ebiten.Vertex
	strokeInds   []uint32
	labelCache   map[string]*ebiten.Image
}

// New creates an engine. Zero-valued numeric options are normalized to the
// package defaults; a nil FadeEase becomes ease.Linear.
func New(opts Options) *Engine {
	if opts.LongTaskThreshold <= 0 {
		opts.LongTaskThreshold = DefaultLongTaskThreshold
	}
	if opts.ResetCountTimeout <= 0 {
		opts.ResetCountTimeout = DefaultResetCountTimeout
	}
	if opts.MaxRenders <= 0 {
		opts.MaxRenders = DefaultMaxRenders
	}
	var zero RGB
	if opts.StartColor == zero && opts.EndColor == zero {
		opts.StartColor = DefaultStartColor
		opts.EndColor = DefaultEndColor
	}
	fade := opts.FadeEase
	if fade == nil {
		fade = ease.Linear
	}

	e := &Engine{
		opts:         opts,
		fade:         fade,
		enabled:      opts.Enabled,
		store:        newStore(),
		allow:        newAllowTable(),
		rep:          newReport(),
		now:          time.Now,
		scanVisited:  make(map[Node]bool),
		pendingIndex: make(map[Target]*PendingOutline),
		painted:      make(map[string]bool),
		active:       make(map[string]*ActiveOutline),
		labelCache:   make(map[string]*ebiten.Image),
	}
	e.geom = newResolver(func() time.Time { return e.now() })
	e.publishState()
	return e
}

// SetEnabled turns commit classification on or off. Outlines already on
// screen finish their fade either way.
func (e *Engine) SetEnabled(v bool) {
	e.enabled = v
	e.publishState()
}

// Enabled reports whether commits are being classified.
func (e *Engine) Enabled() bool { return e.enabled && !e.paused }

// SetPaused suspends classification without touching the enabled flag.
// Animations in flight run to completion.
func (e *Engine) SetPaused(v bool) {
	e.paused = v
	e.publishState()
}

// Paused reports the pause flag.
func (e *Engine) Paused() bool { return e.paused }

// SetDebugMode enables or disables debug mode. When enabled, broken internal
// invariants panic instead of logging, and flush/commit diagnostics are
// printed to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
	globalDebug = enabled
}

// SetRenderSink sets the optional ECS bridge. Each classified render is
// forwarded to it as a RenderEvent; nil disconnects.
func (e *Engine) SetRenderSink(s RenderSink) { e.sink = s }

// Store returns the engine's observer registry. External chrome subscribes
// here for the enabled/paused flags and the live outline count.
func (e *Engine) Store() *Store { return e.store }

// Options returns the normalized options the engine runs with.
func (e *Engine) Options() Options { return e.opts }

// Register scopes detection to componentType, applying the engine's
// IncludeChildren default. The first registration switches the engine from
// watch-everything to allow-list mode.
func (e *Engine) Register(componentType any) {
	e.allow.register(componentType, AllowOptions{IncludeChildren: e.opts.IncludeChildren})
}

// RegisterWith is Register with explicit per-type options.
func (e *Engine) RegisterWith(componentType any, opts AllowOptions) {
	e.allow.register(componentType, opts)
}

// Report returns the aggregate per-component render history. Empty unless
// Options.Report is set. The returned map MUST NOT be mutated.
func (e *Engine) Report() map[string]*ReportEntry {
	return e.rep.entries
}

// ActiveOutlineCount returns the number of outlines currently fading.
func (e *Engine) ActiveOutlineCount() int { return len(e.activeOrder) }

// Reset returns the engine to its freshly-initialized state: the host hook
// restored, queues and caches emptied, registrations and report dropped,
// store listeners gone. The overlay surface is cleared but kept; its size
// still matches the viewport.
func (e *Engine) Reset() {
	e.Detach()
	e.sink = nil

	e.pending = nil
	clear(e.pendingIndex)
	e.phase1 = nil
	clear(e.painted)
	e.flushQueued = false
	e.flushStats = debugStats{}

	clear(e.active)
	e.activeOrder = nil
	e.animating = false
	e.drawList = nil

	e.geom.reset()
	e.allow.reset()
	e.rep.reset()
	e.store.Reset()

	e.tickQueue = nil
	clear(e.scanVisited)
	clear(e.labelCache)
	if e.overlay != nil {
		e.overlay.Clear()
	}

	e.enabled = e.opts.Enabled
	e.paused = false
	e.publishState()
}

func (e *Engine) publishState() {
	e.store.Set(StoreEnabled, e.enabled)
	e.store.Set(StorePaused, e.paused)
	e.store.Set(StoreToolbar, e.opts.ShowToolbar)
}
