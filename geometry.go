package glint

import (
	"fmt"
	"time"
)

// MeasureKind selects which Measurement variant is populated.
type MeasureKind uint8

const (
	MeasureRegion MeasureKind = iota // screen-space rectangle
	MeasureLayout                    // layout inside an offscreen render surface
)

func (k MeasureKind) String() string {
	switch k {
	case MeasureRegion:
		return "region"
	case MeasureLayout:
		return "layout"
	default:
		return "unknown"
	}
}

// Layout is geometry measured inside an offscreen render surface: local
// position and size, plus the absolute page position of the content.
type Layout struct {
	Width, Height float64
	X, Y          float64
	PageX, PageY  float64
}

// Measurement is a tagged union of the two geometry variants. Exactly one is
// populated, selected by Kind; accessing the other is an invariant violation
// (panic in debug mode, stderr warning otherwise).
type Measurement struct {
	kind   MeasureKind
	region Rect
	layout Layout
}

// RegionMeasurement wraps a screen-space rectangle.
func RegionMeasurement(r Rect) Measurement {
	return Measurement{kind: MeasureRegion, region: r}
}

// LayoutMeasurement wraps offscreen layout geometry.
func LayoutMeasurement(l Layout) Measurement {
	return Measurement{kind: MeasureLayout, layout: l}
}

// Kind reports which variant is populated.
func (m Measurement) Kind() MeasureKind { return m.kind }

// Region returns the screen-space rectangle variant.
func (m Measurement) Region() Rect {
	if m.kind != MeasureRegion {
		invariant("Region() on a %v measurement", m.kind)
	}
	return m.region
}

// Layout returns the offscreen layout variant.
func (m Measurement) Layout() Layout {
	if m.kind != MeasureLayout {
		invariant("Layout() on a %v measurement", m.kind)
	}
	return m.layout
}

// drawRect returns the on-screen rectangle a measurement paints to. Layout
// measurements paint at their absolute page position.
func drawRect(m Measurement) Rect {
	if m.kind == MeasureLayout {
		l := m.layout
		return Rect{X: l.PageX, Y: l.PageY, Width: l.Width, Height: l.Height}
	}
	return m.region
}

// regionKey derives the geometric identity used to merge outlines: outlines
// over the same rectangle collapse into one. Region measurements key on
// top-left-width-height; layout measurements key on their absolute page
// position, so identical local layouts in different surfaces stay distinct.
func regionKey(m Measurement) string {
	switch m.kind {
	case MeasureRegion:
		r := m.region
		return fmt.Sprintf("%g-%g-%g-%g", r.Y, r.X, r.Width, r.Height)
	case MeasureLayout:
		l := m.layout
		return fmt.Sprintf("%g-%g-%g-%g", l.PageX, l.PageY, l.Width, l.Height)
	default:
		invariant("regionKey on measurement kind %d", m.kind)
		return ""
	}
}

// resolveInterval bounds how often a single target's geometry is queried.
// One resolve per target per interval, hits and misses alike.
const resolveInterval = 16 * time.Millisecond

type resolveEntry struct {
	m  Measurement
	ok bool
	at time.Time
}

// resolver computes current on-screen geometry for outline targets, applying
// the visibility filters and a short per-target cache so render bursts do
// not hammer the host's layout.
type resolver struct {
	viewport Rect
	cache    map[Target]resolveEntry
	now      func() time.Time
}

func newResolver(now func() time.Time) *resolver {
	return &resolver{
		cache: make(map[Target]resolveEntry),
		now:   now,
	}
}

// resolve returns the target's current measurement. ok is false for
// detached, hidden, zero-size, or fully off-screen targets; misses are
// expected churn and stay silent.
func (rs *resolver) resolve(target Target) (Measurement, bool) {
	if target == nil {
		return Measurement{}, false
	}
	now := rs.now()
	if e, hit := rs.cache[target]; hit && now.Sub(e.at) < resolveInterval {
		return e.m, e.ok
	}
	m, ok := target.Measure()
	if ok {
		ok = rs.visible(m)
	}
	rs.cache[target] = resolveEntry{m: m, ok: ok, at: now}
	return m, ok
}

// visible applies the zero-size and off-screen filters. An unset viewport
// (zero size) disables the off-screen filter.
func (rs *resolver) visible(m Measurement) bool {
	r := drawRect(m)
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	if rs.viewport.Width > 0 && rs.viewport.Height > 0 && !rs.viewport.Intersects(r) {
		return false
	}
	return true
}

// sweep drops expired cache entries. Called from flush ticks so the cache
// stays bounded without holding stale target references between resets.
func (rs *resolver) sweep() {
	now := rs.now()
	for t, e := range rs.cache {
		if now.Sub(e.at) >= resolveInterval {
			delete(rs.cache, t)
		}
	}
}

func (rs *resolver) reset() {
	clear(rs.cache)
}
