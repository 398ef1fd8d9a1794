package glint

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// PendingOutline is a queued, not-yet-painted outline: a target, its most
// recent measurement, and the renders that produced it. Renders is never
// empty.
type PendingOutline struct {
	Target      Target
	Measurement Measurement
	Renders     []Render
}

// ActiveOutline is an outline the animator is currently fading out. The
// animator mutates it in place; when a later render lands on the same region
// key before the fade completes, the renders are appended and Frame resets
// to 0.
type ActiveOutline struct {
	Outline     PendingOutline
	ID          string // region key; merge identity
	Alpha       float64
	Frame       int
	TotalFrames int
	Color       RGB
	Text        string // "" = no label
	UpdatedAt   time.Time
	OnComplete  func()
}

// renderCount sums the occurrence counts of every render on the outline.
func (o *ActiveOutline) renderCount() int {
	n := 0
	for i := range o.Outline.Renders {
		n += o.Outline.Renders[i].Count
	}
	return n
}

// mergeByKey folds the two flush phases into one ordered list, collapsing
// outlines that share a region key: renders concatenate, the latest
// measurement and target win.
func mergeByKey(first, second []*PendingOutline) []*PendingOutline {
	merged := make([]*PendingOutline, 0, len(first)+len(second))
	index := make(map[string]*PendingOutline, len(first)+len(second))
	add := func(po *PendingOutline) {
		key := regionKey(po.Measurement)
		if existing := index[key]; existing != nil {
			existing.Renders = append(existing.Renders, po.Renders...)
			existing.Measurement = po.Measurement
			existing.Target = po.Target
			return
		}
		index[key] = po
		merged = append(merged, po)
	}
	for _, po := range first {
		add(po)
	}
	for _, po := range second {
		add(po)
	}
	return merged
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerpColor interpolates start→end per channel with t clamped to [0, 1],
// rounding each channel to the nearest integer.
func lerpColor(start, end RGB, t float64) RGB {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return RGB{
		R: uint8(math.Round(lerp(float64(start.R), float64(end.R), t))),
		G: uint8(math.Round(lerp(float64(start.G), float64(end.G), t))),
		B: uint8(math.Round(lerp(float64(start.B), float64(end.B), t))),
	}
}

// labelMaxRunes caps label text; one more rune (the ellipsis) may follow.
const labelMaxRunes = 20

// labelText builds an outline label: renders grouped by component name,
// counts summed, flags OR-ed. Groups sort by count descending, name
// ascending on ties. Each part reads "Name ×N" (the count omitted when
// N ≤ 1), with a ⚡ prefix for update sources and a ✨ suffix for
// compiler-memoized components. Parts join with single spaces and the whole
// string truncates to labelMaxRunes runes plus an ellipsis.
func labelText(renders []Render) string {
	type group struct {
		name         string
		count        int
		trigger      bool
		compiledMemo bool
	}
	byName := make(map[string]*group, len(renders))
	order := make([]*group, 0, len(renders))
	for i := range renders {
		r := &renders[i]
		g := byName[r.ComponentName]
		if g == nil {
			g = &group{name: r.ComponentName}
			byName[r.ComponentName] = g
			order = append(order, g)
		}
		g.count += r.Count
		g.trigger = g.trigger || r.Trigger
		g.compiledMemo = g.compiledMemo || r.CompiledMemo
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].name < order[j].name
	})

	var b strings.Builder
	for i, g := range order {
		if i > 0 {
			b.WriteByte(' ')
		}
		if g.trigger {
			b.WriteString("⚡")
		}
		b.WriteString(g.name)
		if g.count > 1 {
			b.WriteString(" ×")
			b.WriteString(strconv.Itoa(g.count))
		}
		if g.compiledMemo {
			b.WriteString("✨")
		}
	}
	return truncateRunes(b.String(), labelMaxRunes)
}

// truncateRunes caps s at max runes, appending an ellipsis when truncated.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
