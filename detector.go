package glint

import (
	"sort"
	"time"
)

// RenderKind distinguishes what caused a node to re-render.
type RenderKind uint8

const (
	RenderProps   RenderKind = iota // node properties changed (or parent re-rendered)
	RenderContext                   // a shared-state dependency changed
)

func (k RenderKind) String() string {
	switch k {
	case RenderProps:
		return "props"
	case RenderContext:
		return "context"
	default:
		return "unknown"
	}
}

// Change records one changed input of a re-rendered node.
type Change struct {
	// Name is the property name, or "" for shared-state dependencies.
	Name string
	Prev any
	Next any
	// Unstable marks a change whose previous and next values are
	// semantically equal but freshly allocated: the re-created closure or
	// literal that defeats memoization downstream.
	Unstable bool
}

// Render describes one detected re-render of one node in one commit.
type Render struct {
	Kind          RenderKind
	ComponentName string
	SelfTime      time.Duration // 0 when the host keeps no timing
	Count         int           // starts at 1; summed when events aggregate
	Trigger       bool          // node was an update source for this commit
	CompiledMemo  bool          // node's updates are compiler-memoized
	Changes       []Change
}

// propsKeyChildren is the conventional property slot for nested child
// content. Child content changes on almost every pass by construction, so
// diffing it produces pure noise.
const propsKeyChildren = "children"

// detectPropsChange diffs two property snapshots. ok is false when prev is
// nil — nothing to diff, as on first mount — which is distinct from a
// successful diff with no changes. Changes come back in key order.
//
// A key produces no Change when the values are identity-equal, when either
// value is a host element (isElement), or when the key is the children slot.
func detectPropsChange(prev, next map[string]any, isElement func(any) bool) ([]Change, bool) {
	if prev == nil {
		return nil, false
	}
	keys := make([]string, 0, len(prev)+len(next))
	for k := range prev {
		keys = append(keys, k)
	}
	for k := range next {
		if _, dup := prev[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var changes []Change
	for _, k := range keys {
		if k == propsKeyChildren {
			continue
		}
		pv, nv := prev[k], next[k]
		if identityEqual(pv, nv) {
			continue
		}
		if isElement != nil && (isElement(pv) || isElement(nv)) {
			continue
		}
		changes = append(changes, Change{
			Name:     k,
			Prev:     pv,
			Next:     nv,
			Unstable: looksUnstable(pv, nv),
		})
	}
	return changes, true
}

// detectContextChange diffs a node's shared-state dependencies. ok is false
// when the node uses none (nil dependency list), which is distinct from
// "uses shared state, nothing changed".
func detectContextChange(node Node) ([]Change, bool) {
	deps := node.ContextDeps()
	if deps == nil {
		return nil, false
	}
	var changes []Change
	for _, dep := range deps {
		if identityEqual(dep.Prev, dep.Next) {
			continue
		}
		changes = append(changes, Change{
			Prev:     dep.Prev,
			Next:     dep.Next,
			Unstable: looksUnstable(dep.Prev, dep.Next),
		})
	}
	return changes, true
}
