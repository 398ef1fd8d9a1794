package glint

import "time"

// CommitHook is the host runtime's commit notification callback. The host
// invokes it once per committed update with the runtime instance ID and the
// committed root.
type CommitHook func(runtimeID uint32, root CommitRoot)

// Host bridges glint to a concrete scene-graph runtime. The hook accessors
// let Attach chain onto (and Detach restore) whatever hook was already
// installed.
type Host interface {
	// CommitHook returns the currently installed hook, or nil.
	CommitHook() CommitHook
	// SetCommitHook replaces the installed hook.
	SetCommitHook(CommitHook)
	// IsElement reports whether v is one of the host's own tree elements.
	// Element-valued properties churn every pass by construction, so the
	// detector skips them.
	IsElement(v any) bool
	// Production reports whether the host runs in a production environment.
	Production() bool
}

// CommitRoot is one committed update: the root of the committed tree plus
// the nodes the host marked as sources of the update.
type CommitRoot interface {
	// Node returns the root node of the committed tree.
	Node() Node
	// Updaters returns the trigger set. Nil when the host does not track it.
	Updaters() []Node
}

// ContextDep is one shared-state dependency of a node: the memoized value
// before and after the commit.
type ContextDep struct {
	Prev, Next any
}

// Node is one element of the host's committed tree, as seen by the
// classifier. Implementations must be comparable (pointer receivers are the
// norm); glint uses node identity for visited sets and geometry caching.
type Node interface {
	Target

	// ComponentType returns the node's component-type identity, used for
	// allow-list registration lookups. Nil when the node has no registrable
	// type. The value must be comparable.
	ComponentType() any
	// TypeName returns the component's display name, or "" when the node
	// cannot be named. Unnameable nodes are never classified.
	TypeName() string
	// Parent returns the parent node, or nil at the root.
	Parent() Node
	// Children returns the node's children in tree order.
	Children() []Node
	// Rendered reports whether this node actually re-rendered in the
	// current commit.
	Rendered() bool
	// SelfTime returns time spent rendering this node itself, or 0 when the
	// host keeps no timing.
	SelfTime() time.Duration
	// PrevProps returns the property snapshot from before the commit. Nil
	// means there is nothing to diff (first mount).
	PrevProps() map[string]any
	// Props returns the committed property snapshot.
	Props() map[string]any
	// ContextDeps returns the node's shared-state dependencies. Nil means
	// the node uses none; an empty non-nil slice means it does, unchanged.
	ContextDeps() []ContextDep
	// CompiledMemo reports whether the node's updates are already memoized
	// by a build-time compiler. Surfaced in labels only.
	CompiledMemo() bool
}

// Target is anything whose on-screen geometry can be measured. Every Node is
// a Target; the outline pipeline only needs this narrow view.
type Target interface {
	// Measure reports the target's current geometry. ok is false for
	// detached or hidden targets.
	Measure() (Measurement, bool)
}

// Ticker schedules a callback for the platform's next visual-refresh tick.
// The Engine's built-in ticker queues callbacks for Engine.Update; tests
// substitute a manual pump.
type Ticker interface {
	RequestTick(fn func())
}

// AudioSink receives one tick per outline activation when Options.PlaySound
// is set. Rapid re-renders make for a busy geiger counter.
type AudioSink interface {
	RenderTick(count int, unstable bool)
}

// RenderSink is the interface for optional ECS integration. Every classified
// render is forwarded as one RenderEvent.
type RenderSink interface {
	EmitRender(RenderEvent)
}

// RenderEvent is a render record paired with the node it landed on, as
// delivered to a RenderSink.
type RenderEvent struct {
	Target Target
	Render Render
}
