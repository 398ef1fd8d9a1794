package glint

import "reflect"

// AllowOptions configures one component-type registration.
type AllowOptions struct {
	// IncludeChildren also admits every descendant of a matching node.
	IncludeChildren bool
}

// allowTable is the registration side table that scopes detection to
// particular component types. An empty table admits everything. Each type
// gets a small stable ID at registration time; re-registering replaces the
// options but keeps the ID.
type allowTable struct {
	ids    map[any]uint32
	opts   map[uint32]AllowOptions
	nextID uint32
}

func newAllowTable() *allowTable {
	return &allowTable{
		ids:  make(map[any]uint32),
		opts: make(map[uint32]AllowOptions),
	}
}

func (t *allowTable) register(componentType any, opts AllowOptions) uint32 {
	if componentType == nil {
		panic("glint: cannot register nil component type")
	}
	if !reflect.TypeOf(componentType).Comparable() {
		panic("glint: component type must be comparable")
	}
	id, seen := t.ids[componentType]
	if !seen {
		t.nextID++
		id = t.nextID
		t.ids[componentType] = id
	}
	t.opts[id] = opts
	return id
}

func (t *allowTable) lookup(componentType any) (AllowOptions, bool) {
	if componentType == nil {
		return AllowOptions{}, false
	}
	if !reflect.TypeOf(componentType).Comparable() {
		return AllowOptions{}, false
	}
	id, ok := t.ids[componentType]
	if !ok {
		return AllowOptions{}, false
	}
	return t.opts[id], true
}

func (t *allowTable) empty() bool { return len(t.ids) == 0 }

func (t *allowTable) reset() {
	clear(t.ids)
	clear(t.opts)
	t.nextID = 0
}

// maxAllowWalk bounds the upward ancestor walk; a tree deeper than this (or
// a parent cycle) stops the search rather than looping.
const maxAllowWalk = 512

// allowed reports whether detection output for node should be emitted. With
// a non-empty table the node's own type must be registered, or some ancestor
// within the walk bound must be registered with IncludeChildren.
func (t *allowTable) allowed(node Node) bool {
	if t.empty() {
		return true
	}
	if _, ok := t.lookup(node.ComponentType()); ok {
		return true
	}
	hops := 0
	for p := node.Parent(); p != nil && hops < maxAllowWalk; p = p.Parent() {
		if opts, ok := t.lookup(p.ComponentType()); ok && opts.IncludeChildren {
			return true
		}
		hops++
	}
	return false
}
