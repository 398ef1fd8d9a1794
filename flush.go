package glint

// maxFlushPasses bounds how many two-phase passes one flush chain may run.
// When the budget runs out with work still queued, the chain ends and a
// fresh one (with a fresh painted set) starts on the next tick.
const maxFlushPasses = 10

// enqueueOutline resolves the render's target and queues it for the next
// flush. Unresolvable targets (hidden, detached, zero-size, off-screen) drop
// silently; the render was still reported. Repeat events for a target that
// is already queued append to its render list.
func (e *Engine) enqueueOutline(target Target, r Render) {
	m, ok := e.geom.resolve(target)
	if !ok {
		return
	}
	if po := e.pendingIndex[target]; po != nil {
		po.Renders = append(po.Renders, r)
		po.Measurement = m
		return
	}
	po := &PendingOutline{
		Target:      target,
		Measurement: m,
		Renders:     []Render{r},
	}
	e.pending = append(e.pending, po)
	e.pendingIndex[target] = po
	e.scheduleFlush()
}

func (e *Engine) scheduleFlush() {
	if e.flushQueued {
		return
	}
	e.flushQueued = true
	e.requestTick(e.flushTick)
}

// takePending hands ownership of the queued outlines to the flush.
func (e *Engine) takePending() []*PendingOutline {
	batch := e.pending
	e.pending = nil
	clear(e.pendingIndex)
	return batch
}

// flushTick drains the outline work queue across two frame ticks per pass.
//
// The first tick of a pass snapshots the queue and refreshes geometry for
// the snapshot and for every still-active outline (targets move between
// queueing and flushing). The second tick absorbs whatever arrived in
// between, merges both batches by region key, and activates everything not
// already painted this chain. Passes keep chaining while work keeps
// arriving, up to maxFlushPasses per chain.
func (e *Engine) flushTick() {
	e.flushQueued = false

	if e.phase1 == nil {
		if len(e.pending) == 0 {
			e.endFlushChain()
			return
		}
		e.phase1 = e.refreshPending(e.takePending())
		e.refreshActive()
		e.geom.sweep()
		e.scheduleFlush()
		return
	}

	second := e.takePending()
	merged := mergeByKey(e.phase1, second)
	e.phase1 = nil

	for _, po := range merged {
		key := regionKey(po.Measurement)
		if e.painted[key] {
			e.flushStats.dropped++
			continue
		}
		e.painted[key] = true
		e.activateOutline(key, po)
	}
	e.flushStats.passCount++

	if len(e.pending) > 0 && e.flushStats.passCount < maxFlushPasses {
		e.scheduleFlush()
		return
	}
	e.endFlushChain()
}

// endFlushChain closes the current chain: the painted set and pass budget
// reset, and any work that arrived too late for this chain starts a new one.
func (e *Engine) endFlushChain() {
	e.debugLogFlush(e.flushStats)
	e.flushStats = debugStats{}
	clear(e.painted)
	if len(e.pending) > 0 {
		e.scheduleFlush()
	}
}

// refreshPending re-resolves geometry for a taken batch. Entries whose
// target no longer resolves are dropped before they ever paint. The returned
// slice is non-nil, empty or not: phase-1 state is "taken", even when
// everything vanished.
func (e *Engine) refreshPending(batch []*PendingOutline) []*PendingOutline {
	kept := batch[:0:len(batch)]
	for _, po := range batch {
		m, ok := e.geom.resolve(po.Target)
		if !ok {
			continue
		}
		po.Measurement = m
		kept = append(kept, po)
	}
	return kept
}

// activateOutline merges a flushed outline into the active set: an existing
// outline on the same key restarts its fade with the renders appended; a new
// key starts fresh. Paint callbacks and sound fire per activation.
func (e *Engine) activateOutline(key string, po *PendingOutline) {
	now := e.now()
	o := e.active[key]
	if o != nil {
		o.Outline.Renders = append(o.Outline.Renders, po.Renders...)
		o.Outline.Measurement = po.Measurement
		o.Outline.Target = po.Target
		o.Frame = 0
		o.UpdatedAt = now
		e.flushStats.merged++
	} else {
		o = &ActiveOutline{
			Outline:   *po,
			ID:        key,
			UpdatedAt: now,
		}
		e.active[key] = o
		e.activeOrder = append(e.activeOrder, o)
	}
	e.flushStats.flushed++

	if e.opts.OnPaintStart != nil {
		e.opts.OnPaintStart(o)
	}
	if e.opts.PlaySound && e.opts.Audio != nil {
		e.opts.Audio.RenderTick(o.renderCount(), hasRecentRepeatedRenders(o, now, e.opts.ResetCountTimeout))
	}
	e.store.Set(StoreOutlines, len(e.activeOrder))
	e.startAnimator()
}
