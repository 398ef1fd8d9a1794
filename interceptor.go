package glint

// Attach installs the commit hook on host, chaining any pre-existing hook:
// the previous hook still runs first on every commit. On a host that
// reports a production environment, Attach refuses (and logs) unless
// Options.RunInProduction is set.
func (e *Engine) Attach(host Host) {
	if host == nil {
		panic("glint: Attach with nil host")
	}
	if e.attached {
		panic("glint: engine already attached")
	}
	if host.Production() && !e.opts.RunInProduction {
		logf("production host; detection stays off (set RunInProduction to override)")
		return
	}
	e.host = host
	e.prevHook = host.CommitHook()
	prev := e.prevHook
	host.SetCommitHook(func(runtimeID uint32, root CommitRoot) {
		if prev != nil {
			prev(runtimeID, root)
		}
		e.onCommit(runtimeID, root)
	})
	e.attached = true
}

// Detach restores the host's original commit hook. Safe to call when not
// attached.
func (e *Engine) Detach() {
	if !e.attached {
		return
	}
	e.host.SetCommitHook(e.prevHook)
	e.prevHook = nil
	e.host = nil
	e.attached = false
}

// Attached reports whether the engine currently hooks a host.
func (e *Engine) Attached() bool { return e.attached }

// onCommit scans one committed tree. Any panic out of host accessors or out
// of classification itself is recovered, logged, and swallowed:
// instrumentation must never take the host down with it.
func (e *Engine) onCommit(runtimeID uint32, root CommitRoot) {
	if !e.enabled || e.paused {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logf("commit scan failed (runtime %d): %v", runtimeID, r)
		}
	}()
	if root == nil || root.Node() == nil {
		return
	}

	start := e.now()
	clear(e.scanVisited)

	if e.opts.OnCommitStart != nil {
		e.opts.OnCommitStart()
	}

	// Trigger sources first, so the full walk below sees them as visited
	// and leaves their Trigger flag intact.
	for _, n := range root.Updaters() {
		e.classifyNode(n, true)
	}
	e.walkCommit(root.Node())

	if e.opts.OnCommitFinish != nil {
		e.opts.OnCommitFinish()
	}

	elapsed := e.now().Sub(start)
	if elapsed > e.opts.LongTaskThreshold {
		if e.debug {
			logf("commit scan (runtime %d) took %v, threshold %v", runtimeID, elapsed, e.opts.LongTaskThreshold)
		}
		if e.opts.OnLongTask != nil {
			e.opts.OnLongTask(elapsed)
		}
	}
}

// walkCommit classifies the committed tree depth-first.
func (e *Engine) walkCommit(n Node) {
	if n == nil {
		return
	}
	e.classifyNode(n, false)
	for _, c := range n.Children() {
		e.walkCommit(c)
	}
}

// classifyNode runs both diff passes on one node and emits a render event
// per pass that had something to diff. Unnameable nodes, nodes that did not
// render this commit, and nodes outside the allow list are skipped.
func (e *Engine) classifyNode(n Node, trigger bool) {
	if n == nil || e.scanVisited[n] {
		return
	}
	e.scanVisited[n] = true

	name := n.TypeName()
	if name == "" {
		return
	}
	if !n.Rendered() {
		return
	}
	if !e.allow.allowed(n) {
		return
	}

	if changes, ok := detectPropsChange(n.PrevProps(), n.Props(), e.host.IsElement); ok {
		e.emitRender(n, Render{
			Kind:          RenderProps,
			ComponentName: name,
			SelfTime:      n.SelfTime(),
			Count:         1,
			Trigger:       trigger,
			CompiledMemo:  n.CompiledMemo(),
			Changes:       changes,
		})
	}
	if changes, ok := detectContextChange(n); ok {
		e.emitRender(n, Render{
			Kind:          RenderContext,
			ComponentName: name,
			SelfTime:      n.SelfTime(),
			Count:         1,
			Trigger:       trigger,
			CompiledMemo:  n.CompiledMemo(),
			Changes:       changes,
		})
	}
}

// emitRender delivers one render event: log, report, outline pipeline, the
// ECS sink, then the consumer callback.
func (e *Engine) emitRender(target Target, r Render) {
	if e.opts.Log {
		logf("%s re-rendered (%s, %d change(s), self %v)",
			r.ComponentName, r.Kind, len(r.Changes), r.SelfTime)
	}
	if e.opts.Report {
		e.rep.add(r)
	}
	e.enqueueOutline(target, r)
	if e.sink != nil {
		e.sink.EmitRender(RenderEvent{Target: target, Render: r})
	}
	if e.opts.OnRender != nil {
		e.opts.OnRender(target, r)
	}
}
