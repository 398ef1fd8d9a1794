// Package glint is a re-render profiler overlay for retained-mode scene
// graphs built on [Ebitengine].
//
// Glint hooks the host runtime's commit notification, walks each committed
// node tree, and works out which nodes re-rendered and why: changed node
// properties, or changed shared-state dependencies. Changes whose old and new
// values are semantically identical but freshly allocated (the re-created
// closure, the inline literal) are flagged as unstable. Every re-render paints
// a fading highlight rectangle over the node's screen region; regions that
// keep re-rendering burn hotter, linger longer, and carry a label with
// per-component render counts.
//
// # Quick start
//
// Create an [Engine], attach it to a host runtime, and drive it from the game
// loop:
//
//	eng := glint.New(glint.DefaultOptions())
//	eng.Attach(host)
//
//	type Game struct{ /* ... */ }
//
//	func (g *Game) Update() error { g.runtime.Update(); eng.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.runtime.Draw(s); eng.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { eng.SetViewport(w, h); return w, h }
//
// The host side is a handful of small interfaces ([Host], [CommitRoot],
// [Node], [Target]) that expose the commit hook, the node tree, per-node
// render flags, and on-screen geometry. See examples/basic for a complete
// toy runtime wired up end to end.
//
// # Scoping
//
// By default every nameable component is watched. [Engine.Register] scopes
// detection to particular component types, optionally including their
// descendants. [Engine.Report] accumulates per-component render history when
// Options.Report is set.
//
// Glint is single-threaded by design: the commit hook and the frame callback
// both run on the host's update goroutine, so there are no locks and no
// atomics anywhere.
//
// [Ebitengine]: https://ebitengine.org
package glint
