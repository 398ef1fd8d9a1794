// stress fills the window with a 32×18 grid of widgets and re-renders
// random rows of them every frame. A stress test for glint's flush
// batching, geometry caching, and overlay draw path.
//
//   - Three random rows re-render with a changed value prop each frame,
//     so a few hundred outlines are usually alive at once.
//   - Every five seconds one random column rebuilds a callback prop for 45
//     frames straight, lighting up as an unstable hot spot.
//   - The status line shows FPS alongside the live outline count.
package main

import (
	"fmt"
	"image/color"
	"log"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/glint"
)

const (
	screenW = 1280
	screenH = 720
	cols    = 32
	rows    = 18
	cellW   = float64(screenW) / cols
	cellH   = float64(screenH) / rows

	rowsPerFrame = 3
	burstEvery   = 300
	burstFrames  = 45
)

// Component-type markers: cells are registered, the grid root is not.
type (
	gridType struct{}
	cellType struct{}
)

// cell is one grid widget. The tree is flat: the root holds every cell.
type cell struct {
	root *cell   // nil on the root itself
	kids []*cell // root only

	name string
	rect glint.Rect
	clr  color.RGBA

	prev, cur map[string]any
	rendered  bool
}

func (c *cell) render(props map[string]any) {
	c.prev = c.cur
	c.cur = props
	c.rendered = true
}

func (c *cell) Measure() (glint.Measurement, bool) {
	return glint.RegionMeasurement(c.rect), true
}
func (c *cell) ComponentType() any {
	if c.root == nil {
		return gridType{}
	}
	return cellType{}
}
func (c *cell) TypeName() string { return c.name }
func (c *cell) Parent() glint.Node {
	if c.root == nil {
		return nil
	}
	return c.root
}
func (c *cell) Children() []glint.Node {
	out := make([]glint.Node, len(c.kids))
	for i, k := range c.kids {
		out[i] = k
	}
	return out
}
func (c *cell) Rendered() bool                  { return c.rendered }
func (c *cell) SelfTime() time.Duration         { return 0 }
func (c *cell) PrevProps() map[string]any       { return c.prev }
func (c *cell) Props() map[string]any           { return c.cur }
func (c *cell) ContextDeps() []glint.ContextDep { return nil }
func (c *cell) CompiledMemo() bool              { return false }

// gridHost is the minimal runtime: a tree and a hook slot.
type gridHost struct {
	hook glint.CommitHook
	root *cell
}

func (h *gridHost) CommitHook() glint.CommitHook     { return h.hook }
func (h *gridHost) SetCommitHook(f glint.CommitHook) { h.hook = f }
func (h *gridHost) IsElement(v any) bool             { _, ok := v.(*cell); return ok }
func (h *gridHost) Production() bool                 { return false }

func (h *gridHost) commit(updaters []*cell) {
	if h.hook == nil {
		return
	}
	ups := make([]glint.Node, len(updaters))
	for i, u := range updaters {
		ups[i] = u
	}
	h.hook(1, &gridCommit{root: h.root, ups: ups})
	h.root.rendered = false
	for _, k := range h.root.kids {
		k.rendered = false
	}
}

type gridCommit struct {
	root *cell
	ups  []glint.Node
}

func (c *gridCommit) Node() glint.Node       { return c.root }
func (c *gridCommit) Updaters() []glint.Node { return c.ups }

type game struct {
	eng   *glint.Engine
	host  *gridHost
	cells []*cell

	frame    int
	burst    int
	burstCol int

	white *ebiten.Image
}

func (g *game) Update() error {
	g.frame++
	var updaters []*cell

	// Steady churn: whole rows change a value prop.
	for i := 0; i < rowsPerFrame; i++ {
		r := rand.IntN(rows)
		for c := 0; c < cols; c++ {
			w := g.cells[r*cols+c]
			w.render(map[string]any{"v": g.frame})
			updaters = append(updaters, w)
		}
	}

	// Periodic hot spot: one column rebuilds its callback every frame.
	if g.frame%burstEvery == 0 {
		g.burstCol = rand.IntN(cols)
		g.burst = burstFrames
	}
	if g.burst > 0 {
		g.burst--
		for r := 0; r < rows; r++ {
			w := g.cells[r*cols+g.burstCol]
			w.render(map[string]any{"onPing": func() {}})
			updaters = append(updaters, w)
		}
	}

	g.host.commit(updaters)
	g.eng.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 15, G: 15, B: 22, A: 255})
	for _, w := range g.cells {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(w.rect.Width, w.rect.Height)
		op.GeoM.Translate(w.rect.X, w.rect.Y)
		op.ColorScale.ScaleWithColor(w.clr)
		screen.DrawImage(g.white, op)
	}

	g.eng.Draw(screen)

	msg := fmt.Sprintf("FPS: %.0f  TPS: %.0f  outlines: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.eng.ActiveOutlineCount())
	ebitenutil.DebugPrintAt(screen, msg, 4, screenH-16)
}

func (g *game) Layout(_, _ int) (int, int) {
	g.eng.SetViewport(screenW, screenH)
	return screenW, screenH
}

func main() {
	root := &cell{name: "Grid", rect: glint.Rect{Width: screenW, Height: screenH}}
	cells := make([]*cell, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			w := &cell{
				root: root,
				name: fmt.Sprintf("Cell%d_%d", c, r),
				rect: glint.Rect{
					X:     float64(c)*cellW + 1,
					Y:     float64(r)*cellH + 1,
					Width: cellW - 2, Height: cellH - 2,
				},
				clr: color.RGBA{
					R: uint8(40 + (c*5)%60),
					G: uint8(45 + (r*7)%60),
					B: uint8(70 + ((c+r)*3)%50),
					A: 255,
				},
			}
			cells = append(cells, w)
		}
	}
	root.kids = cells

	host := &gridHost{root: root}
	eng := glint.New(glint.DefaultOptions())
	eng.Register(cellType{})
	eng.Attach(host)

	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Glint — Stress Demo")
	if err := ebiten.RunGame(&game{
		eng:   eng,
		host:  host,
		cells: cells,
		white: white,
	}); err != nil {
		log.Fatal(err)
	}
}
