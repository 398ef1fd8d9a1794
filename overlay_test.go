package glint

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Viewport ---

func TestSetViewport(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.SetViewport(640, 480)

	if e.overlay == nil {
		t.Fatal("SetViewport should create the overlay surface")
	}
	if e.overlay.Bounds().Dx() != 640 || e.overlay.Bounds().Dy() != 480 {
		t.Errorf("overlay size = %v, want 640x480", e.overlay.Bounds())
	}
	if e.geom.viewport != (Rect{Width: 640, Height: 480}) {
		t.Errorf("viewport = %v, want 640x480 at origin", e.geom.viewport)
	}
}

func TestSetViewportSameSizeKeepsSurface(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.SetViewport(640, 480)
	surface := e.overlay

	e.SetViewport(640, 480)
	if e.overlay != surface {
		t.Error("same-size SetViewport should keep the surface")
	}

	e.SetViewport(800, 600)
	if e.overlay == surface {
		t.Error("resize should allocate a new surface")
	}
}

func TestSetViewportIgnoresDegenerateSizes(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.SetViewport(0, 480)
	e.SetViewport(640, -1)
	if e.overlay != nil {
		t.Error("degenerate sizes should be ignored")
	}
}

// --- Draw / Update ---

func TestDrawWithoutViewportIsNoop(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	screen := ebiten.NewImage(640, 480)
	e.Draw(screen) // overlay nil; must not crash
}

func TestUpdateDrainsOneFramePerCall(t *testing.T) {
	e := New(DefaultOptions())
	var ran []string
	e.requestTick(func() {
		ran = append(ran, "a")
		e.requestTick(func() { ran = append(ran, "b") })
	})

	e.Update()
	if len(ran) != 1 || ran[0] != "a" {
		t.Fatalf("ran = %v, want [a]: reentrant ticks wait for the next frame", ran)
	}
	e.Update()
	if len(ran) != 2 || ran[1] != "b" {
		t.Errorf("ran = %v, want [a b]", ran)
	}
	e.Update() // idle; no-op
	if len(ran) != 2 {
		t.Errorf("ran = %v, want [a b]", ran)
	}
}

func TestUpdateDefersToInstalledTicker(t *testing.T) {
	e, tk, _ := newTestEngine(DefaultOptions())
	called := false
	e.requestTick(func() { called = true })

	e.Update()
	if called {
		t.Error("Update must not drain when a custom ticker is installed")
	}
	if len(tk.queue) != 1 {
		t.Errorf("ticker queue = %d, want 1", len(tk.queue))
	}
	tk.pump()
	if !called {
		t.Error("the ticker should deliver the callback")
	}
}

// --- Batch building ---

func TestBuildOverlayBatchQuadCounts(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.drawList = append(e.drawList, outlineDraw{
		rect:  Rect{10, 20, 100, 50},
		color: RGB{255, 0, 0},
		alpha: 0.5,
	})
	e.buildOverlayBatch(0.5)

	if len(e.fillVerts) != 4 {
		t.Fatalf("fill verts = %d, want 4", len(e.fillVerts))
	}
	if len(e.fillInds) != 6 {
		t.Fatalf("fill inds = %d, want 6", len(e.fillInds))
	}
	// Four stroke edges per rectangle.
	if len(e.strokeVerts) != 16 {
		t.Fatalf("stroke verts = %d, want 16", len(e.strokeVerts))
	}
	if len(e.strokeInds) != 24 {
		t.Fatalf("stroke inds = %d, want 24", len(e.strokeInds))
	}

	// Corner order TL, TR, BL, BR.
	v := e.fillVerts
	if v[0].DstX != 10 || v[0].DstY != 20 {
		t.Errorf("TL = (%v,%v), want (10,20)", v[0].DstX, v[0].DstY)
	}
	if v[1].DstX != 110 || v[1].DstY != 20 {
		t.Errorf("TR = (%v,%v), want (110,20)", v[1].DstX, v[1].DstY)
	}
	if v[2].DstX != 10 || v[2].DstY != 70 {
		t.Errorf("BL = (%v,%v), want (10,70)", v[2].DstX, v[2].DstY)
	}
	if v[3].DstX != 110 || v[3].DstY != 70 {
		t.Errorf("BR = (%v,%v), want (110,70)", v[3].DstX, v[3].DstY)
	}

	wantInds := []uint32{0, 1, 2, 1, 3, 2}
	for i, w := range wantInds {
		if e.fillInds[i] != w {
			t.Errorf("fill ind[%d] = %d, want %d", i, e.fillInds[i], w)
		}
	}
	// The second stroke quad starts at vertex 4.
	if e.strokeInds[6] != 4 {
		t.Errorf("stroke ind[6] = %d, want 4", e.strokeInds[6])
	}
}

func TestBuildOverlayBatchAlphas(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.drawList = append(e.drawList, outlineDraw{
		rect:  Rect{0, 0, 10, 10},
		color: RGB{255, 255, 255},
		alpha: 0.5,
	})
	e.buildOverlayBatch(0.5)

	sa := float32(0.5)
	fa := float32(0.5 * fillAlphaRatio)
	if got := e.strokeVerts[0].ColorA; got != sa {
		t.Errorf("stroke alpha = %v, want %v", got, sa)
	}
	if got := e.fillVerts[0].ColorA; got != fa {
		t.Errorf("fill alpha = %v, want %v", got, fa)
	}
	// Premultiplied: a white vertex carries its alpha in each channel.
	if got := e.fillVerts[0].ColorR; got != fa {
		t.Errorf("fill ColorR = %v, want %v premultiplied", got, fa)
	}
}

func TestBuildOverlayBatchZeroStroke(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.drawList = append(e.drawList, outlineDraw{rect: Rect{0, 0, 10, 10}, color: RGB{255, 0, 0}})
	e.buildOverlayBatch(0)

	if len(e.fillVerts) != 0 || len(e.strokeVerts) != 0 {
		t.Error("an invisible frame should build no geometry")
	}
}

func TestBuildOverlayBatchReusesBuffers(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.drawList = append(e.drawList, outlineDraw{rect: Rect{0, 0, 10, 10}, color: RGB{255, 0, 0}})

	e.buildOverlayBatch(0.5)
	c1 := cap(e.fillVerts)
	e.buildOverlayBatch(0.5)
	if cap(e.fillVerts) != c1 {
		t.Errorf("fill buffer cap changed %d -> %d; buffers should be reused", c1, cap(e.fillVerts))
	}
	if len(e.fillVerts) != 4 {
		t.Errorf("fill verts = %d, want 4 after rebuild", len(e.fillVerts))
	}
}

func TestAppendRectQuadPremultipliesColor(t *testing.T) {
	verts, inds := appendRectQuad(nil, nil, Rect{0, 0, 1, 1}, 1, 0.5, 0.25, 0.5)
	if len(verts) != 4 || len(inds) != 6 {
		t.Fatalf("verts/inds = %d/%d, want 4/6", len(verts), len(inds))
	}
	v := verts[0]
	if v.ColorR != 0.5 || v.ColorG != 0.25 || v.ColorB != 0.125 || v.ColorA != 0.5 {
		t.Errorf("vertex color = (%v %v %v %v), want premultiplied (0.5 0.25 0.125 0.5)",
			v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
	// Source coordinates span the 1x1 white pixel.
	if v.SrcX != 0 || v.SrcY != 0 || verts[3].SrcX != 1 || verts[3].SrcY != 1 {
		t.Error("source coordinates should span (0,0)-(1,1)")
	}
}

func TestStrokeEdgesSitOutsideRect(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	edges := strokeEdges(r, 1)

	want := [4]Rect{
		{9, 19, 102, 1},  // top
		{9, 70, 102, 1},  // bottom
		{9, 20, 1, 50},   // left
		{110, 20, 1, 50}, // right
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge[%d] = %v, want %v", i, edges[i], want[i])
		}
	}
}

// --- Labels ---

func TestLabelImageDimensionsAndCache(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())

	img := e.labelImage("Box")
	if img.Bounds().Dx() != 3*labelGlyphW+labelPad {
		t.Errorf("label width = %d, want %d", img.Bounds().Dx(), 3*labelGlyphW+labelPad)
	}
	if img.Bounds().Dy() != labelGlyphH {
		t.Errorf("label height = %d, want %d", img.Bounds().Dy(), labelGlyphH)
	}

	if e.labelImage("Box") != img {
		t.Error("repeated labels should come from the cache")
	}
	if e.labelImage("Row") == img {
		t.Error("different labels should get different images")
	}
}

// --- Integration smoke ---

func TestOverlayPaintIntegration(t *testing.T) {
	e, tk, _ := newTestEngine(DefaultOptions())
	e.SetViewport(640, 480)
	h := &fakeHost{}
	e.Attach(h)

	r := Rect{10, 10, 80, 40}
	root := box("Box", r)
	root.addChild(box("Box", r)) // unstable, so a label draws too

	commit(h, root)
	tk.pump()
	tk.pump()
	tk.pump() // first animation frame paints the overlay

	if len(e.fillVerts) == 0 || len(e.strokeVerts) == 0 {
		t.Error("animation frame should have built overlay geometry")
	}
	if len(e.labelCache) == 0 {
		t.Error("an unstable outline should have rendered its label")
	}

	screen := ebiten.NewImage(640, 480)
	e.Draw(screen)
}
