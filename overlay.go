package glint

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// whitePixel is the 1x1 white source image for solid-color triangles.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// outlineDraw is one outline's contribution to the current overlay frame.
// The animator fills the draw list; the painter turns it into batches.
type outlineDraw struct {
	rect  Rect
	color RGB
	alpha float64 // the outline's own alpha; labels use it, strokes use the frame max
	text  string
}

// strokeWidth is the outline border thickness in pixels, drawn outside the
// measured rectangle.
const strokeWidth = 1.0

// fillAlphaRatio scales the fill relative to the stroke.
const fillAlphaRatio = 0.1

// SetViewport sizes the overlay surface and the off-screen visibility
// filter. Call it from the game's Layout (or whenever the window resizes).
// The previous surface, if any, is released to the garbage collector.
func (e *Engine) SetViewport(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if e.overlay != nil && e.viewW == w && e.viewH == h {
		return
	}
	e.viewW, e.viewH = w, h
	e.geom.viewport = Rect{Width: float64(w), Height: float64(h)}
	e.overlay = ebiten.NewImage(w, h)
}

// Draw composites the overlay onto screen. Call it after the host scene has
// drawn. Free when nothing is animating.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.overlay == nil {
		return
	}
	if !e.animating && len(e.activeOrder) == 0 {
		return
	}
	screen.DrawImage(e.overlay, nil)
}

// Update drains this frame's scheduled ticks. Call it once per host update.
// Callbacks scheduled during the drain run on the next frame, not this one.
func (e *Engine) Update() {
	if e.ticker != nil || len(e.tickQueue) == 0 {
		return
	}
	queue := e.tickQueue
	e.tickQueue = nil
	for _, fn := range queue {
		fn()
	}
}

// requestTick schedules fn for the next visual frame, through the custom
// Ticker when one is installed and the internal Update pump otherwise.
func (e *Engine) requestTick(fn func()) {
	if e.ticker != nil {
		e.ticker.RequestTick(fn)
		return
	}
	e.tickQueue = append(e.tickQueue, fn)
}

// beginOverlayFrame clears the overlay surface and this frame's draw list.
func (e *Engine) beginOverlayFrame() {
	e.drawList = e.drawList[:0]
	if e.overlay != nil {
		e.overlay.Clear()
	}
}

// paintOverlay draws the frame: the combined shape in two DrawTriangles32
// calls (one fill batch, one stroke batch), then labels. The whole shape
// shares one stroke alpha — the max across outlines this frame — and one
// fill alpha at a tenth of that; each rectangle keeps its own color.
func (e *Engine) paintOverlay(maxStroke float64) {
	e.buildOverlayBatch(maxStroke)
	if e.overlay == nil {
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	if len(e.fillVerts) > 0 {
		e.overlay.DrawTriangles32(e.fillVerts, e.fillInds, whitePixel, &triOp)
	}
	if len(e.strokeVerts) > 0 {
		e.overlay.DrawTriangles32(e.strokeVerts, e.strokeInds, whitePixel, &triOp)
	}
	for i := range e.drawList {
		if e.drawList[i].text != "" {
			e.drawLabel(&e.drawList[i])
		}
	}
}

// buildOverlayBatch builds the fill and stroke vertex buffers from the draw
// list. Buffers are reused across frames; a frame with maxStroke 0 leaves
// them empty.
func (e *Engine) buildOverlayBatch(maxStroke float64) {
	e.fillVerts = e.fillVerts[:0]
	e.fillInds = e.fillInds[:0]
	e.strokeVerts = e.strokeVerts[:0]
	e.strokeInds = e.strokeInds[:0]
	if maxStroke <= 0 {
		return
	}
	sa := float32(maxStroke)
	fa := float32(maxStroke * fillAlphaRatio)
	for i := range e.drawList {
		d := &e.drawList[i]
		cr := float32(d.color.R) / 255
		cg := float32(d.color.G) / 255
		cb := float32(d.color.B) / 255
		e.fillVerts, e.fillInds = appendRectQuad(e.fillVerts, e.fillInds, d.rect, cr, cg, cb, fa)
		for _, edge := range strokeEdges(d.rect, strokeWidth) {
			e.strokeVerts, e.strokeInds = appendRectQuad(e.strokeVerts, e.strokeInds, edge, cr, cg, cb, sa)
		}
	}
}

// appendRectQuad appends one solid rectangle (4 vertices, 6 indices) with a
// premultiplied vertex color. The white pixel spans (0,0)-(1,1) in source
// space.
func appendRectQuad(verts []ebiten.Vertex, inds []uint32, r Rect, cr, cg, cb, ca float32) ([]ebiten.Vertex, []uint32) {
	base := uint32(len(verts))
	x0, y0 := float32(r.X), float32(r.Y)
	x1, y1 := float32(r.X+r.Width), float32(r.Y+r.Height)

	// 4 corners: TL, TR, BL, BR.
	lx := [4]float32{x0, x1, x0, x1}
	ly := [4]float32{y0, y0, y1, y1}
	sx := [4]float32{0, 1, 0, 1}
	sy := [4]float32{0, 0, 1, 1}

	for i := 0; i < 4; i++ {
		verts = append(verts, ebiten.Vertex{
			DstX:   lx[i],
			DstY:   ly[i],
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: cr * ca,
			ColorG: cg * ca,
			ColorB: cb * ca,
			ColorA: ca,
		})
	}

	// Two triangles: TL-TR-BL, TR-BR-BL.
	inds = append(inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
	return verts, inds
}

// strokeEdges decomposes a rectangle border into 4 edge strips drawn just
// outside the rectangle.
func strokeEdges(r Rect, w float64) [4]Rect {
	return [4]Rect{
		{X: r.X - w, Y: r.Y - w, Width: r.Width + 2*w, Height: w},        // top
		{X: r.X - w, Y: r.Y + r.Height, Width: r.Width + 2*w, Height: w}, // bottom
		{X: r.X - w, Y: r.Y, Width: w, Height: r.Height},                 // left
		{X: r.X + r.Width, Y: r.Y, Width: w, Height: r.Height},           // right
	}
}

// Label glyphs are the 6x16 debug font.
const (
	labelGlyphW = 6
	labelGlyphH = 16
	labelPad    = 2
)

// labelImage returns a cached image of text on a dark backing box. The cache
// lives for one animation burst; the animator clears it when the loop stops.
func (e *Engine) labelImage(text string) *ebiten.Image {
	if img := e.labelCache[text]; img != nil {
		return img
	}
	w := utf8.RuneCountInString(text)*labelGlyphW + labelPad
	img := ebiten.NewImage(w, labelGlyphH)
	img.Fill(color.RGBA{0, 0, 0, 180})
	ebitenutil.DebugPrint(img, text)
	e.labelCache[text] = img
	return img
}

// drawLabel draws an outline's label just above its rectangle, at the
// outline's own alpha. Labels that would leave the top of the screen sit
// inside the rectangle instead.
func (e *Engine) drawLabel(d *outlineDraw) {
	img := e.labelImage(d.text)
	y := d.rect.Y - float64(labelGlyphH)
	if y < 0 {
		y = d.rect.Y
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(d.rect.X, y)
	a := float32(d.alpha)
	op.ColorScale.Scale(a, a, a, a)
	e.overlay.DrawImage(img, &op)
}
