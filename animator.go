package glint

import "time"

// Fade parameters: a calm outline flashes briefly; an unstable one burns
// brighter and lingers.
const (
	fadeFramesStable   = 5
	fadeFramesUnstable = 60
	baseAlphaStable    = 0.2
	baseAlphaUnstable  = 0.8
)

// hasRecentRepeatedRenders reports whether an outline looks unstable at draw
// time: more than one accumulated render occurrence, the latest inside the
// reset window. A single render, or repeats separated by a quiet period,
// stay calm.
func hasRecentRepeatedRenders(o *ActiveOutline, now time.Time, window time.Duration) bool {
	return o.renderCount() > 1 && now.Sub(o.UpdatedAt) < window
}

// startAnimator kicks the fade loop when it is idle. The loop keeps itself
// scheduled while outlines remain and stops cold when none do.
func (e *Engine) startAnimator() {
	if e.animating {
		return
	}
	e.animating = true
	e.requestTick(e.animTick)
}

// animTick advances every active outline one frame and repaints the overlay:
// clear, classify, accumulate the combined shape, draw it in two calls,
// draw labels, retire what finished, reschedule if anything is left.
func (e *Engine) animTick() {
	if !e.animating {
		// Reset raced a queued tick; nothing to do.
		return
	}
	now := e.now()
	e.beginOverlayFrame()

	maxStroke := 0.0
	kept := e.activeOrder[:0]
	for _, o := range e.activeOrder {
		if o == nil {
			invariant("nil outline in active set")
			continue
		}
		if o.Frame < 0 {
			invariant("outline %q has negative frame %d", o.ID, o.Frame)
			o.Frame = 0
		}

		unstable := hasRecentRepeatedRenders(o, now, e.opts.ResetCountTimeout)
		base := baseAlphaStable
		o.TotalFrames = fadeFramesStable
		if unstable {
			base = baseAlphaUnstable
			o.TotalFrames = fadeFramesUnstable
		}

		progress := float64(e.fade(float32(o.Frame), 0, 1, float32(o.TotalFrames)))
		if progress < 0 {
			progress = 0
		} else if progress > 1 {
			progress = 1
		}
		o.Alpha = base * (1 - progress)

		t := float64(o.renderCount()) / float64(e.opts.MaxRenders)
		o.Color = lerpColor(e.opts.StartColor, e.opts.EndColor, t)

		o.Text = ""
		if unstable {
			o.Text = labelText(o.Outline.Renders)
		}

		e.drawList = append(e.drawList, outlineDraw{
			rect:  drawRect(o.Outline.Measurement),
			color: o.Color,
			alpha: o.Alpha,
			text:  o.Text,
		})
		if o.Alpha > maxStroke {
			maxStroke = o.Alpha
		}

		o.Frame++
		if o.Frame > o.TotalFrames {
			e.retireOutline(o)
			continue
		}
		kept = append(kept, o)
	}
	e.activeOrder = kept

	e.paintOverlay(maxStroke)

	// Track targets that moved so the next frame draws in the right place.
	// Best-effort: the resolver throttles per target, and misses keep the
	// last measurement.
	e.refreshActive()

	e.store.Set(StoreOutlines, len(e.activeOrder))
	if len(e.activeOrder) > 0 {
		e.requestTick(e.animTick)
		return
	}
	e.animating = false
	clear(e.labelCache)
}

// retireOutline removes a finished outline and fires its completion hooks.
// Each outline retires exactly once: it leaves the active set in the same
// step.
func (e *Engine) retireOutline(o *ActiveOutline) {
	delete(e.active, o.ID)
	if e.opts.OnPaintFinish != nil {
		e.opts.OnPaintFinish(o)
	}
	if o.OnComplete != nil {
		o.OnComplete()
	}
}

// refreshActive re-resolves geometry for the active set.
func (e *Engine) refreshActive() {
	for _, o := range e.activeOrder {
		if m, ok := e.geom.resolve(o.Outline.Target); ok {
			o.Outline.Measurement = m
		}
	}
}
