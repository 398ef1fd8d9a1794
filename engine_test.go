package glint

import (
	"testing"
	"time"
)

// --- Option normalization ---

func TestNewNormalizesZeroOptions(t *testing.T) {
	e := New(Options{})
	o := e.Options()
	if o.LongTaskThreshold != DefaultLongTaskThreshold {
		t.Errorf("LongTaskThreshold = %v, want default", o.LongTaskThreshold)
	}
	if o.ResetCountTimeout != DefaultResetCountTimeout {
		t.Errorf("ResetCountTimeout = %v, want default", o.ResetCountTimeout)
	}
	if o.MaxRenders != DefaultMaxRenders {
		t.Errorf("MaxRenders = %d, want default", o.MaxRenders)
	}
	if o.StartColor != DefaultStartColor || o.EndColor != DefaultEndColor {
		t.Errorf("colors = %v/%v, want defaults", o.StartColor, o.EndColor)
	}
	if e.fade == nil {
		t.Error("fade should default to a linear curve")
	}
	if e.Enabled() {
		t.Error("the zero Options value keeps detection off")
	}
}

func TestNewNormalizesNegativeOptions(t *testing.T) {
	e := New(Options{
		LongTaskThreshold: -time.Second,
		ResetCountTimeout: -1,
		MaxRenders:        -5,
	})
	o := e.Options()
	if o.LongTaskThreshold != DefaultLongTaskThreshold ||
		o.ResetCountTimeout != DefaultResetCountTimeout ||
		o.MaxRenders != DefaultMaxRenders {
		t.Errorf("negative options should normalize to defaults, got %+v", o)
	}
}

func TestNewKeepsExplicitOptions(t *testing.T) {
	e := New(Options{
		LongTaskThreshold: 10 * time.Millisecond,
		MaxRenders:        5,
		StartColor:        RGB{1, 2, 3},
	})
	o := e.Options()
	if o.LongTaskThreshold != 10*time.Millisecond {
		t.Errorf("LongTaskThreshold = %v, want 10ms", o.LongTaskThreshold)
	}
	if o.MaxRenders != 5 {
		t.Errorf("MaxRenders = %d, want 5", o.MaxRenders)
	}
	// With one color set explicitly, the pair is taken as given.
	if o.StartColor != (RGB{1, 2, 3}) || o.EndColor != (RGB{}) {
		t.Errorf("colors = %v/%v, want {1 2 3}/{0 0 0}", o.StartColor, o.EndColor)
	}
}

func TestOptionsReturnsACopy(t *testing.T) {
	e := New(DefaultOptions())
	o := e.Options()
	o.MaxRenders = 999
	if e.Options().MaxRenders == 999 {
		t.Error("mutating the returned Options must not affect the engine")
	}
}

// --- Runtime flags ---

func TestEnabledPausedInterplay(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	if !e.Enabled() {
		t.Fatal("Enabled() = false, want true")
	}

	e.SetPaused(true)
	if e.Enabled() {
		t.Error("Enabled() should report false while paused")
	}
	if !e.Paused() {
		t.Error("Paused() = false, want true")
	}

	e.SetPaused(false)
	if !e.Enabled() {
		t.Error("Enabled() should recover after unpause")
	}

	e.SetEnabled(false)
	if e.Enabled() {
		t.Error("Enabled() = true after SetEnabled(false)")
	}
}

func TestStatePublishedThroughStore(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())

	if got := e.Store().Get(StoreEnabled); got != true {
		t.Errorf("store enabled = %v, want true", got)
	}
	if got := e.Store().Get(StorePaused); got != false {
		t.Errorf("store paused = %v, want false", got)
	}
	if got := e.Store().Get(StoreToolbar); got != true {
		t.Errorf("store toolbar = %v, want true", got)
	}

	var seen []any
	e.Store().Subscribe(StoreEnabled, func(v any) { seen = append(seen, v) })
	e.SetEnabled(false)
	e.SetEnabled(true)
	if len(seen) != 2 || seen[0] != false || seen[1] != true {
		t.Errorf("notifications = %v, want [false true]", seen)
	}
}

func TestSetDebugMode(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.SetDebugMode(true)
	if !e.debug || !globalDebug {
		t.Error("debug mode should set both the engine flag and the package mirror")
	}
	e.SetDebugMode(false)
	if e.debug || globalDebug {
		t.Error("debug mode should clear both flags")
	}
}

// --- Reset ---

func TestResetRestoresFreshState(t *testing.T) {
	completes := 0
	opts := DefaultOptions()
	opts.Report = true
	opts.OnPaintStart = func(o *ActiveOutline) {
		o.OnComplete = func() { completes++ }
	}
	e, tk, _ := newTestEngine(opts)
	h := &fakeHost{}
	e.Attach(h)
	e.Register("Box")
	e.SetRenderSink(&captureSink{})

	commit(h, box("Box", Rect{10, 10, 40, 40}))
	tk.pump()
	tk.pump()
	if e.ActiveOutlineCount() != 1 {
		t.Fatal("no outline to reset away")
	}

	unsubscribed := 0
	e.Store().Subscribe(StoreEnabled, func(any) { unsubscribed++ })

	e.Reset()

	if e.ActiveOutlineCount() != 0 {
		t.Error("outlines should be gone")
	}
	if completes != 0 {
		t.Error("Reset drops outlines without firing their completion hooks")
	}
	if e.Attached() {
		t.Error("Reset should detach from the host")
	}
	if e.sink != nil {
		t.Error("Reset should disconnect the render sink")
	}
	if !e.allow.empty() {
		t.Error("registrations should be gone")
	}
	if len(e.Report()) != 0 {
		t.Error("the report should be gone")
	}
	if len(e.pending) != 0 || e.animating {
		t.Error("queues and the animator should be idle")
	}

	// The store restarted: old listeners are gone, state is republished.
	e.SetEnabled(false)
	if unsubscribed != 0 {
		t.Error("pre-reset listeners should not survive")
	}
	if got := e.Store().Get(StorePaused); got != false {
		t.Errorf("store paused = %v, want false after reset", got)
	}
}

func TestResetRestoresEnabledFromOptions(t *testing.T) {
	e, _, _ := newTestEngine(DefaultOptions())
	e.SetEnabled(false)
	e.SetPaused(true)
	e.Reset()
	if !e.Enabled() {
		t.Error("Reset should restore the configured enabled state")
	}
	if e.Paused() {
		t.Error("Reset should clear the pause flag")
	}
}

func TestReattachAfterReset(t *testing.T) {
	starts := 0
	opts := DefaultOptions()
	opts.OnCommitStart = func() { starts++ }
	e, _, _ := newTestEngine(opts)
	h := &fakeHost{}
	e.Attach(h)
	e.Reset()

	e.Attach(h)
	commit(h, box("Box", Rect{0, 0, 10, 10}))
	if starts != 1 {
		t.Errorf("starts = %d, want 1: the engine should work again after Reset", starts)
	}
}
