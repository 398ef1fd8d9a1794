package glint

import (
	"fmt"
	"os"
)

// logf prints one line to stderr with the [glint] prefix.
func logf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[glint] "+format+"\n", args...)
}

// globalDebug mirrors the most recently set Engine debug flag so that leaf
// values (which lack an Engine pointer) can check invariants cheaply. Only
// valid with a single Engine; multiple Engines with differing debug modes
// will reflect whichever called SetDebugMode last.
var globalDebug bool

// invariant reports a broken internal invariant. In debug mode it panics;
// in release mode it logs a warning to stderr and execution continues.
func invariant(format string, args ...any) {
	if globalDebug {
		panic("glint: " + fmt.Sprintf(format, args...))
	}
	logf("warning: "+format, args...)
}

// debugStats holds per-chain flush metrics, logged in debug mode.
type debugStats struct {
	flushed   int // outlines activated this chain
	merged    int // outlines folded into an existing region key
	dropped   int // outlines skipped by the painted set
	passCount int
}

func (e *Engine) debugLogFlush(stats debugStats) {
	if !e.debug {
		return
	}
	logf("flush: %d activated | %d merged | %d deduped | %d pass(es)",
		stats.flushed, stats.merged, stats.dropped, stats.passCount)
}
