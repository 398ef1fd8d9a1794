package glint

import "time"

// ReportEntry aggregates every render observed for one component name.
type ReportEntry struct {
	Count     int
	TotalTime time.Duration
	Renders   []Render
}

// report accumulates per-component render history when Options.Report is
// set. Entries only grow; nothing trims them automatically. Engine.Reset
// clears the lot.
type report struct {
	entries map[string]*ReportEntry
}

func newReport() *report {
	return &report{entries: make(map[string]*ReportEntry)}
}

func (r *report) add(rd Render) {
	e := r.entries[rd.ComponentName]
	if e == nil {
		e = &ReportEntry{}
		r.entries[rd.ComponentName] = e
	}
	e.Count += rd.Count
	e.TotalTime += rd.SelfTime
	e.Renders = append(e.Renders, rd)
}

func (r *report) reset() {
	clear(r.entries)
}
