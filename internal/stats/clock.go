package stats

import (
	"fmt"
	"time"
)

// StudyClock accumulates total study time in whole seconds. The caller
// drives it with Tick once per second while it is running.
type StudyClock struct {
	Total    int
	running  bool
	autoSave bool
}

// NewStudyClock returns a stopped clock starting at total seconds.
func NewStudyClock(total int) *StudyClock {
	if total < 0 {
		total = 0
	}
	return &StudyClock{Total: total}
}

// Start runs the clock when enabled is set; otherwise it stays stopped.
func (c *StudyClock) Start(enabled, autoSave bool) {
	c.running = enabled
	c.autoSave = autoSave
}

// Stop halts the clock and reports whether a save is due.
func (c *StudyClock) Stop() bool {
	was := c.running
	c.running = false
	return was && c.autoSave
}

// Running reports whether Tick advances the clock.
func (c *StudyClock) Running() bool { return c.running }

// Tick adds one second and reports whether the periodic autosave is due.
func (c *StudyClock) Tick() bool {
	if !c.running {
		return false
	}
	c.Total++
	return c.autoSave && c.Total%60 == 0
}

// String formats the total.
func (c *StudyClock) String() string { return FormatStudyTime(c.Total) }

// FormatStudyTime renders seconds as "Xh Ym", "Ym Zs" or "Zs".
func FormatStudyTime(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Stopwatch times a single exercise attempt.
type Stopwatch struct {
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
}

// NewStopwatch returns a stopwatch. A nil clock uses time.Now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

// Start resets and starts the stopwatch.
func (w *Stopwatch) Start() {
	w.started = w.now()
	w.elapsed = 0
	w.running = true
}

// Stop freezes the elapsed time and returns it.
func (w *Stopwatch) Stop() time.Duration {
	if w.running {
		w.elapsed = w.now().Sub(w.started)
		w.running = false
	}
	return w.elapsed
}

// Reset clears the stopwatch without starting it.
func (w *Stopwatch) Reset() {
	w.elapsed = 0
	w.running = false
}

// Elapsed returns the time so far.
func (w *Stopwatch) Elapsed() time.Duration {
	if w.running {
		return w.now().Sub(w.started)
	}
	return w.elapsed
}

// Running reports whether the stopwatch is timing.
func (w *Stopwatch) Running() bool { return w.running }
