package host

import "time"

// TicksPerSecond is the jiffy clock CBM BASIC's SLEEP-equivalent timing is
// specified against (spec.md §4.5: "ticks, 60 per second").
const TicksPerSecond = 60

// Sleeper abstracts the SLEEP statement's delay so tests can inject a
// no-op or recording implementation instead of blocking for real.
type Sleeper interface {
	Sleep(ticks int)
}

// RealSleeper sleeps the wall-clock duration the given tick count
// represents.
type RealSleeper struct{}

// Sleep blocks for ticks/60 seconds.
func (RealSleeper) Sleep(ticks int) {
	if ticks <= 0 {
		return
	}
	time.Sleep(time.Duration(ticks) * (time.Second / TicksPerSecond))
}

// NoopSleeper never blocks; used by tests and the snapshot test harness
// so worked-example programs that use SLEEP run instantly.
type NoopSleeper struct{}

// Sleep does nothing.
func (NoopSleeper) Sleep(ticks int) {}
