// timecontrol.go derives hard/soft deadlines from UCI go parameters and
// polls them during search. Grounded on the teacher's TimeControl
// (engine/time_control.go), but that type guards its stop flag with a
// mutex (atomicFlag); the Lazy SMP coordinator (spec §5) requires the stop
// check to be contention-free on every search node, so this version uses a
// real atomic.Bool instead, and derives deadlines with spec §6's exact
// formula (hard = t/2, soft = (t + m·i) / m) rather than the teacher's
// branch-factor heuristic.
package search

import (
	"sync/atomic"
	"time"
)

// TimeControl holds one search's wall-clock budget and the shared stop
// flag every worker polls.
type TimeControl struct {
	hard, soft time.Duration // zero means unbounded
	deadline   time.Time
	start      time.Time

	depthLimit int // 0 means unbounded
	nodeLimit  uint64

	stop atomic.Bool
}

// Params carries the subset of UCI go fields relevant to time budgeting.
// Exactly one of {Infinite, MoveTime, Time} applies, per spec §6.
type Params struct {
	Infinite  bool
	MoveTime  time.Duration
	Time      time.Duration
	Inc       time.Duration
	MovesToGo int
	Depth     int
	Nodes     uint64
}

const defaultMovesToGo = 30

// NewTimeControl derives hard/soft deadlines from p per spec §6.
func NewTimeControl(p Params) *TimeControl {
	tc := &TimeControl{depthLimit: p.Depth, nodeLimit: p.Nodes}
	tc.start = timeNow()

	switch {
	case p.Infinite:
		// Unbounded: only depth/node caps or an explicit stop can end it.
	case p.MoveTime > 0:
		tc.hard = p.MoveTime
		tc.soft = p.MoveTime
	case p.Time > 0:
		m := p.MovesToGo
		if m <= 0 {
			m = defaultMovesToGo
		}
		tc.hard = p.Time / 2
		tc.soft = (p.Time + time.Duration(m)*p.Inc) / time.Duration(m)
		if tc.soft > tc.hard {
			tc.soft = tc.hard
		}
	}

	if tc.hard > 0 {
		tc.deadline = tc.start.Add(tc.hard)
	}
	return tc
}

// timeNow is the one place wall-clock time enters this package, isolated
// so tests can substitute a fake clock if ever needed.
func timeNow() time.Time { return time.Now() }

// Stop marks the search as stopped; idempotent and safe from any goroutine.
func (tc *TimeControl) Stop() { tc.stop.Store(true) }

// Stopped reports whether the search has been told to stop, including by
// the hard wall-clock deadline.
func (tc *TimeControl) Stopped() bool {
	if tc.stop.Load() {
		return true
	}
	if !tc.deadline.IsZero() && timeNow().After(tc.deadline) {
		tc.stop.Store(true)
		return true
	}
	return false
}

// EnoughTimeForNextDepth reports whether to begin another iterative
// deepening depth, given the time already spent. The soft budget is
// checked only here, at the start of a depth, per spec §5: the predicted
// cost of the next depth is taken as 10x the elapsed time so far.
func (tc *TimeControl) EnoughTimeForNextDepth(depth int) bool {
	if tc.depthLimit > 0 && depth > tc.depthLimit {
		return false
	}
	if tc.soft == 0 {
		return true
	}
	elapsed := timeNow().Sub(tc.start)
	predicted := 10 * elapsed
	return predicted <= tc.soft
}

// NodeLimitReached reports whether nodes has reached the configured cap.
func (tc *TimeControl) NodeLimitReached(nodes uint64) bool {
	return tc.nodeLimit > 0 && nodes >= tc.nodeLimit
}

// Elapsed returns the time spent since the search started.
func (tc *TimeControl) Elapsed() time.Duration {
	return timeNow().Sub(tc.start)
}
