package engine

import "time"

// Limits expresses a search budget: a maximum depth, a maximum
// wall-clock time, or unlimited (bounded only by MaxPly).
type Limits struct {
	MaxDepth int32
	MaxTime  time.Duration // 0 means unlimited
}

// TimeControl tracks a running search's deadline and cooperative
// cancellation flag. The search polls it only between iterative-deepening
// iterations and at the start of each root move, never inside a node, so
// interior nodes always run to completion.
type TimeControl struct {
	limits    Limits
	start     time.Time
	deadline  time.Time
	hasDeadline bool
	stopped   bool
}

func NewTimeControl(limits Limits) *TimeControl {
	tc := &TimeControl{limits: limits, start: time.Now()}
	if limits.MaxTime > 0 {
		tc.deadline = tc.start.Add(limits.MaxTime)
		tc.hasDeadline = true
	}
	return tc
}

// Stop requests cancellation; the search returns the best result from
// the most recently completed iteration.
func (tc *TimeControl) Stop() { tc.stopped = true }

// NextDepth reports whether the iterative-deepening loop may start
// searching the given depth.
func (tc *TimeControl) NextDepth(depth int32) bool {
	if tc.stopped {
		return false
	}
	if tc.limits.MaxDepth > 0 && depth > tc.limits.MaxDepth {
		return false
	}
	if tc.hasDeadline && time.Now().After(tc.deadline) {
		return false
	}
	return depth < MaxPly
}

// CheckRootMove reports whether the search may still begin the next
// root move in the current iteration.
func (tc *TimeControl) CheckRootMove() bool {
	if tc.stopped {
		return false
	}
	if tc.hasDeadline && time.Now().After(tc.deadline) {
		return false
	}
	return true
}
