// Package check records the assertions made during a single test and decides
// how the test ended.
//
// An Asserter distinguishes between hard failures, which abort the running
// test, and warnings (soft failures), which are recorded and let the test
// carry on. Outcome combines what was recorded with the state of the
// underlying testing.TB.
package check

import (
	"fmt"
	"sync"
)

// TB is the part of testing.TB an Asserter needs.
type TB interface {
	Helper()
	Name() string
	Errorf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	FailNow()
	Failed() bool
	Skipped() bool
}

// Outcome is the final state of a test.
type Outcome int

// The valid outcomes.
const (
	Passed Outcome = iota
	Warning
	Failed
	Skipped
	Inconclusive
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "Passed"
	case Warning:
		return "Warning"
	case Failed:
		return "Failed"
	case Skipped:
		return "Skipped"
	case Inconclusive:
		return "Inconclusive"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Asserter tracks the passes and warnings of a test. It is safe for
// concurrent use.
type Asserter struct {
	t TB

	// Strict makes a test that recorded nothing at all, neither a pass nor
	// a successful step, Inconclusive instead of Passed.
	Strict bool

	mu       sync.Mutex
	passes   []string
	warnings []string
	steps    int
}

// New returns an Asserter bound to t.
func New(t TB) *Asserter {
	return &Asserter{t: t}
}

// Pass records a successful assertion. The test keeps running.
func (a *Asserter) Pass(format string, args ...interface{}) {
	a.mu.Lock()
	a.passes = append(a.passes, fmt.Sprintf(format, args...))
	a.mu.Unlock()
}

// Step records an action that succeeded, such as a navigation or a click,
// without asserting anything.
func (a *Asserter) Step() {
	a.mu.Lock()
	a.steps++
	a.mu.Unlock()
}

// Steps returns the number of recorded steps.
func (a *Asserter) Steps() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.steps
}

// Warn records a soft failure. The test keeps running and will end with a
// Warning outcome unless it fails later on.
func (a *Asserter) Warn(format string, args ...interface{}) {
	a.t.Helper()
	msg := fmt.Sprintf(format, args...)
	a.mu.Lock()
	a.warnings = append(a.warnings, msg)
	a.mu.Unlock()
	a.t.Logf("warning: %s", msg)
}

// Fail marks the test as failed and stops it. Like testing.T.FailNow it must
// be called from the goroutine running the test.
func (a *Asserter) Fail(format string, args ...interface{}) {
	a.t.Helper()
	a.t.Errorf(format, args...)
	a.t.FailNow()
}

// Passes returns the recorded passes in order.
func (a *Asserter) Passes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.passes...)
}

// Warnings returns the recorded warnings in order.
func (a *Asserter) Warnings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.warnings...)
}

// Outcome reports how the test ended so far.
func (a *Asserter) Outcome() Outcome {
	switch {
	case a.t.Failed():
		return Failed
	case a.t.Skipped():
		return Skipped
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case len(a.warnings) > 0:
		return Warning
	case a.Strict && len(a.passes) == 0 && a.steps == 0:
		return Inconclusive
	}
	return Passed
}
