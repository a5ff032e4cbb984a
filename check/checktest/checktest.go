// Package checktest provides a recording check.TB for testing code that
// makes assertions.
package checktest

import (
	"fmt"
	"runtime"
	"sync"
)

// Recorder is a check.TB that records what happens to it instead of
// affecting a real test.
type Recorder struct {
	mu      sync.Mutex
	name    string
	errors  []string
	logs    []string
	failed  bool
	stopped bool
	skipped bool
}

// NewRecorder returns a Recorder reporting the given test name.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

func (r *Recorder) Helper() {}

func (r *Recorder) Name() string { return r.name }

func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
	r.failed = true
}

func (r *Recorder) Logf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

// FailNow marks the recorder failed and exits the calling goroutine. Code
// that may call it should be run through Run.
func (r *Recorder) FailNow() {
	r.mu.Lock()
	r.failed = true
	r.stopped = true
	r.mu.Unlock()
	runtime.Goexit()
}

// SkipNow marks the recorder skipped and exits the calling goroutine.
func (r *Recorder) SkipNow() {
	r.mu.Lock()
	r.skipped = true
	r.stopped = true
	r.mu.Unlock()
	runtime.Goexit()
}

func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

func (r *Recorder) Skipped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// Stopped reports whether FailNow or SkipNow was called.
func (r *Recorder) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Errors returns the messages passed to Errorf.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Logs returns the messages passed to Logf.
func (r *Recorder) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.logs...)
}

// Run calls f on a new goroutine and waits for it to return or to be stopped
// by FailNow or SkipNow. It reports whether f ran to completion.
func Run(f func()) (completed bool) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f()
		completed = true
	}()
	wg.Wait()
	return completed
}
