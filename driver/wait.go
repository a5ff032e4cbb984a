package driver

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by Wait.Until when the condition never held.
var ErrTimeout = errors.New("timeout")

// DefaultPollInterval is how often a Wait re-checks its condition.
const DefaultPollInterval = 500 * time.Millisecond

// Condition reports whether the awaited state holds. Errors are remembered
// and the condition is polled again.
type Condition func() (bool, error)

// Wait polls a Condition until it holds or Timeout elapses.
type Wait struct {
	Timeout  time.Duration
	Interval time.Duration
}

// Until blocks until cond returns true. The condition is checked at least
// once, even with a zero Timeout.
func (w Wait) Until(cond Condition) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(w.Timeout)

	var lastErr error
	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if remaining < interval {
			interval = remaining
		}
		time.Sleep(interval)
	}
	if lastErr != nil {
		return fmt.Errorf("%w after %v: %v", ErrTimeout, w.Timeout, lastErr)
	}
	return fmt.Errorf("%w after %v", ErrTimeout, w.Timeout)
}
