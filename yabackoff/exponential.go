package yabackoff

import "time"

// Exponential multiplies the delay by a constant factor on every Next call and
// caps it at the max interval. The first Next returns the initial interval.
//
// The zero value is usable and falls back to the package defaults.
type Exponential struct {
	initial    time.Duration
	multiplier float64
	maxDelay   time.Duration
	current    time.Duration
	started    bool
}

// NewExponential returns an exponential back-off. Zero arguments are replaced
// by the package defaults.
//
// Example:
//
//	policy := yabackoff.NewExponential(100*time.Millisecond, 2, time.Second)
//	policy.Next() // 100ms
//	policy.Next() // 200ms
func NewExponential(initial time.Duration, multiplier float64, maxDelay time.Duration) Exponential {
	e := Exponential{
		initial:    initial,
		multiplier: multiplier,
		maxDelay:   maxDelay,
	}

	e.defaults()

	return e
}

func (e *Exponential) Next() time.Duration {
	e.defaults()

	if !e.started {
		e.started = true
		e.current = min(e.initial, e.maxDelay)

		return e.current
	}

	e.current = min(time.Duration(float64(e.current)*e.multiplier), e.maxDelay)

	return e.current
}

func (e *Exponential) Current() time.Duration {
	return e.current
}

func (e *Exponential) Reset() {
	e.started = false
	e.current = 0
}

func (e *Exponential) defaults() {
	if e.initial <= 0 {
		e.initial = DefaultInitialInterval
	}

	if e.multiplier < 1 {
		e.multiplier = DefaultMultiplier
	}

	if e.maxDelay <= 0 {
		e.maxDelay = DefaultMaxInterval
	}
}
