package pipeline

import (
	"sync"
	"time"
)

type breakerState struct {
	failures    int
	lastFailure time.Time
	open        bool
	halfOpen    bool
}

// publishBreaker is a per-message-type circuit breaker over the publish
// path: it stops hammering a broker that is rejecting every publish of a
// given ITS message type and, once its reset timeout has passed, lets
// publishes through again to probe recovery, instead of retrying every
// packet against a broken connection.
type publishBreaker struct {
	mu               sync.Mutex
	failureThreshold int
	resetTimeout     time.Duration
	states           map[string]*breakerState
	logger           Logger
}

func newPublishBreaker(logger Logger, failureThreshold int, resetTimeout time.Duration) *publishBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &publishBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		states:           make(map[string]*breakerState),
		logger:           logger,
	}
}

func (b *publishBreaker) stateFor(mt string) *breakerState {
	s, ok := b.states[mt]
	if !ok {
		s = &breakerState{}
		b.states[mt] = s
	}
	return s
}

// Allow reports whether a publish of the given message type should be
// attempted right now. An open breaker past its reset timeout transitions
// to half-open and allows every call through until the next RecordResult
// closes it (success) or re-opens it (failure).
func (b *publishBreaker) Allow(mt string) bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.stateFor(mt)
	if !s.open {
		return true
	}
	if time.Since(s.lastFailure) >= b.resetTimeout {
		s.halfOpen = true
		return true
	}
	return false
}

// RecordResult feeds the outcome of an allowed publish back into the
// breaker for the given message type.
func (b *publishBreaker) RecordResult(mt string, err error) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.stateFor(mt)
	if err != nil {
		s.failures++
		s.lastFailure = time.Now()
		if s.halfOpen || s.failures >= b.failureThreshold {
			if !s.open && b.logger != nil {
				b.logger.Warn("pipeline: publish circuit opened", "message_type", mt, "failures", s.failures)
			}
			s.open = true
			s.halfOpen = false
		}
		return
	}
	if s.open || s.halfOpen {
		if b.logger != nil {
			b.logger.Info("pipeline: publish circuit closed", "message_type", mt)
		}
	}
	s.open = false
	s.halfOpen = false
	s.failures = 0
}
