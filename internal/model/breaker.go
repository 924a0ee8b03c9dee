package model

import (
	"sync/atomic"
	"time"
)

// breaker short-circuits a persistently failing artifact straight to
// the fallback path. After failureThreshold consecutive failures the
// artifact is skipped for recoveryTimeout, then probed again.
type breaker struct {
	failureThreshold int32
	recoveryTimeout  time.Duration
	failures         atomic.Int32
	openUntil        atomic.Int64 // unix nanos; 0 when closed
}

func newBreaker(failureThreshold int, recoveryTimeout time.Duration) *breaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	if recoveryTimeout <= 0 {
		recoveryTimeout = 30 * time.Second
	}
	return &breaker{
		failureThreshold: int32(failureThreshold),
		recoveryTimeout:  recoveryTimeout,
	}
}

func (b *breaker) allow() bool {
	until := b.openUntil.Load()
	if until == 0 {
		return true
	}
	if time.Now().UnixNano() < until {
		return false
	}
	// Probe: let one attempt through, stay armed until it succeeds.
	b.openUntil.Store(0)
	return true
}

func (b *breaker) success() {
	b.failures.Store(0)
	b.openUntil.Store(0)
}

func (b *breaker) failure() {
	if b.failures.Add(1) >= b.failureThreshold {
		b.openUntil.Store(time.Now().Add(b.recoveryTimeout).UnixNano())
		b.failures.Store(0)
	}
}
