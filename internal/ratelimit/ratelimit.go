// Package ratelimit paces batch message processing with a token bucket.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles how many messages are processed per second.
type Limiter struct {
	limiter *rate.Limiter
}

// New uses 0 or a negative limit for unlimited throughput.
func New(messagesPerSecond float64) *Limiter {
	if messagesPerSecond <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	// Burst of 1: the first message goes through immediately, every
	// subsequent one waits for the configured interval.
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(messagesPerSecond), 1),
	}
}

// Wait blocks until the next message may be processed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow is the non-blocking variant of Wait.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SetLimit adjusts the rate at runtime. Zero or negative disables
// throttling.
func (l *Limiter) SetLimit(messagesPerSecond float64) {
	if messagesPerSecond <= 0 {
		l.limiter.SetLimit(rate.Inf)
	} else {
		l.limiter.SetLimit(rate.Limit(messagesPerSecond))
	}
}

// Limit reports the configured rate; 0 means unlimited.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
