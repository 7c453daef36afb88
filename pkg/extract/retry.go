package extract

import (
	"time"

	"github.com/tamerhisham/autoboq/pkg/llm"
)

// retryPolicy is the per-module attempt budget and its delays. Rate-limit
// rejections back off exponentially; any other transport failure waits a
// short fixed delay and burns an attempt from the same budget.
type retryPolicy struct {
	maxAttempts int
	backoffBase time.Duration
	otherDelay  time.Duration
}

// decision is the outcome of classifying one failed attempt.
type decision struct {
	retry       bool
	rateLimited bool
	wait        time.Duration
}

// decide classifies err after the given 1-based failed attempt and computes
// the wait before the next try. The budget covers attempts, not failures of
// a particular class.
func (p retryPolicy) decide(attempt int, err error) decision {
	if attempt >= p.maxAttempts {
		return decision{}
	}
	if llm.IsRateLimit(err) {
		return decision{retry: true, rateLimited: true, wait: p.backoff(attempt)}
	}
	return decision{retry: true, wait: p.otherDelay}
}

// backoff returns 2^attempt * base: 8s, 16s, 32s for attempts 1, 2, 3 with
// the default 4s base.
func (p retryPolicy) backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * p.backoffBase
}
