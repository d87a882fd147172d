// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/folio/ai"
)

// RetryPolicy controls how provider calls are retried inside stages.
// All stages share one policy so backoff behavior stays uniform.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts, at least 1.
	MaxAttempts int

	// BaseDelay is the delay after the first failure; it doubles on each
	// subsequent failure.
	BaseDelay time.Duration

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries only transient provider errors.
	Retryable func(error) bool
}

// DefaultRetryPolicy returns the policy stages use unless configured
// otherwise: 3 attempts, 1s base delay, transient provider errors only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Retryable:   ai.IsTransient,
	}
}

// Do runs the operation under the policy with exponential backoff.
// Returns the error from the last attempt if all attempts fail, or the
// context's error if it is cancelled while waiting.
func (p RetryPolicy) Do(ctx context.Context, operation func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = ai.IsTransient
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", attempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == attempts {
			break
		}

		// Exponential backoff: baseDelay * 2^(attempt-1)
		delay := p.BaseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
