package llm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"hypeproof/pkg/agent/llmerrors"
)

// RetryPredicate decides whether a failed query is worth retrying.
type RetryPredicate func(error) bool

// RetryMiddleware returns a middleware that retries failed queries with
// exponential backoff. maxRetries caps the attempts regardless of the
// per-error-type budget; the predicate decides retriability (pass
// agent.IsRetriable to get the standard policy). Non-retriable errors
// return immediately.
func RetryMiddleware(maxRetries int, retriable RetryPredicate) Middleware {
	return func(next Client) Client {
		return WrapClient(
			func(ctx context.Context, prompt string) (Response, error) {
				var lastErr error

				for attempt := 0; attempt <= maxRetries; attempt++ {
					if attempt > 0 {
						delay := backoffDelay(lastErr, attempt)
						select {
						case <-ctx.Done():
							return Response{}, ctx.Err()
						case <-time.After(delay):
						}
					}

					resp, err := next.Query(ctx, prompt)
					if err == nil {
						return resp, nil
					}
					lastErr = err

					if retriable != nil && !retriable(err) {
						return Response{}, err
					}
					budget := llmerrors.Classify(err).GetRetryConfig().MaxRetries
					if budget < maxRetries && attempt >= budget {
						break
					}
				}

				return Response{}, fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
			},
			next.ModelName,
		)
	}
}

// backoffDelay computes the sleep before the given retry attempt from the
// classified error's retry configuration.
func backoffDelay(err error, attempt int) time.Duration {
	cfg := llmerrors.Classify(err).GetRetryConfig()
	if cfg.InitialDelay <= 0 {
		return 0
	}

	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-1)))
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	if cfg.Jitter {
		// Up to ±10% to avoid synchronized retries.
		jitter := time.Duration((rand.Float64()*0.2 - 0.1) * float64(delay)) //nolint:gosec // Non-cryptographic jitter
		delay += jitter
		if delay < 0 {
			delay = cfg.InitialDelay
		}
	}

	return delay
}
