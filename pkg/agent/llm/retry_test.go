package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypeproof/pkg/agent/llmerrors"
)

// retriableAlways treats every error as transient, isolating the retry
// loop from the classification policy under test elsewhere.
func retriableAlways(error) bool { return true }

func TestRetryMiddlewareSucceedsAfterTransientErrors(t *testing.T) {
	mock := NewMockClient(
		[]Response{{Result: "finally"}},
		[]error{
			llmerrors.NewError(llmerrors.ErrorTypeConnection, "connection reset"),
			llmerrors.NewError(llmerrors.ErrorTypeConnection, "connection reset"),
		},
	)
	client := Chain(mock, RetryMiddleware(3, retriableAlways))

	resp, err := client.Query(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "finally", resp.Result)
	assert.Len(t, mock.Queries(), 3)
}

func TestRetryMiddlewareStopsOnNonRetriable(t *testing.T) {
	authErr := llmerrors.NewError(llmerrors.ErrorTypeAuth, "invalid api key")
	mock := NewMockClient(
		[]Response{{Result: "never reached"}},
		[]error{authErr},
	)
	notRetriable := func(err error) bool {
		return llmerrors.Classify(err).IsRetryable()
	}
	client := Chain(mock, RetryMiddleware(3, notRetriable))

	_, err := client.Query(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, authErr)
	assert.Len(t, mock.Queries(), 1, "non-retriable error must not be retried")
}

func TestRetryMiddlewareExhaustsBudget(t *testing.T) {
	errs := []error{
		llmerrors.NewError(llmerrors.ErrorTypeConnection, "down"),
		llmerrors.NewError(llmerrors.ErrorTypeConnection, "down"),
		llmerrors.NewError(llmerrors.ErrorTypeConnection, "down"),
	}
	mock := NewMockClient(nil, errs)
	client := Chain(mock, RetryMiddleware(2, retriableAlways))

	_, err := client.Query(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 retries")
	assert.Len(t, mock.Queries(), 3)
}

func TestRetryMiddlewareHonorsContextCancellation(t *testing.T) {
	mock := NewMockClient(nil, []error{
		llmerrors.NewError(llmerrors.ErrorTypeRateLimit, "429"),
	})
	client := Chain(mock, RetryMiddleware(5, retriableAlways))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Query(ctx, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryMiddlewarePerTypeBudgetCapsAttempts(t *testing.T) {
	// Unknown errors carry a budget of one retry even when the
	// middleware allows more.
	errs := []error{
		errors.New("odd failure"),
		errors.New("odd failure"),
		errors.New("odd failure"),
	}
	mock := NewMockClient(nil, errs)
	client := Chain(mock, RetryMiddleware(5, retriableAlways))

	_, err := client.Query(context.Background(), "hello")
	require.Error(t, err)
	assert.Len(t, mock.Queries(), 2, "unknown-type budget is one retry")
}

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Client) Client {
			return WrapClient(func(ctx context.Context, prompt string) (Response, error) {
				order = append(order, name)
				return next.Query(ctx, prompt)
			}, next.ModelName)
		}
	}

	mock := NewMockClient([]Response{{Result: "ok"}}, nil)
	client := Chain(mock, tag("outer"), tag("inner"))

	_, err := client.Query(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "mock-model", client.ModelName())
}

func TestMockClientExhaustion(t *testing.T) {
	mock := NewMockClient([]Response{{Result: "one"}}, nil)

	_, err := mock.Query(context.Background(), "a")
	require.NoError(t, err)

	_, err = mock.Query(context.Background(), "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no more responses")
}
