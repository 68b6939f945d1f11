package blockchain

import (
	"context"
	"mome/internal/logger"
	"net/http"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	RateLimitAttempts = 5
	RateLimitPause    = 500 * time.Millisecond
)

type Func[T any] func() (T, error)

// rateLimitRetry repeats a read while the node answers 429. Writes never go through here.
func rateLimitRetry[T any](ctx context.Context, fn Func[T]) (T, error) {
	var result T
	var err error

	for attempt := 1; attempt <= RateLimitAttempts; attempt++ {
		result, err = fn()
		if err == nil || !isRateLimited(err) {
			return result, err
		}

		logger.Debug("blockchain: rate limited, pausing", zap.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(RateLimitPause):
		}
	}

	return result, err
}

func isRateLimited(err error) bool {
	var httpErr *aptos.HttpError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests
}

func isNotFound(err error) bool {
	var httpErr *aptos.HttpError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
