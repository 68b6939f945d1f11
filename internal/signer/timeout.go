package signer

import (
	"context"
	"mome/internal/transaction"
	"time"

	"github.com/pkg/errors"
)

type answer struct {
	signature *transaction.Signature
	err       error
}

// WithTimeout bounds how long delegate may take. A zero or negative d returns
// delegate unchanged. The deadline holds even for delegates that ignore ctx.
func WithTimeout(delegate transaction.SigningDelegate, d time.Duration) transaction.SigningDelegate {
	if d <= 0 {
		return delegate
	}

	return func(ctx context.Context, request transaction.SignatureRequest) (*transaction.Signature, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		answers := make(chan answer, 1)
		go func() {
			signature, err := delegate(ctx, request)
			answers <- answer{signature: signature, err: err}
		}()

		select {
		case a := <-answers:
			return a.signature, a.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, errors.Wrapf(ErrTimeout, "signer: waited %s", d)
			}
			return nil, ctx.Err()
		}
	}
}
