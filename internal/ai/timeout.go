package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type bounded struct {
	next    Generator
	model   string
	timeout time.Duration
}

// WithTimeout bounds every call to next by d. A call that runs past d fails with a
// *ModelCallError wrapping ErrModelTimeout. A non-positive d returns next unchanged.
func WithTimeout(next Generator, model string, d time.Duration) Generator {
	if d <= 0 {
		return next
	}
	return &bounded{next: next, model: model, timeout: d}
}

func (b *bounded) Generate(ctx context.Context, prompt string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	out, err := b.next.Generate(cctx, prompt)
	if err == nil {
		return out, nil
	}
	// Only our own deadline counts as a timeout; a cancelled parent is passed through.
	if errors.Is(cctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", &ModelCallError{Model: b.model, Err: fmt.Errorf("%w after %s", ErrModelTimeout, b.timeout)}
	}
	return "", err
}
