package usecase

import (
	"context"
	"fmt"
)

// ExhaustedError is returned by Retry when every attempt failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Retry runs op until it succeeds or maxAttempts calls have failed. It does not
// log: the caller decides what an exhausted operation means. A cancelled
// context stops the loop and its error is returned as is.
func Retry[T any](ctx context.Context, maxAttempts int, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := op(ctx, attempt)
		if err == nil {
			return v, nil
		}
		last = err
	}
	return zero, &ExhaustedError{Attempts: maxAttempts, Last: last}
}
