package utils

import "github.com/sony/gobreaker"

// ExecuteWithBreaker runs fn through cb and narrows the untyped result
// back to T.
func ExecuteWithBreaker[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return res.(T), nil
}
