package ratelimiter

import "errors"

var (
	// ErrInvalidConfig reports a bucket configuration that cannot work:
	// zero capacity, zero refill rate, or a non-positive interval.
	ErrInvalidConfig = errors.New("invalid rate limiter configuration")

	// ErrInvalidTokenCount reports an AllowN call asking for zero or
	// negative tokens.
	ErrInvalidTokenCount = errors.New("invalid token count")
)
