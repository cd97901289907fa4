package ratelimiter

import (
	"fmt"
	"time"
)

// Config defines the token bucket shape. The zero value is invalid;
// load it through pkg/config or fill every field.
type Config struct {
	// Capacity is the maximum number of tokens the bucket holds (burst limit).
	Capacity int `env:"RATE_LIMIT_CAPACITY" envDefault:"100"`

	// RefillRate is the number of tokens added per refill interval.
	RefillRate int `env:"RATE_LIMIT_REFILL_RATE" envDefault:"50"`

	// RefillInterval is how often tokens are added.
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1s"`
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result is the outcome of a rate limit check.
type Result struct {
	Limit     int       // Bucket capacity
	Remaining int       // Tokens left after the check; negative means denied
	ResetAt   time.Time // When the next refill lands
}

// Allowed reports whether the request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying, or 0 when the
// request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}
