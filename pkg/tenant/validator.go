package tenant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/metrics"
)

// DefaultTTL bounds how long a verdict may be served without consulting
// the directory. Suspending a tenant takes effect everywhere within this
// window even if explicit invalidation is lost.
const DefaultTTL = 5 * time.Minute

// Validator answers whether requests may bind to a tenant, caching
// verdicts so the directory is consulted at most once per TTL per tenant.
type Validator struct {
	directory Directory
	cache     Cache
	ttl       time.Duration
	log       *slog.Logger
}

// ValidatorOption configures the validator.
type ValidatorOption func(*Validator)

// WithCache sets the verdict cache. Without one every validation hits
// the directory.
func WithCache(cache Cache) ValidatorOption {
	return func(v *Validator) {
		if cache == nil {
			panic("tenant: cache cannot be nil")
		}
		v.cache = cache
	}
}

// WithTTL overrides the verdict TTL.
func WithTTL(ttl time.Duration) ValidatorOption {
	return func(v *Validator) {
		if ttl <= 0 {
			panic("tenant: ttl must be positive")
		}
		v.ttl = ttl
	}
}

// WithValidatorLogger sets the logger for cache degradation warnings.
func WithValidatorLogger(log *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		if log == nil {
			panic("tenant: logger cannot be nil")
		}
		v.log = log
	}
}

// NewValidator creates a validator over the authoritative directory.
func NewValidator(directory Directory, opts ...ValidatorOption) *Validator {
	if directory == nil {
		panic("tenant: directory cannot be nil")
	}

	v := &Validator{
		directory: directory,
		cache:     NewNoOpCache(),
		ttl:       DefaultTTL,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns the verdict for a tenant id, from cache when fresh.
// Cache failures degrade to a directory lookup; only a directory failure
// is surfaced, and callers must treat it as a denial.
func (v *Validator) Validate(ctx context.Context, id uuid.UUID) (Verdict, error) {
	if id == uuid.Nil {
		return Verdict{FetchedAt: time.Now().UTC()}, nil
	}

	start := time.Now()

	verdict, ok, err := v.cache.Get(ctx, id)
	if err != nil {
		v.log.WarnContext(ctx, "verdict cache read failed",
			logger.Error(err),
			logger.TenantID(id),
			logger.Component("tenant"))
	} else if ok && time.Since(verdict.FetchedAt) < v.ttl {
		metrics.ObserveValidation(metrics.SourceCache, start)
		return verdict, nil
	}

	verdict, err = v.fetch(ctx, id)
	if err != nil {
		return Verdict{}, err
	}

	if err := v.cache.Set(ctx, id, verdict, v.ttl); err != nil {
		v.log.WarnContext(ctx, "verdict cache fill failed",
			logger.Error(err),
			logger.TenantID(id),
			logger.Component("tenant"))
	}

	metrics.ObserveValidation(metrics.SourceDirectory, start)
	return verdict, nil
}

func (v *Validator) fetch(ctx context.Context, id uuid.UUID) (Verdict, error) {
	t, err := v.directory.Lookup(ctx, id)
	switch {
	case err == nil:
		return Verdict{
			Exists:    true,
			Active:    t.Active(),
			Status:    t.Status,
			FetchedAt: time.Now().UTC(),
		}, nil
	case errors.Is(err, ErrTenantNotFound):
		return Verdict{FetchedAt: time.Now().UTC()}, nil
	default:
		return Verdict{}, err
	}
}

// Invalidate busts one cached verdict. Callers changing tenant state
// publish the bust through the invalidation feed as well.
func (v *Validator) Invalidate(ctx context.Context, id uuid.UUID) error {
	return v.cache.Delete(ctx, id)
}

// InvalidateAll busts every cached verdict.
func (v *Validator) InvalidateAll(ctx context.Context) error {
	return v.cache.DeleteAll(ctx)
}
