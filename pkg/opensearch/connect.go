package opensearch

import (
	"context"
	"errors"

	"github.com/opensearch-project/opensearch-go/v2"
)

var (
	// ErrConnectionFailed marks client construction failures.
	ErrConnectionFailed = errors.New("opensearch connection failed")
	// ErrHealthcheckFailed means the cluster did not answer an Info
	// call.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
)

// Config describes the cluster connection. Addresses is comma-separated
// in the environment.
type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES,required"`
	Username     string   `env:"OPENSEARCH_USERNAME,notEmpty"`
	Password     string   `env:"OPENSEARCH_PASSWORD,notEmpty"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
}

// New returns a client that has answered at least one Info call.
func New(ctx context.Context, cfg Config) (*opensearch.Client, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	})
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	if err := Healthcheck(client)(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Healthcheck adapts the client's Info call into a readiness probe
// check.
func Healthcheck(client *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.Info(client.Info.WithContext(ctx)); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
