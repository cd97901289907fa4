package principal

import "time"

// Config holds token verification parameters with environment variable mapping.
type Config struct {
	SigningKey string        `env:"AUTH_SIGNING_KEY,required"`                  // SigningKey is the HMAC secret, at least 32 bytes.
	Issuer     string        `env:"AUTH_TOKEN_ISSUER" envDefault:"hse-platform"` // Issuer expected in the iss claim.
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`             // TokenTTL is the lifetime of issued tokens.
}
