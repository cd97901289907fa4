package principal

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims is the JWT payload issued by the platform. The subject carries the
// principal id; tenant_id is the organization membership claim and is absent
// for platform staff.
type Claims struct {
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Role     string     `json:"role"`
	Email    string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates and issues platform access tokens using HMAC-SHA256.
type Verifier struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// New creates a Verifier from config. The signing key must be non-empty.
func New(cfg Config) (*Verifier, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Verifier{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		ttl:        ttl,
	}, nil
}

// Verify validates the token signature, temporal claims, issuer, and role,
// and returns the Principal it encodes. Failures wrap ErrInvalidToken or
// ErrExpiredToken.
func (v *Verifier) Verify(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.signingKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, errors.Join(ErrExpiredToken, err)
		}
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return Principal{}, errors.Join(ErrInvalidToken, errors.New("issuer mismatch"))
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return Principal{}, errors.Join(ErrInvalidToken, errors.New("subject is not a principal id"))
	}

	role := Role(claims.Role)
	if !role.Valid() {
		return Principal{}, errors.Join(ErrInvalidToken, ErrUnknownRole)
	}

	return Principal{
		ID:       id,
		Role:     role,
		TenantID: claims.TenantID,
	}, nil
}

// Issue signs a token for the principal. Used by the operator tooling and
// tests; the production identity provider issues tokens with the same claims
// shape.
func (v *Verifier) Issue(p Principal, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID: p.TenantID,
		Role:     string(p.Role),
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.signingKey)
}
