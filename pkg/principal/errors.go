package principal

import "errors"

var (
	ErrMissingSigningKey = errors.New("missing signing key")
	ErrMissingToken      = errors.New("missing bearer token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token expired")
	ErrUnknownRole       = errors.New("unknown role")
)
