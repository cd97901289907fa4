package accesslog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher produces a tamper-evidence checksum over an entry's identity fields.
type Hasher interface {
	Hash(entry Entry) string
}

type sha256Hasher struct{}

// NewSHA256Hasher returns the default checksum implementation.
func NewSHA256Hasher() Hasher {
	return &sha256Hasher{}
}

// Hash covers the fields that identify the decision. Detail is excluded
// because map serialization order is not stable.
func (h *sha256Hasher) Hash(entry Entry) string {
	data := fmt.Sprintf(
		"%s|%d|%s|%s|%s|%s|%s|%s|%s|%s",
		entry.ID,
		entry.Time.UnixNano(),
		entry.PrincipalID,
		entry.TenantID,
		entry.Route,
		entry.Operation,
		entry.Entity,
		entry.Outcome,
		entry.Severity,
		entry.Error,
	)

	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
