package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SecretSize is the number of random bytes in a generated signing secret
// (256 bits, the HS256 key size).
const SecretSize = 32

// fingerprintLen keeps log fingerprints short enough to read but long enough
// to correlate.
const fingerprintLen = 12

// GenerateSecret returns size random bytes. Used for signing secrets when
// none are configured.
func GenerateSecret(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cryptox: secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("cryptox: generate secret: %w", err)
	}
	return buf, nil
}

// Fingerprint returns a short, deterministic, non-reversible tag for a
// credential so logs can correlate a token without ever containing it.
func Fingerprint(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:fingerprintLen]
}
