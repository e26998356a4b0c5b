package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAPIKeyTooShort = errors.New("api key must be at least 16 characters")
	ErrNoAPIKey       = errors.New("either an api key or an api key hash is required")
	ErrInvalidHash    = errors.New("api key hash is not a valid bcrypt hash")
)

const (
	bcryptCost      = 12
	minAPIKeyLength = 16
)

// APIKeyVerifier checks the shared secret presented by API clients. It holds
// either the plaintext key, compared in constant time, or a bcrypt hash of
// it. With a hash, the digest of the last key that matched is remembered so
// bcrypt runs once rather than on every request.
type APIKeyVerifier struct {
	plainDigest *[sha256.Size]byte
	hash        []byte
	verified    atomic.Pointer[[sha256.Size]byte]
}

// NewAPIKeyVerifier creates a verifier. A non-empty hash takes precedence
// over the plaintext key.
func NewAPIKeyVerifier(plainKey, bcryptHash string) (*APIKeyVerifier, error) {
	if bcryptHash != "" {
		if _, err := bcrypt.Cost([]byte(bcryptHash)); err != nil {
			return nil, ErrInvalidHash
		}
		return &APIKeyVerifier{hash: []byte(bcryptHash)}, nil
	}
	if plainKey == "" {
		return nil, ErrNoAPIKey
	}
	digest := sha256.Sum256([]byte(plainKey))
	return &APIKeyVerifier{plainDigest: &digest}, nil
}

// Verify reports whether key is the configured API key
func (v *APIKeyVerifier) Verify(key string) bool {
	if key == "" {
		return false
	}
	digest := sha256.Sum256([]byte(key))

	if v.plainDigest != nil {
		return subtle.ConstantTimeCompare(digest[:], v.plainDigest[:]) == 1
	}

	if known := v.verified.Load(); known != nil &&
		subtle.ConstantTimeCompare(digest[:], known[:]) == 1 {
		return true
	}
	if bcrypt.CompareHashAndPassword(v.hash, []byte(key)) != nil {
		return false
	}
	v.verified.Store(&digest)
	return true
}

// HashAPIKey hashes an API key with bcrypt for use as API_KEY_HASH
func HashAPIKey(key string) (string, error) {
	if len(key) < minAPIKeyLength {
		return "", ErrAPIKeyTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
