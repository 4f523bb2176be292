package cryptox

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost is the bcrypt work factor used when none is configured. It keeps
// an interactive login well under 100ms on commodity hardware.
const DefaultCost = 10

// MaxPasswordBytes is the longest input bcrypt will accept.
const MaxPasswordBytes = 72

var (
	ErrInvalidCost     = errors.New("cryptox: bcrypt cost out of range")
	ErrPasswordTooLong = errors.New("cryptox: password exceeds 72 bytes")
	ErrMalformedHash   = errors.New("cryptox: malformed password hash")
)

// Hasher hashes and verifies passwords with bcrypt. Hashing is CPU bound, so
// the number of concurrent bcrypt computations is capped and callers queue on
// the semaphore (honouring their context) instead of starving the scheduler.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher returns a Hasher with the given cost. A concurrency of zero or less
// defaults to GOMAXPROCS.
func NewHasher(cost int, concurrency int64) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	if concurrency <= 0 {
		concurrency = int64(runtime.GOMAXPROCS(0))
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(concurrency),
	}, nil
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns a salted bcrypt digest of plaintext.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is (false, nil);
// errors are reserved for cancellation and unreadable digests.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		// Nothing longer than the limit was ever hashed.
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

func (h *Hasher) acquire(ctx context.Context) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("cryptox: waiting for hasher: %w", err)
	}
	// Acquire can succeed on an already cancelled context when a slot is free.
	if err := ctx.Err(); err != nil {
		h.sem.Release(1)
		return fmt.Errorf("cryptox: waiting for hasher: %w", err)
	}
	return nil
}
