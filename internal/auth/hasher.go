package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcrypt ignores everything past 72 bytes, so longer secrets are refused
// rather than silently truncated.
const maxSecretBytes = 72

var ErrSecretTooLong = errors.New("password must be at most 72 bytes")

type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, stored string) bool
}

// BcryptHasher bounds concurrent bcrypt work by slots when given, and runs
// inline otherwise.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

func NewBcryptHasher(cost int, slots *semaphore.Weighted) *BcryptHasher {
	return &BcryptHasher{cost: cost, slots: slots}
}

func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > maxSecretBytes {
		return "", ErrSecretTooLong
	}

	var hashed []byte
	err := h.run(ctx, func() error {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches stored. Any failure, including a
// corrupt stored form, is a mismatch. A secret Hash would refuse never
// matches, otherwise bcrypt's truncation would accept any suffix.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, stored string) bool {
	if stored == "" || len(plaintext) > maxSecretBytes {
		return false
	}
	err := h.run(ctx, func() error {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext))
	})
	return err == nil
}

// run waits for a free slot, bounded by ctx. Once fn has started it runs to
// completion.
func (h *BcryptHasher) run(ctx context.Context, fn func() error) error {
	if h.slots == nil {
		return fn()
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.slots.Release(1)
	return fn()
}
