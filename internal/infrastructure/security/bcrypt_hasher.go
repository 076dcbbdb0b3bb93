package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danmigwi24/credential-service/internal/core/domain"
	"github.com/danmigwi24/credential-service/internal/pkg/metrics"
)

// Runner executes CPU-bound work, typically on a bounded worker pool.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

// BcryptHasher hashes passwords with bcrypt at a configurable cost.
//
// The cost and salt are encoded in every hash it produces, so raising the
// cost later does not invalidate hashes that are already stored.
type BcryptHasher struct {
	cost   int
	runner Runner
}

// NewBcryptHasher returns a hasher using cost. When runner is nil the work
// runs on the calling goroutine.
func NewBcryptHasher(cost int, runner Runner) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range [%d, %d]",
			domain.ErrInvalidArgument, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost, runner: runner}, nil
}

// Hash returns the bcrypt hash of password with a freshly generated salt.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is empty", domain.ErrInvalidArgument)
	}
	if len(password) > domain.MaxPasswordBytes {
		return "", fmt.Errorf("%w: password exceeds %d bytes", domain.ErrInvalidArgument, domain.MaxPasswordBytes)
	}

	var hash []byte
	err := h.run(ctx, "hash", func() error {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A mismatch returns false and
// a nil error; a hash that is not a bcrypt hash is an ErrInvalidArgument.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, fmt.Errorf("%w: password and hash are required", domain.ErrInvalidArgument)
	}
	// Hash refuses such inputs, so no stored hash can match them.
	if len(password) > domain.MaxPasswordBytes {
		return false, nil
	}

	var cmpErr error
	err := h.run(ctx, "verify", func() error {
		cmpErr = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		return nil
	})
	if err != nil {
		return false, err
	}

	switch {
	case cmpErr == nil:
		return true, nil
	case errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, cmpErr)
	}
}

// Cost returns the work factor embedded in a stored hash.
func (h *BcryptHasher) Cost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return cost, nil
}

func (h *BcryptHasher) run(ctx context.Context, op string, fn func() error) error {
	timed := func() error {
		start := time.Now()
		defer func() { metrics.HashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds()) }()
		return fn()
	}

	if h.runner != nil {
		return h.runner.Do(ctx, timed)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return timed()
}
