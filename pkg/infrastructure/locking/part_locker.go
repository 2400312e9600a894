package locking

import (
	"context"
	"fmt"

	"github.com/EagleChen/mapmutex"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// Config tunes the retry/backoff behaviour of the keyed mutex
type Config struct {
	MaxRetry  int
	MaxDelay  float64 // nanoseconds
	BaseDelay float64 // nanoseconds
	Factor    float64
	Jitter    float64
}

// DefaultConfig gives up after roughly one second: the backoff grows from 10ns
// by 1.1x per retry and reaches the 0.1s cap after about 170 retries.
func DefaultConfig() Config {
	return Config{
		MaxRetry:  170,
		MaxDelay:  100000000, // 0.1 second
		BaseDelay: 10,
		Factor:    1.1,
		Jitter:    0.2,
	}
}

// PartLocker serializes mutations per part code. Operations on different
// parts never contend.
type PartLocker struct {
	mutex *mapmutex.Mutex
}

// NewPartLocker creates a PartLocker; a zero MaxRetry falls back to DefaultConfig
func NewPartLocker(config Config) *PartLocker {
	if config.MaxRetry <= 0 {
		config = DefaultConfig()
	}
	return &PartLocker{
		mutex: mapmutex.NewCustomizedMapMutex(
			config.MaxRetry,
			config.MaxDelay,
			config.BaseDelay,
			config.Factor,
			config.Jitter),
	}
}

// Lock acquires the lock for part. It returns entities.ErrLockTimeout once
// retries are exhausted, or the context error as soon as ctx is done.
func (l *PartLocker) Lock(ctx context.Context, part entities.PartCode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("lock %s: %w", part, err)
	}

	acquired := make(chan bool, 1)
	go func() {
		acquired <- l.mutex.TryLock(part)
	}()

	select {
	case ok := <-acquired:
		if !ok {
			return fmt.Errorf("%w: %s", entities.ErrLockTimeout, part)
		}
		return nil
	case <-ctx.Done():
		// The pending attempt may still succeed; hand the lock straight back
		go func() {
			if <-acquired {
				l.mutex.Unlock(part)
			}
		}()
		return fmt.Errorf("lock %s: %w", part, ctx.Err())
	}
}

// Unlock releases the lock for part
func (l *PartLocker) Unlock(part entities.PartCode) {
	l.mutex.Unlock(part)
}

// WithLock runs fn while holding the lock for part. fn is not run when ctx is
// done by the time the lock is acquired.
func (l *PartLocker) WithLock(ctx context.Context, part entities.PartCode, fn func() error) error {
	if err := l.Lock(ctx, part); err != nil {
		return err
	}
	defer l.Unlock(part)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("lock %s: %w", part, err)
	}
	return fn()
}
