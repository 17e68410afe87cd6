package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

const DefaultMaxRetries = 5

// keyedMutex serializes recomputations of the same event or season while
// letting different keys proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*keyLock)}
}

func (k *keyedMutex) Lock(key uuid.UUID) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// retryOnConflict runs op again from scratch while it fails with a
// ConsistencyError. Any other error stops the loop.
func retryOnConflict(ctx context.Context, maxRetries int, op func() error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 5 * time.Millisecond
	exp.MaxInterval = 250 * time.Millisecond
	exp.MaxElapsedTime = 5 * time.Second

	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil || errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}
