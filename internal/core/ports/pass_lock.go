package ports

import "context"

// PassLock keeps dispatch passes from overlapping across replicas.
type PassLock interface {
	// TryAcquire returns false without blocking if another holder owns the lock.
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}
