package pool

import "io"

// Lease is a scoped handle over an instance checked out of a Pool. Pair it
// with defer so the instance returns on every exit path:
//
//	l := p.Lease()
//	defer l.Release()
type Lease[T any] struct {
	pool  *Pool[T]
	value T
}

// Value returns the leased instance. It must not be retained after Release.
func (l *Lease[T]) Value() T {
	return l.value
}

// Release returns the instance to its pool.
func (l *Lease[T]) Release() {
	if l == nil || l.pool == nil {
		return
	}
	l.pool.Release(l.value)
}

// Close releases the lease and always returns nil.
func (l *Lease[T]) Close() error {
	l.Release()
	return nil
}

// Use runs fn with the handle h and closes h when fn returns, including when
// fn panics. The close error is reported only if fn succeeded.
func Use[H io.Closer](h H, fn func(H) error) (err error) {
	defer func() {
		if cerr := h.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return fn(h)
}
