package pool

// ObjectPool recycles plain structs. When *T implements Resettable, Reset is
// called as the object re-enters the free list.
type ObjectPool[T any] struct {
	pool *Pool[*T]
}

// NewObjectPool constructs a pool that builds objects with new(T).
func NewObjectPool[T any](name string, opts ...Option) *ObjectPool[T] {
	return NewObjectPoolFunc(name, func() *T { return new(T) }, opts...)
}

// NewObjectPoolFunc constructs a pool that builds objects with newFunc.
func NewObjectPoolFunc[T any](name string, newFunc func() *T, opts ...Option) *ObjectPool[T] {
	return &ObjectPool[T]{pool: New(name, newFunc, resetHook[T](), opts...)}
}

// resetHook resolves the optional Resettable capability once per type.
func resetHook[T any]() func(*T) {
	if _, ok := any(new(T)).(Resettable); !ok {
		return nil
	}
	return func(obj *T) {
		any(obj).(Resettable).Reset()
	}
}

// Name returns the pool name.
func (p *ObjectPool[T]) Name() string {
	return p.pool.Name()
}

// Acquire returns a free object or a newly constructed one.
func (p *ObjectPool[T]) Acquire() *T {
	return p.pool.Acquire()
}

// Lease acquires an object wrapped in a scoped handle.
func (p *ObjectPool[T]) Lease() *Lease[*T] {
	return p.pool.Lease()
}

// Release resets obj if it is Resettable and returns it to the free list.
func (p *ObjectPool[T]) Release(obj *T) {
	p.pool.Release(obj)
}

// Contains reports whether obj is on the free list.
func (p *ObjectPool[T]) Contains(obj *T) bool {
	return p.pool.Contains(obj)
}

// Len returns the number of free objects.
func (p *ObjectPool[T]) Len() int {
	return p.pool.Len()
}

// Outstanding returns the number of objects checked out.
func (p *ObjectPool[T]) Outstanding() int {
	return p.pool.Outstanding()
}

// Stats returns the counters of the free list.
func (p *ObjectPool[T]) Stats() []Stats {
	return []Stats{p.pool.Stats()}
}

func (p *ObjectPool[T]) activeStacks() []string {
	return p.pool.activeStacks()
}
