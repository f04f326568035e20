package pool

// List is a growable slice checked out of a ListPool.
type List[T any] struct {
	Items []T

	pool *ListPool[T]
}

// Append adds values to the end of the list.
func (l *List[T]) Append(values ...T) {
	l.Items = append(l.Items, values...)
}

// Len returns the number of items in the list.
func (l *List[T]) Len() int {
	return len(l.Items)
}

// Release returns the list to the pool it came from.
func (l *List[T]) Release() {
	if l == nil || l.pool == nil {
		return
	}
	l.pool.Release(l)
}

// Close releases the list and always returns nil.
func (l *List[T]) Close() error {
	l.Release()
	return nil
}

// ListPool recycles lists through a single free list. Released lists keep
// their capacity and come back empty.
type ListPool[T any] struct {
	pool *Pool[*List[T]]
}

// NewListPool constructs an empty list pool.
func NewListPool[T any](name string, opts ...Option) *ListPool[T] {
	lp := new(ListPool[T])
	lp.pool = New(name,
		func() *List[T] { return &List[T]{pool: lp} },
		resetList[T],
		opts...,
	)
	return lp
}

// Name returns the pool name.
func (p *ListPool[T]) Name() string {
	return p.pool.Name()
}

// Acquire returns an empty list.
func (p *ListPool[T]) Acquire() *List[T] {
	return p.pool.Acquire()
}

// AcquireFrom returns a list holding a copy of src.
func (p *ListPool[T]) AcquireFrom(src []T) *List[T] {
	l := p.pool.Acquire()
	l.Items = append(l.Items, src...)
	return l
}

// Release empties l and returns it to the free list.
func (p *ListPool[T]) Release(l *List[T]) {
	p.pool.Release(l)
}

// Contains reports whether l is on the free list.
func (p *ListPool[T]) Contains(l *List[T]) bool {
	return p.pool.Contains(l)
}

// Len returns the number of free lists.
func (p *ListPool[T]) Len() int {
	return p.pool.Len()
}

// Outstanding returns the number of lists checked out.
func (p *ListPool[T]) Outstanding() int {
	return p.pool.Outstanding()
}

// Stats returns the counters of the free list.
func (p *ListPool[T]) Stats() []Stats {
	return []Stats{p.pool.Stats()}
}

func (p *ListPool[T]) activeStacks() []string {
	return p.pool.activeStacks()
}

func resetList[T any](l *List[T]) {
	clear(l.Items[:cap(l.Items)])
	l.Items = l.Items[:0]
}
