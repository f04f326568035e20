package pool

import "maps"

// Map is a dictionary checked out of a MapPool.
type Map[K comparable, V any] struct {
	Entries map[K]V

	pool *MapPool[K, V]
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.Entries)
}

// Release returns the map to the pool it came from.
func (m *Map[K, V]) Release() {
	if m == nil || m.pool == nil {
		return
	}
	m.pool.Release(m)
}

// Close releases the map and always returns nil.
func (m *Map[K, V]) Close() error {
	m.Release()
	return nil
}

// MapPool recycles dictionaries through a single free list. Released maps are
// cleared, not reallocated.
type MapPool[K comparable, V any] struct {
	pool *Pool[*Map[K, V]]
}

// NewMapPool constructs an empty map pool.
func NewMapPool[K comparable, V any](name string, opts ...Option) *MapPool[K, V] {
	mp := new(MapPool[K, V])
	mp.pool = New(name,
		func() *Map[K, V] { return &Map[K, V]{Entries: make(map[K]V), pool: mp} },
		resetMap[K, V],
		opts...,
	)
	return mp
}

// Name returns the pool name.
func (p *MapPool[K, V]) Name() string {
	return p.pool.Name()
}

// Acquire returns an empty map.
func (p *MapPool[K, V]) Acquire() *Map[K, V] {
	return p.pool.Acquire()
}

// AcquireCopy returns a map populated with every entry of src.
func (p *MapPool[K, V]) AcquireCopy(src map[K]V) *Map[K, V] {
	m := p.pool.Acquire()
	maps.Copy(m.Entries, src)
	return m
}

// Release clears m and returns it to the free list.
func (p *MapPool[K, V]) Release(m *Map[K, V]) {
	p.pool.Release(m)
}

// Contains reports whether m is on the free list.
func (p *MapPool[K, V]) Contains(m *Map[K, V]) bool {
	return p.pool.Contains(m)
}

// Len returns the number of free maps.
func (p *MapPool[K, V]) Len() int {
	return p.pool.Len()
}

// Outstanding returns the number of maps checked out.
func (p *MapPool[K, V]) Outstanding() int {
	return p.pool.Outstanding()
}

// Stats returns the counters of the free list.
func (p *MapPool[K, V]) Stats() []Stats {
	return []Stats{p.pool.Stats()}
}

func (p *MapPool[K, V]) activeStacks() []string {
	return p.pool.activeStacks()
}

func resetMap[K comparable, V any](m *Map[K, V]) {
	if m.Entries == nil {
		m.Entries = make(map[K]V)
		return
	}
	clear(m.Entries)
}
