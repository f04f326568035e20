package pool

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/coachpo/framepool/internal/observability"
)

// Array is a fixed-size slice checked out of an ArrayPool. Items always has
// the length it was acquired with.
type Array[T any] struct {
	Items []T

	size int
	pool *ArrayPool[T]
}

// Len returns the fixed size of the array.
func (a *Array[T]) Len() int {
	return a.size
}

// Release returns the array to the pool it came from.
func (a *Array[T]) Release() {
	if a == nil || a.pool == nil {
		return
	}
	a.pool.Release(a)
}

// Close releases the array and always returns nil.
func (a *Array[T]) Close() error {
	a.Release()
	return nil
}

// ArrayPool hands out fixed-size arrays. Free lists are partitioned by exact
// size: a request for n elements is only ever served by an array of n elements.
type ArrayPool[T any] struct {
	name       string
	cfg        settings
	partitions map[int]*Pool[*Array[T]]
}

// NewArrayPool constructs an empty array pool.
func NewArrayPool[T any](name string, opts ...Option) *ArrayPool[T] {
	if name == "" {
		panic("pool name must be non-empty")
	}
	return &ArrayPool[T]{
		name:       name,
		cfg:        applyOptions(opts),
		partitions: make(map[int]*Pool[*Array[T]]),
	}
}

// Name returns the pool name.
func (p *ArrayPool[T]) Name() string {
	return p.name
}

// Acquire returns an array of exactly size elements, all zero valued.
func (p *ArrayPool[T]) Acquire(size int) *Array[T] {
	if size < 0 {
		panic(fmt.Sprintf("pool %s: negative array size %d", p.name, size))
	}
	return p.partition(size).Acquire()
}

// AcquireCopy returns an array sized to src holding a copy of its elements.
func (p *ArrayPool[T]) AcquireCopy(src []T) *Array[T] {
	a := p.Acquire(len(src))
	copy(a.Items, src)
	return a
}

// Release zeroes a and returns it to the partition for its size.
func (p *ArrayPool[T]) Release(a *Array[T]) {
	if a == nil {
		p.cfg.logger.Warn("pool: release called with nil instance",
			observability.F("pool", p.name),
		)
		return
	}
	p.partition(a.size).Release(a)
}

// Len returns the number of free arrays of the given size.
func (p *ArrayPool[T]) Len(size int) int {
	part, ok := p.partitions[size]
	if !ok {
		return 0
	}
	return part.Len()
}

// Partitions returns the sizes that have a free list, in ascending order.
func (p *ArrayPool[T]) Partitions() []int {
	sizes := make([]int, 0, len(p.partitions))
	for size := range p.partitions {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	return sizes
}

// Outstanding returns the number of arrays checked out across all sizes.
func (p *ArrayPool[T]) Outstanding() int {
	total := 0
	for _, part := range p.partitions {
		total += part.Outstanding()
	}
	return total
}

// Stats returns one entry per size partition.
func (p *ArrayPool[T]) Stats() []Stats {
	out := make([]Stats, 0, len(p.partitions))
	for _, size := range p.Partitions() {
		out = append(out, p.partitions[size].Stats())
	}
	return out
}

func (p *ArrayPool[T]) activeStacks() []string {
	var out []string
	for _, size := range p.Partitions() {
		out = append(out, p.partitions[size].activeStacks()...)
	}
	return out
}

func (p *ArrayPool[T]) partition(size int) *Pool[*Array[T]] {
	if part, ok := p.partitions[size]; ok {
		return part
	}
	cfg := p.cfg
	cfg.key = strconv.Itoa(size)
	part := New(p.name,
		func() *Array[T] {
			return &Array[T]{Items: make([]T, size), size: size, pool: p}
		},
		resetArray[T],
		withSettings(cfg),
	)
	p.partitions[size] = part
	return part
}

func resetArray[T any](a *Array[T]) {
	if cap(a.Items) < a.size {
		a.Items = make([]T, a.size)
		return
	}
	a.Items = a.Items[:a.size:a.size]
	clear(a.Items)
}
