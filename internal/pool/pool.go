// Package pool contains free-list object pools for allocation-free frame loops.
//
// Pools are not safe for concurrent use. Each pool, and the Registry that owns
// it, belongs to a single goroutine such as a game's update loop.
package pool

import (
	"fmt"
	"reflect"

	"go.opentelemetry.io/otel/attribute"

	"github.com/coachpo/framepool/internal/observability"
	"github.com/coachpo/framepool/internal/telemetry"
)

// Stats is a point-in-time view of one free list.
type Stats struct {
	Name           string `json:"name"`
	Key            string `json:"key,omitempty"`
	Created        int64  `json:"created"`
	Acquired       int64  `json:"acquired"`
	Released       int64  `json:"released"`
	DoubleReleases int64  `json:"doubleReleases"`
	LeakWarnings   int64  `json:"leakWarnings"`
	Outstanding    int    `json:"outstanding"`
	Free           int    `json:"free"`
	LeakThreshold  int    `json:"leakThreshold"`
}

// Pool is a free list of reusable instances of T. T must be a pointer to a
// non-empty type, a map or a channel because instances are tracked by address.
// Slices are pooled through ArrayPool and ListPool handles.
type Pool[T any] struct {
	name    string
	cfg     settings
	newFunc func() T
	reset   func(T)
	attrs   attribute.Set

	free   []T
	pooled map[uintptr]struct{}
	leak   leakDetector
	debug  *debugState

	created        int64
	acquired       int64
	released       int64
	doubleReleases int64
	leakWarnings   int64
	outstanding    int
}

// New constructs a pool that builds instances with newFunc and clears them
// with reset (which may be nil) whenever they are released.
func New[T any](name string, newFunc func() T, reset func(T), opts ...Option) *Pool[T] {
	if name == "" {
		panic("pool name must be non-empty")
	}
	if newFunc == nil {
		panic(fmt.Sprintf("pool %s: newFunc must be provided", name))
	}
	ensureReferenceType(name, reflect.TypeFor[T]())

	cfg := applyOptions(opts)
	p := new(Pool[T])
	p.name = name
	p.cfg = cfg
	p.newFunc = newFunc
	p.reset = reset
	p.attrs = telemetry.PoolAttributes(cfg.registryID, name, cfg.key)
	p.pooled = make(map[uintptr]struct{})
	p.leak = leakDetector{threshold: cfg.leakThreshold}
	p.debug = newDebugState(name)
	return p
}

// Name returns the pool name.
func (p *Pool[T]) Name() string {
	return p.name
}

// Acquire hands out a free instance, constructing a new one when the free list
// is empty. It never blocks.
func (p *Pool[T]) Acquire() T {
	var (
		obj         T
		constructed bool
	)
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		delete(p.pooled, identityKey(obj))
	} else {
		obj = p.newFunc()
		if identityKey(obj) == 0 {
			panic(fmt.Sprintf("pool %s: newFunc returned nil", p.name))
		}
		p.created++
		constructed = true
	}

	p.acquired++
	p.outstanding++
	p.debug.recordAcquire(identityKey(obj))
	p.cfg.instruments.Acquired(p.attrs, constructed)
	if p.leak.observe(p.outstanding) {
		p.leakWarnings++
		p.cfg.instruments.LeakWarned(p.attrs)
		p.cfg.logger.Warn("pool: outstanding instances exceed leak threshold, callers may not be releasing",
			observability.F("pool", p.name),
			observability.F("key", p.cfg.key),
			observability.F("outstanding", p.outstanding),
			observability.F("created", p.created),
			observability.F("threshold", p.leak.threshold),
		)
	}
	return obj
}

// Release resets obj and puts it back on the free list. Releasing an instance
// that is already on the free list is ignored with a warning.
func (p *Pool[T]) Release(obj T) {
	key := identityKey(obj)
	if key == 0 {
		p.cfg.logger.Warn("pool: release called with nil instance",
			observability.F("pool", p.name),
			observability.F("key", p.cfg.key),
		)
		return
	}
	if _, ok := p.pooled[key]; ok {
		p.doubleReleases++
		p.cfg.instruments.DoubleReleased(p.attrs)
		p.cfg.logger.Warn("pool: release called for an instance already in the pool",
			observability.F("pool", p.name),
			observability.F("key", p.cfg.key),
			observability.F("type", fmt.Sprintf("%T", obj)),
			observability.F("free", len(p.free)),
		)
		return
	}

	if p.reset != nil {
		p.reset(obj)
	}
	p.free = append(p.free, obj)
	p.pooled[key] = struct{}{}
	p.released++
	if p.outstanding > 0 {
		p.outstanding--
	}
	p.leak.observe(p.outstanding)
	p.debug.recordRelease(key)
	p.cfg.instruments.Released(p.attrs)
}

// Lease acquires an instance wrapped in a handle that releases it on Close.
func (p *Pool[T]) Lease() *Lease[T] {
	return &Lease[T]{pool: p, value: p.Acquire()}
}

// Contains reports whether obj is currently on the free list.
func (p *Pool[T]) Contains(obj T) bool {
	key := identityKey(obj)
	if key == 0 {
		return false
	}
	_, ok := p.pooled[key]
	return ok
}

// Len returns the number of instances on the free list.
func (p *Pool[T]) Len() int {
	return len(p.free)
}

// Outstanding returns the number of instances currently checked out.
func (p *Pool[T]) Outstanding() int {
	return p.outstanding
}

// Stats returns counters for this free list.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Name:           p.name,
		Key:            p.cfg.key,
		Created:        p.created,
		Acquired:       p.acquired,
		Released:       p.released,
		DoubleReleases: p.doubleReleases,
		LeakWarnings:   p.leakWarnings,
		Outstanding:    p.outstanding,
		Free:           len(p.free),
		LeakThreshold:  p.leak.threshold,
	}
}

func (p *Pool[T]) activeStacks() []string {
	return p.debug.activeStacks()
}
