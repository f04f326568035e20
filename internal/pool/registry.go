package pool

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/coachpo/framepool/internal/observability"
)

var (
	// ErrRegistryClosed indicates the registry has been shut down.
	ErrRegistryClosed = errors.New("pool registry: closed")
	// ErrOutstanding indicates instances were still checked out at shutdown.
	ErrOutstanding = errors.New("pool registry: instances still checked out")
)

const (
	kindArray   = "array"
	kindList    = "list"
	kindMap     = "map"
	kindBuilder = "builder"
	kindObject  = "object"
)

type registryKey struct {
	kind string
	typ  reflect.Type
}

// managed is the type-erased view the registry keeps of each typed pool.
type managed interface {
	Name() string
	Outstanding() int
	Stats() []Stats
	activeStacks() []string
}

// Registry owns one pool per element type and kind. It replaces process-wide
// per-type pools with an explicit object that consumers receive, so tests and
// independent game worlds never share free lists.
type Registry struct {
	id     string
	cfg    settings
	pools  map[registryKey]managed
	order  []registryKey
	closed bool
}

// NewRegistry constructs an empty registry. Pools are created on first use.
func NewRegistry(opts ...Option) *Registry {
	cfg := applyOptions(opts)
	if cfg.registryID == "" {
		cfg.registryID = uuid.NewString()
	}
	r := new(Registry)
	r.id = cfg.registryID
	r.cfg = cfg
	r.pools = make(map[registryKey]managed)
	return r
}

// ID returns the registry identifier attached to logs and metrics.
func (r *Registry) ID() string {
	return r.id
}

// Arrays returns the registry's array pool for element type T.
func Arrays[T any](r *Registry) *ArrayPool[T] {
	return lookup(r, registryKey{kindArray, reflect.TypeFor[T]()}, func(name string, opts []Option) *ArrayPool[T] {
		return NewArrayPool[T](name, opts...)
	})
}

// Lists returns the registry's list pool for element type T.
func Lists[T any](r *Registry) *ListPool[T] {
	return lookup(r, registryKey{kindList, reflect.TypeFor[T]()}, func(name string, opts []Option) *ListPool[T] {
		return NewListPool[T](name, opts...)
	})
}

// Maps returns the registry's dictionary pool for map[K]V.
func Maps[K comparable, V any](r *Registry) *MapPool[K, V] {
	return lookup(r, registryKey{kindMap, reflect.TypeFor[map[K]V]()}, func(name string, opts []Option) *MapPool[K, V] {
		return NewMapPool[K, V](name, opts...)
	})
}

// Builders returns the registry's string builder pool.
func Builders(r *Registry) *BuilderPool {
	return lookup(r, registryKey{kindBuilder, reflect.TypeFor[Builder]()}, func(name string, opts []Option) *BuilderPool {
		return NewBuilderPool(name, opts...)
	})
}

// Objects returns the registry's object pool for *T.
func Objects[T any](r *Registry) *ObjectPool[T] {
	return lookup(r, registryKey{kindObject, reflect.TypeFor[T]()}, func(name string, opts []Option) *ObjectPool[T] {
		return NewObjectPool[T](name, opts...)
	})
}

func lookup[P managed](r *Registry, key registryKey, build func(string, []Option) P) P {
	if existing, ok := r.pools[key]; ok {
		typed, ok := existing.(P)
		if !ok {
			panic(fmt.Sprintf("pool registry: pool %s has unexpected type %T", existing.Name(), existing))
		}
		return typed
	}
	if r.closed {
		panic(fmt.Errorf("%w: cannot create pool %s", ErrRegistryClosed, poolName(key)))
	}

	name := poolName(key)
	cfg := r.cfg
	if n, ok := r.cfg.thresholds[name]; ok {
		cfg.leakThreshold = n
	}
	created := build(name, []Option{withSettings(cfg)})
	r.pools[key] = created
	r.order = append(r.order, key)
	return created
}

func poolName(key registryKey) string {
	switch key.kind {
	case kindMap:
		return key.typ.String()
	case kindBuilder:
		return kindBuilder
	default:
		return key.kind + "[" + key.typ.String() + "]"
	}
}

// Names returns the names of every pool created so far, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pools))
	for _, p := range r.pools {
		names = append(names, p.Name())
	}
	sort.Strings(names)
	return names
}

// Outstanding returns the number of instances checked out across all pools.
func (r *Registry) Outstanding() int {
	total := 0
	for _, p := range r.pools {
		total += p.Outstanding()
	}
	return total
}

// Stats returns the counters of every free list, sorted by name then key.
func (r *Registry) Stats() []Stats {
	var out []Stats
	for _, key := range r.order {
		out = append(out, r.pools[key].Stats()...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return lessKey(out[i].Key, out[j].Key)
	})
	return out
}

// lessKey orders numeric partition keys numerically.
func lessKey(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Reset drops every pool and reopens the registry. Instances still checked out
// are abandoned to the garbage collector.
func (r *Registry) Reset() {
	r.pools = make(map[registryKey]managed)
	r.order = nil
	r.closed = false
}

// Shutdown closes the registry to new pools and reports instances that were
// never released. It returns an error wrapping ErrOutstanding when any remain.
func (r *Registry) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("pool registry: shutdown: %w", err)
	}
	r.closed = true

	remaining := r.Outstanding()
	if remaining == 0 {
		return nil
	}
	r.logOutstanding(remaining)
	return fmt.Errorf("%w: %d unreturned", ErrOutstanding, remaining)
}

func (r *Registry) logOutstanding(remaining int) {
	r.cfg.logger.Warn("pool registry: shutdown with instances in flight",
		observability.F("registry", r.id),
		observability.F("outstanding", remaining),
	)
	for _, key := range r.order {
		p := r.pools[key]
		if n := p.Outstanding(); n > 0 {
			r.cfg.logger.Warn("pool registry: pool has unreturned instances",
				observability.F("registry", r.id),
				observability.F("pool", p.Name()),
				observability.F("outstanding", n),
			)
		}
		for _, stack := range p.activeStacks() {
			r.cfg.logger.Warn("pool registry: leak candidate",
				observability.F("pool", p.Name()),
				observability.F("stack", stack),
			)
		}
	}
}
