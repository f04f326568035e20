// Package framesim drives pools the way a game update loop does: every frame
// checks out scratch containers, uses them, and returns them before the next.
package framesim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	concpool "github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/coachpo/framepool/internal/config"
	"github.com/coachpo/framepool/internal/pool"
)

const maxHP = 100

// Report summarises one simulated world.
type Report struct {
	World       int          `json:"world"`
	RegistryID  string       `json:"registryId"`
	Frames      int          `json:"frames"`
	Alive       int          `json:"alive"`
	LastSummary string       `json:"lastSummary"`
	Outstanding int          `json:"outstanding"`
	Leaked      bool         `json:"leaked"`
	Stats       []pool.Stats `json:"stats"`
}

// RegistryFactory builds the registry owned by one world.
type RegistryFactory func(world int) *pool.Registry

// Run simulates cfg.Worlds independent worlds concurrently. Each world owns its
// registry, so pools are never shared between goroutines.
func Run(ctx context.Context, cfg config.SimConfig, newRegistry RegistryFactory) ([]Report, error) {
	if newRegistry == nil {
		newRegistry = func(int) *pool.Registry { return pool.NewRegistry() }
	}
	worlds := cfg.Worlds
	if worlds <= 0 {
		worlds = 1
	}

	p := concpool.NewWithResults[Report]().WithContext(ctx).WithCancelOnError()
	for i := 0; i < worlds; i++ {
		p.Go(func(ctx context.Context) (Report, error) {
			return newWorld(i, cfg, newRegistry(i)).run(ctx)
		})
	}
	reports, err := p.Wait()
	sort.Slice(reports, func(i, j int) bool { return reports[i].World < reports[j].World })
	if err != nil {
		return reports, fmt.Errorf("framesim: %w", err)
	}
	return reports, nil
}

type world struct {
	index    int
	cfg      config.SimConfig
	reg      *pool.Registry
	rng      *rand.Rand
	limiter  *rate.Limiter
	entities []*Entity
	scores   *pool.Map[int, int]
	nextID   int
	summary  string
}

func newWorld(index int, cfg config.SimConfig, reg *pool.Registry) *world {
	limit := rate.Inf
	if cfg.FPS > 0 {
		limit = rate.Limit(cfg.FPS)
	}
	return &world{
		index:   index,
		cfg:     cfg,
		reg:     reg,
		rng:     rand.New(rand.NewPCG(uint64(index)+1, 0x9e3779b97f4a7c15)),
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (w *world) run(ctx context.Context) (Report, error) {
	entities := pool.Objects[Entity](w.reg)
	for i := 0; i < w.cfg.Entities; i++ {
		w.entities = append(w.entities, w.spawn(entities))
	}
	w.scores = pool.Maps[int, int](w.reg).Acquire()

	frames := 0
	var runErr error
	for frame := 1; frame <= w.cfg.Frames; frame++ {
		if err := w.limiter.Wait(ctx); err != nil {
			runErr = err
			break
		}
		w.step(frame)
		frames++
	}

	report := w.teardown(ctx, frames)
	if runErr != nil {
		return report, fmt.Errorf("world %d: %w", w.index, runErr)
	}
	return report, nil
}

// step advances the world by one frame.
func (w *world) step(frame int) {
	reg := w.reg
	entities := pool.Objects[Entity](reg)

	visible := pool.Lists[int](reg).Acquire()
	if !w.leaks(frame) {
		defer visible.Release()
	}

	positions := pool.Arrays[float64](reg).Acquire(2 * len(w.entities))
	defer positions.Release()

	next := pool.Maps[int, int](reg).AcquireCopy(w.scores.Entries)
	w.scores.Release()
	w.scores = next

	alive := w.entities[:0]
	for i, e := range w.entities {
		e.X += e.VX
		e.Y += e.VY
		positions.Items[2*i] = e.X
		positions.Items[2*i+1] = e.Y
		e.HP -= w.rng.IntN(10)
		if e.HP <= 0 {
			delete(next.Entries, e.ID)
			entities.Release(e)
			continue
		}
		next.Entries[e.ID]++
		if e.X >= 0 && e.Y >= 0 {
			visible.Append(e.ID)
		}
		alive = append(alive, e)
	}
	clear(w.entities[len(alive):])
	w.entities = alive
	for len(w.entities) < w.cfg.Entities {
		w.entities = append(w.entities, w.spawn(entities))
	}

	sb := pool.Builders(reg).Acquire()
	defer sb.Release()
	_, _ = fmt.Fprintf(sb, "frame %d: alive=%d visible=%d tracked=%d", frame, len(alive), visible.Len(), next.Len())
	w.summary = sb.String()
}

func (w *world) leaks(frame int) bool {
	return w.cfg.LeakEvery > 0 && frame%w.cfg.LeakEvery == 0
}

func (w *world) spawn(entities *pool.ObjectPool[Entity]) *Entity {
	e := entities.Acquire()
	w.nextID++
	e.ID = w.nextID
	e.X = w.rng.Float64()*200 - 100
	e.Y = w.rng.Float64()*200 - 100
	e.VX = w.rng.Float64()*2 - 1
	e.VY = w.rng.Float64()*2 - 1
	e.HP = 1 + w.rng.IntN(maxHP)
	return e
}

func (w *world) teardown(ctx context.Context, frames int) Report {
	entities := pool.Objects[Entity](w.reg)
	for _, e := range w.entities {
		entities.Release(e)
	}
	alive := len(w.entities)
	w.entities = nil
	if w.scores != nil {
		w.scores.Release()
		w.scores = nil
	}

	report := Report{
		World:       w.index,
		RegistryID:  w.reg.ID(),
		Frames:      frames,
		Alive:       alive,
		LastSummary: w.summary,
		Outstanding: w.reg.Outstanding(),
		Stats:       w.reg.Stats(),
	}
	if err := w.reg.Shutdown(context.WithoutCancel(ctx)); errors.Is(err, pool.ErrOutstanding) {
		report.Leaked = true
	}
	return report
}
