//go:build debug

package pool

import (
	"runtime/debug"
	"sort"
)

// debugState remembers where each outstanding instance was acquired so that
// leak reports can point at the caller that never released it.
type debugState struct {
	name   string
	stacks map[uintptr]string
}

func newDebugState(name string) *debugState {
	return &debugState{
		name:   name,
		stacks: make(map[uintptr]string),
	}
}

func (d *debugState) recordAcquire(key uintptr) {
	if d == nil || key == 0 {
		return
	}
	d.stacks[key] = string(debug.Stack())
}

func (d *debugState) recordRelease(key uintptr) {
	if d == nil || key == 0 {
		return
	}
	delete(d.stacks, key)
}

func (d *debugState) activeStacks() []string {
	if d == nil || len(d.stacks) == 0 {
		return nil
	}
	out := make([]string, 0, len(d.stacks))
	for _, stack := range d.stacks {
		out = append(out, stack)
	}
	sort.Strings(out)
	return out
}
