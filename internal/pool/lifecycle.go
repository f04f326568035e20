package pool

import (
	"fmt"
	"reflect"
)

// identityKey returns the address that identifies a pooled instance. Pooled
// types are restricted by ensureReferenceType so that every constructed
// instance has its own address.
func identityKey(v any) uintptr {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan:
		return rv.Pointer()
	default:
		panic(fmt.Sprintf("pool object must be a pointer, map or channel, got %T", v))
	}
}

// ensureReferenceType rejects types whose instances cannot be told apart by
// address: slices (nil and zero-capacity slices share an address), funcs,
// interfaces, and pointers to zero-size types.
func ensureReferenceType(name string, t reflect.Type) {
	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Size() == 0 {
			panic(fmt.Sprintf("pool %s: pooled type %s points to a zero-size type", name, t))
		}
	case reflect.Map, reflect.Chan:
	default:
		panic(fmt.Sprintf("pool %s: pooled type %s must be a pointer, map or channel", name, t))
	}
}

// leakDetector fires once when the outstanding count rises above the
// threshold. It re-arms only after the count falls to half the threshold so a
// frame loop hovering at the limit does not warn every frame.
type leakDetector struct {
	threshold int
	tripped   bool
}

func (d *leakDetector) observe(outstanding int) bool {
	if d.threshold <= 0 {
		return false
	}
	if d.tripped {
		if outstanding <= d.threshold/2 {
			d.tripped = false
		}
		return false
	}
	if outstanding > d.threshold {
		d.tripped = true
		return true
	}
	return false
}
