package pool

// Resettable is implemented by pooled types that clear their own state when
// they re-enter a free list.
type Resettable interface {
	Reset()
}
