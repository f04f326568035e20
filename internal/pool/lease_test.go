package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coachpo/framepool/internal/testutil"
)

func TestLeaseReleasesOnDefer(t *testing.T) {
	p := NewObjectPool[projectile]("object[projectile]", WithLogger(testutil.NewRecordingLogger()))

	var leased *projectile
	func() {
		l := p.Lease()
		defer l.Release()
		leased = l.Value()
		leased.Damage = 3
		require.Equal(t, 1, p.Outstanding())
	}()

	require.Zero(t, p.Outstanding())
	require.True(t, p.Contains(leased))
	require.Zero(t, leased.Damage)
}

func TestLeaseReleasesOnPanic(t *testing.T) {
	p := NewListPool[int]("list[int]", WithLogger(testutil.NewRecordingLogger()))

	var held *List[int]
	require.Panics(t, func() {
		l := p.Acquire()
		defer l.Release()
		held = l
		l.Append(1)
		panic("frame aborted")
	})

	require.True(t, p.Contains(held))
	require.Zero(t, p.Outstanding())
}

func TestUseReleasesOnError(t *testing.T) {
	p := NewArrayPool[float32]("array[float32]", WithLogger(testutil.NewRecordingLogger()))
	errEarly := errors.New("early exit")

	var held *Array[float32]
	err := Use(p.Acquire(16), func(a *Array[float32]) error {
		held = a
		return errEarly
	})

	require.ErrorIs(t, err, errEarly)
	require.Equal(t, 1, p.Len(16))
	require.Same(t, held, p.Acquire(16))
}

func TestUseReleasesOnPanic(t *testing.T) {
	p := NewBuilderPool("builder", WithLogger(testutil.NewRecordingLogger()))

	require.PanicsWithValue(t, "boom", func() {
		_ = Use(p.Acquire(), func(b *Builder) error {
			_, _ = b.WriteString("partial")
			panic("boom")
		})
	})

	require.Equal(t, 1, p.Len())
	require.Zero(t, p.Outstanding())
}

func TestUseReleasesOnSuccess(t *testing.T) {
	p := NewMapPool[string, int]("map[string]int", WithLogger(testutil.NewRecordingLogger()))

	err := Use(p.AcquireCopy(map[string]int{"hp": 10}), func(m *Map[string, int]) error {
		m.Entries["hp"]--
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 1, p.Len())
}

func TestGenericPoolLease(t *testing.T) {
	p, _ := newParticlePool(t)

	l := p.Lease()
	l.Value().Alive = true
	require.NoError(t, l.Close())
	require.True(t, p.Contains(l.Value()))
	require.False(t, l.Value().Alive)
}

func TestNilHandlesAreSafe(t *testing.T) {
	var l *Lease[*particle]
	l.Release()
	var a *Array[int]
	a.Release()
	var li *List[int]
	li.Release()
	var m *Map[int, int]
	m.Release()
	var b *Builder
	b.Release()
}
