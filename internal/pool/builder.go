package pool

import (
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"
)

// Builder is a string buffer checked out of a BuilderPool.
type Builder struct {
	buf  bytebufferpool.ByteBuffer
	pool *BuilderPool
}

// Write appends p to the buffer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// WriteString appends s to the buffer.
func (b *Builder) WriteString(s string) (int, error) {
	return b.buf.WriteString(s)
}

// WriteByte appends c to the buffer.
func (b *Builder) WriteByte(c byte) error {
	return b.buf.WriteByte(c)
}

// WriteRune appends the UTF-8 encoding of r to the buffer.
func (b *Builder) WriteRune(r rune) (int, error) {
	n := len(b.buf.B)
	b.buf.B = utf8.AppendRune(b.buf.B, r)
	return len(b.buf.B) - n, nil
}

// String returns the accumulated contents.
func (b *Builder) String() string {
	return b.buf.String()
}

// Bytes returns the accumulated contents without copying. The slice is only
// valid until the builder is released.
func (b *Builder) Bytes() []byte {
	return b.buf.B
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Cap returns the capacity of the underlying buffer.
func (b *Builder) Cap() int {
	return cap(b.buf.B)
}

// Reset truncates the buffer to zero length, keeping its capacity.
func (b *Builder) Reset() {
	b.buf.Reset()
}

// Release returns the builder to the pool it came from.
func (b *Builder) Release() {
	if b == nil || b.pool == nil {
		return
	}
	b.pool.Release(b)
}

// Close releases the builder and always returns nil.
func (b *Builder) Close() error {
	b.Release()
	return nil
}

// BuilderPool recycles string builders through a single free list.
type BuilderPool struct {
	pool *Pool[*Builder]
}

// NewBuilderPool constructs an empty builder pool.
func NewBuilderPool(name string, opts ...Option) *BuilderPool {
	bp := new(BuilderPool)
	bp.pool = New(name,
		func() *Builder { return &Builder{pool: bp} },
		(*Builder).Reset,
		opts...,
	)
	return bp
}

// Name returns the pool name.
func (p *BuilderPool) Name() string {
	return p.pool.Name()
}

// Acquire returns an empty builder.
func (p *BuilderPool) Acquire() *Builder {
	return p.pool.Acquire()
}

// Release truncates b and returns it to the free list.
func (p *BuilderPool) Release(b *Builder) {
	p.pool.Release(b)
}

// Contains reports whether b is on the free list.
func (p *BuilderPool) Contains(b *Builder) bool {
	return p.pool.Contains(b)
}

// Len returns the number of free builders.
func (p *BuilderPool) Len() int {
	return p.pool.Len()
}

// Outstanding returns the number of builders checked out.
func (p *BuilderPool) Outstanding() int {
	return p.pool.Outstanding()
}

// Stats returns the counters of the free list.
func (p *BuilderPool) Stats() []Stats {
	return []Stats{p.pool.Stats()}
}

func (p *BuilderPool) activeStacks() []string {
	return p.pool.activeStacks()
}
