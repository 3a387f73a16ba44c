// Package trace keeps the recent path of a pendulum's outer bob.
package trace

import "github.com/san-kum/pendulab/internal/dynamo"

// Length is the number of points a trace retains.
const Length = 500

// Buffer is a fixed capacity FIFO of points. Once full, each push evicts
// the oldest point. The zero value is not usable; call New.
type Buffer struct {
	points []dynamo.Vec2
	head   int
	size   int
}

func New() *Buffer {
	return NewWithCap(Length)
}

func NewWithCap(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{points: make([]dynamo.Vec2, capacity)}
}

func (b *Buffer) Push(p dynamo.Vec2) {
	if b.size < len(b.points) {
		b.points[(b.head+b.size)%len(b.points)] = p
		b.size++
		return
	}
	b.points[b.head] = p
	b.head = (b.head + 1) % len(b.points)
}

func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}

func (b *Buffer) Len() int { return b.size }
func (b *Buffer) Cap() int { return len(b.points) }

// At returns the i-th retained point, oldest first.
func (b *Buffer) At(i int) dynamo.Vec2 {
	return b.points[(b.head+i)%len(b.points)]
}

// Last returns the newest point.
func (b *Buffer) Last() (dynamo.Vec2, bool) {
	if b.size == 0 {
		return dynamo.Vec2{}, false
	}
	return b.At(b.size - 1), true
}

// Each visits points oldest to newest. Returning false stops the walk.
func (b *Buffer) Each(fn func(i int, p dynamo.Vec2) bool) {
	for i := 0; i < b.size; i++ {
		if !fn(i, b.At(i)) {
			return
		}
	}
}

// Points copies the retained points, oldest first.
func (b *Buffer) Points() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, b.size)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}
