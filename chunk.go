// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

import "sync/atomic"

// chunk is a fixed-capacity run of slots plus a parallel array of global
// position identifiers. Chunks form a doubly-linked chain from the reader's
// begin cursor to the writer's end cursor.
//
// The links cross the reader/writer ownership boundary: next is stored by
// the writer when it links a successor and followed by the reader when it
// drains the chunk; prev is stored by the writer at link time, severed by
// the reader once it crosses into the chunk, and read back by the writer
// during Unpush. Both are atomic pointers so a chunk is fully constructed
// before the link that publishes it becomes visible.
type chunk[T any] struct {
	values []T
	pos    []uint64
	prev   atomic.Pointer[chunk[T]]
	next   atomic.Pointer[chunk[T]]
}

func newChunk[T any](n int, base uint64) *chunk[T] {
	c := &chunk[T]{
		values: make([]T, n),
		pos:    make([]uint64, n),
	}
	c.stamp(base)
	return c
}

// stamp assigns position identifiers base..base+n-1 to the slots. Called at
// allocation, and again when the writer pulls the chunk out of the spare
// slot: a recycled chunk re-enters the chain at a new logical offset and
// must not expose identifiers from its previous life.
func (c *chunk[T]) stamp(base uint64) {
	for i := range c.pos {
		c.pos[i] = base + uint64(i)
	}
}

// reset clears the slots so a drained chunk does not retain payload
// references while it waits for reuse or collection. Reference-mode only;
// in-place queues keep their live instances and overwrite them via Replace.
func (c *chunk[T]) reset() {
	clear(c.values)
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
