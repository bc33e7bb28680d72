// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Queue is an unbounded single-producer single-consumer FIFO queue backed
// by a chain of fixed-capacity chunks, in reference mode: slots hold the
// caller-supplied values directly and are cleared when a chunk drains.
//
// Exactly one goroutine may push and one may pop. The structure itself
// never blocks and raises no errors; occupancy must be tracked by the
// caller (typically a paired counter or flow-control layer comparing
// BackPos and FrontPos), and a popped element must have been published to
// the consumer through an external readiness signal.
//
// When producer and consumer advance at similar rates, the chunk the
// reader just drained is recycled through a single spare slot and becomes
// the writer's next chunk, so steady-state operation allocates nothing.
type Queue[T any] struct {
	_          pad
	beginChunk *chunk[T] // reader cursor: oldest unread slot
	beginPos   int
	_          pad
	beginTok   atomix.Uintptr // reader-published identity of beginChunk
	_          pad
	backChunk  *chunk[T] // writer cursor: most recent push
	backPos    int
	endChunk   *chunk[T] // writer cursor: next slot to write
	endPos     int
	spare      *chunk[T] // single cached drained chunk
	base       uint64    // next unassigned position identifier
	allocs     uint64
	size       int
	_          pad
}

// New creates a reference-mode queue with the given chunk capacity.
// Typical capacities are 8-256 slots depending on message rate.
// Panics if chunkCap < 1.
func New[T any](chunkCap int) *Queue[T] {
	if chunkCap < 1 {
		panic("cq: chunk capacity must be >= 1")
	}
	q := &Queue[T]{size: chunkCap}
	c := q.grow()
	q.beginChunk = c
	q.beginTok.StoreRelaxed(uintptr(unsafe.Pointer(c)))
	q.endChunk = c
	q.spare = c
	return q
}

// grow allocates a chunk stamped with the next run of position identifiers.
func (q *Queue[T]) grow() *chunk[T] {
	c := newChunk[T](q.size, q.base)
	q.base += uint64(q.size)
	q.allocs++
	return c
}

// Cap returns the chunk capacity.
func (q *Queue[T]) Cap() int {
	return q.size
}

// FrontPos returns the position identifier of the oldest unread element.
// Undefined if the queue is empty (consumer only).
func (q *Queue[T]) FrontPos() uint64 {
	return q.beginChunk.pos[q.beginPos]
}

// Front returns the oldest unread element without removing it.
// The pointer is valid until the next Pop. Undefined if the queue is
// empty (consumer only).
func (q *Queue[T]) Front() *T {
	return &q.beginChunk.values[q.beginPos]
}

// BackPos returns the position identifier of the most recently pushed
// element. Undefined before the first Push or after the queue became
// logically empty from the producer's side (producer only).
func (q *Queue[T]) BackPos() uint64 {
	return q.backChunk.pos[q.backPos]
}

// Back returns the most recently pushed element's slot. Same precondition
// as BackPos (producer only).
func (q *Queue[T]) Back() *T {
	return &q.backChunk.values[q.backPos]
}

// SetBack stores v in the slot reserved by the preceding Push and returns
// it (producer only). No capacity check: Push must have been called first.
func (q *Queue[T]) SetBack(v T) T {
	q.backChunk.values[q.backPos] = v
	return v
}

// Push reserves the next write slot: back moves to the current end, end
// advances by one (producer only). When end leaves its chunk, the spare is
// recycled as the new tail chunk if the reader is done with it, otherwise
// a fresh chunk is allocated.
//
// The reader may have advanced past the chunk the begin token still names;
// such a stale read only costs one extra allocation. The token is compared
// by identity and never dereferenced.
func (q *Queue[T]) Push() {
	q.backChunk = q.endChunk
	q.backPos = q.endPos
	q.endPos++
	if q.endPos != q.size {
		return
	}

	c := q.spare
	if uintptr(unsafe.Pointer(c)) != q.beginTok.LoadAcquire() {
		// The reader has left the spare chunk; slide the spare window to
		// its old successor and re-enter the chunk at the tail with fresh
		// position identifiers.
		q.spare = c.next.Load()
		c.stamp(q.base)
		q.base += uint64(q.size)
	} else {
		c = q.grow()
	}
	c.prev.Store(q.endChunk)
	q.endChunk.next.Store(c)
	q.endChunk = c
	q.endPos = 0
}

// Pop releases the oldest unread element (consumer only). Undefined if the
// queue is empty. When the pop drains the current chunk, the chunk is
// cleared, the reader crosses into the successor and severs the back link,
// and the new begin identity is published so the writer may recycle the
// drained chunk. The reader never touches the spare slot itself.
func (q *Queue[T]) Pop() {
	q.beginPos++
	if q.beginPos != q.size {
		return
	}

	c := q.beginChunk
	next := c.next.Load()
	c.reset()
	next.prev.Store(nil)
	q.beginChunk = next
	q.beginPos = 0
	// Release pairs with the writer's acquire in Push: recycling the
	// drained chunk happens after every reader access to it.
	q.beginTok.StoreRelease(uintptr(unsafe.Pointer(next)))
}

// Unpush reverses the most recent Push before the consumer can have
// observed it (producer only). Undefined unless at least one pushed
// element remains unpopped. A tail chunk vacated by the rollback is
// unlinked and dropped, not spared: keeping it would need a synchronized
// handoff per discarded chunk. The vacated slot is cleared; the caller
// keeps ownership of the unpushed value.
func (q *Queue[T]) Unpush() {
	if q.backPos > 0 {
		q.backPos--
	} else {
		q.backPos = q.size - 1
		q.backChunk = q.backChunk.prev.Load()
	}

	if q.endPos > 0 {
		q.endPos--
	} else {
		q.endPos = q.size - 1
		q.endChunk = q.endChunk.prev.Load()
		q.endChunk.next.Store(nil)
	}

	var zero T
	q.endChunk.values[q.endPos] = zero
}
