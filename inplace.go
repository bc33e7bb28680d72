// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Replacer is the capability required of elements in pre-allocated mode:
// PT is the pointer type of T and can replace its own state from another
// instance. A typical implementation copies or steals the source's
// buffers:
//
//	func (m *Msg) Replace(src *Msg) { *m = *src }
type Replacer[T any] interface {
	*T
	Replace(src *T)
}

// InplaceQueue is the pre-allocated variant of Queue: every slot holds a
// live instance of T for the chunk's entire lifetime (the zero value is
// the default instance), and SetBack mutates the reserved slot in place
// through PT.Replace instead of assigning a reference. Slots are never
// cleared, trading resident memory for zero per-element allocation and
// no garbage from popped elements.
//
// The storage mode is fixed by the type: selecting InplaceQueue over
// Queue is a compile-time decision, not a runtime flag.
//
// Concurrency contract is identical to Queue: one producer goroutine,
// one consumer goroutine, occupancy tracked externally.
type InplaceQueue[T any, PT Replacer[T]] struct {
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

// NewInplace creates a pre-allocated queue with the given chunk capacity.
// Both type parameters are explicit at the call site:
//
//	q := cq.NewInplace[Msg, *Msg](64)
//
// Panics if chunkCap < 1.
func NewInplace[T any, PT Replacer[T]](chunkCap int) *InplaceQueue[T, PT] {
	if chunkCap < 1 {
		panic("cq: chunk capacity must be >= 1")
	}
	q := &InplaceQueue[T, PT]{size: chunkCap}
	c := q.grow()
	q.beginChunk = c
	q.beginTok.StoreRelaxed(uintptr(unsafe.Pointer(c)))
	q.endChunk = c
	q.spare = c
	return q
}

func (q *InplaceQueue[T, PT]) grow() *chunk[T] {
	c := newChunk[T](q.size, q.base)
	q.base += uint64(q.size)
	q.allocs++
	return c
}

// Cap returns the chunk capacity.
func (q *InplaceQueue[T, PT]) Cap() int {
	return q.size
}

// FrontPos returns the position identifier of the oldest unread element.
// Undefined if the queue is empty (consumer only).
func (q *InplaceQueue[T, PT]) FrontPos() uint64 {
	return q.beginChunk.pos[q.beginPos]
}

// Front returns the live instance in the oldest unread slot. The pointer
// is valid until the next Pop, after which the writer may Replace the
// instance. Undefined if the queue is empty (consumer only).
func (q *InplaceQueue[T, PT]) Front() *T {
	return &q.beginChunk.values[q.beginPos]
}

// BackPos returns the position identifier of the most recently pushed
// element. Undefined before the first Push or after the queue became
// logically empty from the producer's side (producer only).
func (q *InplaceQueue[T, PT]) BackPos() uint64 {
	return q.backChunk.pos[q.backPos]
}

// Back returns the live instance in the most recently pushed slot, so the
// producer can fill it without an intermediate copy. Same precondition as
// BackPos (producer only).
func (q *InplaceQueue[T, PT]) Back() *T {
	return &q.backChunk.values[q.backPos]
}

// SetBack replaces the state of the slot reserved by the preceding Push
// from src and returns src (producer only). The slot instance itself
// stays put; no reference to src is retained.
func (q *InplaceQueue[T, PT]) SetBack(src *T) *T {
	PT(&q.backChunk.values[q.backPos]).Replace(src)
	return src
}

// Push reserves the next write slot (producer only). See Queue.Push; the
// recycling policy is identical, and a recycled chunk keeps its live
// instances, which the producer overwrites through Replace.
func (q *InplaceQueue[T, PT]) Push() {
	q.backChunk = q.endChunk
	q.backPos = q.endPos
	q.endPos++
	if q.endPos != q.size {
		return
	}

	c := q.spare
	if uintptr(unsafe.Pointer(c)) != q.beginTok.LoadAcquire() {
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

// Pop releases the oldest unread element (consumer only). Undefined if
// the queue is empty. Unlike Queue.Pop, a drained chunk is not cleared:
// its instances stay live for the next round of Replace.
func (q *InplaceQueue[T, PT]) Pop() {
	q.beginPos++
	if q.beginPos != q.size {
		return
	}

	c := q.beginChunk
	next := c.next.Load()
	next.prev.Store(nil)
	q.beginChunk = next
	q.beginPos = 0
	// Release pairs with the writer's acquire in Push: recycling the
	// drained chunk happens after every reader access to it.
	q.beginTok.StoreRelease(uintptr(unsafe.Pointer(next)))
}

// Unpush reverses the most recent Push before the consumer can have
// observed it (producer only). Undefined unless at least one pushed
// element remains unpopped. The slot keeps its live instance; its state
// is whatever the rolled-back SetBack left there until the next Replace.
func (q *InplaceQueue[T, PT]) Unpush() {
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
}
