// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cq provides an unbounded chunked FIFO queue for single-producer
// single-consumer pipelines.
//
// The queue stores elements in fixed-capacity chunks linked into a chain.
// The producer owns the tail of the chain, the consumer owns the head, and
// the only cross-thread handoff is a single recycled "spare" chunk: when
// producer and consumer advance at similar rates, the chunk the consumer
// just drained becomes the producer's next chunk and steady-state operation
// allocates nothing. Push is reversible (Unpush) until the element could
// have been observed by the consumer.
//
// Unlike the bounded queues in code.hybscloud.com/lfq, cq queues never
// reject an element and never report emptiness: all preconditions are
// caller-enforced and the structure is wait-free on both sides.
//
// # Quick Start
//
//	q := cq.New[*Event](64)            // reference mode
//	q := cq.NewInplace[Msg, *Msg](64)  // pre-allocated mode
//
// Producer side:
//
//	q.Push()        // reserve the next slot
//	q.SetBack(ev)   // write it
//
// Consumer side (only after an external signal says an element is ready):
//
//	ev := *q.Front()
//	q.Pop()
//
// # Occupancy Is External
//
// The queue has no Len and no full/empty reporting. Front, Pop, Back,
// BackPos and Unpush have caller-enforced preconditions; violating them is
// undefined behavior, not an error. Callers pair the queue with their own
// readiness signal, typically a counter:
//
//	var occupied atomix.Int64
//
//	// producer
//	q.Push()
//	q.SetBack(v)
//	occupied.Add(1)
//
//	// consumer
//	backoff := iox.Backoff{}
//	for occupied.Load() == 0 {
//	    backoff.Wait()
//	}
//	v := *q.Front()
//	q.Pop()
//	occupied.Add(-1)
//
// The counter update after SetBack is what publishes the element; the
// queue itself only orders the recycling of drained chunks.
//
// # Position Identifiers
//
// Every slot carries a 64-bit position identifier, strictly increasing
// across the queue's lifetime. FrontPos and BackPos expose the identifiers
// of the oldest and newest element; an external flow-control layer computes
// backlog depth as BackPos()-FrontPos(). Identifiers are minted per chunk
// entering the chain, so they are contiguous except for the gap left when
// Unpush discards a chunk.
//
// # Storage Modes
//
// Reference mode (Queue[T], cq.New): slots hold the supplied values
// directly; a drained chunk is cleared so the queue never retains a popped
// payload.
//
// Pre-allocated mode (InplaceQueue[T, PT], cq.NewInplace): every slot keeps
// a live instance of T for the chunk's lifetime (the Go zero value is the
// default instance) and SetBack mutates it through the Replace capability:
//
//	type Msg struct{ Buf []byte }
//
//	func (m *Msg) Replace(src *Msg) { m.Buf = append(m.Buf[:0], src.Buf...) }
//
//	q := cq.NewInplace[Msg, *Msg](64)
//
// Pre-allocated mode trades resident memory for zero per-element
// allocation; the mode is fixed at compile time by the chosen type.
//
// # Reversible Push
//
// Unpush rolls back the most recent Push before the consumer could have
// observed it, restoring Back and BackPos to their pre-push values:
//
//	q.Push()
//	q.SetBack(v)
//	if sendFailed {
//	    q.Unpush() // v was never visible to the consumer
//	}
//
// A tail chunk vacated by the rollback is dropped rather than recycled;
// sparing it would require a synchronized handoff per discarded chunk.
//
// # Thread Safety
//
// Exactly one producer goroutine and one consumer goroutine. The producer
// owns Push, Unpush, Back, BackPos, SetBack; the consumer owns Pop, Front,
// FrontPos. No operation blocks or spins. The producer reads the
// consumer's progress only as an opaque chunk-identity token with acquire
// ordering; observing a stale token is harmless and merely costs one chunk
// allocation.
//
// # Race Detection
//
// The recycling handoff is synchronized with acquire-release operations
// from code.hybscloud.com/atomix, which the race detector cannot see, and
// element payloads are synchronized by the caller's readiness signal.
// Concurrent tests are therefore excluded via //go:build !race; see
// RaceEnabled.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering. Documentation and tests pair the queue with
// [code.hybscloud.com/iox] backoff and [code.hybscloud.com/spin] waiters.
package cq
