// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq

// Test hooks into queue internals. Writer-side state: only read these from
// the producer goroutine, or after it has been joined.

// Allocs reports how many chunks the queue has allocated over its lifetime,
// including the initial chunk. Recycling through the spare does not count.
func (q *Queue[T]) Allocs() uint64 { return q.allocs }

// Base reports the next unassigned position identifier.
func (q *Queue[T]) Base() uint64 { return q.base }

// SpareValues exposes the slots of the currently cached spare chunk.
func (q *Queue[T]) SpareValues() []T { return q.spare.values }

// EndSlot exposes the slot the next Push will reserve.
func (q *Queue[T]) EndSlot() *T { return &q.endChunk.values[q.endPos] }

// Allocs reports how many chunks the queue has allocated over its lifetime,
// including the initial chunk.
func (q *InplaceQueue[T, PT]) Allocs() uint64 { return q.allocs }

// Base reports the next unassigned position identifier.
func (q *InplaceQueue[T, PT]) Base() uint64 { return q.base }
