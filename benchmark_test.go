// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cq_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/cq"
	"code.hybscloud.com/spin"
)

// =============================================================================
// Single-Threaded Baselines
// =============================================================================

func BenchmarkQueue_PushPop(b *testing.B) {
	q := cq.New[int](64)

	b.ResetTimer()
	for i := range b.N {
		q.Push()
		q.SetBack(i)
		q.Pop()
	}
}

func BenchmarkInplace_PushPop(b *testing.B) {
	q := cq.NewInplace[frame, *frame](64)
	src := frame{buf: make([]byte, 8)}

	b.ResetTimer()
	for i := range b.N {
		q.Push()
		src.seq = i
		q.SetBack(&src)
		q.Pop()
	}
}

// BenchmarkQueue_Burst fills and drains a full chunk per round, so every
// round crosses one boundary on each side and recycles through the spare.
func BenchmarkQueue_Burst(b *testing.B) {
	const chunkCap = 64
	q := cq.New[int](chunkCap)

	b.ResetTimer()
	for range b.N {
		for i := range chunkCap {
			q.Push()
			q.SetBack(i)
		}
		for range chunkCap {
			q.Pop()
		}
	}
}

// =============================================================================
// Producer/Consumer
// =============================================================================

func BenchmarkQueue_SPSC(b *testing.B) {
	q := cq.New[int](256)
	var occupied atomix.Int64
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sw := spin.Wait{}
		for i := range b.N {
			for occupied.Load() >= 1024 {
				sw.Once()
			}
			sw.Reset()
			q.Push()
			q.SetBack(i)
			occupied.Add(1)
		}
	}()

	sw := spin.Wait{}
	for range b.N {
		for occupied.Load() == 0 {
			sw.Once()
		}
		sw.Reset()
		q.Pop()
		occupied.Add(-1)
	}
	wg.Wait()
}
