package equihash

import "sync"

// barrier is the N-way rendezvous point of §5: goroutines block only here,
// between the digit-0 seeder and the counter drain, between successive
// digit rounds, and before the final digit. It is reusable across many
// waits, unlike sync.WaitGroup which is single-shot per generation.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	waiting int
	gen     uint64
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks the calling goroutine until n goroutines have called wait
// for the current generation, then releases all of them together. The
// release is the release-acquire edge §5 relies on: every write a
// goroutine made before its wait call is visible to every goroutine after
// its matching wait returns.
func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.gen
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
