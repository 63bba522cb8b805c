package equihash

import "sync/atomic"

// slotCounters is nslots in §4.3 (C4): a two-row table of per-bucket
// counters, one row per heap parity, accessed with relaxed atomics. §5
// brackets every digit with a barrier, so the release/acquire edge of the
// barrier is what makes a writer's slot payload visible to the next
// round's readers — the counters themselves never need anything stronger
// than relaxed fetch-add.
type slotCounters struct {
	p   *Params
	row [2][]uint32
}

func newSlotCounters(p *Params) *slotCounters {
	c := &slotCounters{p: p}
	c.row[0] = make([]uint32, p.NBuckets)
	c.row[1] = make([]uint32, p.NBuckets)
	return c
}

// getSlot atomically reserves the next slot in bucket b of layer r's heap
// parity, returning the pre-increment value. The caller must drop the
// write (and bump bfull) when the returned value is >= NSlots (I1).
func (c *slotCounters) getSlot(r, b uint32) uint32 {
	addr := &c.row[r%2][b]
	return atomic.AddUint32(addr, 1) - 1
}

// getAndClear reads bucket b's counter for layer r, clamps it to NSlots
// and resets it to zero in one step: round r+1 is reading the bucket for
// the last time, and the same counter row is reused by layer r+2.
func (c *slotCounters) getAndClear(r, b uint32) uint32 {
	addr := &c.row[r%2][b]
	n := atomic.SwapUint32(addr, 0)
	if n > c.p.NSlots {
		n = c.p.NSlots
	}
	return n
}
