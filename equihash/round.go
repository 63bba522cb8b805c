package equihash

// processRound is the digit-round kernel of §4.6 (C7): it consumes layer
// r-1's buckets and writes layer r's, generalised into one function
// instead of the teacher's odd/even kernel pair because bits.go always
// keeps the local bit offset at zero (see its package comment) — there is
// no boundary-byte nibble to alternate between.
//
// One goroutine owns a round-robin stripe of buckets [id, id+nthreads, …)
// of layer r-1; buckets are independent so no cross-goroutine
// synchronisation is needed beyond the barrier the caller brackets this
// with (I6). m may be nil; every diagnostic counter is skipped in that
// case rather than requiring callers to wire Prometheus in.
func processRound(p *Params, h *heap, counters *slotCounters, idx collisionIndex, r, id, nthreads uint32, m *Metrics) {
	dstWords := p.HashWords(r)

	for b := id; b < p.NBuckets; b += nthreads {
		n := counters.getAndClear(r-1, b)
		idx.reset()

		// s0 < s1 falls out for free: collisions(xh) is only ever queried
		// against entries addSlot has already recorded, and s1 is added
		// after its own query (§4.6's pair-ordering policy).
		for s1 := uint32(0); s1 < n; s1++ {
			xh := xhashOf(p, h, r-1, b, s1)
			for _, s0 := range idx.collisions(xh) {
				writePair(p, h, counters, r, b, s0, s1, dstWords, m)
			}
			if !idx.addSlot(s1, xh) && m != nil {
				m.CollisionFull.Inc()
			}
		}
		if m != nil {
			m.SlotsPerRound.Observe(float64(n))
		}
	}
}

// xhashOf reads slot s's RESTBITS sub-digit at layer r: the cached field
// when CacheXHash is set (always true for the declared variants, §3), or
// the leading RESTBITS of its hash suffix otherwise.
func xhashOf(p *Params, h *heap, r, bucket, s uint32) uint32 {
	if p.CacheXHash {
		return h.node(r, bucket, s).xhash(p)
	}
	return extractBits(h.hash(r, bucket, s), 0, p.RestBits)
}

// writePair derives the colliding pair's child digit, allocates its slot
// in layer r and writes the tree node and hash suffix (§4.6 steps 4-6).
//
// Every stored suffix starts at local bit offset zero (bits.go's tight-
// repacking invariant), so the next digit to eliminate is always at
// offset 0 of the parent suffixes — no dunits word-skip is needed.
func writePair(p *Params, h *heap, counters *slotCounters, r, parentBucket, s0, s1, dstWords uint32, m *Metrics) {
	a := h.hash(r-1, parentBucket, s0)
	b := h.hash(r-1, parentBucket, s1)

	// Duplicate-hash guard (§4.6 step 1): two parents whose leading
	// surviving word already agrees would XOR that word to zero and
	// degenerate the tree, so they are dropped rather than paired.
	if len(a) > 0 && a[0] == b[0] {
		if m != nil {
			m.HashDupFull.Inc()
		}
		return
	}

	bucket, xhash := extractDigitXor(a, b, p.BuckBits, p.RestBits)

	slot := counters.getSlot(r, bucket)
	if slot >= p.NSlots {
		if m != nil {
			m.BucketFull.Inc()
		}
		return
	}

	// The node's fields point at where the children live (layer r-1's
	// bucket parentBucket, slots s0/s1) — not at this node's own storage
	// bucket, which is `bucket` above and only determines where the write
	// lands in layer r's arena.
	*h.node(r, bucket, slot) = encodeNode(p, parentBucket, s0, s1, xhash)
	if dstWords > 0 {
		shiftLeftXor(h.hash(r, bucket, slot), a, b, p.DigitBits)
	}
}
