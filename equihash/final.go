package equihash

// Candidate is the transient tree node §4.7 (C8) hands to the solution
// expander: a colliding pair at the final digit, whose full remaining
// hash content already cancels.
type Candidate struct {
	Bucket, S0, S1 uint32
}

// processFinalDigit is C8: a variant of the round kernel (§4.7) rather than
// a plain full-suffix scan. Two slots only ever collide if they already
// share digit K-1's RESTBITS sub-digit — that grouping is exactly what
// xhashOf/collisionIndex give processRound, and the final digit needs it
// too, since the stored suffix at layer K-1 holds digit K onward but not
// digit K-1's RESTBITS, which only survives in the node's cached xhash.
// Grouping by the bare hash word without it lets two slots whose digit K
// already cancels but whose digit K-1 RESTBITS differ pair into a
// candidate whose true combined XOR is non-zero in those bits — exactly
// the P2 violation Verify would reject. The single remaining word's
// equality (HashWords(K-1) == 1 for every declared variant, per
// NewParams's (K+1)*DigitBits == N precondition) is still required on top
// of the xhash match: group by sub-digit first, then confirm the word
// actually matches before accepting a pair.
//
// Candidates found by this goroutine's bucket stripe are appended to its
// own slice and returned; the caller merges stripes after the join, since
// §5's barrier model only serialises rounds, not candidate collection.
func processFinalDigit(p *Params, h *heap, counters *slotCounters, idx collisionIndex, id, nthreads uint32) []Candidate {
	var out []Candidate

	for b := id; b < p.NBuckets; b += nthreads {
		n := counters.getAndClear(p.K-1, b)
		idx.reset()

		for s1 := uint32(0); s1 < n; s1++ {
			xh := xhashOf(p, h, p.K-1, b, s1)
			word1 := h.hash(p.K-1, b, s1)[0]
			for _, s0 := range idx.collisions(xh) {
				if h.hash(p.K-1, b, s0)[0] == word1 {
					out = append(out, Candidate{Bucket: b, S0: s0, S1: s1})
				}
			}
			idx.addSlot(s1, xh)
		}
	}
	return out
}
