package equihash

import "sort"

// expand is the recursive tree walk of §4.8 (C9): a layer-r node (living
// at h.node(r, bucket, slot)) has 2^r leaves. It is unified into one
// function instead of the teacher's listindices0/listindices1 pair —
// those differ only in which half of the boundary byte the sub-digit
// came from, a distinction bits.go's tight-repacking invariant already
// erased, so every node's (bucketid, slotid0, slotid1) fields are read
// the same way regardless of parity.
func expand(p *Params, h *heap, r, bucket, slot uint32, out []uint32) {
	if r == 0 {
		out[0] = h.node(0, bucket, slot).getIndex(p)
		return
	}
	n := h.node(r, bucket, slot)
	childBucket, s0, s1 := n.bucketID(p), n.slot0(p), n.slot1(p)

	half := len(out) / 2
	expand(p, h, r-1, childBucket, s0, out[:half])
	expand(p, h, r-1, childBucket, s1, out[half:])
	if out[0] > out[half] {
		swapHalves(out)
	}
}

func swapHalves(out []uint32) {
	half := len(out) / 2
	for i := 0; i < half; i++ {
		out[i], out[i+half] = out[i+half], out[i]
	}
}

// expandCandidate walks a §4.7 candidate pair into its PROOFSIZE leaf
// indices, in canonical tree order (I5 already enforced by the swaps
// inside expand).
func expandCandidate(p *Params, h *heap, c Candidate) []uint32 {
	out := make([]uint32, p.ProofSize)
	half := p.ProofSize / 2
	expand(p, h, p.K-1, c.Bucket, c.S0, out[:half])
	expand(p, h, p.K-1, c.Bucket, c.S1, out[half:])
	if out[0] > out[half] {
		swapHalves(out)
	}
	return out
}

// isDistinct is the duplicate-rejection scan of §4.8: sort a scratch copy
// and check strict ascent (I4), leaving the caller's tree-ordered slice
// untouched — the sort is only ever done on the copy, so there is no need
// to re-derive tree order afterward the way re-sorting a single shared
// buffer would require.
func isDistinct(proof []uint32) bool {
	sorted := append([]uint32(nil), proof...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i := 1; i < len(sorted); i++ {
		if sorted[i] <= sorted[i-1] {
			return false
		}
	}
	return true
}

// collectSolutions runs C9 over every candidate the final digit produced,
// enforcing the MAXSOLS ceiling (I1's proof-count analogue) and I4/I5.
func collectSolutions(p *Params, h *heap, candidates []Candidate, maxSols int) [][]uint32 {
	var sols [][]uint32
	for _, c := range candidates {
		if maxSols > 0 && len(sols) >= maxSols {
			break
		}
		proof := expandCandidate(p, h, c)
		if !isDistinct(proof) {
			continue
		}
		sols = append(sols, proof)
	}
	return sols
}
