package equihash

import "math/bits"

// CollisionIndexKind selects which §4.4 (C5) realisation a Solver uses.
// Exposed as a policy enum on SolverOptions rather than a build tag, per
// §9's guidance to turn the teacher's ATOMIC/XINTREE/XBITMAP compile
// flags into configuration selected at construction time.
type CollisionIndexKind int

const (
	// CollisionIndexBitmap is the 64-bit-word bitmap realisation. It
	// requires NSlots <= 64, which holds for every declared variant
	// (SlotBits = RestBits+2 = 6, so NSlots = 64 exactly).
	CollisionIndexBitmap CollisionIndexKind = iota
	// CollisionIndexArray is the counted-array realisation: more memory
	// per bucket, but with an explicit XFULL overflow counter instead of
	// relying on NSlots <= 64.
	CollisionIndexArray
)

// collisionIndex groups the slots of one bucket by their xhash sub-digit
// and enumerates colliding pairs. A fresh instance (or a Reset) is used
// per bucket per round; it is not safe for concurrent use from more than
// one goroutine.
type collisionIndex interface {
	// reset clears the index for a new bucket.
	reset()
	// addSlot records that slot s carries sub-digit xh. It returns false
	// if the bucket's per-sub-digit overflow limit (XFULL) was hit, in
	// which case the caller should bump xfull and skip the slot.
	addSlot(s, xh uint32) bool
	// collisions returns every s0 already recorded under sub-digit xh:
	// in ascending slot order for the bitmap realisation, in the order
	// addSlot saw them for the array one. The caller drives s1 upward, so
	// the two orders coincide and s0 < s1 always holds (§4.6's
	// pair-ordering policy).
	collisions(xh uint32) []uint32
}

// bitmapIndex is §4.4's bitmap realisation.
type bitmapIndex struct {
	nRests uint32
	xmap   []uint64 // one 64-bit word per sub-digit value
	scratch []uint32
}

func newBitmapIndex(p *Params) *bitmapIndex {
	return &bitmapIndex{
		nRests:  p.NRests,
		xmap:    make([]uint64, p.NRests),
		scratch: make([]uint32, 0, p.NSlots),
	}
}

func (b *bitmapIndex) reset() {
	for i := range b.xmap {
		b.xmap[i] = 0
	}
}

func (b *bitmapIndex) addSlot(s, xh uint32) bool {
	b.xmap[xh] |= 1 << uint(s)
	return true
}

func (b *bitmapIndex) collisions(xh uint32) []uint32 {
	b.scratch = b.scratch[:0]
	word := b.xmap[xh]
	for word != 0 {
		lsb := bits.TrailingZeros64(word)
		b.scratch = append(b.scratch, uint32(lsb))
		word &= word - 1
	}
	return b.scratch
}

// arrayIndex is §4.4's counted-array realisation.
type arrayIndex struct {
	xfull uint32 // XFull (NSlots/4) entries of headroom per sub-digit
	slots [][]uint32
}

func newArrayIndex(p *Params) *arrayIndex {
	a := &arrayIndex{xfull: p.XFull}
	a.slots = make([][]uint32, p.NRests)
	for i := range a.slots {
		a.slots[i] = make([]uint32, 0, p.XFull)
	}
	return a
}

func (a *arrayIndex) reset() {
	for i := range a.slots {
		a.slots[i] = a.slots[i][:0]
	}
}

func (a *arrayIndex) addSlot(s, xh uint32) bool {
	if uint32(len(a.slots[xh])) >= a.xfull {
		return false
	}
	a.slots[xh] = append(a.slots[xh], s)
	return true
}

func (a *arrayIndex) collisions(xh uint32) []uint32 {
	return a.slots[xh]
}

func newCollisionIndex(p *Params, kind CollisionIndexKind) collisionIndex {
	if kind == CollisionIndexArray {
		return newArrayIndex(p)
	}
	return newBitmapIndex(p)
}
