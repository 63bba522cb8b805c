// Package equihash implements Wagner's generalized-birthday proof of work,
// parameterised by (N, K) the way Zcash uses it: a bucketed XOR-collision
// search over 2^(N/(K+1)+1) BLAKE2b-derived hashes.
package equihash

import "fmt"

// RestBits is fixed across every declared (BUCKBITS, RESTBITS) byte layout:
// each is a nibble of the boundary byte between two digits.
const RestBits = 4

// variant describes one declared (BUCKBITS, RESTBITS) byte layout from the
// header seeding/round extraction tables. Only tuples appearing here may be
// solved; everything else is rejected at Params construction.
type variant struct {
	buckBits uint32
	restBits uint32
}

var declaredVariants = map[variant]bool{
	{buckBits: 16, restBits: RestBits}: true,
	{buckBits: 20, restBits: RestBits}: true,
	{buckBits: 12, restBits: RestBits}: true,
}

// Params is the compile-time constant pack (C1): N, K and everything
// derived from them. It is computed once per (N, K) pair and shared,
// read-only, by every component.
type Params struct {
	N uint32
	K uint32

	DigitBits uint32 // n = N/(K+1)
	RestBits  uint32
	BuckBits  uint32 // DigitBits - RestBits
	NBuckets  uint32 // 2^BuckBits
	SlotBits  uint32 // RestBits + 2
	NSlots    uint32 // 2^SlotBits
	NRests    uint32 // 2^RestBits
	XFull     uint32 // NSlots / 4

	ProofSize      uint32 // 2^K
	NHashes        uint32 // 2 * 2^DigitBits
	IndexBits      uint32 // DigitBits + 1, bit width of a leaf index
	HashesPerBlake uint32 // 512 / N
	NBlocks        uint32 // ceil(NHashes / HashesPerBlake)

	// CacheXHash mirrors the teacher's XINTREE compile flag: when true the
	// RESTBITS sub-digit that bound a colliding pair is cached in the tree
	// node so later rounds don't re-derive it from the hash bytes.
	CacheXHash bool
}

// NewParams validates (n, k) against §1's scope rule (DIGITBITS >= 16) and
// against the declared byte-layout variants in §6, then derives every other
// constant in §3.
func NewParams(n, k uint32) (*Params, error) {
	if k == 0 {
		return nil, fmt.Errorf("equihash: K must be >= 1")
	}
	digitBits := n / (k + 1)
	if (k+1)*digitBits != n {
		return nil, fmt.Errorf("equihash: N=%d is not a multiple of K+1=%d", n, k+1)
	}
	if digitBits < 16 {
		return nil, fmt.Errorf("equihash: DIGITBITS=%d < 16 is out of scope (N=%d, K=%d)", digitBits, n, k)
	}
	buckBits := digitBits - RestBits
	v := variant{buckBits: buckBits, restBits: RestBits}
	if !declaredVariants[v] {
		return nil, fmt.Errorf("equihash: undeclared (BUCKBITS=%d, RESTBITS=%d) byte layout for N=%d, K=%d", buckBits, RestBits, n, k)
	}
	if n == 0 || n > 512 {
		return nil, fmt.Errorf("equihash: N=%d must fit within one 512-bit BLAKE2b-512 output", n)
	}
	hashesPerBlake := uint32(512) / n
	if hashesPerBlake == 0 {
		return nil, fmt.Errorf("equihash: N=%d produces zero hashes per BLAKE2b block", n)
	}

	p := &Params{
		N:          n,
		K:          k,
		DigitBits:  digitBits,
		RestBits:   RestBits,
		BuckBits:   buckBits,
		NBuckets:   1 << buckBits,
		SlotBits:   RestBits + 2,
		NRests:     1 << RestBits,
		CacheXHash: true,
	}
	p.NSlots = 1 << p.SlotBits
	p.XFull = p.NSlots / 4
	p.ProofSize = 1 << k
	p.DigitBits = digitBits
	p.NHashes = 2 * (1 << digitBits)
	p.IndexBits = digitBits + 1
	p.HashesPerBlake = hashesPerBlake
	p.NBlocks = (p.NHashes + hashesPerBlake - 1) / hashesPerBlake
	return p, nil
}

// HashWords is HASHWORDS(r): the number of 32-bit words of hash suffix a
// slot at layer r carries, after the leading r+1 digits have been
// eliminated (and, when CacheXHash is false, after reserving RestBits for
// the sub-digit that round r+1 still needs to read from the payload).
func (p *Params) HashWords(r uint32) uint32 {
	bits := int64(p.N) - int64(r+1)*int64(p.DigitBits)
	if !p.CacheXHash {
		bits += int64(p.RestBits)
	}
	if bits <= 0 {
		return 0
	}
	return uint32((bits + 31) / 32)
}
