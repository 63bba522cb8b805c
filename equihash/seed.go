package equihash

import (
	"encoding/binary"

	"github.com/dacho68/equihash-1/equihash/blake2b"
)

// seedDigitZero is the digit-0 seeder of §4.5 (C6): one goroutine's share
// of the NBLOCKS BLAKE2b blocks, striped `id, id+nthreads, …` the way the
// teacher's worker loop stripes OpenCL work-items. base is cloned fresh
// per block so each goroutine needs no lock on the header-seeded state.
// m may be nil, skipping the diagnostic counter.
func seedDigitZero(p *Params, base *blake2b.State, h *heap, counters *slotCounters, id, nthreads uint32, m *Metrics) {
	var le4 [4]byte
	bufWords := make([]uint32, blake2b.HashOut/4)
	hashBuf := make([]uint32, (p.N+31)/32)
	dst := make([]uint32, p.HashWords(0))

	for block := id; block < p.NBlocks; block += nthreads {
		st := base.Clone()
		binary.LittleEndian.PutUint32(le4[:], block)
		st.Write(le4[:])
		digest := st.Sum()

		for i := range bufWords {
			bufWords[i] = binary.BigEndian.Uint32(digest[i*4:])
		}

		for i := uint32(0); i < p.HashesPerBlake; i++ {
			idx := block*p.HashesPerBlake + i
			if idx >= p.NHashes {
				break
			}
			bitOffset := i * p.N
			extractWindow(bufWords, bitOffset, p.N, hashBuf)

			bucket := extractBits(hashBuf, 0, p.BuckBits)
			xhash := extractBits(hashBuf, p.BuckBits, p.RestBits)
			shiftLeft(dst, hashBuf, p.DigitBits)

			slot := counters.getSlot(0, bucket)
			if slot >= p.NSlots {
				if m != nil {
					m.BucketFull.Inc()
				}
				continue
			}
			*h.node(0, bucket, slot) = encodeLeaf(p, idx, xhash)
			copy(h.hash(0, bucket, slot), dst)
		}
	}
}
