package equihash

import "testing"

func TestNewHeapSizesArenasByDeclaredStride(t *testing.T) {
	p, err := NewParams(200, 9)
	if err != nil {
		t.Fatal(err)
	}
	h := newHeap(p)

	wantTotal := p.NBuckets * p.NSlots
	for parity := 0; parity < 2; parity++ {
		if got := uint32(len(h.nodes[parity])); got != wantTotal {
			t.Errorf("nodes[%d] has %d entries, want %d", parity, got, wantTotal)
		}
		wantWords := wantTotal * h.stride[parity]
		if got := uint32(len(h.words[parity])); got != wantWords {
			t.Errorf("words[%d] has %d entries, want %d", parity, got, wantWords)
		}
	}
}

func TestHeapNodeIsWritableAndReadableAtParity(t *testing.T) {
	p, err := NewParams(200, 9)
	if err != nil {
		t.Fatal(err)
	}
	h := newHeap(p)

	n := encodeNode(p, 7, 3, 5, 2)
	*h.node(0, 7, 3) = n
	if got := *h.node(0, 7, 3); got != n {
		t.Errorf("node(0, 7, 3) = %#x, want %#x", got, n)
	}
	// Layer 1 has its own node array and must not see layer 0's write.
	if got := *h.node(1, 7, 3); got == n {
		t.Error("node(1, 7, 3) unexpectedly aliases layer 0's node slot")
	}
}

func TestHeapHashReturnsStrideSizedWindowOrNilWhenExhausted(t *testing.T) {
	p, err := NewParams(200, 9)
	if err != nil {
		t.Fatal(err)
	}
	h := newHeap(p)

	words := h.hash(0, 2, 1)
	if uint32(len(words)) != p.HashWords(0) {
		t.Errorf("hash(0, 2, 1) has %d words, want %d", len(words), p.HashWords(0))
	}
	words[0] = 0xDEADBEEF
	if got := h.hash(0, 2, 1)[0]; got != 0xDEADBEEF {
		t.Errorf("hash() did not return an aliasing slice into the backing arena: got %#x", got)
	}

	last := p.K - 1
	if p.HashWords(last) == 0 {
		if got := h.hash(last, 0, 0); got != nil {
			t.Errorf("hash() at the final exhausted layer = %v, want nil", got)
		}
	}
}

func TestHeapSlotIndexIsDistinctPerBucketAndSlot(t *testing.T) {
	p, err := NewParams(200, 9)
	if err != nil {
		t.Fatal(err)
	}
	h := newHeap(p)
	if h.slotIndex(0, 0) == h.slotIndex(0, 1) {
		t.Error("slotIndex collided across distinct slots in the same bucket")
	}
	if h.slotIndex(0, 1) == h.slotIndex(1, 0) {
		t.Error("slotIndex collided across distinct buckets")
	}
}
