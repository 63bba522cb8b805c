package equihash

import (
	"context"
	"testing"
)

func TestVerifyAcceptsASolverProducedProof(t *testing.T) {
	p, err := NewParams(96, 3)
	if err != nil {
		t.Fatal(err)
	}
	solver, err := NewSolver(96, 3, SolverOptions{NThreads: 1})
	if err != nil {
		t.Fatal(err)
	}
	var header [HeaderLen]byte
	var nonce [NonceLen]byte
	sols, err := solver.Solve(context.Background(), header, nonce)
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) == 0 {
		t.Skip("no solution found for the all-zero (96,3) fixture on this run")
	}
	if err := Verify(p, header, nonce, sols[0]); err != nil {
		t.Errorf("Verify rejected a solver-produced proof: %v", err)
	}
}

func TestVerifyRejectsWrongLengthProof(t *testing.T) {
	p, err := NewParams(96, 3)
	if err != nil {
		t.Fatal(err)
	}
	var header [HeaderLen]byte
	var nonce [NonceLen]byte
	short := make([]uint32, p.ProofSize-1)
	if err := Verify(p, header, nonce, short); err == nil {
		t.Error("expected an error for a proof of the wrong length")
	}
}

func TestVerifyRejectsOutOfRangeIndex(t *testing.T) {
	p, err := NewParams(96, 3)
	if err != nil {
		t.Fatal(err)
	}
	var header [HeaderLen]byte
	var nonce [NonceLen]byte
	proof := make([]uint32, p.ProofSize)
	for i := range proof {
		proof[i] = uint32(i)
	}
	proof[0] = p.NHashes // out of range
	if err := Verify(p, header, nonce, proof); err == nil {
		t.Error("expected an error for an out-of-range index")
	}
}

func TestVerifyRejectsNonAscendingIndices(t *testing.T) {
	p, err := NewParams(96, 3)
	if err != nil {
		t.Fatal(err)
	}
	var header [HeaderLen]byte
	var nonce [NonceLen]byte
	proof := make([]uint32, p.ProofSize)
	for i := range proof {
		proof[i] = uint32(len(proof) - i) // descending
	}
	if err := Verify(p, header, nonce, proof); err == nil {
		t.Error("expected an error for non-ascending indices")
	}
}

func TestVerifyOrderRejectsALeftSubtreeWithTheLargerLead(t *testing.T) {
	// verifyOrder is checked directly here: given a strictly ascending
	// proof, the outer Verify already guarantees every subtree's leading
	// element is its minimum, making the recursive I5 check trivially
	// true; exercising it on its own terms needs a non-ascending array,
	// which only Verify's earlier I4 gate would otherwise reject first.
	if verifyOrder([]uint32{4, 5, 6, 7, 0, 1, 2, 3}) {
		t.Error("expected the right half's lead (0) beating the left half's lead (4) to fail")
	}
	if !verifyOrder([]uint32{0, 1, 2, 3, 4, 5, 6, 7}) {
		t.Error("expected an already-ordered proof to pass")
	}
}
