package equihash

import "testing"

func TestNewParamsDerivesDeclaredVariants(t *testing.T) {
	cases := []struct {
		n, k               uint32
		digitBits, buckets uint32
	}{
		{96, 3, 24, 1 << 20},
		{96, 5, 16, 1 << 12},
		{200, 9, 20, 1 << 16},
	}
	for _, c := range cases {
		p, err := NewParams(c.n, c.k)
		if err != nil {
			t.Fatalf("NewParams(%d, %d): %v", c.n, c.k, err)
		}
		if p.DigitBits != c.digitBits {
			t.Errorf("N=%d K=%d: DigitBits = %d, want %d", c.n, c.k, p.DigitBits, c.digitBits)
		}
		if p.NBuckets != c.buckets {
			t.Errorf("N=%d K=%d: NBuckets = %d, want %d", c.n, c.k, p.NBuckets, c.buckets)
		}
		if p.ProofSize != 1<<c.k {
			t.Errorf("N=%d K=%d: ProofSize = %d, want %d", c.n, c.k, p.ProofSize, 1<<c.k)
		}
		if p.NHashes != 2*(1<<p.DigitBits) {
			t.Errorf("N=%d K=%d: NHashes = %d, want %d", c.n, c.k, p.NHashes, 2*(1<<p.DigitBits))
		}
	}
}

func TestNewParamsRejectsZeroK(t *testing.T) {
	if _, err := NewParams(96, 0); err == nil {
		t.Error("expected an error for K=0")
	}
}

func TestNewParamsRejectsNonDivisibleN(t *testing.T) {
	if _, err := NewParams(97, 3); err == nil {
		t.Error("expected an error when K+1 does not divide N")
	}
}

func TestNewParamsRejectsLowDigitBits(t *testing.T) {
	if _, err := NewParams(20, 1); err == nil {
		t.Error("expected an error for a DIGITBITS < 16 pair")
	}
}

func TestNewParamsRejectsUndeclaredVariant(t *testing.T) {
	// N=54, K=2 gives DIGITBITS=18 (>=16, so it clears the floor check)
	// but BUCKBITS=14, which isn't one of the declared byte layouts.
	if _, err := NewParams(54, 2); err == nil {
		t.Error("expected an error for an undeclared (BUCKBITS, RESTBITS) pair")
	}
}

func TestNewParamsRejectsOversizedN(t *testing.T) {
	if _, err := NewParams(520, 1); err == nil {
		t.Error("expected an error for N > 512")
	}
}

func TestHashWordsShrinksTowardZeroAtTheFinalDigit(t *testing.T) {
	p, err := NewParams(200, 9)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.HashWords(p.K - 1); got != 1 {
		t.Errorf("HashWords(K-1) = %d, want 1 (every declared variant leaves exactly one comparison word)", got)
	}
	for r := uint32(1); r < p.K; r++ {
		if p.HashWords(r) > p.HashWords(r-1) {
			t.Errorf("HashWords(%d)=%d > HashWords(%d)=%d, expected non-increasing", r, p.HashWords(r), r-1, p.HashWords(r-1))
		}
	}
}
