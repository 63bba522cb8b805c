package equihash

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SolverOptions configures one Solver instance: the §4.4 collision-index
// realisation, the worker count and the MAXSOLS ceiling, none of which §9
// wants hardwired as compile flags.
type SolverOptions struct {
	// NThreads is the worker-thread count of §5. Zero means
	// runtime.GOMAXPROCS(0).
	NThreads int
	// CollisionIndex selects the §4.4 realisation. Zero value is the
	// bitmap realisation.
	CollisionIndex CollisionIndexKind
	// MaxSolutions caps the number of proofs returned; zero means
	// unbounded.
	MaxSolutions int
	// Metrics, if non-nil, receives the §7 diagnostic counters.
	Metrics *Metrics
}

// Solver owns the two heaps, the slot counters and the worker pool for
// one (N, K) parameter set (§5's "resource policy": heaps, nslots and
// sols are owned by the solver instance for its lifetime). A Solver is
// reusable across many (header, nonce) pairs.
type Solver struct {
	p    *Params
	opts SolverOptions

	heap     *heap
	counters *slotCounters
}

// NewSolver builds a Solver for the given (N, K), validating the pair
// against the declared byte-layout variants (§6).
func NewSolver(n, k uint32, opts SolverOptions) (*Solver, error) {
	p, err := NewParams(n, k)
	if err != nil {
		return nil, err
	}
	if opts.NThreads <= 0 {
		opts.NThreads = runtime.GOMAXPROCS(0)
	}
	return &Solver{
		p:        p,
		opts:     opts,
		heap:     newHeap(p),
		counters: newSlotCounters(p),
	}, nil
}

// Params returns the solver's derived constant pack, mostly useful for
// callers building headers or sizing proof buffers.
func (s *Solver) Params() *Params { return s.p }

// Solve runs one full (header, nonce) search: digit-0 seeding, K-1 digit
// rounds, the final digit and solution expansion, exactly the pipeline
// §4 lays out. It blocks until every worker has finished; ctx cancellation
// is honoured only between phases (the core has no internal cancellation
// points, per §5 — a cancelled context stops the NEXT phase from
// starting, it does not preempt one already running).
func (s *Solver) Solve(ctx context.Context, header [HeaderLen]byte, nonce [NonceLen]byte) ([][]uint32, error) {
	p := s.p
	base := SetHeader(p, header, nonce)

	nthreads := s.opts.NThreads
	bar := newBarrier(nthreads)

	// Phase 1: digit-0 seeding (C6), barrier, then K-1 digit rounds (C7),
	// each bracketed by its own barrier (§5's ordering guarantees). No
	// context check inside this loop: §5 has no in-round cancellation
	// point, and one goroutine bailing out early would leave the rest
	// blocked forever on the N-way barrier the others still call.
	var g errgroup.Group
	for id := 0; id < nthreads; id++ {
		id := uint32(id)
		g.Go(func() error {
			seedDigitZero(p, base, s.heap, s.counters, id, uint32(nthreads), s.opts.Metrics)
			bar.wait()

			idx := newCollisionIndex(p, s.opts.CollisionIndex)
			for r := uint32(1); r < p.K; r++ {
				processRound(p, s.heap, s.counters, idx, r, id, uint32(nthreads), s.opts.Metrics)
				bar.wait()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("equihash: solve: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: final digit (C8), fanned out the same way, merged after
	// the join since §5's barrier model serialises rounds, not candidate
	// collection.
	candidateSets := make([][]Candidate, nthreads)
	g = errgroup.Group{}
	for id := 0; id < nthreads; id++ {
		id := uint32(id)
		g.Go(func() error {
			idx := newCollisionIndex(p, s.opts.CollisionIndex)
			candidateSets[id] = processFinalDigit(p, s.heap, s.counters, idx, id, uint32(nthreads))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("equihash: final digit: %w", err)
	}

	var candidates []Candidate
	for _, set := range candidateSets {
		candidates = append(candidates, set...)
	}

	// Phase 3: solution expansion (C9). Small relative to the search
	// itself, so it runs on the calling goroutine.
	return collectSolutions(p, s.heap, candidates, s.opts.MaxSolutions), nil
}
