package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dacho68/equihash-1/equihash"
)

// newSolveCommand builds the `equihash solve` subcommand: a single,
// one-shot (header, nonce) search against a chosen (N, K), printing the
// number of solutions found and each one that passes Verify as a packed
// hex proof (a proof that fails Verify is logged and not printed). This is the "run the core
// engine directly" entry point the teacher's main.go never had a use for
// (it only ever mined against a pool), useful for benchmarking a parameter
// set or replaying a fixture header.
func newSolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search a single header/nonce for Equihash solutions",
		RunE:  runSolve,
	}

	flags := cmd.Flags()
	flags.Uint32("n", 96, "Equihash N parameter")
	flags.Uint32("k", 5, "Equihash K parameter")
	flags.String("header", "", "hex-encoded header (HeaderLen bytes); random if omitted")
	flags.String("nonce", "", "hex-encoded nonce (NonceLen bytes); random if omitted")
	flags.Int("threads", 0, "worker threads; 0 means GOMAXPROCS")
	flags.String("collision-index", "bitmap", "collision index implementation: bitmap or array")
	flags.Int("max-solutions", 0, "cap on returned solutions; 0 means unbounded")
	viper.BindPFlags(flags)

	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	n := viper.GetUint32("n")
	k := viper.GetUint32("k")

	kind := equihash.CollisionIndexBitmap
	if viper.GetString("collision-index") == "array" {
		kind = equihash.CollisionIndexArray
	}

	solver, err := equihash.NewSolver(n, k, equihash.SolverOptions{
		NThreads:       viper.GetInt("threads"),
		CollisionIndex: kind,
		MaxSolutions:   viper.GetInt("max-solutions"),
		Metrics:        equihash.NewMetrics(n, k),
	})
	if err != nil {
		return err
	}

	header, err := decodeOrRandom(viper.GetString("header"), equihash.HeaderLen)
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	nonce, err := decodeOrRandom(viper.GetString("nonce"), equihash.NonceLen)
	if err != nil {
		return fmt.Errorf("nonce: %w", err)
	}

	var h [equihash.HeaderLen]byte
	var nc [equihash.NonceLen]byte
	copy(h[:], header)
	copy(nc[:], nonce)

	logger.Infow("solving", "n", n, "k", k, "header", hex.EncodeToString(h[:]), "nonce", hex.EncodeToString(nc[:]))

	sols, err := solver.Solve(context.Background(), h, nc)
	if err != nil {
		return err
	}

	fmt.Printf("found %d solution(s)\n", len(sols))
	for i, proof := range sols {
		packed := equihash.PackProof(solver.Params(), proof)
		if err := equihash.Verify(solver.Params(), h, nc, proof); err != nil {
			logger.Warnw("solver produced an unverifiable proof", "index", i, "error", err)
			continue
		}
		fmt.Printf("%d: %s\n", i, hex.EncodeToString(packed))
	}
	return nil
}

func decodeOrRandom(s string, n uint32) ([]byte, error) {
	if s == "" {
		b := make([]byte, n)
		if _, err := rand.Read(b); err != nil {
			return nil, err
		}
		return b, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if uint32(len(b)) != n {
		return nil, fmt.Errorf("want %d bytes, got %d", n, len(b))
	}
	return b, nil
}
