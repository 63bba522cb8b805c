package main

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dacho68/equihash-1/clients"
	"github.com/dacho68/equihash-1/equihash"
	"github.com/dacho68/equihash-1/mining"
)

// noncePrefixer is implemented by a pool client's job value when the pool
// assigns bytes a solved nonce must start with (extranonce1||extranonce2
// for a stratum job). Jobs that don't implement it get a zero prefix.
type noncePrefixer interface {
	NoncePrefix() []byte
}

// Miner replaces the teacher's OpenCL singleDeviceMiner: instead of driving
// a GPU kernel over a nonce range, it runs one equihash.Solver per worker,
// fetching a fresh header from a clients.Client and searching successive
// NonceLen-byte nonces (pool-assigned prefix plus a locally incremented
// suffix) until the job is deprecated.
type Miner struct {
	solver          *equihash.Solver
	client          clients.Client
	minerID         int
	hashRateReports chan *mining.HashRateReport
	log             *zap.SugaredLogger
}

// Mine implements mining.Miner.
func (m *Miner) Mine() {
	for {
		target, header, deprecationChannel, job, err := m.client.GetHeaderForWork()
		if err != nil {
			m.log.Errorw("fetching work failed", "miner", m.minerID, "error", err)
			time.Sleep(time.Second)
			continue
		}
		if len(header) != equihash.HeaderLen {
			m.log.Errorw("unexpected header length", "miner", m.minerID, "want", equihash.HeaderLen, "got", len(header))
			time.Sleep(time.Second)
			continue
		}
		var h [equihash.HeaderLen]byte
		copy(h[:], header)

		var prefix []byte
		if np, ok := job.(noncePrefixer); ok {
			prefix = np.NoncePrefix()
		}

		m.searchJob(h, target, prefix, deprecationChannel, job)
	}
}

// searchJob runs the solver over successive nonces for one job until
// deprecationChannel closes.
func (m *Miner) searchJob(header [equihash.HeaderLen]byte, target []byte, prefix []byte, deprecationChannel chan bool, job interface{}) {
	for local := uint64(0); ; local++ {
		select {
		case <-deprecationChannel:
			return
		default:
		}

		nonce := buildNonce(prefix, local)
		runID := uuid.New()
		start := time.Now()

		sols, err := m.solver.Solve(context.Background(), header, nonce)
		if err != nil {
			m.log.Errorw("solve failed", "run", runID, "miner", m.minerID, "error", err)
			continue
		}

		elapsed := time.Since(start).Seconds()
		hashRate := float64(m.solver.Params().NHashes) / elapsed / 1e6
		m.hashRateReports <- &mining.HashRateReport{MinerID: m.minerID, HashRate: hashRate}
		m.log.Debugw("solve finished", "run", runID, "miner", m.minerID, "solutions", len(sols), "duration", elapsed)

		for _, proof := range sols {
			m.submit(nonce, proof, job, target)
		}
	}
}

func (m *Miner) submit(nonce [equihash.NonceLen]byte, proof []uint32, job interface{}, target []byte) {
	packed := equihash.PackProof(m.solver.Params(), proof)
	go func() {
		if err := m.client.SubmitHeader(nonce[:], packed, job); err != nil {
			m.log.Errorw("submitting solution failed", "miner", m.minerID, "error", err)
			return
		}
		m.log.Infow("solution submitted", "miner", m.minerID, "target", target)
	}()
}

// buildNonce lays the pool-assigned prefix down first, then a little-endian
// local counter in the remaining bytes so successive calls for the same job
// search distinct nonces.
func buildNonce(prefix []byte, local uint64) [equihash.NonceLen]byte {
	var nonce [equihash.NonceLen]byte
	copy(nonce[:], prefix)
	suffix := nonce[len(prefix):]
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], local)
	copy(suffix, buf[:])
	return nonce
}
