// Package zcash implements a Client against a Zcash-flavoured Equihash
// stratum pool, as defined on
// https://github.com/str4d/zips/blob/23d74b0373c824dd51c7854c0e3ea22489ba1b76/drafts/str4d-stratum/draft1.rst
package zcash

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dacho68/equihash-1/clients"
	"github.com/dacho68/equihash-1/clients/stratum"
	"github.com/dacho68/equihash-1/equihash"
)

type stratumJob struct {
	JobID      string
	Version    []byte
	PrevHash   []byte
	MerkleRoot []byte
	Reserved   []byte
	Time       []byte
	Bits       []byte
	CleanJobs  bool

	ExtraNonce2 stratum.ExtraNonce2

	extranonce1 []byte
}

// NoncePrefix returns the pool-assigned bytes (extranonce1 || extranonce2)
// that a solved nonce must start with. The miner fills the remaining bytes
// up to equihash.NonceLen itself while searching a job.
func (sj stratumJob) NoncePrefix() []byte {
	prefix := make([]byte, 0, len(sj.extranonce1)+int(sj.ExtraNonce2.Size))
	prefix = append(prefix, sj.extranonce1...)
	prefix = append(prefix, sj.ExtraNonce2.Bytes()...)
	return prefix
}

// StratumClient is a zcash client using the stratum protocol.
type StratumClient struct {
	connectionstring string
	User             string
	Params           *equihash.Params
	Log              *zap.SugaredLogger

	mutex           sync.Mutex // protects following
	stratumclient   *stratum.Client
	extranonce1     []byte
	extranonce2Size uint
	target          []byte
	currentJob      stratumJob
	clients.BaseClient
}

// NewClient creates a new StratumClient given a '[stratum+tcp://]host:port'
// connectionstring. p selects the Equihash parameter set the pool expects;
// log defaults to zap's production logger if nil.
func NewClient(connectionstring, pooluser string, p *equihash.Params, log *zap.SugaredLogger) clients.Client {
	if strings.HasPrefix(connectionstring, "stratum+tcp://") {
		connectionstring = strings.TrimPrefix(connectionstring, "stratum+tcp://")
	}
	if log == nil {
		l, _ := zap.NewProduction()
		log = l.Sugar()
	}
	return &StratumClient{connectionstring: connectionstring, User: pooluser, Params: p, Log: log}
}

// Start connects to the stratum server and processes the notifications.
func (sc *StratumClient) Start() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	sc.DeprecateOutstandingJobs()

	sc.stratumclient = &stratum.Client{}
	sc.stratumclient.ErrorCallback = func(err error) {
		sc.Log.Errorw("stratum connection error", "error", err)
		sc.stratumclient.Close()
		sc.Start()
	}

	sc.subscribeToStratumTargetChanges()
	sc.subscribeToStratumJobNotifications()

	sc.Log.Infow("connecting to stratum server", "address", sc.connectionstring, "n", sc.Params.N, "k", sc.Params.K)
	if err := sc.stratumclient.Dial(sc.connectionstring); err != nil {
		sc.Log.Errorw("dial failed", "error", err)
		return
	}

	var subscribeReply interface{}
	err := sc.stratumclient.Call("mining.subscribe", []string{"gominer"}, &subscribeReply)
	if err != nil {
		sc.Log.Errorw("mining.subscribe failed", "error", err)
		sc.stratumclient.Close()
		return
	}
	reply, ok := subscribeReply.([]interface{})
	if !ok || len(reply) < 2 {
		sc.Log.Errorw("invalid mining.subscribe reply", "reply", subscribeReply)
		sc.stratumclient.Close()
		return
	}

	if sc.extranonce1, err = stratum.HexStringToBytes(reply[1]); err != nil {
		sc.Log.Errorw("invalid extranonce1 from stratum")
		sc.stratumclient.Close()
		return
	}
	sc.extranonce2Size = uint(equihash.NonceLen) - uint(len(sc.extranonce1))

	var authReply interface{}
	if err = sc.stratumclient.Call("mining.authorize", []string{sc.User, ""}, &authReply); err != nil {
		sc.Log.Errorw("unable to authorize", "error", err)
		sc.stratumclient.Close()
		return
	}
}

func (sc *StratumClient) subscribeToStratumTargetChanges() {
	sc.stratumclient.SetNotificationHandler("mining.set_target", func(params []interface{}) {
		if len(params) < 1 {
			sc.Log.Errorw("mining.set_target: missing target parameter")
			return
		}
		target, err := stratum.HexStringToBytes(params[0])
		if err != nil {
			sc.Log.Errorw("mining.set_target: invalid target", "target", params[0])
			return
		}
		sc.mutex.Lock()
		sc.target = target
		sc.mutex.Unlock()
		sc.Log.Infow("target changed", "target", params[0])
	})
}

func (sc *StratumClient) subscribeToStratumJobNotifications() {
	sc.stratumclient.SetNotificationHandler("mining.notify", func(params []interface{}) {
		if len(params) < 8 {
			sc.Log.Errorw("mining.notify: wrong number of parameters", "count", len(params))
			return
		}
		sj := stratumJob{}
		sj.ExtraNonce2.Size = sc.extranonce2Size
		sj.extranonce1 = sc.extranonce1

		var ok bool
		var err error
		if sj.JobID, ok = params[0].(string); !ok {
			sc.Log.Errorw("mining.notify: bad job_id")
			return
		}
		if sj.Version, err = stratum.HexStringToBytes(params[1]); err != nil {
			sc.Log.Errorw("mining.notify: bad version", "value", params[1])
			return
		}
		if binary.LittleEndian.Uint32(sj.Version) != 4 {
			sc.Log.Errorw("mining.notify: unsupported block version", "version", sj.Version)
			return
		}
		if sj.PrevHash, err = stratum.HexStringToBytes(params[2]); err != nil {
			sc.Log.Errorw("mining.notify: bad prevhash")
			return
		}
		if sj.MerkleRoot, err = stratum.HexStringToBytes(params[3]); err != nil {
			sc.Log.Errorw("mining.notify: bad merkleroot")
			return
		}
		if sj.Reserved, err = stratum.HexStringToBytes(params[4]); err != nil {
			sc.Log.Errorw("mining.notify: bad reserved field")
			return
		}
		if sj.Time, err = stratum.HexStringToBytes(params[5]); err != nil {
			sc.Log.Errorw("mining.notify: bad time")
			return
		}
		if sj.Bits, err = stratum.HexStringToBytes(params[6]); err != nil {
			sc.Log.Errorw("mining.notify: bad bits")
			return
		}
		if sj.CleanJobs, ok = params[7].(bool); !ok {
			sc.Log.Errorw("mining.notify: bad clean_jobs")
			return
		}
		sc.addNewStratumJob(sj)
	})
}

func (sc *StratumClient) addNewStratumJob(sj stratumJob) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.currentJob = sj
	if sj.CleanJobs {
		sc.DeprecateOutstandingJobs()
	}
	sc.AddJobToDeprecate(sj.JobID)
}

// GetHeaderForWork assembles the 108-byte Equihash header for the current
// job and returns a copy of that job, whose NoncePrefix is extranonce1 ||
// extranonce2. It then increments the stored extranonce2 so the next call
// hands out a distinct prefix.
func (sc *StratumClient) GetHeaderForWork() (target, header []byte, deprecationChannel chan bool, job interface{}, err error) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.currentJob.JobID == "" {
		err = errors.New("no job received from stratum server yet")
		return
	}
	job = sc.currentJob
	deprecationChannel = sc.GetDeprecationChannel(sc.currentJob.JobID)
	target = sc.target

	h := make([]byte, 0, equihash.HeaderLen)
	h = append(h, sc.currentJob.Version...)
	h = append(h, sc.currentJob.PrevHash...)
	h = append(h, sc.currentJob.MerkleRoot...)
	h = append(h, sc.currentJob.Reserved...)
	h = append(h, sc.currentJob.Time...)
	h = append(h, sc.currentJob.Bits...)
	header = h

	if err = sc.currentJob.ExtraNonce2.Increment(); err != nil {
		return
	}
	return
}

// SubmitHeader reports a solved header: nonce is the full NonceLen bytes
// the winning solve ran under, solution its packed Equihash proof. Both
// are hex-encoded and sent back with the job's extranonce2/time via
// mining.submit, per the str4d stratum draft.
func (sc *StratumClient) SubmitHeader(nonce, solution []byte, job interface{}) (err error) {
	sj, ok := job.(stratumJob)
	if !ok {
		return errors.New("zcash: SubmitHeader called with a foreign job value")
	}
	encodedNonce := hex.EncodeToString(nonce)
	equihashSolution := hex.EncodeToString(solution)
	encodedExtraNonce2 := hex.EncodeToString(sj.ExtraNonce2.Bytes())
	nTime := hex.EncodeToString(sj.Time)

	sc.mutex.Lock()
	c := sc.stratumclient
	sc.mutex.Unlock()

	var reply interface{}
	return c.Call("mining.submit", []string{sc.User, sj.JobID, nTime, encodedExtraNonce2, encodedNonce, equihashSolution}, &reply)
}
