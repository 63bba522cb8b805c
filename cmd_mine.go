package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dacho68/equihash-1/clients/zcash"
	"github.com/dacho68/equihash-1/equihash"
	"github.com/dacho68/equihash-1/mining"
)

// newMineCommand builds the `equihash mine` subcommand: the teacher's
// createWork/singleDeviceMiner loop, replacing the OpenCL device fan-out
// with one equihash.Solver-backed Miner per worker.
func newMineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine against a Zcash-flavoured Equihash stratum pool",
		RunE:  runMine,
	}

	flags := cmd.Flags()
	flags.Uint32("n", 200, "Equihash N parameter the pool expects")
	flags.Uint32("k", 9, "Equihash K parameter the pool expects")
	flags.String("url", "stratum+tcp://localhost:3333", "stratum pool address")
	flags.String("user", "payoutaddress.rigname", "pool username, usually [payoutaddress].[rigname]")
	flags.Int("workers", 1, "number of concurrent solver workers")
	flags.Int("threads", 0, "worker threads per solver; 0 means GOMAXPROCS")
	flags.String("collision-index", "bitmap", "collision index implementation: bitmap or array")
	flags.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9100)")
	viper.BindPFlags(flags)

	return cmd
}

func runMine(cmd *cobra.Command, args []string) error {
	n := viper.GetUint32("n")
	k := viper.GetUint32("k")
	workers := viper.GetInt("workers")
	if workers < 1 {
		workers = 1
	}

	kind := equihash.CollisionIndexBitmap
	if viper.GetString("collision-index") == "array" {
		kind = equihash.CollisionIndexArray
	}

	metrics := equihash.NewMetrics(n, k)
	if addr := viper.GetString("metrics-addr"); addr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(metrics.Collectors()...)
		go serveMetrics(addr, registry)
	}

	params, err := equihash.NewParams(n, k)
	if err != nil {
		return fmt.Errorf("building params: %w", err)
	}

	logger.Infow("starting zcash mining", "url", viper.GetString("url"), "n", n, "k", k, "workers", workers)
	client := zcash.NewClient(viper.GetString("url"), viper.GetString("user"), params, logger)

	workChannel := make(chan *mining.HashRateReport, workers*4)
	for i := 0; i < workers; i++ {
		solver, err := equihash.NewSolver(n, k, equihash.SolverOptions{
			NThreads:       viper.GetInt("threads"),
			CollisionIndex: kind,
			Metrics:        metrics,
		})
		if err != nil {
			return fmt.Errorf("building solver: %w", err)
		}
		m := &Miner{
			solver:          solver,
			client:          client,
			minerID:         i,
			hashRateReports: workChannel,
			log:             logger,
		}
		go m.Mine()
	}

	client.Start()

	reports := make([]float64, workers)
	for {
		report := <-workChannel
		reports[report.MinerID] = report.HashRate
		var total float64
		for _, r := range reports {
			total += r
		}
		fmt.Printf("\rtotal: %.2f MH/s  ", total)
	}
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Errorw("metrics server stopped", "error", err)
	}
}
