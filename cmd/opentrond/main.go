// Command opentrond boots the account actuator core as a minimal node:
// a state database, a Manager, and a cobra CLI for driving it by hand.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/opentron-go/opentron/cmd/opentrond/cli"
	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/logging"
	"github.com/opentron-go/opentron/internal/manager"
	"github.com/opentron-go/opentron/internal/statedb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	dataDir := flag.String("datadir", "./opentrond-data", "directory holding the state database file")
	blackholeHex := flag.String("blackhole", "410000000000000000000000000000000000000000", "hex-encoded blackhole address (21 bytes)")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
	dev := flag.Bool("dev", false, "use the human-readable development log encoder")
	flag.Parse()

	sync, err := logging.Init(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging init: %v\n", err)
		os.Exit(1)
	}
	defer sync()
	logger := logging.Named("opentrond")

	blackholeRaw, err := hex.DecodeString(*blackholeHex)
	if err != nil {
		logger.Fatalw("invalid blackhole address", "error", err)
	}
	blackhole, err := addr.FromBytes(blackholeRaw)
	if err != nil {
		logger.Fatalw("invalid blackhole address", "error", err)
	}

	store, err := statedb.Open(*dataDir + "/state.db")
	if err != nil {
		logger.Fatalw("opening state database", "error", err)
	}
	defer store.Close()

	m := manager.New(store, blackhole, logger)

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, m, logger)
	}

	logger.Infow("opentrond ready", "dataDir", *dataDir, "blackhole", blackhole.String())

	root := cli.NewCLI(m)
	root.SetArgs(flag.Args())
	if err := root.Execute(); err != nil {
		logger.Fatalw("command failed", "error", err)
	}
}

func serveMetrics(addr string, m *manager.Manager, logger interface{ Infow(string, ...interface{}) }) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	logger.Infow("serving metrics", "addr", addr)
	_ = http.ListenAndServe(addr, mux)
}
