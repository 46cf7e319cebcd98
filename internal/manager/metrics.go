package manager

import (
	"strconv"

	"github.com/opentron-go/opentron/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

type outcome string

const (
	outcomeSuccess     outcome = "success"
	outcomeRejected    outcome = "rejected"
	outcomeUnsupported outcome = "unsupported"
)

// metrics holds the Manager's Prometheus instrumentation. It is
// constructed per-Manager rather than registered against the global
// registry so tests can spin up multiple managers without collector
// name collisions (SPEC_FULL.md §4.6).
type metrics struct {
	registry         *prometheus.Registry
	contractsTotal   *prometheus.CounterVec
	feesCollected    *prometheus.CounterVec
	blackholeBalance prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()

	contractsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opentron_actuator_contracts_total",
		Help: "Contracts processed by the Manager, labeled by contract type and verdict.",
	}, []string{"contract_type", "outcome"})

	feesCollected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opentron_actuator_fees_collected_total",
		Help: "Fees collected into the blackhole, labeled by contract type.",
	}, []string{"contract_type"})

	blackholeBalance := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opentron_actuator_blackhole_balance",
		Help: "Running balance of the blackhole sink account.",
	})

	reg.MustRegister(contractsTotal, feesCollected, blackholeBalance)

	return &metrics{
		registry:         reg,
		contractsTotal:   contractsTotal,
		feesCollected:    feesCollected,
		blackholeBalance: blackholeBalance,
	}
}

func (m *metrics) observe(contractType model.ContractType, o outcome) {
	m.contractsTotal.WithLabelValues(strconv.Itoa(int(contractType)), string(o)).Inc()
}

func (m *metrics) observeFee(contractType model.ContractType, fee int64) {
	if fee <= 0 {
		return
	}
	m.feesCollected.WithLabelValues(strconv.Itoa(int(contractType))).Add(float64(fee))
	m.blackholeBalance.Add(float64(fee))
}

// Registry exposes the Manager's Prometheus registry so cmd/opentrond can
// serve it over /metrics.
func (m *Manager) Registry() *prometheus.Registry {
	return m.metrics.registry
}
