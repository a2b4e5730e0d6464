package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type VaultMetrics struct {
	operations    *prometheus.CounterVec
	dropletsMoved *prometheus.CounterVec
	feesCollected *prometheus.CounterVec
	lockersOpen   prometheus.Gauge
	itemsHeld     prometheus.Gauge
	liquidations  prometheus.Counter
}

var (
	vaultOnce     sync.Once
	vaultRegistry *VaultMetrics
)

func Vault() *VaultMetrics {
	vaultOnce.Do(func() {
		vaultRegistry = &VaultMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_operations_total",
				Help: "Count of engine operations by name and outcome.",
			}, []string{"op", "outcome"}),
			dropletsMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_droplets_moved_total",
				Help: "Droplet base units minted and burned by direction.",
			}, []string{"direction"}),
			feesCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_fees_collected_total",
				Help: "Fee base units collected by fee kind.",
			}, []string{"kind"}),
			lockersOpen: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "vault_lockers_open",
				Help: "Number of currently open lockers.",
			}),
			itemsHeld: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "vault_items_held",
				Help: "Number of items held directly across all buckets.",
			}),
			liquidations: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vault_liquidations_total",
				Help: "Count of defaulted lockers liquidated.",
			}),
		}
		prometheus.MustRegister(
			vaultRegistry.operations,
			vaultRegistry.dropletsMoved,
			vaultRegistry.feesCollected,
			vaultRegistry.lockersOpen,
			vaultRegistry.itemsHeld,
			vaultRegistry.liquidations,
		)
	})
	return vaultRegistry
}

func (m *VaultMetrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if op == "" {
		op = "unknown"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

func (m *VaultMetrics) ObserveMinted(amount uint64) {
	if m == nil {
		return
	}
	m.dropletsMoved.WithLabelValues("minted").Add(float64(amount))
}

func (m *VaultMetrics) ObserveBurned(amount uint64) {
	if m == nil {
		return
	}
	m.dropletsMoved.WithLabelValues("burned").Add(float64(amount))
}

func (m *VaultMetrics) ObserveFee(kind string, amount uint64) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.feesCollected.WithLabelValues(kind).Add(float64(amount))
}

func (m *VaultMetrics) SetLockersOpen(count float64) {
	if m == nil {
		return
	}
	m.lockersOpen.Set(count)
}

func (m *VaultMetrics) SetItemsHeld(count float64) {
	if m == nil {
		return
	}
	m.itemsHeld.Set(count)
}

func (m *VaultMetrics) ObserveLiquidation() {
	if m == nil {
		return
	}
	m.liquidations.Inc()
}
