package share

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitfsorg/libshare-go/fault"
)

// Metrics counts coordinator activity observed through a Client.
type Metrics struct {
	accesses      prometheus.Counter
	accessVolume  prometheus.Counter
	licenses      prometheus.Counter
	licenseVolume prometheus.Counter
	withdrawals   prometheus.Counter
	withdrawn     prometheus.Counter
	rejections    *prometheus.CounterVec
}

// NewMetrics creates the coordinator collectors under namespace and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coordinator",
			Name:      name,
			Help:      help,
		})
	}
	m := &Metrics{
		accesses:      counter("access_total", "Successful access grants."),
		accessVolume:  counter("access_volume_total", "Gross value paid for access grants."),
		licenses:      counter("license_total", "Successful licenses."),
		licenseVolume: counter("license_volume_total", "Gross value paid for licenses."),
		withdrawals:   counter("withdraw_total", "Treasury withdrawals."),
		withdrawn:     counter("withdrawn_value_total", "Value withdrawn from the treasury."),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coordinator",
			Name:      "rejections_total",
			Help:      "Rejected operations by operation and protocol error code.",
		}, []string{"operation", "code"}),
	}
	if reg != nil {
		reg.MustRegister(m.collectors()...)
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.accesses, m.accessVolume,
		m.licenses, m.licenseVolume,
		m.withdrawals, m.withdrawn,
		m.rejections,
	}
}

func (m *Metrics) observeAccess(gross uint64) {
	if m == nil {
		return
	}
	m.accesses.Inc()
	m.accessVolume.Add(float64(gross))
}

func (m *Metrics) observeLicense(gross uint64) {
	if m == nil {
		return
	}
	m.licenses.Inc()
	m.licenseVolume.Add(float64(gross))
}

func (m *Metrics) observeWithdraw(amount uint64) {
	if m == nil {
		return
	}
	m.withdrawals.Inc()
	m.withdrawn.Add(float64(amount))
}

func (m *Metrics) observeRejection(op string, err error) {
	if m == nil {
		return
	}
	code := fault.Code(err)
	if code == "" {
		code = "other"
	}
	m.rejections.WithLabelValues(op, code).Inc()
}
