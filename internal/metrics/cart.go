package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics 购物车运行指标，nil 时所有方法为空操作
type CartMetrics struct {
	mutations     *prometheus.CounterVec
	persisted     *prometheus.CounterVec
	persistTime   prometheus.Histogram
	lookups       *prometheus.CounterVec
	staleDiscards *prometheus.CounterVec
	itemTotal     prometheus.Gauge
}

// NewCartMetrics 在给定 registerer 上注册购物车指标
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Applied cart mutations by operation.",
	}, []string{"op"})
	persisted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_total",
		Help: "Cart snapshot writes by result.",
	}, []string{"result"})
	persistTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_persist_duration_seconds",
		Help:    "Duration of cart snapshot writes in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_lookup_total",
		Help: "Catalog lookups issued by the cart by kind and result.",
	}, []string{"kind", "result"})
	staleDiscards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_stale_results_total",
		Help: "Async lookup results discarded because a newer intent superseded them.",
	}, []string{"op"})
	itemTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_item_total",
		Help: "Current cart item total.",
	})
	reg.MustRegister(mutations, persisted, persistTime, lookups, staleDiscards, itemTotal)
	return &CartMetrics{
		mutations:     mutations,
		persisted:     persisted,
		persistTime:   persistTime,
		lookups:       lookups,
		staleDiscards: staleDiscards,
		itemTotal:     itemTotal,
	}
}

// IncMutation 记录一次状态变更
func (m *CartMetrics) IncMutation(op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObservePersist 记录一次快照写入
func (m *CartMetrics) ObservePersist(duration time.Duration, err error) {
	if m == nil || m.persisted == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.persisted.WithLabelValues(result).Inc()
	m.persistTime.Observe(duration.Seconds())
}

// IncLookup 记录一次目录查询
func (m *CartMetrics) IncLookup(kind string, err error) {
	if m == nil || m.lookups == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.lookups.WithLabelValues(normalizeLabel(kind), result).Inc()
}

// IncStaleDiscard 记录一次被新意图覆盖而丢弃的结果
func (m *CartMetrics) IncStaleDiscard(op string) {
	if m == nil || m.staleDiscards == nil {
		return
	}
	m.staleDiscards.WithLabelValues(normalizeLabel(op)).Inc()
}

// SetItemTotal 更新当前商品总额
func (m *CartMetrics) SetItemTotal(value float64) {
	if m == nil || m.itemTotal == nil {
		return
	}
	m.itemTotal.Set(value)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
