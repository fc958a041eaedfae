// Package metrics 提供业务与 HTTP 指标采集。
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector 指标采集接口；未启用时使用 Nop
type Collector interface {
	// ObserveAssignment 记录一次座位分配的结果（success / invalid / not_found / capacity / transaction / internal）与耗时
	ObserveAssignment(ownerType, result string, d time.Duration)
	// ObserveSeats 记录一次成功分配写入的座位数
	ObserveSeats(ownerType string, seats int)
	// IncCache 记录分配结果缓存命中情况
	IncCache(hit bool)
	// ObserveHTTP 记录 HTTP 请求
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Nop 丢弃全部指标
type Nop struct{}

var _ Collector = Nop{}

func (Nop) ObserveAssignment(string, string, time.Duration) {}
func (Nop) ObserveSeats(string, int)                        {}
func (Nop) IncCache(bool)                                   {}
func (Nop) ObserveHTTP(string, string, int, time.Duration)  {}

// PrometheusCollector 基于 Prometheus 的实现，首次使用时注册
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	assignTotal    *prometheus.CounterVec
	assignDuration *prometheus.HistogramVec
	seatsTotal     *prometheus.CounterVec
	cacheTotal     *prometheus.CounterVec
	httpTotal      *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus 创建采集器；reg 为 nil 时使用 prometheus.DefaultRegisterer
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "exam_planning"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "seating",
			Name:      "assignments_total",
			Help:      "Seat assignment requests by owner type and result.",
		}, []string{"owner_type", "result"})

		p.assignDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "seating",
			Name:      "assignment_duration_seconds",
			Help:      "End-to-end seat assignment latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
		}, []string{"owner_type"})

		p.seatsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "seating",
			Name:      "seats_written_total",
			Help:      "Seats written by successful assignments.",
		}, []string{"owner_type"})

		p.cacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "seating",
			Name:      "cache_requests_total",
			Help:      "Seating read cache lookups by result (hit,miss).",
		}, []string{"result"})

		p.httpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"})

		p.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})

		p.reg.MustRegister(p.assignTotal)
		p.reg.MustRegister(p.assignDuration)
		p.reg.MustRegister(p.seatsTotal)
		p.reg.MustRegister(p.cacheTotal)
		p.reg.MustRegister(p.httpTotal)
		p.reg.MustRegister(p.httpDuration)
	})
}

func (p *PrometheusCollector) ObserveAssignment(ownerType, result string, d time.Duration) {
	p.ensureRegistered()
	p.assignTotal.WithLabelValues(ownerType, result).Inc()
	p.assignDuration.WithLabelValues(ownerType).Observe(d.Seconds())
}

func (p *PrometheusCollector) ObserveSeats(ownerType string, seats int) {
	p.ensureRegistered()
	p.seatsTotal.WithLabelValues(ownerType).Add(float64(seats))
}

func (p *PrometheusCollector) IncCache(hit bool) {
	p.ensureRegistered()
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheTotal.WithLabelValues(result).Inc()
}

func (p *PrometheusCollector) ObserveHTTP(method, route string, status int, d time.Duration) {
	p.ensureRegistered()
	if route == "" {
		route = "unmatched"
	}
	p.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
