package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace 指标命名空间
const Namespace = "virgo"

// 心跳结果标签
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultRefreshed = "refreshed"
	ResultIgnored   = "ignored"
	ResultMalformed = "malformed"
)

// Metrics 选举与心跳指标
type Metrics struct {
	registry *prometheus.Registry

	elections          *prometheus.CounterVec
	coordinatorChanges prometheus.Counter
	heartbeatsSent     *prometheus.CounterVec
	heartbeatsReceived *prometheus.CounterVec
	routeCandidates    prometheus.Gauge
	coordinators       prometheus.Gauge
}

// New 创建指标集合并注册到私有 Registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		elections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "elections_total",
			Help:      "Per-role election outcomes.",
		}, []string{"result"}),
		coordinatorChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "coordinator_changes_total",
			Help:      "Number of times a role's coordinator was replaced or first installed.",
		}),
		heartbeatsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "heartbeats_sent_total",
			Help:      "Outbound heartbeats by result.",
		}, []string{"result"}),
		heartbeatsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "heartbeats_received_total",
			Help:      "Inbound heartbeats by handling result.",
		}, []string{"result"}),
		routeCandidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "route_candidates",
			Help:      "Candidate endpoints held in the route table.",
		}),
		coordinators: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "coordinators",
			Help:      "Roles that currently have a coordinator.",
		}),
	}

	m.registry.MustRegister(
		m.elections,
		m.coordinatorChanges,
		m.heartbeatsSent,
		m.heartbeatsReceived,
		m.routeCandidates,
		m.coordinators,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry 返回私有 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 返回 Prometheus 抓取处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveElection 记录一次角色选举结果
func (m *Metrics) ObserveElection(result string) {
	if m == nil {
		return
	}
	m.elections.WithLabelValues(result).Inc()
}

// CoordinatorChanged 记录一次协调者变更
func (m *Metrics) CoordinatorChanged() {
	if m == nil {
		return
	}
	m.coordinatorChanges.Inc()
}

// ObserveHeartbeatSent 记录一次心跳发送
func (m *Metrics) ObserveHeartbeatSent(err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.heartbeatsSent.WithLabelValues(result).Inc()
}

// ObserveHeartbeatReceived 记录一次心跳接收处理结果
func (m *Metrics) ObserveHeartbeatReceived(result string) {
	if m == nil {
		return
	}
	m.heartbeatsReceived.WithLabelValues(result).Inc()
}

// SetRouteCandidates 设置路由表候选端点数
func (m *Metrics) SetRouteCandidates(n int) {
	if m == nil {
		return
	}
	m.routeCandidates.Set(float64(n))
}

// SetCoordinators 设置有协调者的角色数
func (m *Metrics) SetCoordinators(n int) {
	if m == nil {
		return
	}
	m.coordinators.Set(float64(n))
}
