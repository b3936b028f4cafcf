package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Registry 独立的指标注册表，避免与第三方默认指标冲突
var Registry = prometheus.NewRegistry()

var (
	stockReservations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_reservations_total",
		Help:      "Stock reservation attempts by result.",
	}, []string{"result"})

	stockReleasedUnits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_released_units_total",
		Help:      "Units returned to stock by cancellations and admin status changes.",
	})

	checkouts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})

	ordersCancelled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_cancelled_total",
		Help:      "Cancelled orders by actor.",
	}, []string{"actor"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Domain events published to the event bus.",
	}, []string{"topic", "result"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		stockReservations,
		stockReleasedUnits,
		checkouts,
		ordersCancelled,
		eventsPublished,
		httpRequests,
		httpDuration,
	)
}

// Handler 返回 /metrics 处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveReservation 记录一次库存预占结果
func ObserveReservation(ok bool) {
	if ok {
		stockReservations.WithLabelValues("ok").Inc()
		return
	}
	stockReservations.WithLabelValues("insufficient").Inc()
}

// AddReleasedUnits 记录回补的库存数量
func AddReleasedUnits(units int) {
	if units > 0 {
		stockReleasedUnits.Add(float64(units))
	}
}

// ObserveCheckout 记录结账结果：ok / empty_cart / insufficient_stock / invalid / error
func ObserveCheckout(result string) {
	checkouts.WithLabelValues(result).Inc()
}

// ObserveCancel 记录订单取消，actor 为 user 或 admin
func ObserveCancel(actor string) {
	ordersCancelled.WithLabelValues(actor).Inc()
}

// ObserveEventPublish 记录事件投递结果
func ObserveEventPublish(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsPublished.WithLabelValues(topic, result).Inc()
}

// ObserveHTTP 记录一次 HTTP 请求
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
