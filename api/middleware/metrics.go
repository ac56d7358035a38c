package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zenazn/goji/web/mutil"
)

// Metrics holds the collectors of one server. Each instance owns its
// registry so several servers can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge

	OrdersCreated   prometheus.Counter
	UsersRegistered prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requests served, by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving requests, by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
		OrdersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "shop_orders_created_total",
			Help: "Orders placed at checkout.",
		}),
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "shop_users_registered_total",
			Help: "Accounts created through registration.",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records every request under its route template, so ids in
// paths do not blow up the label space.
func (m *Metrics) Middleware() web.Middleware {
	mw := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			start := time.Now()
			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			status := lw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := routeName(r)
			m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
			return err
		}
		return h
	}
	return mw
}

func routeName(r *http.Request) string {
	if cr := mux.CurrentRoute(r); cr != nil {
		if tpl, err := cr.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
