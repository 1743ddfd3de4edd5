package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tennis_leagues"

// Metrics holds the collectors the server records into. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	standingsComputed prometheus.Counter
	resultsSubmitted  prometheus.Counter
	codesPurged       prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		standingsComputed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "standings_computed_total",
			Help:      "Number of league tables computed.",
		}),
		resultsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_submitted_total",
			Help:      "Number of fixture results recorded.",
		}),
		codesPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_purged_total",
			Help:      "Number of used or expired account codes deleted.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) StandingsComputed() {
	if m == nil {
		return
	}
	m.standingsComputed.Inc()
}

func (m *Metrics) ResultSubmitted() {
	if m == nil {
		return
	}
	m.resultsSubmitted.Inc()
}

func (m *Metrics) CodesPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.codesPurged.Add(float64(n))
}

// Middleware observes every request under its chi route pattern so path parameters do not
// explode the label space.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
