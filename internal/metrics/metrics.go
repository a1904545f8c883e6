// Package metrics exports engine activity as Prometheus metrics.
//
// A [Collector] implements the observability hook interfaces; register it
// with observability.SetEngineHooks and serve [Collector.Router] to expose
// /metrics and /healthz.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
)

// Collector holds the Prometheus metrics for one process.
type Collector struct {
	registry *prometheus.Registry

	mutations   *prometheus.CounterVec
	nodes       prometheus.Gauge
	links       prometheus.Gauge
	ticks       prometheus.Counter
	tickSeconds prometheus.Histogram
	alpha       prometheus.Gauge
	modes       *prometheus.CounterVec
	rejects     *prometheus.CounterVec

	layouts       *prometheus.CounterVec
	layoutSeconds prometheus.Histogram
	layoutTicks   prometheus.Histogram
	renders       *prometheus.CounterVec
	renderBytes   *prometheus.HistogramVec
}

// NewCollector creates a collector on its own registry.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutation API calls by operation and result code.",
		}, []string{"op", "result"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Live node count after the last mutation.",
		}),
		links: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links",
			Help:      "Live link count after the last mutation.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks run.",
		}),
		tickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one simulation tick including scene sync.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		alpha: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alpha",
			Help:      "Simulation activity after the last tick.",
		}),
		modes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_changes_total",
			Help:      "Interaction mode transitions by target mode.",
		}, []string{"to"}),
		rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gesture_rejections_total",
			Help:      "Links completed by the draw gesture that were refused.",
		}, []string{"code"}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Headless layout runs by result.",
		}, []string{"result"}),
		layoutSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Headless layout run time.",
			Buckets:   prometheus.DefBuckets,
		}),
		layoutTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_ticks",
			Help:      "Ticks until a headless layout settled.",
			Buckets:   prometheus.LinearBuckets(50, 50, 8),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered outputs by format and result.",
		}, []string{"format", "result"}),
		renderBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_bytes",
			Help:      "Size of rendered outputs.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"format"}),
	}
	c.registry.MustRegister(
		c.mutations, c.nodes, c.links, c.ticks, c.tickSeconds, c.alpha, c.modes, c.rejects,
		c.layouts, c.layoutSeconds, c.layoutTicks, c.renders, c.renderBytes,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := topoerrors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func (c *Collector) OnMutation(op string, nodes, links int, err error) {
	c.mutations.WithLabelValues(op, result(err)).Inc()
	c.nodes.Set(float64(nodes))
	c.links.Set(float64(links))
}

func (c *Collector) OnTick(alpha float64, d time.Duration) {
	c.ticks.Inc()
	c.tickSeconds.Observe(d.Seconds())
	c.alpha.Set(alpha)
}

func (c *Collector) OnModeChange(_, to string) {
	c.modes.WithLabelValues(to).Inc()
}

func (c *Collector) OnReject(code string) {
	c.rejects.WithLabelValues(code).Inc()
}

func (c *Collector) OnLayoutComplete(_ context.Context, ticks int, d time.Duration, err error) {
	c.layouts.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	c.layoutSeconds.Observe(d.Seconds())
	c.layoutTicks.Observe(float64(ticks))
}

func (c *Collector) OnRenderComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	c.renders.WithLabelValues(format, result(err)).Inc()
	if err == nil {
		c.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// Router serves /metrics from the collector's registry and a /healthz probe.
func (c *Collector) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// Serve runs h on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("metrics listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
