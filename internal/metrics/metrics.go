// Package metrics exports simulation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Garsondee/Outbreak/internal/sim"
)

const namespace = "outbreak"

// Recorder turns tick results and censuses into Prometheus series.
//
// Series:
//   - outbreak_ticks_total
//   - outbreak_tick_duration_seconds: histogram of Step wall time
//   - outbreak_signals_total{kind}
//   - outbreak_population{kind}: civilians, cops, zombies, dead, incubating
//   - outbreak_projectiles_in_flight
//   - outbreak_money
//   - outbreak_runs_total{outcome}
type Recorder struct {
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	signals      *prometheus.CounterVec
	population   *prometheus.GaugeVec
	projectiles  prometheus.Gauge
	money        prometheus.Gauge
	runs         *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg. A nil reg
// uses the default registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks stepped.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one Step.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
		}),
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Signals emitted by the engine, by kind.",
		}, []string{"kind"}),
		population: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "population",
			Help:      "Current head count by kind.",
		}, []string{"kind"}),
		projectiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "projectiles_in_flight",
			Help:      "Bullets currently tracked.",
		}),
		money: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "money",
			Help:      "Bounty money earned so far.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished headless runs, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.ticks, r.tickDuration, r.signals, r.population, r.projectiles, r.money, r.runs)
	return r
}

// ObserveTick records one Step and its duration.
func (r *Recorder) ObserveTick(res sim.TickResult, took time.Duration) {
	r.ticks.Inc()
	r.tickDuration.Observe(took.Seconds())
	for _, s := range res.Signals {
		r.signals.WithLabelValues(s.Kind.String()).Inc()
	}
}

// ObserveWorld samples the world's gauges.
func (r *Recorder) ObserveWorld(w *sim.World) {
	c := w.Census()
	r.population.WithLabelValues("civilian").Set(float64(c.Civilians))
	r.population.WithLabelValues("cop").Set(float64(c.Cops))
	r.population.WithLabelValues("zombie").Set(float64(c.Zombies))
	r.population.WithLabelValues("dead").Set(float64(c.Dead))
	r.population.WithLabelValues("incubating").Set(float64(c.Incubating))
	r.projectiles.Set(float64(w.ProjectileCount()))
	r.money.Set(float64(w.Money()))
}

// ObserveOutcome counts a finished run.
func (r *Recorder) ObserveOutcome(o sim.Outcome) {
	r.runs.WithLabelValues(o.String()).Inc()
}

// Step runs w.Step(dt) and records it.
func (r *Recorder) Step(w *sim.World, dt float64) sim.TickResult {
	start := time.Now()
	res := w.Step(dt)
	r.ObserveTick(res, time.Since(start))
	return res
}

// Handler serves the given gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
