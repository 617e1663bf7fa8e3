package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Garsondee/Outbreak/internal/config"
	"github.com/Garsondee/Outbreak/internal/metrics"
	"github.com/Garsondee/Outbreak/internal/sim"
)

type runStats struct {
	runIndex int
	runID    string
	seed     int64
	ticks    int
	elapsed  float64

	outcome sim.OutcomeReason
	final   sim.Census
	money   int

	firstShotTick   int
	firstBiteTick   int
	firstTurnTick   int
	firstKillTick   int
	firstOutcomeAt  int
	peakZombies     int
	signals         map[sim.SignalKind]int
	copStateChanges int

	windowSummary *sim.WindowReport
}

type options struct {
	configPath  string
	runs        int
	ticks       int
	seedBase    int64
	seedStep    int64
	entities    int
	metricsAddr string
	serve       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "scenario YAML (default $"+config.EnvConfigPath+")")
	flag.IntVar(&opts.runs, "runs", 0, "number of headless runs (default from config)")
	flag.IntVar(&opts.ticks, "ticks", 0, "max ticks per run (default from config)")
	flag.Int64Var(&opts.seedBase, "seed-base", 0, "seed for run 1 (default from config)")
	flag.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&opts.entities, "entities", 0, "population override")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.BoolVar(&opts.serve, "serve", false, "keep serving metrics after the runs finish")
	flag.Parse()

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatal(err)
	}

	var rec *metrics.Recorder
	if addr := cfg.Metrics.GetAddr(); addr != "" {
		reg := prometheus.NewRegistry()
		rec = metrics.NewRecorder(reg)
		srv := &http.Server{Addr: addr, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics server: %v", err)
			}
		}()
		log.Printf("metrics on http://%s/metrics", addr)
	}

	seedBase := cfg.World.Seed
	if opts.seedBase != 0 {
		seedBase = opts.seedBase
	}

	fmt.Printf("=== Headless Outbreak Report ===\n")
	fmt.Printf("entities=%d cop_fraction=%.2f infected_fraction=%.2f incubating_fraction=%.2f\n",
		cfg.World.Entities, cfg.World.CopFraction, cfg.World.InfectedFraction, cfg.World.IncubatingFraction)
	fmt.Printf("runs=%d max_ticks=%d dt=%.4f seed_base=%d seed_step=%d\n\n",
		cfg.Run.Runs, cfg.Run.MaxTicks, cfg.TickDT(), seedBase, opts.seedStep)

	all := make([]runStats, 0, cfg.Run.Runs)
	for i := 0; i < cfg.Run.Runs; i++ {
		seed := seedBase + int64(i)*opts.seedStep
		stats, err := runOutbreak(i+1, seed, cfg, rec)
		if err != nil {
			log.Fatalf("run %d: %v", i+1, err)
		}
		all = append(all, stats)
		printRun(stats)
	}
	printAggregate(all)

	if rec != nil && opts.serve {
		log.Printf("runs finished; still serving metrics (Ctrl+C to quit)")
		select {}
	}
}

// loadConfig reads the scenario and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.runs < 0 || opts.ticks < 0 || opts.entities < 0 {
		return nil, fmt.Errorf("%w: -runs, -ticks and -entities must not be negative", config.ErrInvalidScenario)
	}
	if opts.runs > 0 {
		cfg.Run.Runs = opts.runs
	}
	if opts.ticks > 0 {
		cfg.Run.MaxTicks = opts.ticks
	}
	if opts.entities > 0 {
		cfg.World.Entities = opts.entities
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if cfg.Run.Runs == 0 {
		cfg.Run.Runs = 1
	}
	if cfg.Run.MaxTicks == 0 {
		return nil, fmt.Errorf("%w: max_ticks must be > 0", config.ErrInvalidScenario)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func metricsMux(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	return mux
}

// runOutbreak plays one seeded world until it is decided or the tick
// budget runs out.
func runOutbreak(runIndex int, seed int64, cfg *config.Config, rec *metrics.Recorder) (runStats, error) {
	gen := cfg.GenConfig()
	gen.Seed = seed
	w, err := sim.Generate(gen)
	if err != nil {
		return runStats{}, err
	}

	dt := cfg.TickDT()
	every := max(1, cfg.Run.ReportEvery)
	reporter := sim.NewReporter(every * 10)
	reporter.Collect(w)

	rs := runStats{
		runIndex:       runIndex,
		runID:          uuid.NewString(),
		seed:           seed,
		firstOutcomeAt: -1,
		signals:        make(map[sim.SignalKind]int),
		peakZombies:    w.Census().Zombies,
	}

	for t := 0; t < cfg.Run.MaxTicks; t++ {
		var res sim.TickResult
		if rec != nil {
			res = rec.Step(w, dt)
		} else {
			res = w.Step(dt)
		}
		reporter.Observe(res)
		for _, s := range res.Signals {
			rs.signals[s.Kind]++
		}
		if res.Tick%every == 0 {
			reporter.Collect(w)
			if rec != nil {
				rec.ObserveWorld(w)
			}
		}
		rs.peakZombies = max(rs.peakZombies, w.Census().Zombies)
		if w.Outcome().Outcome.Finished() {
			rs.firstOutcomeAt = res.Tick
			break
		}
	}
	reporter.Collect(w)

	rs.ticks = w.Tick()
	rs.elapsed = w.Elapsed()
	rs.outcome = w.Outcome()
	rs.final = w.Census()
	rs.money = w.Money()
	if rec != nil {
		rec.ObserveWorld(w)
		rec.ObserveOutcome(rs.outcome.Outcome)
	}

	entries := w.EventLog().Entries()
	rs.firstShotTick = firstTick(entries, "combat", "shot", "")
	rs.firstBiteTick = firstTick(entries, "infection", "bitten", "")
	rs.firstTurnTick = firstTick(entries, "infection", "turned", "")
	rs.firstKillTick = firstTick(entries, "combat", "killed", "")
	rs.copStateChanges = w.EventLog().CountCategory("cop", "state_change")
	rs.windowSummary = reporter.WindowSummary()
	return rs, nil
}

func firstTick(entries []sim.EventEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d id=%s) ---\n", rs.runIndex, rs.seed, rs.runID)
	fmt.Printf("outcome=%s reason=%s ticks=%d elapsed=%.1fs money=$%d\n",
		rs.outcome.Outcome, rs.outcome.Description, rs.ticks, rs.elapsed, rs.money)
	fmt.Printf("final: %s peak_zombies=%d\n", rs.final, rs.peakZombies)
	fmt.Printf("phase_markers: first_shot=%d first_bite=%d first_turn=%d first_kill=%d decided=%d\n",
		rs.firstShotTick, rs.firstBiteTick, rs.firstTurnTick, rs.firstKillTick, rs.firstOutcomeAt)
	fmt.Printf("signal_totals: %s cop_state_changes=%d\n", formatSignals(rs.signals), rs.copStateChanges)
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d avg_zombies=%.1f\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick, rs.windowSummary.AvgZombies)
	}
	fmt.Println()
}

func formatSignals(counts map[sim.SignalKind]int) string {
	kinds := []sim.SignalKind{
		sim.SignalGunshot, sim.SignalPersonInfected, sim.SignalZombieKilled,
		sim.SignalHumanKilled, sim.SignalReloaded,
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

// outcomeCounts tallies outcomes across runs.
func outcomeCounts(all []runStats) map[sim.Outcome]int {
	out := make(map[sim.Outcome]int)
	for _, rs := range all {
		out[rs.outcome.Outcome]++
	}
	return out
}

// accuracy is zombie kills per shot fired, in percent.
func accuracy(all []runStats) float64 {
	shots, kills := 0, 0
	for _, rs := range all {
		shots += rs.signals[sim.SignalGunshot]
		kills += rs.signals[sim.SignalZombieKilled]
	}
	if shots == 0 {
		return 0
	}
	return 100 * float64(kills) / float64(shots)
}

func printAggregate(all []runStats) {
	totalSignals := make(map[sim.SignalKind]int)
	totalMoney := 0
	var decidedTicks, shotTicks, biteTicks []int
	for _, rs := range all {
		for k, v := range rs.signals {
			totalSignals[k] += v
		}
		totalMoney += rs.money
		if rs.firstOutcomeAt >= 0 {
			decidedTicks = append(decidedTicks, rs.firstOutcomeAt)
		}
		if rs.firstShotTick >= 0 {
			shotTicks = append(shotTicks, rs.firstShotTick)
		}
		if rs.firstBiteTick >= 0 {
			biteTicks = append(biteTicks, rs.firstBiteTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))

	counts := outcomeCounts(all)
	outcomes := make([]sim.Outcome, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		parts = append(parts, fmt.Sprintf("%s=%d", o, counts[o]))
	}
	fmt.Printf("outcomes: %s\n", strings.Join(parts, " "))
	fmt.Printf("avg_signals_per_run: shots=%.1f infected=%.1f zombie_kills=%.1f human_kills=%.1f reloads=%.1f\n",
		avg(totalSignals[sim.SignalGunshot], len(all)),
		avg(totalSignals[sim.SignalPersonInfected], len(all)),
		avg(totalSignals[sim.SignalZombieKilled], len(all)),
		avg(totalSignals[sim.SignalHumanKilled], len(all)),
		avg(totalSignals[sim.SignalReloaded], len(all)))
	fmt.Printf("accuracy=%.0f%% avg_money=$%.1f\n", accuracy(all), avg(totalMoney, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_shot=%s first_bite=%s decided=%s\n",
		avgTickString(shotTicks), avgTickString(biteTicks), avgTickString(decidedTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
