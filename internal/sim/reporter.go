package sim

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for reports (~10s at 10 TPS).
const reportWindowTicks = 100

// Census counts the population by kind at one moment.
type Census struct {
	Civilians  int
	Cops       int
	Zombies    int
	Dead       int
	Incubating int // living humans with partial infection
	Rounds     int // rounds left across all living cops
}

// Infected is everyone the outbreak has claimed: zombies plus incubating humans.
func (c Census) Infected() int {
	return c.Zombies + c.Incubating
}

func (c Census) Alive() int {
	return c.Civilians + c.Cops + c.Zombies
}

func (c Census) String() string {
	return fmt.Sprintf("civilians=%d cops=%d zombies=%d dead=%d incubating=%d",
		c.Civilians, c.Cops, c.Zombies, c.Dead, c.Incubating)
}

// Census tallies the current population.
func (w *World) Census() Census {
	var c Census
	for i := range w.entities {
		e := &w.entities[i]
		switch {
		case e.IsDead():
			c.Dead++
		case e.IsZombie():
			c.Zombies++
		case e.IsCop():
			c.Cops++
			c.Rounds += e.Cop().Rounds
		default:
			c.Civilians++
		}
		if e.IsHuman() && e.Status.Affiliation.Infection > InfectionMin {
			c.Incubating++
		}
	}
	return c
}

// --- Reporter ---

// Sample is one census taken at a tick, with signals seen since the last one.
type Sample struct {
	Tick    int
	Census  Census
	Money   int
	Signals map[SignalKind]int
}

// Reporter collects periodic samples and summarises sliding windows.
type Reporter struct {
	history     []Sample
	pending     map[SignalKind]int
	windowTicks int
}

// NewReporter creates a reporter with the given window size.
func NewReporter(windowTicks int) *Reporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{
		windowTicks: windowTicks,
		pending:     make(map[SignalKind]int),
	}
}

// Observe accumulates the signals of one tick.
func (r *Reporter) Observe(res TickResult) {
	for _, s := range res.Signals {
		r.pending[s.Kind]++
	}
}

// Collect takes a sample from w, consuming the signals observed so far.
func (r *Reporter) Collect(w *World) {
	r.history = append(r.history, Sample{
		Tick:    w.Tick(),
		Census:  w.Census(),
		Money:   w.Money(),
		Signals: r.pending,
	})
	r.pending = make(map[SignalKind]int)

	// Prune beyond two windows.
	maxKeep := max(100, 2*r.windowTicks)
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent sample, or nil if none collected yet.
func (r *Reporter) Latest() *Sample {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained samples.
func (r *Reporter) History() []Sample {
	return r.history
}

// WindowReport is an aggregated summary over a tick window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgCivilians, AvgCops, AvgZombies float64
	PeakZombies                       int

	Shots, Infections, ZombieKills, HumanKills, Reloads int

	StartCensus, EndCensus Census
	MoneyEarned            int
}

// WindowSummary aggregates the samples inside the trailing window.
func (r *Reporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1].Tick
	cutoff := latest - r.windowTicks
	start := len(r.history) - 1
	for start > 0 && r.history[start-1].Tick >= cutoff {
		start--
	}
	window := r.history[start:]

	wr := &WindowReport{
		FromTick:    window[0].Tick,
		ToTick:      latest,
		SampleCount: len(window),
		StartCensus: window[0].Census,
		EndCensus:   window[len(window)-1].Census,
		MoneyEarned: window[len(window)-1].Money - window[0].Money,
	}
	for _, s := range window {
		wr.AvgCivilians += float64(s.Census.Civilians)
		wr.AvgCops += float64(s.Census.Cops)
		wr.AvgZombies += float64(s.Census.Zombies)
		wr.PeakZombies = max(wr.PeakZombies, s.Census.Zombies)
		wr.Shots += s.Signals[SignalGunshot]
		wr.Infections += s.Signals[SignalPersonInfected]
		wr.ZombieKills += s.Signals[SignalZombieKilled]
		wr.HumanKills += s.Signals[SignalHumanKilled]
		wr.Reloads += s.Signals[SignalReloaded]
	}
	n := float64(len(window))
	wr.AvgCivilians /= n
	wr.AvgCops /= n
	wr.AvgZombies /= n
	return wr
}

// Format returns a human-readable multi-line summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Outbreak Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Population ---\n")
	fmt.Fprintf(&sb, "  start: %s\n", wr.StartCensus)
	fmt.Fprintf(&sb, "  end:   %s\n", wr.EndCensus)
	fmt.Fprintf(&sb, "  avg:   civilians=%.1f cops=%.1f zombies=%.1f (peak %d)\n",
		wr.AvgCivilians, wr.AvgCops, wr.AvgZombies, wr.PeakZombies)

	sb.WriteString("\n--- Events ---\n")
	fmt.Fprintf(&sb, "  shots=%d  infections=%d  zombie_kills=%d  human_kills=%d  reloads=%d\n",
		wr.Shots, wr.Infections, wr.ZombieKills, wr.HumanKills, wr.Reloads)
	if wr.Shots > 0 {
		fmt.Fprintf(&sb, "  hit rate: %.0f%%\n", 100*float64(wr.ZombieKills+wr.HumanKills)/float64(wr.Shots))
	}
	fmt.Fprintf(&sb, "  bounty earned: $%d\n", wr.MoneyEarned)
	return sb.String()
}
