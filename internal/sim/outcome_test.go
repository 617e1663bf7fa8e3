package sim

import (
	"strings"
	"testing"
)

func TestDetermineOutcome(t *testing.T) {
	cases := []struct {
		name string
		c    Census
		want Outcome
	}{
		{"ongoing", Census{Civilians: 5, Cops: 1, Zombies: 2}, OutcomeInProgress},
		{"contained", Census{Civilians: 5, Cops: 1, Dead: 2}, OutcomeHumansWin},
		{"incubating keeps it open", Census{Civilians: 5, Cops: 1, Incubating: 1}, OutcomeInProgress},
		{"overrun", Census{Zombies: 7, Dead: 3}, OutcomeZombiesWin},
		{"nobody left", Census{Dead: 10}, OutcomeExtinction},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineOutcome(tc.c)
			if got.Outcome != tc.want {
				t.Fatalf("outcome = %s (%s), want %s", got.Outcome, got.Description, tc.want)
			}
			if got.Outcome.Finished() == (tc.want == OutcomeInProgress) {
				t.Fatalf("Finished() = %v for %s", got.Outcome.Finished(), got.Outcome)
			}
		})
	}
}

func TestWorldOutcome_AfterZombieShot(t *testing.T) {
	ts := NewTestSim(WithDT(0.25), WithCivilian(-5, 5), WithZombie(5, 0))
	if ts.World.Outcome().Outcome != OutcomeInProgress {
		t.Fatal("setup should be in progress")
	}
	fireRaw(ts.World, tsOrigin, tsEast)
	ts.RunTicks(1)
	r := ts.World.Outcome()
	if r.Outcome != OutcomeHumansWin {
		t.Fatalf("outcome = %s, want humans_win", r)
	}
	if !strings.Contains(r.String(), "zombies=0") {
		t.Fatalf("outcome string %q should carry the census", r.String())
	}
}

func TestReporter_WindowSummary(t *testing.T) {
	ts := NewTestSim(WithDT(0.25), WithCivilian(-5, 5), WithZombie(5, 0), WithZombie(5, 20))
	r := NewReporter(10)
	r.Collect(ts.World)

	fireRaw(ts.World, tsOrigin, tsEast)
	for k := 0; k < 4; k++ {
		res := ts.World.Step(ts.DT)
		r.Observe(res)
		r.Collect(ts.World)
	}

	wr := r.WindowSummary()
	if wr == nil {
		t.Fatal("no window summary")
	}
	if wr.SampleCount != 5 {
		t.Fatalf("samples = %d, want 5", wr.SampleCount)
	}
	if wr.ZombieKills != 1 {
		t.Fatalf("zombie kills = %d, want 1", wr.ZombieKills)
	}
	if wr.StartCensus.Zombies != 2 || wr.EndCensus.Zombies != 1 {
		t.Fatalf("zombies %d → %d, want 2 → 1", wr.StartCensus.Zombies, wr.EndCensus.Zombies)
	}
	if wr.MoneyEarned != ZombieBounty {
		t.Fatalf("money earned = %d, want %d", wr.MoneyEarned, ZombieBounty)
	}
	if !strings.Contains(wr.Format(), "zombie_kills=1") {
		t.Fatalf("format missing kill count:\n%s", wr.Format())
	}
	if r.Latest().Tick != 4 {
		t.Fatalf("latest tick = %d, want 4", r.Latest().Tick)
	}
}

func TestReporter_EmptyFormats(t *testing.T) {
	r := NewReporter(0)
	if r.WindowSummary() != nil || r.Latest() != nil {
		t.Fatal("empty reporter should have no data")
	}
	var wr *WindowReport
	if !strings.Contains(wr.Format(), "No data") {
		t.Fatal("nil report should format as no data")
	}
}

func TestCensus_Counts(t *testing.T) {
	inc := NewCivilian(0, tsOrigin)
	inc.Status.Affiliation.Infection = 0.3
	dead := Entity{Status: Status{Kind: StatusDead}}
	ts := NewTestSim(
		WithEntity(inc),
		WithCivilian(5, 5),
		WithCop(10, 10),
		WithZombie(-10, -10),
		WithEntity(dead),
	)
	c := ts.World.Census()
	want := Census{Civilians: 2, Cops: 1, Zombies: 1, Dead: 1, Incubating: 1, Rounds: CopMagazineCapacity}
	if c != want {
		t.Fatalf("census = %+v, want %+v", c, want)
	}
	if c.Infected() != 2 || c.Alive() != 4 {
		t.Fatalf("infected=%d alive=%d", c.Infected(), c.Alive())
	}
}
