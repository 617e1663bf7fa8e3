package sim

import (
	"math"
	"testing"

	"github.com/Garsondee/Outbreak/internal/geom"
)

func TestStep_KinematicOrder(t *testing.T) {
	e := NewCivilian(0, geom.V(1, 2))
	e.Velocity = geom.V(3, -4)
	ts := NewTestSim(WithDT(0.1), WithEntity(e))

	ts.RunTicks(1)

	got := ts.Entity(0)
	dt := 0.1
	wantPos := geom.V(1+3*dt, 2-4*dt)
	if math.Abs(got.Position.X-wantPos.X) > 1e-12 || math.Abs(got.Position.Y-wantPos.Y) > 1e-12 {
		t.Fatalf("position %+v, want %+v (displacement must use pre-damping velocity)", got.Position, wantPos)
	}
	wantVel := geom.V(3-0.5*3*dt, -4+0.5*4*dt)
	if math.Abs(got.Velocity.X-wantVel.X) > 1e-12 || math.Abs(got.Velocity.Y-wantVel.Y) > 1e-12 {
		t.Fatalf("velocity %+v, want %+v", got.Velocity, wantVel)
	}
}

func TestStep_NonPositiveDTIsNoop(t *testing.T) {
	e := NewCivilian(0, geom.V(0, 0))
	e.Velocity = geom.V(1, 0)
	ts := NewTestSim(WithEntity(e))

	res := ts.World.Step(0)
	if res.Tick != 0 || ts.World.Tick() != 0 {
		t.Fatalf("tick advanced on dt=0: %d", ts.World.Tick())
	}
	if ts.Entity(0).Position != geom.V(0, 0) {
		t.Fatal("entity moved on dt=0")
	}
}

func TestStep_AdvancesClock(t *testing.T) {
	ts := NewTestSim(WithDT(0.25), WithCivilian(0, 0))
	ts.RunTicks(4)
	if ts.World.Tick() != 4 {
		t.Fatalf("tick = %d, want 4", ts.World.Tick())
	}
	if math.Abs(ts.World.Elapsed()-1.0) > 1e-12 {
		t.Fatalf("elapsed = %f, want 1.0", ts.World.Elapsed())
	}
}

func TestDeadEntities_NeverMove(t *testing.T) {
	dead := Entity{Position: geom.V(2, 0), Velocity: geom.V(5, 5), Status: Status{Kind: StatusDead}}
	ts := NewTestSim(
		WithEntity(dead),
		WithZombie(0, 0),
	)

	ts.RunTicks(50)

	if got := ts.Entity(0).Position; got != geom.V(2, 0) {
		t.Fatalf("dead entity moved to %+v", got)
	}
	// The only other entity is dead, so the zombie has nothing to chase.
	if got := ts.Entity(1).Position; got != geom.V(0, 0) {
		t.Fatalf("zombie chased a corpse: now at %+v", got)
	}
}

func TestDeadEntities_NeverTargetedByCops(t *testing.T) {
	dead := Entity{Position: geom.V(5, 0), Status: Status{Kind: StatusDead}}
	ts := NewTestSim(WithCop(0, 0), WithEntity(dead))

	ts.RunTicks(20)

	e := ts.Entity(0)
	if e.Cop().Mode != CopIdle {
		t.Fatalf("cop mode = %s with only a corpse around, want idle", e.Cop().Mode)
	}
	if ts.CountSignals(SignalGunshot) != 0 {
		t.Fatal("cop shot at a corpse")
	}
}

func TestCollide_EachPairOnce(t *testing.T) {
	dead := Entity{Position: geom.V(0, 8), Status: Status{Kind: StatusDead}}
	ts := NewTestSim(
		WithCivilian(0, 0),
		WithCivilian(4, 0),
		WithEntity(dead),
		WithCop(0, 4),
		WithCivilian(4, 4),
	)
	counts := map[[2]int]int{}
	ts.World.SetPairObserver(func(i, j int) {
		if i >= j {
			t.Errorf("pair (%d,%d) not ordered i<j", i, j)
		}
		counts[[2]int{i, j}]++
	})

	const ticks = 3
	ts.RunTicks(ticks)

	alive := []int{0, 1, 3, 4}
	want := len(alive) * (len(alive) - 1) / 2
	if len(counts) != want {
		t.Fatalf("saw %d distinct pairs, want %d: %v", len(counts), want, counts)
	}
	for pair, n := range counts {
		if pair[0] == 2 || pair[1] == 2 {
			t.Errorf("dead entity tested in pair %v", pair)
		}
		if n != ticks {
			t.Errorf("pair %v tested %d times over %d ticks", pair, n, ticks)
		}
	}
}

func TestCollide_ContactInfects(t *testing.T) {
	ts := NewTestSim(WithZombie(0, 0), WithCivilian(0.5, 0))

	ts.RunTicks(1)

	c := ts.Entity(1)
	if !c.IsZombie() {
		t.Fatalf("civilian in contact with zombie should have turned, got %s", c.Kind())
	}
	if ts.CountSignals(SignalPersonInfected) != 1 {
		t.Fatalf("PersonInfected signals = %d, want 1", ts.CountSignals(SignalPersonInfected))
	}
	if !ts.Log().HasEntry("infection", "bitten", "") {
		t.Fatal("expected an infection/bitten log entry")
	}
}

func TestCollide_SeparationImpulse(t *testing.T) {
	ts := NewTestSim(WithCivilian(0, 0), WithCivilian(0.5, 0))
	w := ts.World
	w.collide(0.1)

	a, b := w.Entity(0), w.Entity(1)
	// vc = d*dt/|d|^2 = (0.5,0)*0.1/0.25 = (0.2, 0)
	if math.Abs(a.Velocity.X+0.2) > 1e-12 || math.Abs(b.Velocity.X-0.2) > 1e-12 {
		t.Fatalf("velocities %+v %+v, want ∓0.2 along x", a.Velocity, b.Velocity)
	}
}

func TestCollide_CoincidentSkipsImpulse(t *testing.T) {
	ts := NewTestSim(WithCivilian(1, 1), WithCivilian(1, 1))
	ts.World.collide(0.1)
	for i := 0; i < 2; i++ {
		v := ts.Entity(i).Velocity
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || !v.IsZero() {
			t.Fatalf("entity %d velocity %+v, want zero", i, v)
		}
	}
}

func TestBehaviour_CivilianFleesZombieChases(t *testing.T) {
	ts := NewTestSim(WithCivilian(0, 0), WithZombie(5, 0))
	ts.RunTicks(1)

	if v := ts.Entity(0).Velocity; v.X >= 0 {
		t.Fatalf("civilian velocity %+v should point away from the zombie", v)
	}
	if v := ts.Entity(1).Velocity; v.X >= 0 {
		t.Fatalf("zombie velocity %+v should point toward the civilian", v)
	}
}

func TestIncubation_ConvertsAtMax(t *testing.T) {
	e := NewCivilian(0, geom.V(0, 0))
	e.Status.Affiliation.Infection = 0.9
	ts := NewTestSim(WithDT(0.1), WithEntity(e))

	// 0.1 of infection at 0.05/s takes 2s = 20 ticks.
	at := ts.RunUntil(func(ts *TestSim) bool { return ts.Entity(0).IsZombie() }, 25)
	if at < 0 {
		t.Fatalf("incubating civilian never turned; infection=%.3f", ts.Entity(0).Infection())
	}
	if at < 19 {
		t.Fatalf("turned at tick %d, too early", at)
	}
	if ts.CountSignals(SignalPersonInfected) != 1 {
		t.Fatalf("PersonInfected signals = %d, want 1", ts.CountSignals(SignalPersonInfected))
	}
}

func TestIncubation_HealthyStayHealthy(t *testing.T) {
	ts := NewTestSim(WithCivilian(0, 0), WithCop(5, 5))
	ts.RunTicks(100)
	for i := 0; i < 2; i++ {
		if inf := ts.Entity(i).Infection(); inf != 0 {
			t.Fatalf("entity %d picked up infection %.3f with no zombies", i, inf)
		}
	}
}

func TestInfection_MonotonicNeverReverts(t *testing.T) {
	inc := NewCivilian(0, geom.V(-3, 3))
	inc.Status.Affiliation.Infection = 0.5
	ts := NewTestSim(
		WithSeed(7),
		WithZombie(0, 0),
		WithZombie(1, 1),
		WithCivilian(2, 0),
		WithCivilian(-2, 0),
		WithCivilian(0, 3),
		WithCop(6, 6),
		WithEntity(inc),
	)

	n := ts.World.EntityCount()
	wasZombie := make([]bool, n)
	lastInf := make([]float64, n)
	for tick := 0; tick < 300; tick++ {
		ts.RunTicks(1)
		for i := 0; i < n; i++ {
			e := ts.Entity(i)
			if wasZombie[i] && e.IsHuman() {
				t.Fatalf("T=%d: entity %d reverted from zombie to human", tick, i)
			}
			if e.IsZombie() {
				wasZombie[i] = true
			}
			if e.IsHuman() {
				inf := e.Infection()
				if inf < lastInf[i] {
					t.Fatalf("T=%d: entity %d infection fell %.3f → %.3f", tick, i, lastInf[i], inf)
				}
				if inf < InfectionMin || inf > InfectionMax {
					t.Fatalf("T=%d: entity %d infection %.3f out of range", tick, i, inf)
				}
				lastInf[i] = inf
			}
		}
	}
}

func TestHealth_PositiveWhileAlive(t *testing.T) {
	w, err := Generate(GenConfig{Entities: 40, CopFraction: 0.2, InfectedFraction: 0.2, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	ts := FromWorld(w, 0.1)
	for tick := 0; tick < 200; tick++ {
		ts.RunTicks(1)
		for _, e := range w.Entities() {
			if e.IsAlive() && e.Status.Health <= 0 {
				t.Fatalf("T=%d: %s alive with health %.1f", tick, e.Label(), e.Status.Health)
			}
			if e.IsCop() && (e.Cop().Rounds < 0 || e.Cop().Rounds > CopMagazineCapacity) {
				t.Fatalf("T=%d: %s has %d rounds", tick, e.Label(), e.Cop().Rounds)
			}
			if math.IsNaN(e.Position.X) || math.IsNaN(e.Position.Y) {
				t.Fatalf("T=%d: %s position is NaN", tick, e.Label())
			}
		}
	}
}
