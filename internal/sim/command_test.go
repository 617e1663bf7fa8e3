package sim

import (
	"testing"

	"github.com/Garsondee/Outbreak/internal/geom"
)

func TestSelect_NearestWithinRadius(t *testing.T) {
	ts := NewTestSim(WithCivilian(0, 0), WithCop(0.8, 0), WithCivilian(10, 10))
	w := ts.World

	if i := w.Select(geom.V(0.6, 0), false); i != 1 {
		t.Fatalf("picked %d, want the cop at index 1", i)
	}
	if got := w.Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("selection = %v, want [1]", got)
	}

	if i := w.Select(geom.V(10, 10.5), true); i != 2 {
		t.Fatalf("additive pick = %d, want 2", i)
	}
	if got := w.Selected(); len(got) != 2 {
		t.Fatalf("additive selection = %v, want two entries", got)
	}

	if i := w.Select(geom.V(-20, -20), false); i != -1 {
		t.Fatalf("empty click picked %d", i)
	}
	if got := w.Selected(); len(got) != 0 {
		t.Fatalf("empty click should clear selection, got %v", got)
	}
}

func TestSelect_IgnoresDead(t *testing.T) {
	dead := Entity{Position: geom.V(0, 0), Status: Status{Kind: StatusDead}}
	ts := NewTestSim(WithEntity(dead))
	if i := ts.World.Select(geom.V(0, 0), false); i != -1 {
		t.Fatalf("selected dead entity %d", i)
	}
}

func TestIssueOrder_MoveOnlyAffectsSelectedCops(t *testing.T) {
	ts := NewTestSim(WithCop(0, 0), WithCivilian(3, 0), WithCop(6, 0))
	w := ts.World
	w.Select(geom.V(0, 0), false)
	w.Select(geom.V(3, 0), true)

	n := w.IssueOrder(Order{Kind: OrderMove, Target: geom.V(0, 10)})
	if n != 1 {
		t.Fatalf("order affected %d cops, want 1", n)
	}
	if m := copState(ts, 0).Mode; m != CopMoving {
		t.Fatalf("selected cop mode = %s, want moving", m)
	}
	if m := copState(ts, 2).Mode; m != CopIdle {
		t.Fatalf("unselected cop mode = %s, want idle", m)
	}
}

func TestIssueOrder_MoveArrives(t *testing.T) {
	ts := NewTestSim(WithCop(0, 0))
	w := ts.World
	w.Select(geom.V(0, 0), false)
	target := geom.V(8, 6)
	w.IssueOrder(Order{Kind: OrderMove, Target: target})

	at := ts.RunUntil(func(ts *TestSim) bool { return copState(ts, 0).Mode == CopIdle }, 500)
	if at < 0 {
		t.Fatalf("cop never arrived; at %+v", ts.Entity(0).Position)
	}
	// One more integration step runs after the waypoint check.
	if d := ts.Entity(0).Position.Sub(target).Len(); d >= 1 {
		t.Fatalf("cop stopped %.2f from the target", d)
	}
}

func TestIssueOrder_MoveRoutesAroundBuilding(t *testing.T) {
	ts := NewTestSim(
		WithNavGrid(1),
		WithBuilding(-2, -5, 4, 10),
		WithCop(-10, 0),
	)
	w := ts.World
	w.Select(geom.V(-10, 0), false)
	target := geom.V(10, 0)
	w.IssueOrder(Order{Kind: OrderMove, Target: target})

	c := copState(ts, 0)
	route := append([]geom.Vec2{c.Waypoint}, c.Route...)
	if len(route) < 2 {
		t.Fatalf("expected a multi-waypoint route around the building, got %v", route)
	}
	if route[len(route)-1] != target {
		t.Fatalf("route should end at the target, ends at %+v", route[len(route)-1])
	}
	prev := geom.V(-10, 0)
	for _, p := range route {
		if w.Outlines()[0].Contains(p) {
			t.Fatalf("waypoint %+v inside the building outline", p)
		}
		if !geom.HasLineOfSight(prev, p, w.Shapes()) {
			t.Fatalf("leg %+v → %+v cuts through the building", prev, p)
		}
		prev = p
	}

	at := ts.RunUntil(func(ts *TestSim) bool { return copState(ts, 0).Mode == CopIdle }, 3000)
	if at < 0 {
		t.Fatalf("cop never arrived; at %+v", ts.Entity(0).Position)
	}
}

func TestIssueOrder_AttackAimsAtClickedZombie(t *testing.T) {
	ts := NewTestSim(WithCop(0, 0), WithZombie(6, 0), WithZombie(-6, 0))
	w := ts.World
	w.Select(geom.V(0, 0), false)

	if n := w.IssueOrder(Order{Kind: OrderAttack, Target: geom.V(6.3, 0.2)}); n != 1 {
		t.Fatalf("attack affected %d cops, want 1", n)
	}
	c := copState(ts, 0)
	if c.Mode != CopAiming || c.Target != 1 {
		t.Fatalf("mode=%s target=%d, want aiming at 1", c.Mode, c.Target)
	}
	if c.AimRemaining <= 0 {
		t.Fatal("attack order should sample a fresh aim time")
	}
}

func TestIssueOrder_AttackOnEmptyGround(t *testing.T) {
	ts := NewTestSim(WithCop(0, 0), WithZombie(6, 0))
	w := ts.World
	w.Select(geom.V(0, 0), false)
	if n := w.IssueOrder(Order{Kind: OrderAttack, Target: geom.V(0, 20)}); n != 0 {
		t.Fatalf("attack on empty ground affected %d cops", n)
	}
	if m := copState(ts, 0).Mode; m != CopIdle {
		t.Fatalf("mode = %s, want idle", m)
	}
}

func TestIssueOrder_AttackWithEmptyMagazineReloads(t *testing.T) {
	ts := NewTestSim(WithEntity(emptyCop(0, 0)), WithZombie(6, 0))
	w := ts.World
	w.Select(geom.V(0, 0), false)
	w.IssueOrder(Order{Kind: OrderAttack, Target: geom.V(6, 0)})
	if m := copState(ts, 0).Mode; m != CopReloading {
		t.Fatalf("mode = %s, want reloading", m)
	}
}

func TestOrderKind_String(t *testing.T) {
	if OrderMove.String() != "move" || OrderAttack.String() != "attack" {
		t.Fatal("unexpected order kind names")
	}
}

func TestEntities_RouteIsNotShared(t *testing.T) {
	ts := NewTestSim(
		WithNavGrid(1),
		WithBuilding(-2, -5, 4, 10),
		WithCop(-10, 0),
	)
	w := ts.World
	w.Select(geom.V(-10, 0), false)
	w.IssueOrder(Order{Kind: OrderMove, Target: geom.V(10, 0)})

	snap := w.Entities()
	route := snap[0].Cop().Route
	if len(route) == 0 {
		t.Fatal("expected a route around the building")
	}
	want := w.Entity(0)
	orig := want.Cop().Route[0]
	route[0] = geom.V(999, 999)

	live := w.Entity(0)
	if live.Cop().Route[0] != orig {
		t.Fatalf("editing the snapshot changed the live route to %+v", live.Cop().Route[0])
	}
}
