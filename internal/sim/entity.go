package sim

import (
	"fmt"
	"math"

	"github.com/Garsondee/Outbreak/internal/geom"
)

// StatusKind separates the living from the dead.
type StatusKind int

const (
	StatusAlive StatusKind = iota
	StatusDead             // terminal
)

func (k StatusKind) String() string {
	switch k {
	case StatusAlive:
		return "alive"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// AffiliationKind is the side an entity is on.
type AffiliationKind int

const (
	AffiliationHuman AffiliationKind = iota
	AffiliationZombie
)

func (k AffiliationKind) String() string {
	switch k {
	case AffiliationHuman:
		return "human"
	case AffiliationZombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// ZombieState is the zombie sub-state. Roaming is the only one so far.
type ZombieState int

const (
	ZombieRoaming ZombieState = iota
)

// RoleKind is a human's job.
type RoleKind int

const (
	RoleCivilian RoleKind = iota
	RoleCop
)

func (k RoleKind) String() string {
	switch k {
	case RoleCivilian:
		return "civilian"
	case RoleCop:
		return "cop"
	default:
		return "unknown"
	}
}

// CopMode is the cop state machine's current task.
type CopMode int

const (
	CopIdle CopMode = iota
	CopMoving
	CopAiming
	CopReloading
)

func (m CopMode) String() string {
	switch m {
	case CopIdle:
		return "idle"
	case CopMoving:
		return "moving"
	case CopAiming:
		return "aiming"
	case CopReloading:
		return "reloading"
	default:
		return "unknown"
	}
}

// CopState is the payload of the cop role. Which fields are meaningful
// depends on Mode.
type CopState struct {
	Rounds int
	Mode   CopMode

	Waypoint geom.Vec2   // Moving
	Route    []geom.Vec2 // Moving: waypoints after Waypoint

	AimRemaining float64 // Aiming
	Target       int     // Aiming: entity index

	ReloadRemaining float64 // Reloading
}

// Role is Civilian or Cop{...}.
type Role struct {
	Kind RoleKind
	Cop  CopState
}

// Affiliation is Zombie{state} or Human{infection, role}.
type Affiliation struct {
	Kind      AffiliationKind
	Zombie    ZombieState
	Infection float64
	Role      Role
}

// Status is Dead, or Alive{health, affiliation}.
type Status struct {
	Kind        StatusKind
	Health      float64
	Affiliation Affiliation
}

// Entity is one simulated agent.
type Entity struct {
	ID       int
	Position geom.Vec2
	Velocity geom.Vec2
	Facing   float64 // radians
	Status   Status
}

// NewCivilian returns a healthy civilian at pos.
func NewCivilian(id int, pos geom.Vec2) Entity {
	return Entity{ID: id, Position: pos, Status: Status{
		Kind:   StatusAlive,
		Health: EntityMaxHP,
		Affiliation: Affiliation{
			Kind: AffiliationHuman,
			Role: Role{Kind: RoleCivilian},
		},
	}}
}

// NewCop returns an idle cop with a full magazine.
func NewCop(id int, pos geom.Vec2) Entity {
	return Entity{ID: id, Position: pos, Status: Status{
		Kind:   StatusAlive,
		Health: EntityMaxHP,
		Affiliation: Affiliation{
			Kind: AffiliationHuman,
			Role: Role{Kind: RoleCop, Cop: CopState{Rounds: CopMagazineCapacity, Mode: CopIdle}},
		},
	}}
}

// NewZombie returns a roaming zombie.
func NewZombie(id int, pos geom.Vec2) Entity {
	return Entity{ID: id, Position: pos, Status: Status{
		Kind:   StatusAlive,
		Health: EntityMaxHP,
		Affiliation: Affiliation{
			Kind:   AffiliationZombie,
			Zombie: ZombieRoaming,
		},
	}}
}

func (e Entity) IsDead() bool {
	return e.Status.Kind == StatusDead
}

func (e Entity) IsAlive() bool {
	return e.Status.Kind == StatusAlive
}

func (e Entity) IsZombie() bool {
	return e.IsAlive() && e.Status.Affiliation.Kind == AffiliationZombie
}

func (e Entity) IsHuman() bool {
	return e.IsAlive() && e.Status.Affiliation.Kind == AffiliationHuman
}

func (e Entity) IsCop() bool {
	return e.IsHuman() && e.Status.Affiliation.Role.Kind == RoleCop
}

func (e Entity) IsCivilian() bool {
	return e.IsHuman() && e.Status.Affiliation.Role.Kind == RoleCivilian
}

// Cop returns the cop payload. Calling it on anything but a living cop is a
// programming error.
func (e *Entity) Cop() *CopState {
	if !e.IsCop() {
		panic(fmt.Sprintf("sim: entity %d (%s) is not a cop", e.ID, e.Label()))
	}
	return &e.Status.Affiliation.Role.Cop
}

// Infection returns the human's infection level; zombies report the maximum
// and the dead report zero.
func (e Entity) Infection() float64 {
	switch {
	case e.IsHuman():
		return e.Status.Affiliation.Infection
	case e.IsZombie():
		return InfectionMax
	default:
		return 0
	}
}

// FacingNormal is the unit vector the entity looks along.
func (e Entity) FacingNormal() geom.Vec2 {
	return geom.FromAngle(e.Facing)
}

// Kind returns a short classification used in labels, logs and rendering.
func (e Entity) Kind() string {
	switch {
	case e.IsDead():
		return "dead"
	case e.IsZombie():
		return "zombie"
	case e.IsCop():
		return "cop"
	default:
		return "civilian"
	}
}

// Label is a compact display name, e.g. "C3", "P1", "Z7", "X2".
func (e Entity) Label() string {
	prefix := "C"
	switch {
	case e.IsDead():
		prefix = "X"
	case e.IsZombie():
		prefix = "Z"
	case e.IsCop():
		prefix = "P"
	}
	return fmt.Sprintf("%s%d", prefix, e.ID)
}

// kill marks the entity dead. Death is terminal.
func (e *Entity) kill() {
	e.Status = Status{Kind: StatusDead}
	e.Velocity = geom.Vec2{}
}

// zombify converts a living human into a zombie. Returns false when there
// was nothing to convert.
func (e *Entity) zombify() bool {
	if !e.IsHuman() {
		return false
	}
	e.Status.Affiliation = Affiliation{Kind: AffiliationZombie, Zombie: ZombieRoaming}
	return true
}

// raiseInfection adds amount to a human's infection, clamped to
// [InfectionMin, InfectionMax]. It never lowers the level. Returns true when
// the human reached the maximum and turned.
func (e *Entity) raiseInfection(amount float64) bool {
	if !e.IsHuman() || amount <= 0 {
		return false
	}
	a := &e.Status.Affiliation
	a.Infection = math.Min(InfectionMax, math.Max(InfectionMin, a.Infection+amount))
	if a.Infection >= InfectionMax {
		return e.zombify()
	}
	return false
}

// accelerateAlong pushes velocity along dir and turns the entity toward it.
func (e *Entity) accelerateAlong(dir geom.Vec2, accel, dt float64) {
	n := dir.Normalize()
	if n.IsZero() {
		return
	}
	e.Velocity = e.Velocity.Add(n.Scale(accel * dt))
	e.lookAlong(n, dt)
}

// lookAlong turns the entity toward dir at the bounded turn rate.
func (e *Entity) lookAlong(dir geom.Vec2, dt float64) {
	if dir.IsZero() {
		return
	}
	e.Facing = geom.TurnToward(e.Facing, dir.Angle(), TurnRate*dt)
}
