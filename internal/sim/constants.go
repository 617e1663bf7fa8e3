package sim

import "math"

// World units are metres, time is seconds.
const (
	EntityRadius    = 0.5
	EntityMaxHP     = 100.0
	SelectRadius    = 1.0         // pick radius for selection and attack clicks
	TurnRate        = 2 * math.Pi // radians per second
	VelocityDamping = 0.5         // fraction of velocity shed per second

	CivilianAccel = 1.5
	ZombieAccel   = 1.2
	CopAccel      = 2.0

	BulletSpeed          = 40.0
	MuzzleOffset         = 1.125 // spawn distance in entity radii
	MinProjectileSpeedSq = 1.0

	CopMagazineCapacity  = 6
	CopReloadCooldown    = 2.0  // seconds
	CopAimTimeMu         = -0.7 // log-normal location (median ~0.5s)
	CopAimTimeSigma      = 0.35 // log-normal scale
	CopAccuracyStdDev    = 0.08 // radians
	CopWaypointReachedSq = 0.25

	InfectionMin    = 0.0
	InfectionMax    = 1.0
	InfectionRate   = 0.05 // per second while incubating
	IncubatingStart = 0.1

	ZombieBounty = 10
)

// World layout.
const (
	SpawnHalf         = 12.0 // entities spawn in [-SpawnHalf, SpawnHalf]²
	WorldHalf         = 60.0 // boundary walls enclose [-WorldHalf, WorldHalf]²
	BoundaryThickness = 1.0
	GridBlocks        = 4
	BlockSize         = 10.0
	BlockGap          = 6.0
	EmptyLotChance    = 0.15
	OutlineMargin     = EntityRadius * 1.1
	NavCellSize       = 1.0
)
