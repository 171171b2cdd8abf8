package pathing

import "fmt"

// SingleMove is the number of move fragments in one full move.
const SingleMove = 3

// Cost tunables. These shape routes rather than measure real movement.
const (
	// UnknownLandPenalty discourages land routes into unknown tiles.
	UnknownLandPenalty = 3 * SingleMove
	// UnknownSeaPenalty discourages sea routes into unknown tiles.
	UnknownSeaPenalty = 2 * SingleMove
	// DangerMove is charged to triremes for tiles they may be lost on.
	DangerMove = 2*SingleMove + 1
	// TransitDeterrent is added when a land route disembarks from a boat it
	// did not start on. Keeps routes from threading through transports.
	TransitDeterrent = 2 * SingleMove
	// RoadMoveCost is what terrain-ignoring units pay per step.
	RoadMoveCost = 1
)

// Domain is a unit's movement domain.
type Domain uint8

const (
	DomainLand Domain = iota
	DomainSea
	DomainAir
	DomainHeli
)

func (d Domain) String() string {
	switch d {
	case DomainLand:
		return "land"
	case DomainSea:
		return "sea"
	case DomainAir:
		return "air"
	case DomainHeli:
		return "heli"
	default:
		return "unknown"
	}
}

// Restriction limits how a cost map may expand.
type Restriction uint8

const (
	MoveAny Restriction = iota
	MoveCardinalOnly
	// MoveStraightest charges unknown tiles a single move so settler-style
	// routes cut straight through fog.
	MoveStraightest
)

// UnitFlags are the movement capabilities the cost rules care about.
type UnitFlags struct {
	IgnoresTerrain bool
	IgnoresZOC     bool
	Marines        bool
	Trireme        bool
	Settlers       bool // can build roads; ignored by the cost rules
}

// Unit is the moving unit as seen by the planner.
type Unit struct {
	ID       int
	Owner    int
	Pos      Tile
	Domain   Domain
	MoveRate int // move fragments per turn
	Flags    UnitFlags
}

// TileInfo is a snapshot of one tile from the point of view of a player.
type TileInfo struct {
	Known           bool
	Ocean           bool
	Coastal         bool // land within one step, so triremes are safe
	NonAlliedUnit   bool
	NonAlliedCity   bool
	AlliedCity      bool
	AlliedUnit      bool
	ForeignZOC      bool // inside the zone of control of a non-allied unit
	TransportSpace  int  // free cargo slots on the owner's boats here
	TerrainMoveCost int  // full moves to enter
}

// Edge is one candidate step handed to a domain cost function.
type Edge struct {
	Src, Dst    TileInfo
	StepCost    int  // base move fragments from the grid
	FromOrigin  bool // Src is the cost map's source tile
	Restriction Restriction
}

// EdgeResult says whether a step is possible and what it costs.
// Terminal steps may end a route but never continue it.
type EdgeResult struct {
	Cost     int
	OK       bool
	Terminal bool
}

var blocked = EdgeResult{}

func step(cost int) EdgeResult { return EdgeResult{Cost: cost, OK: true} }

func attack(cost int) EdgeResult { return EdgeResult{Cost: cost, OK: true, Terminal: true} }

// edgeCost dispatches to the cost function of the unit's domain.
func edgeCost(e Edge, u Unit) EdgeResult {
	switch u.Domain {
	case DomainLand:
		return landEdge(e, u)
	case DomainSea:
		return seaEdge(e, u)
	case DomainAir, DomainHeli:
		return airEdge(e, u)
	default:
		panic(fmt.Sprintf("pathing: bad movement domain %d for unit %d", u.Domain, u.ID))
	}
}

// landEdge prices a land step. Checks run in a fixed order: boarding and
// disembarking, unknown terrain, attacks, zone of control, terrain.
func landEdge(e Edge, u Unit) EdgeResult {
	var cost int
	switch {
	case e.Dst.Ocean:
		if e.Dst.TransportSpace <= 0 {
			return blocked
		}
		cost = SingleMove
	case e.Src.Ocean:
		if u.Flags.IgnoresTerrain {
			cost = RoadMoveCost
		} else {
			cost = min(e.Dst.TerrainMoveCost*SingleMove, u.MoveRate)
		}
		if !e.FromOrigin {
			cost += TransitDeterrent
		}
	case u.Flags.IgnoresTerrain:
		if e.StepCost != 0 {
			cost = RoadMoveCost
		}
	default:
		cost = min(e.StepCost, u.MoveRate)
	}

	switch {
	case !e.Dst.Known:
		if e.Restriction == MoveStraightest {
			return step(SingleMove)
		}
		return step(UnknownLandPenalty)
	case e.Dst.NonAlliedUnit, e.Dst.NonAlliedCity:
		if e.Src.Ocean && !u.Flags.Marines {
			return blocked
		}
		return attack(SingleMove)
	case !zocOK(e, u):
		return blocked
	}
	return step(cost)
}

// zocOK applies the zone-of-control rule to a land step.
func zocOK(e Edge, u Unit) bool {
	switch {
	case u.Flags.IgnoresZOC:
		return true
	case e.Src.Ocean, e.Dst.Ocean:
		return true
	case e.Src.AlliedCity, e.Dst.AlliedCity:
		return true
	case e.Dst.AlliedUnit:
		return true
	}
	return !e.Src.ForeignZOC || !e.Dst.ForeignZOC
}

// seaEdge prices a sea step.
func seaEdge(e Edge, u Unit) EdgeResult {
	switch {
	case !e.Dst.Known:
		return step(UnknownSeaPenalty)
	case e.Dst.NonAlliedUnit, e.Dst.NonAlliedCity:
		return attack(SingleMove)
	case !e.Dst.Ocean && !e.Dst.AlliedCity:
		return blocked
	case u.Flags.Trireme && !e.Dst.Coastal:
		return step(DangerMove)
	}
	return step(SingleMove)
}

// airEdge prices an air or helicopter step. Fuel is someone else's problem.
func airEdge(e Edge, _ Unit) EdgeResult {
	if e.Dst.Known && e.Dst.NonAlliedUnit {
		return attack(SingleMove)
	}
	return step(SingleMove)
}
