// Package insertion decides where a dragged bead lands among its neighbors.
//
// Two strategies cooperate. Nearest-pair insertion handles drops close to an
// existing bead; angular-sector insertion handles drops that are near the
// ring but not on a bead. A nearest-slot search backs both up when a drop
// lands on a bead but neither strategy places it.
package insertion

import (
	"math"
	"slices"

	"github.com/samber/lo"
	"github.com/zulandar/strand/internal/ring"
)

// Strategy names the rule that produced an insertion.
type Strategy string

const (
	StrategyNone          Strategy = ""
	StrategyNearestPair   Strategy = "nearest-pair"
	StrategyAngularSector Strategy = "angular-sector"
	StrategyNearestSlot   Strategy = "nearest-slot"
)

const (
	minProximity    = 40.0 // px
	proximityFactor = 1.5
	sectorReach     = 1.3 // multiple of the ring radius

	bandInnerFactor = 1.5
	bandOuterRatio  = 0.4
)

// Messages returned with a negative result.
const (
	MsgNoNeighbors    = "no neighboring beads"
	MsgOutOfRange     = "outside effective range"
	MsgReturnToOrigin = "return to origin"
	MsgNoSlot         = "no insertion slot found"
)

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result reports whether and where a bead should be inserted. InsertIndex
// indexes the sequence after the dragged bead has been removed.
type Result struct {
	ShouldInsert bool     `json:"should_insert"`
	InsertIndex  int      `json:"insert_index"`
	Strategy     Strategy `json:"strategy,omitempty"`
	Message      string   `json:"message,omitempty"`
}

func reject(msg string) Result {
	return Result{InsertIndex: -1, Message: msg}
}

// Resolver resolves drops for a ring configuration. A dragged index of -1
// denotes a bead entering from outside the ring.
type Resolver struct {
	Ring ring.Config
}

// New returns a Resolver for cfg.
func New(cfg ring.Config) Resolver {
	return Resolver{Ring: cfg}
}

type candidate struct {
	index int
	pos   ring.Position
	dist  float64
}

// neighbors returns every bead except the dragged one, in sequence order.
func neighbors(positions []ring.Position, dragged int, p Point) []candidate {
	out := make([]candidate, 0, len(positions))
	for i, pos := range positions {
		if i == dragged {
			continue
		}
		out = append(out, candidate{
			index: i,
			pos:   pos,
			dist:  ring.Distance(p.X, p.Y, pos.X, pos.Y),
		})
	}
	return out
}

// shift converts an index into the original sequence into an index into the
// sequence with the dragged bead removed.
func shift(index, dragged int) int {
	if dragged >= 0 && index > dragged {
		return index - 1
	}
	return index
}

func (r Resolver) radius(positions []ring.Position) float64 {
	return ring.RingRadius(ring.StripAll(positions), r.Ring)
}

func (r Resolver) angleOf(p Point) float64 {
	cx, cy := r.Ring.Center()
	return ring.NormalizeAngle(math.Atan2(p.Y-cy, p.X-cx))
}

// Resolve picks an insertion index for a bead dragged to p.
func (r Resolver) Resolve(positions []ring.Position, dragged int, p Point) Result {
	others := neighbors(positions, dragged, p)
	if len(others) == 0 {
		return reject(MsgNoNeighbors)
	}

	byDist := slices.Clone(others)
	slices.SortStableFunc(byDist, func(a, b candidate) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return 0
	})

	nearest := byDist[0]
	threshold := math.Max(nearest.pos.ScaleWidth*proximityFactor, minProximity)
	if nearest.dist <= threshold {
		return r.nearestPair(len(positions), dragged, byDist)
	}

	cx, cy := r.Ring.Center()
	if ring.Distance(cx, cy, p.X, p.Y) <= sectorReach*r.radius(positions) {
		return r.angularSector(positions, dragged, others, p)
	}
	return reject(MsgOutOfRange)
}

// nearestPair inserts between the two nearest beads when they neighbor each
// other on the ring, otherwise right after the nearest one.
func (r Resolver) nearestPair(n, dragged int, byDist []candidate) Result {
	ok := func(index int) Result {
		return Result{ShouldInsert: true, InsertIndex: shift(index, dragged), Strategy: StrategyNearestPair}
	}
	if len(byDist) < 2 {
		return ok(byDist[0].index + 1)
	}

	first, second := byDist[0].index, byDist[1].index
	if first > second {
		first, second = second, first
	}

	// Adjacency is judged on the ring the dragged bead leaves behind.
	m := n
	if dragged >= 0 {
		m--
	}
	rf, rs := shift(first, dragged), shift(second, dragged)
	switch {
	case rs-rf == 1:
		return ok(first + 1)
	case rf == 0 && rs == m-1:
		// Last and first meet at the top; append after the last bead.
		return ok(n)
	}
	return ok(byDist[0].index + 1)
}

type angled struct {
	index int
	angle float64
}

// angularSector inserts into the angular gap that contains the drop point.
func (r Resolver) angularSector(positions []ring.Position, dragged int, others []candidate, p Point) Result {
	phi := r.angleOf(p)
	angles := lo.Map(others, func(c candidate, _ int) angled {
		return angled{index: c.index, angle: ring.NormalizeAngle(c.pos.Angle)}
	})
	slices.SortStableFunc(angles, func(a, b angled) int {
		switch {
		case a.angle < b.angle:
			return -1
		case a.angle > b.angle:
			return 1
		}
		return 0
	})

	m := len(angles)
	if m == 1 {
		return Result{ShouldInsert: true, InsertIndex: shift(angles[0].index+1, dragged), Strategy: StrategyAngularSector}
	}
	for k := 0; k < m; k++ {
		a, b := angles[k], angles[(k+1)%m]
		var inGap bool
		if k < m-1 {
			inGap = phi >= a.angle && phi < b.angle
		} else {
			inGap = phi >= a.angle || phi < b.angle
		}
		if inGap {
			return Result{ShouldInsert: true, InsertIndex: shift(b.index, dragged), Strategy: StrategyAngularSector}
		}
	}
	return r.FindNearestValidInsertionPosition(positions, dragged, p)
}

// FindNearestValidInsertionPosition returns the slot whose theoretical angle
// is closest to the drop point. Slot s sits between the (s-1)th and sth
// remaining beads, slot 0 between the last and the first.
func (r Resolver) FindNearestValidInsertionPosition(positions []ring.Position, dragged int, p Point) Result {
	rest := lo.Filter(positions, func(_ ring.Position, i int) bool { return i != dragged })
	m := len(rest)
	if m == 0 {
		return reject(MsgNoNeighbors)
	}

	phi := r.angleOf(p)
	best, bestDist := -1, math.Inf(1)
	for s := 0; s < m; s++ {
		prev := rest[(s-1+m)%m].Angle
		span := ring.NormalizeAngle(rest[s].Angle - prev)
		if m == 1 || span == 0 {
			span = 2 * math.Pi
		}
		if d := ring.AngularDistance(prev+span/2, phi); d < bestDist {
			best, bestDist = s, d
		}
	}
	if best < 0 {
		return reject(MsgNoSlot)
	}
	return Result{ShouldInsert: true, InsertIndex: best, Strategy: StrategyNearestSlot}
}
