package insertion

import (
	"math"

	"github.com/zulandar/strand/internal/ring"
)

// DragCheck classifies a drop point.
type DragCheck struct {
	Valid bool `json:"valid"`

	// InBand reports the point lies in the ring's valid radial band.
	InBand bool `json:"in_band"`

	// Overlap is the index of the bead the point overlaps, or -1.
	Overlap int `json:"overlap"`

	Message string `json:"message,omitempty"`
}

// ValidateDragPosition checks that p is inside the ring's radial band or
// overlaps another bead. A bead entering from outside (dragged == -1) is
// sized like the bead it is compared against.
func (r Resolver) ValidateDragPosition(positions []ring.Position, dragged int, p Point) DragCheck {
	cx, cy := r.Ring.Center()
	d := ring.Distance(cx, cy, p.X, p.Y)

	minBead := math.Inf(1)
	for _, pos := range positions {
		minBead = math.Min(minBead, pos.ScaleHeight/2)
	}
	if math.IsInf(minBead, 1) {
		minBead = 0
	}
	check := DragCheck{
		InBand:  d >= minBead*bandInnerFactor && d <= r.Ring.CanvasSize*bandOuterRatio,
		Overlap: -1,
	}

	closest := math.Inf(1)
	for _, c := range neighbors(positions, dragged, p) {
		size := c.pos.ScaleHeight
		if dragged >= 0 && dragged < len(positions) {
			size = positions[dragged].ScaleHeight
		}
		if c.dist <= (c.pos.ScaleHeight+size)/4 && c.dist < closest {
			check.Overlap, closest = c.index, c.dist
		}
	}

	check.Valid = check.InBand || check.Overlap >= 0
	if !check.Valid {
		check.Message = MsgReturnToOrigin
	}
	return check
}

// ResolveDrop runs the legality gate, then the resolver. Only a drop that
// overlaps a bead falls back to the nearest slot; an in-band drop on empty
// canvas keeps the resolver's rejection. An illegal drop returns a "return
// to origin" result and the caller snaps the bead back.
func (r Resolver) ResolveDrop(positions []ring.Position, dragged int, p Point) Result {
	check := r.ValidateDragPosition(positions, dragged, p)
	if !check.Valid {
		return reject(check.Message)
	}
	res := r.Resolve(positions, dragged, p)
	if res.ShouldInsert {
		return res
	}
	if check.Overlap < 0 {
		return res
	}
	if fb := r.FindNearestValidInsertionPosition(positions, dragged, p); fb.ShouldInsert {
		return fb
	}
	return res
}
