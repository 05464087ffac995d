// Package layout provides sequence-level operations over bead lists. Every
// operation is copy-on-write: inputs are never modified.
package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zulandar/strand/internal/ring"
)

var (
	// ErrNoSelection is returned when an operation needs a selected bead.
	ErrNoSelection = errors.New("layout: no bead selected")

	// ErrIndexOutOfRange is returned for an index outside the sequence.
	ErrIndexOutOfRange = errors.New("layout: index out of range")
)

// Direction is the way a bead moves around the ring.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// ParseDirection accepts "cw"/"clockwise" and "ccw"/"counterclockwise".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "cw", "clockwise", "next":
		return Clockwise, nil
	case "ccw", "counterclockwise", "prev":
		return CounterClockwise, nil
	}
	return 0, fmt.Errorf("layout: unknown direction %q", s)
}

// Calculator performs layout operations for a ring configuration.
type Calculator struct {
	Ring ring.Config
}

// New returns a Calculator for cfg.
func New(cfg ring.Config) Calculator {
	return Calculator{Ring: cfg}
}

// Result is a fully placed bead sequence.
type Result struct {
	Positions       []ring.Position
	Radius          float64
	PredictedLength float64
}

// Layout places beads on the ring and computes the derived metrics.
func (c Calculator) Layout(beads []ring.Bead) Result {
	radius := ring.RingRadius(beads, c.Ring)
	cx, cy := c.Ring.Center()
	return Result{
		Positions:       ring.PositionsOnRing(beads, radius, cx, cy, c.Ring),
		Radius:          radius,
		PredictedLength: c.PredictedLength(beads),
	}
}

// PredictedLength converts the total arc footprint to a wrist
// circumference in centimeters.
func (c Calculator) PredictedLength(beads []ring.Bead) float64 {
	return pxToCM(ring.ArcLength(beads, c.Ring), c.Ring)
}

// footprintCM returns the length in centimeters one bead of the given
// diameter adds to the ring.
func (c Calculator) footprintCM(diameter float64) float64 {
	return pxToCM(diameter*c.Ring.Scale()+c.Ring.Spacing, c.Ring)
}

func pxToCM(px float64, cfg ring.Config) float64 {
	return px / cfg.Scale() / 10
}

// Add appends b, or overwrites the bead at insertAt when it is a valid index.
func (c Calculator) Add(beads []ring.Bead, b ring.Bead, insertAt int) []ring.Bead {
	out := slices.Clone(beads)
	if insertAt < 0 || insertAt >= len(out) {
		return append(out, b)
	}
	out[insertAt] = b
	return out
}

// Insert places b before index, shifting later beads. An index at or past
// the end appends.
func (c Calculator) Insert(beads []ring.Bead, b ring.Bead, index int) []ring.Bead {
	index = max(0, min(index, len(beads)))
	return slices.Insert(slices.Clone(beads), index, b)
}

// Remove deletes the bead at index and returns the re-clamped selection.
func (c Calculator) Remove(beads []ring.Bead, index int) ([]ring.Bead, int, error) {
	if index < 0 {
		return beads, index, ErrNoSelection
	}
	if index >= len(beads) {
		return beads, -1, fmt.Errorf("%w: remove %d of %d", ErrIndexOutOfRange, index, len(beads))
	}
	out := slices.Delete(slices.Clone(beads), index, index+1)
	return out, ClampSelection(index, len(out)), nil
}

// Move swaps the bead at index with its neighbor in dir, wrapping at the
// ends. The returned selection follows the moved bead.
func (c Calculator) Move(beads []ring.Bead, index int, dir Direction) ([]ring.Bead, int, error) {
	if index < 0 {
		return beads, index, ErrNoSelection
	}
	if index >= len(beads) {
		return beads, -1, fmt.Errorf("%w: move %d of %d", ErrIndexOutOfRange, index, len(beads))
	}
	if len(beads) < 2 {
		return slices.Clone(beads), index, nil
	}
	target := (index + int(dir) + len(beads)) % len(beads)
	out := slices.Clone(beads)
	out[index], out[target] = out[target], out[index]
	return out, target, nil
}

// Relocate moves the bead at from so that it ends up at index to of the
// sequence with the bead removed.
func (c Calculator) Relocate(beads []ring.Bead, from, to int) ([]ring.Bead, int, error) {
	if from < 0 || from >= len(beads) {
		return beads, -1, fmt.Errorf("%w: relocate from %d of %d", ErrIndexOutOfRange, from, len(beads))
	}
	b := beads[from]
	rest := slices.Delete(slices.Clone(beads), from, from+1)
	to = max(0, min(to, len(rest)))
	return slices.Insert(rest, to, b), to, nil
}

// ClampSelection keeps a selection inside a sequence of length n.
func ClampSelection(index, n int) int {
	if n == 0 || index < 0 {
		return -1
	}
	return min(index, n-1)
}
