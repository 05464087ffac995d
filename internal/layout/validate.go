package layout

import (
	"fmt"

	"github.com/zulandar/strand/internal/ring"
)

// Op is the kind of change a count validation checks.
type Op int

const (
	OpAdd Op = iota
	OpRemove
)

// Validation is a soft guard result; callers decide whether to block or warn.
type Validation struct {
	Valid   bool    `json:"valid"`
	Message string  `json:"message,omitempty"`
	Length  float64 `json:"length"`
}

// ValidateCount checks whether adding or removing a bead of
// candidateDiameter (mm) keeps the predicted length inside the wrist-size
// bounds. Zero bounds are not enforced.
func (c Calculator) ValidateCount(beads []ring.Bead, candidateDiameter float64, op Op) Validation {
	current := c.PredictedLength(beads)
	delta := c.footprintCM(candidateDiameter)

	switch op {
	case OpAdd:
		next := current + delta
		if c.Ring.MaxLengthCM > 0 && next > c.Ring.MaxLengthCM {
			return Validation{
				Length:  next,
				Message: fmt.Sprintf("length %.1fcm would exceed the maximum of %.1fcm", next, c.Ring.MaxLengthCM),
			}
		}
		return Validation{Valid: true, Length: next}
	case OpRemove:
		next := current - delta
		if next < 0 {
			next = 0
		}
		if c.Ring.MinLengthCM > 0 && next < c.Ring.MinLengthCM {
			return Validation{
				Length:  next,
				Message: fmt.Sprintf("length %.1fcm would fall below the minimum of %.1fcm", next, c.Ring.MinLengthCM),
			}
		}
		return Validation{Valid: true, Length: next}
	}
	return Validation{Length: current, Message: fmt.Sprintf("unknown operation %d", op)}
}

// ValidateLength checks an already built sequence against the bounds.
func (c Calculator) ValidateLength(beads []ring.Bead) Validation {
	length := c.PredictedLength(beads)
	switch {
	case c.Ring.MaxLengthCM > 0 && length > c.Ring.MaxLengthCM:
		return Validation{Length: length, Message: fmt.Sprintf("length %.1fcm exceeds the maximum of %.1fcm", length, c.Ring.MaxLengthCM)}
	case c.Ring.MinLengthCM > 0 && len(beads) > 0 && length < c.Ring.MinLengthCM:
		return Validation{Length: length, Message: fmt.Sprintf("length %.1fcm is below the minimum of %.1fcm", length, c.Ring.MinLengthCM)}
	}
	return Validation{Valid: true, Length: length}
}
