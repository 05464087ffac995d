package ring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// fixedCount is the bead count that uses a fixed radius.
	fixedCount       = 10
	fixedRadiusRatio = 0.4

	// Asymmetrically-holed beads above this diameter (mm) are drawn at a
	// reduced scale so pendants do not dominate the ring.
	pendantThresholdMM = 20.0
)

// Footprints returns each bead's arc footprint in pixels, spacing included.
func Footprints(beads []Bead, cfg Config) []float64 {
	scale := cfg.Scale()
	out := make([]float64, len(beads))
	for i, b := range beads {
		out[i] = b.OnRingWidth()*scale + cfg.Spacing
	}
	return out
}

// ArcLength returns the total arc footprint in pixels.
func ArcLength(beads []Bead, cfg Config) float64 {
	if len(beads) == 0 {
		return 0
	}
	return floats.Sum(Footprints(beads, cfg))
}

// RingRadius returns the radius in pixels for the given beads.
func RingRadius(beads []Bead, cfg Config) float64 {
	if cfg.TargetRadius > 0 {
		return cfg.TargetRadius
	}
	if len(beads) == 0 {
		return 0
	}
	if len(beads) == fixedCount {
		return fixedRadiusRatio * cfg.CanvasSize
	}

	r := ArcLength(beads, cfg) / (2 * math.Pi)

	diameters := make([]float64, len(beads))
	for i, b := range beads {
		diameters[i] = b.Diameter * cfg.Scale()
	}
	r = math.Max(r, floats.Max(diameters))
	if limit := cfg.maxRadius(); limit > 0 {
		r = math.Min(r, limit)
	}
	return r
}

// AngularSpans returns each bead's share of the circle in radians. The spans
// always sum to 2π. A ring without any footprint is split evenly.
func AngularSpans(beads []Bead, cfg Config) []float64 {
	spans := Footprints(beads, cfg)
	if len(spans) == 0 {
		return spans
	}
	total := floats.Sum(spans)
	if total <= 0 {
		for i := range spans {
			spans[i] = 2 * math.Pi / float64(len(spans))
		}
		return spans
	}
	floats.Scale(2*math.Pi/total, spans)
	return spans
}

// PositionsOnRing places beads clockwise around (cx, cy) with the first bead
// centered at the top of the ring.
func PositionsOnRing(beads []Bead, radius, cx, cy float64, cfg Config) []Position {
	spans := AngularSpans(beads, cfg)
	positions := make([]Position, len(beads))
	if len(beads) == 0 {
		return positions
	}

	cursor := -math.Pi/2 - spans[0]/2
	for i, b := range beads {
		angle := cursor + spans[i]/2
		cursor += spans[i]

		w, h := renderSize(b, cfg.Scale())
		offset := (0.5 - b.Hole()) * h
		cos, sin := math.Cos(angle), math.Sin(angle)

		positions[i] = Position{
			Bead:        b,
			ThreadX:     cx + radius*cos,
			ThreadY:     cy + radius*sin,
			X:           cx + (radius+offset)*cos,
			Y:           cy + (radius+offset)*sin,
			Angle:       angle,
			ScaleWidth:  w,
			ScaleHeight: h,
		}
	}
	return positions
}

// renderSize returns the bead's drawn width and height in pixels.
func renderSize(b Bead, scale float64) (float64, float64) {
	w := b.Width
	if w <= 0 {
		w = b.Diameter
	}
	if b.Category == Accessory {
		w *= b.AspectRatio()
	}
	w *= scale
	h := b.Diameter * scale

	if b.Hole() != DefaultHolePosition && b.Diameter > pendantThresholdMM {
		f := pendantThresholdMM / b.Diameter
		w *= f
		h *= f
	}
	return w, h
}

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// AngularDistance returns the smallest absolute difference between two
// angles, in [0, π].
func AngularDistance(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// PointAt converts a polar offset from (cx, cy) to canvas coordinates.
func PointAt(cx, cy, radius, angle float64) (float64, float64) {
	return cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)
}
