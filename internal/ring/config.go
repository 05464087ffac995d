package ring

// Config describes the ring canvas and the physical/pixel mapping.
type Config struct {
	// CanvasSize is the side of the square canvas in pixels.
	CanvasSize float64 `json:"canvas_size"`

	// Spacing is the extra arc in pixels reserved after every bead.
	Spacing float64 `json:"spacing"`

	// TargetRadius fixes the ring radius in pixels when > 0.
	TargetRadius float64 `json:"target_radius,omitempty"`

	// PxPerMM converts millimeters to render pixels.
	PxPerMM float64 `json:"px_per_mm"`

	// MaxRadiusRatio caps the derived radius as a fraction of CanvasSize.
	MaxRadiusRatio float64 `json:"max_radius_ratio"`

	// Wrist-size bounds in centimeters.
	MinLengthCM float64 `json:"min_length_cm"`
	MaxLengthCM float64 `json:"max_length_cm"`
}

// DefaultConfig returns the canvas used by the design studio.
func DefaultConfig() Config {
	return Config{
		CanvasSize:     300,
		Spacing:        0,
		PxPerMM:        2,
		MaxRadiusRatio: 0.45,
		MinLengthCM:    12,
		MaxLengthCM:    23,
	}
}

// Center returns the canvas center.
func (c Config) Center() (float64, float64) {
	return c.CanvasSize / 2, c.CanvasSize / 2
}

// Scale returns PxPerMM, falling back to 1 for an unset value.
func (c Config) Scale() float64 {
	if c.PxPerMM <= 0 {
		return 1
	}
	return c.PxPerMM
}

func (c Config) maxRadius() float64 {
	ratio := c.MaxRadiusRatio
	if ratio <= 0 {
		ratio = 0.45
	}
	return c.CanvasSize * ratio
}
