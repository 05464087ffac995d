// Package ring holds the bead data model and the geometry kernel that places
// beads around a circular thread.
package ring

import (
	"fmt"
	"math"
)

// Category classifies a bead.
type Category string

const (
	CoreBead  Category = "core"
	Accessory Category = "accessory"
)

// Default values applied when a bead field is left at zero.
const (
	DefaultAspectRatio  = 1.0
	DefaultHolePosition = 0.5
)

// Bead is a logical item placed on the ring. Sizes are in millimeters.
type Bead struct {
	ID               string   `json:"id,omitempty" yaml:"id"`
	Name             string   `json:"name,omitempty" yaml:"name"`
	Category         Category `json:"category,omitempty" yaml:"category"`
	Diameter         float64  `json:"diameter" yaml:"diameter"`
	Width            float64  `json:"width,omitempty" yaml:"width"`                           // 0 = Diameter
	ImageAspectRatio float64  `json:"image_aspect_ratio,omitempty" yaml:"image_aspect_ratio"` // 0 = 1
	HolePosition     float64  `json:"hole_position,omitempty" yaml:"hole_position"`           // 0 = 0.5
	Floating         bool     `json:"floating,omitempty" yaml:"floating"`
	ImageURL         string   `json:"image_url,omitempty" yaml:"image_url"`
}

// Validate reports whether the bead's physical attributes are usable.
func (b Bead) Validate() error {
	if b.Diameter <= 0 || math.IsNaN(b.Diameter) {
		return fmt.Errorf("ring: bead %q: diameter must be > 0, got %v", b.label(), b.Diameter)
	}
	if b.Width < 0 {
		return fmt.Errorf("ring: bead %q: width must be >= 0, got %v", b.label(), b.Width)
	}
	if b.ImageAspectRatio < 0 {
		return fmt.Errorf("ring: bead %q: image aspect ratio must be >= 0, got %v", b.label(), b.ImageAspectRatio)
	}
	if b.HolePosition < 0 || b.HolePosition > 1 {
		return fmt.Errorf("ring: bead %q: hole position must be within [0,1], got %v", b.label(), b.HolePosition)
	}
	switch b.Category {
	case "", CoreBead, Accessory:
	default:
		return fmt.Errorf("ring: bead %q: unknown category %q", b.label(), b.Category)
	}
	return nil
}

func (b Bead) label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// AspectRatio returns the image aspect ratio with the default applied.
func (b Bead) AspectRatio() float64 {
	if b.ImageAspectRatio <= 0 {
		return DefaultAspectRatio
	}
	return b.ImageAspectRatio
}

// Hole returns the hole position with the default applied.
func (b Bead) Hole() float64 {
	if b.HolePosition <= 0 {
		return DefaultHolePosition
	}
	return b.HolePosition
}

// OnRingWidth returns the bead's footprint along the thread in millimeters.
// Floating accessories take no arc.
func (b Bead) OnRingWidth() float64 {
	if b.Floating {
		return 0
	}
	w := b.Width
	if w <= 0 {
		w = b.Diameter
	}
	if b.Category == Accessory {
		w *= b.AspectRatio()
	}
	return w
}

// IdentityKey concatenates the fields that determine a bead's artwork.
func (b Bead) IdentityKey() string {
	return fmt.Sprintf("%s|%s|%g|%g", b.ID, b.ImageURL, b.Diameter, b.AspectRatio())
}

// Position is a Bead placed on the ring canvas.
type Position struct {
	Bead

	// X, Y is the visual center; ThreadX, ThreadY is where the string passes.
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	ThreadX float64 `json:"thread_x"`
	ThreadY float64 `json:"thread_y"`

	// Angle is the thread point's angle around the ring center in radians,
	// screen orientation (Y grows downward, -π/2 is the top).
	Angle float64 `json:"angle"`

	ScaleWidth  float64 `json:"scale_width"`
	ScaleHeight float64 `json:"scale_height"`

	// Image is the resolved artwork handle, opaque to the engine.
	Image string `json:"image,omitempty"`

	// UniqueKey identifies the entry in a rendered list. It carries no
	// business meaning and changes on every recompute.
	UniqueKey string `json:"unique_key"`
}

// Rotation returns the render rotation that points the hole axis at the
// ring center.
func (p Position) Rotation() float64 {
	return p.Angle + math.Pi/2
}

// Strip returns the bare bead for persistence.
func (p Position) Strip() Bead {
	return p.Bead
}

// StripAll strips every position in order.
func StripAll(positions []Position) []Bead {
	beads := make([]Bead, len(positions))
	for i, p := range positions {
		beads[i] = p.Bead
	}
	return beads
}
