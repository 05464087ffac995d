package ring

import (
	"strings"
	"testing"
)

func TestBead_OnRingWidth(t *testing.T) {
	tests := []struct {
		name string
		bead Bead
		want float64
	}{
		{"diameter default", Bead{Diameter: 8}, 8},
		{"explicit width", Bead{Diameter: 12, Width: 5}, 5},
		{"accessory aspect", Bead{Diameter: 10, Category: Accessory, ImageAspectRatio: 1.5}, 15},
		{"core ignores aspect", Bead{Diameter: 10, ImageAspectRatio: 1.5}, 10},
		{"floating", Bead{Diameter: 10, Category: Accessory, Floating: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bead.OnRingWidth(); got != tt.want {
				t.Errorf("OnRingWidth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBead_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bead    Bead
		wantErr string
	}{
		{"ok", Bead{Name: "amethyst", Diameter: 8}, ""},
		{"zero diameter", Bead{Name: "x"}, "diameter must be > 0"},
		{"hole out of range", Bead{Diameter: 8, HolePosition: 1.2}, "hole position"},
		{"bad category", Bead{Diameter: 8, Category: "charm"}, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bead.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStripAll(t *testing.T) {
	positions := []Position{
		{Bead: Bead{ID: "a", Diameter: 8}, UniqueKey: "k1", X: 3},
		{Bead: Bead{ID: "b", Diameter: 10}, UniqueKey: "k2"},
	}
	beads := StripAll(positions)
	if len(beads) != 2 || beads[0].ID != "a" || beads[1].ID != "b" {
		t.Errorf("StripAll() = %+v", beads)
	}
}

func TestPosition_Rotation(t *testing.T) {
	p := Position{Angle: -1.5707963267948966}
	if got := p.Rotation(); got != 0 {
		t.Errorf("Rotation() = %v, want 0", got)
	}
}
