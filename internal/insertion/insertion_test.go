package insertion

import (
	"math"
	"testing"

	"github.com/zulandar/strand/internal/ring"
)

func ringConfig(radius float64) ring.Config {
	return ring.Config{
		CanvasSize:     400,
		PxPerMM:        1,
		TargetRadius:   radius,
		MaxRadiusRatio: 0.45,
	}
}

// square places four equal beads at the top, right, bottom and left.
func square(cfg ring.Config, diameter float64) []ring.Position {
	beads := make([]ring.Bead, 4)
	for i := range beads {
		beads[i] = ring.Bead{Diameter: diameter}
	}
	cx, cy := cfg.Center()
	return ring.PositionsOnRing(beads, ring.RingRadius(beads, cfg), cx, cy, cfg)
}

func polar(cfg ring.Config, radius, deg float64) Point {
	cx, cy := cfg.Center()
	x, y := ring.PointAt(cx, cy, radius, deg*math.Pi/180)
	return Point{X: x, Y: y}
}

func TestResolve_AdjacentPairTieBreak(t *testing.T) {
	cfg := ringConfig(20)
	positions := square(cfg, 10)
	mid := Point{
		X: (positions[1].X + positions[2].X) / 2,
		Y: (positions[1].Y + positions[2].Y) / 2,
	}

	tests := []struct {
		name    string
		dragged int
		want    int
	}{
		{"dragged after pair", 3, 2},
		{"dragged before pair", 0, 1},
		{"new bead", -1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(cfg).Resolve(positions, tt.dragged, mid)
			if !res.ShouldInsert {
				t.Fatalf("ShouldInsert = false (%s)", res.Message)
			}
			if res.Strategy != StrategyNearestPair {
				t.Errorf("Strategy = %q, want %q", res.Strategy, StrategyNearestPair)
			}
			if res.InsertIndex != tt.want {
				t.Errorf("InsertIndex = %d, want %d", res.InsertIndex, tt.want)
			}
		})
	}
}

func TestResolve_WraparoundPairAppends(t *testing.T) {
	cfg := ringConfig(20)
	positions := square(cfg, 10)
	mid := Point{
		X: (positions[3].X + positions[0].X) / 2,
		Y: (positions[3].Y + positions[0].Y) / 2,
	}

	if res := New(cfg).Resolve(positions, -1, mid); res.InsertIndex != 4 {
		t.Errorf("new bead InsertIndex = %d, want 4", res.InsertIndex)
	}
	if res := New(cfg).Resolve(positions, 1, mid); res.InsertIndex != 3 {
		t.Errorf("dragged 1 InsertIndex = %d, want 3", res.InsertIndex)
	}
}

func TestResolve_NonAdjacentPairInsertsAfterNearest(t *testing.T) {
	cfg := ringConfig(100)
	bead := ring.Bead{Diameter: 20}
	positions := []ring.Position{
		{Bead: bead, X: 200, Y: 100, Angle: -math.Pi / 2, ScaleWidth: 20, ScaleHeight: 20},
		{Bead: bead, X: 300, Y: 200, Angle: 0, ScaleWidth: 20, ScaleHeight: 20},
		{Bead: bead, X: 220, Y: 100, Angle: -math.Pi/2 + 0.2, ScaleWidth: 20, ScaleHeight: 20},
		{Bead: bead, X: 100, Y: 200, Angle: math.Pi, ScaleWidth: 20, ScaleHeight: 20},
	}

	res := New(cfg).Resolve(positions, -1, Point{X: 205, Y: 100})
	if res.Strategy != StrategyNearestPair || res.InsertIndex != 1 {
		t.Errorf("Resolve() = %+v, want nearest-pair at 1", res)
	}
}

func TestResolve_AdjacencyIgnoresDraggedBead(t *testing.T) {
	cfg := ringConfig(100)
	bead := ring.Bead{Diameter: 20}
	positions := []ring.Position{
		{Bead: bead, X: 200, Y: 100, Angle: -math.Pi / 2, ScaleWidth: 20, ScaleHeight: 20},
		{Bead: bead, X: 300, Y: 200, Angle: 0, ScaleWidth: 20, ScaleHeight: 20},
		{Bead: bead, X: 230, Y: 100, Angle: -math.Pi/2 + 0.3, ScaleWidth: 20, ScaleHeight: 20},
		{Bead: bead, X: 100, Y: 200, Angle: math.Pi, ScaleWidth: 20, ScaleHeight: 20},
	}
	// Nearest is bead 2, then bead 0.
	p := Point{X: 222, Y: 100}

	tests := []struct {
		name    string
		dragged int
		want    int
	}{
		// Without bead 1, beads 0 and 2 are neighbors: land between them.
		{"dragged bead splits the pair", 1, 1},
		// With all four beads, 0 and 2 are not neighbors: land after bead 2.
		{"new bead", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(cfg).Resolve(positions, tt.dragged, p)
			if res.Strategy != StrategyNearestPair || res.InsertIndex != tt.want {
				t.Errorf("Resolve() = %+v, want nearest-pair at %d", res, tt.want)
			}
		})
	}
}

func TestResolve_SingleNeighbor(t *testing.T) {
	cfg := ringConfig(20)
	positions := square(cfg, 10)[:2]

	res := New(cfg).Resolve(positions, 0, Point{X: positions[1].X, Y: positions[1].Y + 2})
	if !res.ShouldInsert || res.InsertIndex != 1 {
		t.Errorf("Resolve() = %+v, want insert at 1", res)
	}
}

func TestResolve_NoNeighbors(t *testing.T) {
	cfg := ringConfig(20)
	positions := square(cfg, 10)[:1]

	res := New(cfg).Resolve(positions, 0, Point{X: 200, Y: 180})
	if res.ShouldInsert {
		t.Fatal("expected no insertion without neighbors")
	}
	if res.Message != MsgNoNeighbors {
		t.Errorf("Message = %q, want %q", res.Message, MsgNoNeighbors)
	}
}

func TestResolve_AngularSector(t *testing.T) {
	cfg := ringConfig(150)
	positions := square(cfg, 10)

	tests := []struct {
		name    string
		deg     float64
		dragged int
		want    int
	}{
		{"between right and bottom", 45, -1, 2},
		{"between right and bottom, dragged top", 45, 0, 1},
		{"wrap gap top to right", 300, -1, 1},
		{"wrap gap top to right, dragged left", 300, 3, 1},
		{"between left and top", 225, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(cfg).Resolve(positions, tt.dragged, polar(cfg, 180, tt.deg))
			if res.Strategy != StrategyAngularSector {
				t.Fatalf("Strategy = %q, want %q (%+v)", res.Strategy, StrategyAngularSector, res)
			}
			if res.InsertIndex != tt.want {
				t.Errorf("InsertIndex = %d, want %d", res.InsertIndex, tt.want)
			}
		})
	}
}

func TestResolve_OutsideEffectiveRange(t *testing.T) {
	cfg := ringConfig(150)
	positions := square(cfg, 10)

	res := New(cfg).Resolve(positions, 0, polar(cfg, 2.5*150, 45))
	if res.ShouldInsert {
		t.Fatalf("ShouldInsert = true, want false: %+v", res)
	}
	if res.Message != MsgOutOfRange {
		t.Errorf("Message = %q, want %q", res.Message, MsgOutOfRange)
	}
}

func TestResolveDrop_OutsideEffectiveRangeInBand(t *testing.T) {
	// Small ring: 2.5r is well inside the band (outer edge 160).
	cfg := ringConfig(30)
	positions := square(cfg, 10)
	r := New(cfg)

	for _, deg := range []float64{0, 45, 90, 200} {
		p := polar(cfg, 2.5*30, deg)
		if check := r.ValidateDragPosition(positions, 0, p); !check.InBand || check.Overlap != -1 {
			t.Fatalf("deg %v: ValidateDragPosition() = %+v, want in band without overlap", deg, check)
		}
		res := r.ResolveDrop(positions, 0, p)
		if res.ShouldInsert {
			t.Errorf("deg %v: ResolveDrop() = %+v, want no insertion", deg, res)
		}
		if res.Message != MsgOutOfRange {
			t.Errorf("deg %v: Message = %q, want %q", deg, res.Message, MsgOutOfRange)
		}
	}
}

func TestResolveDrop_OverlapFallsBackToNearestSlot(t *testing.T) {
	cfg := ringConfig(50)
	cx, cy := cfg.Center()
	at := func(deg, height float64) ring.Position {
		rad := deg * math.Pi / 180
		x, y := ring.PointAt(cx, cy, 50, rad)
		return ring.Position{Bead: ring.Bead{Diameter: 10}, X: x, Y: y, Angle: rad, ScaleWidth: 10, ScaleHeight: height}
	}
	// A long pendant at 30° reaches far past the ring.
	positions := []ring.Position{at(-90, 10), at(30, 400), at(150, 10)}
	p := polar(cfg, 150, 40)
	r := New(cfg)

	if check := r.ValidateDragPosition(positions, -1, p); check.Overlap != 1 {
		t.Fatalf("ValidateDragPosition() = %+v, want overlap with bead 1", check)
	}
	if res := r.Resolve(positions, -1, p); res.ShouldInsert {
		t.Fatalf("Resolve() = %+v, want rejection before fallback", res)
	}
	res := r.ResolveDrop(positions, -1, p)
	if !res.ShouldInsert || res.Strategy != StrategyNearestSlot || res.InsertIndex != 2 {
		t.Errorf("ResolveDrop() = %+v, want nearest-slot at 2", res)
	}
}

func TestFindNearestValidInsertionPosition(t *testing.T) {
	cfg := ringConfig(100)
	positions := square(cfg, 10)
	r := New(cfg)

	if res := r.FindNearestValidInsertionPosition(positions, -1, polar(cfg, 100, 40)); res.InsertIndex != 2 {
		t.Errorf("new bead slot = %d, want 2", res.InsertIndex)
	}
	if res := r.FindNearestValidInsertionPosition(positions, 2, polar(cfg, 100, 40)); res.InsertIndex != 2 {
		t.Errorf("dragged 2 slot = %d, want 2", res.InsertIndex)
	}
	if res := r.FindNearestValidInsertionPosition(positions, -1, polar(cfg, 100, 300)); res.InsertIndex != 1 {
		t.Errorf("top-right slot = %d, want 1", res.InsertIndex)
	}
	if res := r.FindNearestValidInsertionPosition(positions[:1], 0, polar(cfg, 100, 0)); res.ShouldInsert {
		t.Error("expected no slot when only the dragged bead exists")
	}
}

func TestValidateDragPosition(t *testing.T) {
	cfg := ringConfig(100)
	positions := square(cfg, 10)
	r := New(cfg)

	tests := []struct {
		name   string
		point  Point
		valid  bool
		inBand bool
	}{
		{"on the ring", polar(cfg, 100, 10), true, true},
		{"dead center", Point{X: 200, Y: 200}, false, false},
		{"canvas corner", Point{X: 395, Y: 395}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := r.ValidateDragPosition(positions, 0, tt.point)
			if check.Valid != tt.valid || check.InBand != tt.inBand {
				t.Errorf("ValidateDragPosition() = %+v, want valid=%v inBand=%v", check, tt.valid, tt.inBand)
			}
			if !check.Valid && check.Message != MsgReturnToOrigin {
				t.Errorf("Message = %q, want %q", check.Message, MsgReturnToOrigin)
			}
		})
	}
}

func TestValidateDragPosition_OverlapOutsideBand(t *testing.T) {
	cfg := ringConfig(158)
	positions := square(cfg, 30)

	check := New(cfg).ValidateDragPosition(positions, 0, polar(cfg, 170, 0))
	if check.InBand {
		t.Error("InBand = true, want false")
	}
	if !check.Valid || check.Overlap != 1 {
		t.Errorf("ValidateDragPosition() = %+v, want valid overlap with bead 1", check)
	}
}

func TestResolveDrop(t *testing.T) {
	cfg := ringConfig(100)
	positions := square(cfg, 10)
	r := New(cfg)

	t.Run("illegal drop returns to origin", func(t *testing.T) {
		res := r.ResolveDrop(positions, 0, polar(cfg, 250, 45))
		if res.ShouldInsert || res.Message != MsgReturnToOrigin {
			t.Errorf("ResolveDrop() = %+v, want return to origin", res)
		}
	})

	t.Run("band drop away from beads stays out of range", func(t *testing.T) {
		res := r.ResolveDrop(positions, -1, polar(cfg, 145, 45))
		if res.ShouldInsert {
			t.Fatalf("ShouldInsert = true, want false: %+v", res)
		}
		if res.Message != MsgOutOfRange {
			t.Errorf("Message = %q, want %q", res.Message, MsgOutOfRange)
		}
	})

	t.Run("sector drop", func(t *testing.T) {
		res := r.ResolveDrop(positions, 0, polar(cfg, 110, 135))
		if res.Strategy != StrategyAngularSector || res.InsertIndex != 2 {
			t.Errorf("ResolveDrop() = %+v, want angular-sector at 2", res)
		}
	})
}
