package beam

import (
	"math"
	"testing"

	"doseprofiler/pkg/geometry"
)

func ptr(v float64) *float64 { return &v }

// testGeometry is a beam at the origin with a 10 mm air gap between
// surface and axis (SSD 100, SAD 90).
func testGeometry(gantryAngle float64) *Geometry {
	return &Geometry{
		Isocenter:   &geometry.Vec3{0, 0, 0},
		GantryAngle: ptr(gantryAngle),
		SSD:         ptr(100),
		SAD:         ptr(90),
	}
}

func TestZeroPointGantryZero(t *testing.T) {
	zp, ok := testGeometry(0).ZeroPoint(InterceptCAXSurface)
	if !ok {
		t.Fatal("zero point should be available")
	}
	want := geometry.Vec3{0, 10, 0}
	for d := 0; d < 3; d++ {
		if math.Abs(zp[d]-want[d]) > 1e-9 {
			t.Fatalf("gantry 0: got %v, want %v", zp, want)
		}
	}
}

func TestZeroPointGantry180(t *testing.T) {
	zp, ok := testGeometry(180).ZeroPoint(InterceptCAXSurface)
	if !ok {
		t.Fatal("zero point should be available")
	}
	want := geometry.Vec3{0, -10, 0}
	for d := 0; d < 3; d++ {
		if math.Abs(zp[d]-want[d]) > 1e-9 {
			t.Fatalf("gantry 180: got %v, want %v", zp, want)
		}
	}
}

func TestZeroPointGantry90(t *testing.T) {
	// At gantry 90 the full offset moves along -x.
	zp, ok := testGeometry(90).ZeroPoint(InterceptCAXSurface)
	if !ok {
		t.Fatal("zero point should be available")
	}
	want := geometry.Vec3{-10, 0, 0}
	for d := 0; d < 3; d++ {
		if math.Abs(zp[d]-want[d]) > 1e-9 {
			t.Fatalf("gantry 90: got %v, want %v", zp, want)
		}
	}
}

func TestZeroPointOffAxisIsocenter(t *testing.T) {
	g := testGeometry(0)
	g.Isocenter = &geometry.Vec3{5, -3, 42}

	zp, ok := g.ZeroPoint(InterceptCAXSurface)
	if !ok {
		t.Fatal("zero point should be available")
	}
	want := geometry.Vec3{5, 7, 42}
	for d := 0; d < 3; d++ {
		if math.Abs(zp[d]-want[d]) > 1e-9 {
			t.Fatalf("shifted isocenter: got %v, want %v", zp, want)
		}
	}
}

func TestZeroPointUnavailable(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*Geometry)
	}{
		{"no isocenter", func(g *Geometry) { g.Isocenter = nil }},
		{"no gantry angle", func(g *Geometry) { g.GantryAngle = nil }},
		{"no SSD", func(g *Geometry) { g.SSD = nil }},
		{"no SAD", func(g *Geometry) { g.SAD = nil }},
	}
	for _, tc := range mutations {
		g := testGeometry(0)
		tc.mutate(g)
		if _, ok := g.ZeroPoint(InterceptCAXSurface); ok {
			t.Errorf("%s: derivation should be unavailable", tc.name)
		}
	}

	var nilGeometry *Geometry
	if _, ok := nilGeometry.ZeroPoint(InterceptCAXSurface); ok {
		t.Error("nil geometry: derivation should be unavailable")
	}
}

func TestZeroPointUnknownMode(t *testing.T) {
	if _, ok := testGeometry(0).ZeroPoint(DerivationMode(99)); ok {
		t.Error("unknown mode should be unavailable")
	}
}
