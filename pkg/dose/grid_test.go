package dose

import (
	"errors"
	"math"
	"testing"

	"doseprofiler/pkg/geometry"
	"doseprofiler/pkg/interpolation"
)

// testMetadata returns a complete, axis-aligned 4x4x4 grid with unit
// spacing, so index coordinates and patient mm coincide. Voxel values
// equal the i index scaled by 0.01, with GridScaling 2 doubling them.
func testMetadata() Metadata {
	nx, ny, nz := 4, 4, 4
	voxels := make([]float64, nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				voxels[k*nx*ny+j*nx+i] = float64(i) * 0.01
			}
		}
	}
	return Metadata{
		ImagePositionPatient:    []float64{0, 0, 0},
		ImageOrientationPatient: []float64{1, 0, 0, 0, 1, 0},
		PixelSpacing:            []float64{1, 1},
		SliceThickness:          1,
		GridScaling:             2,
		DoseUnits:               "GY",
		Voxels:                  voxels,
		Columns:                 nx,
		Rows:                    ny,
		Frames:                  nz,
	}
}

func TestNewGridAppliesScaling(t *testing.T) {
	grid, err := NewGrid(testMetadata())
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	// Stored voxel 0.03 at i=3, times scaling 2.
	got := grid.DoseArray().At(3, 0, 0)
	if math.Abs(got-0.06) > 1e-12 {
		t.Errorf("scaled voxel value: got %f, want 0.06", got)
	}
	if grid.Units() != GY {
		t.Errorf("units: got %v, want GY", grid.Units())
	}
}

func TestNewGridMissingFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*Metadata)
	}{
		{"ImagePositionPatient", func(m *Metadata) { m.ImagePositionPatient = nil }},
		{"ImageOrientationPatient", func(m *Metadata) { m.ImageOrientationPatient = nil }},
		{"PixelSpacing", func(m *Metadata) { m.PixelSpacing = nil }},
		{"SliceThickness", func(m *Metadata) { m.SliceThickness = 0 }},
		{"DoseGridScaling", func(m *Metadata) { m.GridScaling = 0 }},
		{"DoseUnits", func(m *Metadata) { m.DoseUnits = "" }},
		{"PixelData", func(m *Metadata) { m.Voxels = nil }},
	}

	for _, tc := range cases {
		meta := testMetadata()
		tc.mutate(&meta)

		_, err := NewGrid(meta)
		if err == nil {
			t.Errorf("%s: expected construction to fail", tc.field)
			continue
		}
		var missing *MissingGridMetadataError
		if !errors.As(err, &missing) {
			t.Errorf("%s: expected MissingGridMetadataError, got %T: %v", tc.field, err, err)
			continue
		}
		if missing.Field != tc.field {
			t.Errorf("error names field %q, want %q", missing.Field, tc.field)
		}
	}
}

func TestNewGridMalformedField(t *testing.T) {
	meta := testMetadata()
	meta.ImageOrientationPatient = []float64{1, 0, 0}

	_, err := NewGrid(meta)
	var missing *MissingGridMetadataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingGridMetadataError, got %v", err)
	}
	if missing.Detail == "" {
		t.Error("error should describe expected vs actual value count")
	}
}

func TestNewGridDegenerateOrientation(t *testing.T) {
	meta := testMetadata()
	meta.ImageOrientationPatient = []float64{1, 0, 0, 1, 0, 0}

	_, err := NewGrid(meta)
	var degenerate *geometry.DegenerateGeometryError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateGeometryError, got %T: %v", err, err)
	}
}

func TestEvaluatePatientPoints(t *testing.T) {
	grid, err := NewGrid(testMetadata())
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	// Identity geometry: patient (x,y,z) is index (i,j,k). Dose at x=2
	// is 2*0.01*2 = 0.04; halfway between nodes it is linear in x.
	values := grid.EvaluatePatientPoints([]geometry.Vec3{
		{2, 0, 0},
		{2.5, 1, 1},
		{1000, 0, 0},
	})
	want := []float64{0.04, 0.05, 0}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-12 {
			t.Errorf("value %d: got %f, want %f", i, values[i], want[i])
		}
	}
}

func TestEvaluateWithOffsetOrigin(t *testing.T) {
	meta := testMetadata()
	meta.ImagePositionPatient = []float64{100, -50, 20}
	grid, err := NewGrid(meta)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	// Patient point at the position of voxel (3,0,0).
	got := grid.EvaluatePatientPoints([]geometry.Vec3{{103, -50, 20}})[0]
	if math.Abs(got-0.06) > 1e-12 {
		t.Errorf("offset evaluation: got %f, want 0.06", got)
	}
}

func TestSetInterpolationMethodRebuilds(t *testing.T) {
	grid, err := NewGrid(testMetadata())
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	// Between nodes, linear and nearest disagree: linear blends, nearest
	// snaps down at the tie.
	p := []geometry.Vec3{{0.5, 0, 0}}

	linear := grid.EvaluatePatientPoints(p)[0]
	if math.Abs(linear-0.01) > 1e-12 {
		t.Fatalf("linear value: got %f, want 0.01", linear)
	}

	grid.SetInterpolationMethod(interpolation.Nearest)
	if grid.InterpolationMethod() != interpolation.Nearest {
		t.Fatal("method change not recorded")
	}
	nearest := grid.EvaluatePatientPoints(p)[0]
	if nearest != 0 {
		t.Fatalf("nearest value after switch: got %f, want 0", nearest)
	}

	// Switching back rebuilds again.
	grid.SetInterpolationMethod(interpolation.Linear)
	if got := grid.EvaluatePatientPoints(p)[0]; math.Abs(got-0.01) > 1e-12 {
		t.Fatalf("linear value after switching back: got %f, want 0.01", got)
	}
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in   string
		want Units
	}{
		{"GY", GY},
		{"gy", GY},
		{"Gy", GY},
		{"CGY", CGY},
		{"cGy", CGY},
		{"RELATIVE", Relative},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.in)
		if err != nil {
			t.Errorf("ParseUnits(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseUnits(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	_, err := ParseUnits("BANANAS")
	var invalid *InvalidDoseUnitError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidDoseUnitError, got %v", err)
	}
}

func TestConvertFactor(t *testing.T) {
	cases := []struct {
		native, requested Units
		want              float64
	}{
		{GY, GY, 1},
		{GY, CGY, 100},
		{CGY, CGY, 1},
		{CGY, GY, 0.01},
	}
	for _, tc := range cases {
		got, err := ConvertFactor(tc.native, tc.requested)
		if err != nil {
			t.Errorf("ConvertFactor(%v, %v) failed: %v", tc.native, tc.requested, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ConvertFactor(%v, %v) = %f, want %f", tc.native, tc.requested, got, tc.want)
		}
	}
}

func TestConvertFactorRelative(t *testing.T) {
	_, err := ConvertFactor(Relative, GY)
	var unsupported *UnsupportedDoseUnitError
	if !errors.As(err, &unsupported) {
		t.Fatalf("relative native units: expected UnsupportedDoseUnitError, got %v", err)
	}

	_, err = ConvertFactor(GY, Relative)
	var invalid *InvalidDoseUnitError
	if !errors.As(err, &invalid) {
		t.Fatalf("relative requested units: expected InvalidDoseUnitError, got %v", err)
	}
}
