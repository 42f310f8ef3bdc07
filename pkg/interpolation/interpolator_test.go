package interpolation

import (
	"errors"
	"math"
	"testing"
)

// testVolume builds a 4x3x2 volume where value(i,j,k) = i + 10j + 100k,
// so every node carries a unique, easily predicted value.
func testVolume(t *testing.T) *Volume {
	t.Helper()
	nx, ny, nz := 4, 3, 2
	data := make([]float64, nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				data[k*nx*ny+j*nx+i] = float64(i + 10*j + 100*k)
			}
		}
	}
	vol, err := NewVolume(data, nx, ny, nz)
	if err != nil {
		t.Fatalf("NewVolume failed: %v", err)
	}
	return vol
}

func TestNewVolumeShapeMismatch(t *testing.T) {
	if _, err := NewVolume(make([]float64, 7), 2, 2, 2); err == nil {
		t.Fatal("expected error for mismatched data length")
	}
	if _, err := NewVolume(nil, 0, 1, 1); err == nil {
		t.Fatal("expected error for zero dimension")
	}
}

func TestExactNodeValues(t *testing.T) {
	vol := testVolume(t)
	nx, ny, nz := vol.Dims()

	for _, method := range []Method{Nearest, Linear} {
		in := NewInterpolator(vol, method)
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					got := in.Evaluate([][3]float64{{float64(i), float64(j), float64(k)}})[0]
					want := vol.At(i, j, k)
					if got != want {
						t.Errorf("%s at node (%d,%d,%d): got %f, want %f", method, i, j, k, got, want)
					}
				}
			}
		}
	}
}

func TestZeroPaddingOutsideBounds(t *testing.T) {
	vol := testVolume(t)
	nx, ny, nz := vol.Dims()

	farPoints := [][3]float64{
		{float64(nx + 1000), 0, 0},
		{0, float64(ny + 1000), 0},
		{0, 0, float64(nz + 1000)},
		{-1000, -1000, -1000},
	}
	for _, method := range []Method{Nearest, Linear} {
		in := NewInterpolator(vol, method)
		for _, p := range farPoints {
			if got := in.Evaluate([][3]float64{p})[0]; got != 0 {
				t.Errorf("%s at %v: got %f, want 0", method, p, got)
			}
		}
	}
}

func TestNearestTieBreaksLower(t *testing.T) {
	vol := testVolume(t)
	in := NewInterpolator(vol, Nearest)

	// Exactly halfway between nodes 1 and 2 along each axis: the lower
	// index must win.
	got := in.Evaluate([][3]float64{{1.5, 1.5, 0.5}})[0]
	want := vol.At(1, 1, 0)
	if got != want {
		t.Errorf("tie at (1.5,1.5,0.5): got %f, want %f", got, want)
	}

	// Just above halfway rounds up.
	got = in.Evaluate([][3]float64{{1.501, 0, 0}})[0]
	if want := vol.At(2, 0, 0); got != want {
		t.Errorf("(1.501,0,0): got %f, want %f", got, want)
	}
}

func TestTrilinearMidpoints(t *testing.T) {
	vol := testVolume(t)
	in := NewInterpolator(vol, Linear)

	// The field i + 10j + 100k is linear, so trilinear interpolation
	// reproduces it exactly at any interior point.
	cases := []struct {
		p    [3]float64
		want float64
	}{
		{[3]float64{0.5, 0, 0}, 0.5},
		{[3]float64{1.25, 2, 1}, 121.25},
		{[3]float64{0.5, 0.5, 0.5}, 55.5},
		{[3]float64{2.75, 1.5, 0.25}, 42.75},
	}
	for _, tc := range cases {
		got := in.Evaluate([][3]float64{tc.p})[0]
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("linear at %v: got %f, want %f", tc.p, got, tc.want)
		}
	}
}

func TestTrilinearBoundaryFadesToZero(t *testing.T) {
	vol := testVolume(t)
	in := NewInterpolator(vol, Linear)

	// Half a cell past the last x node: half the edge value, blended
	// against the zero padding.
	got := in.Evaluate([][3]float64{{3.5, 0, 0}})[0]
	want := vol.At(3, 0, 0) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("boundary blend at (3.5,0,0): got %f, want %f", got, want)
	}
}

func TestEvaluateOrderPreserved(t *testing.T) {
	vol := testVolume(t)
	in := NewInterpolator(vol, Nearest)

	points := [][3]float64{{2, 0, 0}, {0, 1, 0}, {1, 2, 1}}
	got := in.Evaluate(points)
	want := []float64{2, 10, 121}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestParseMethod(t *testing.T) {
	cases := []struct {
		name string
		want Method
	}{
		{"nearest", Nearest},
		{"linear", Linear},
		{"Linear", Linear},
		{"NEAREST", Nearest},
	}
	for _, tc := range cases {
		got, err := ParseMethod(tc.name)
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	_, err := ParseMethod("cubic")
	if err == nil {
		t.Fatal("expected error for unsupported method")
	}
	var unsupported *UnsupportedInterpolationMethodError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedInterpolationMethodError, got %T", err)
	}
	if unsupported.Method != "cubic" {
		t.Errorf("error should carry the offending name, got %q", unsupported.Method)
	}
}
