// Package dose wraps a scaled 3-D dose array together with the affine
// transform between its voxel indices and patient space, and answers
// interpolated dose queries at arbitrary patient-space points.
package dose

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"doseprofiler/pkg/geometry"
	"doseprofiler/pkg/interpolation"
)

// Metadata is the fully resolved geometry of a dose grid, as supplied by
// a dataset-reading adapter. Field names follow the volumetric-image
// attributes they are read from.
type Metadata struct {
	// ImagePositionPatient is the patient-space position of voxel (0,0,0),
	// 3 values.
	ImagePositionPatient []float64

	// ImageOrientationPatient holds the row direction cosines followed by
	// the column direction cosines, 6 values.
	ImageOrientationPatient []float64

	// PixelSpacing is the row spacing then the column spacing, in mm.
	PixelSpacing []float64

	// SliceThickness is the through-slice spacing in mm.
	SliceThickness float64

	// GridScaling converts stored voxel intensities to dose values.
	GridScaling float64

	// DoseUnits is the native unit string of the grid, e.g. "GY".
	DoseUnits string

	// Voxels is the raw stored intensity array, index i fastest, with
	// i = column, j = row, k = frame.
	Voxels []float64

	// Columns, Rows and Frames are the grid shape along i, j and k.
	Columns, Rows, Frames int
}

// MissingGridMetadataError reports a required geometry field that the
// dataset did not supply.
type MissingGridMetadataError struct {
	Field string

	// Detail distinguishes absent from malformed, e.g. a position with
	// the wrong number of values.
	Detail string
}

func (e *MissingGridMetadataError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("dose grid metadata %s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("dose grid metadata %s is missing", e.Field)
}

// Grid is an immutable dose grid in patient space. The only mutable state
// is the lazily built interpolator, which is invalidated when the
// interpolation method changes and rebuilt on the next query under a
// single-writer lock.
type Grid struct {
	voxels         *interpolation.Volume
	units          Units
	indexToPatient *mat.Dense
	patientToIndex *mat.Dense

	mu     sync.Mutex
	method interpolation.Method
	interp *interpolation.Interpolator
}

// NewGrid validates the metadata, scales the voxel array by the grid
// scaling factor and memoizes both transform directions. Any absent or
// malformed geometry field is a *MissingGridMetadataError; orientation
// vectors that cannot produce an invertible transform are a
// *geometry.DegenerateGeometryError. The interpolation method defaults
// to Linear.
func NewGrid(meta Metadata) (*Grid, error) {
	if err := validate(meta); err != nil {
		return nil, err
	}

	scaled := make([]float64, len(meta.Voxels))
	for i, v := range meta.Voxels {
		scaled[i] = v * meta.GridScaling
	}
	vol, err := interpolation.NewVolume(scaled, meta.Columns, meta.Rows, meta.Frames)
	if err != nil {
		return nil, err
	}

	units, err := ParseUnits(meta.DoseUnits)
	if err != nil {
		return nil, err
	}

	position := geometry.Vec3{meta.ImagePositionPatient[0], meta.ImagePositionPatient[1], meta.ImagePositionPatient[2]}
	rowAxis := geometry.Vec3{meta.ImageOrientationPatient[0], meta.ImageOrientationPatient[1], meta.ImageOrientationPatient[2]}
	columnAxis := geometry.Vec3{meta.ImageOrientationPatient[3], meta.ImageOrientationPatient[4], meta.ImageOrientationPatient[5]}

	forward, err := geometry.IndexToPatient(position, rowAxis, columnAxis,
		meta.PixelSpacing[0], meta.PixelSpacing[1], meta.SliceThickness)
	if err != nil {
		return nil, err
	}
	inverse, err := geometry.Invert(forward)
	if err != nil {
		return nil, err
	}

	return &Grid{
		voxels:         vol,
		units:          units,
		indexToPatient: forward,
		patientToIndex: inverse,
		method:         interpolation.Linear,
	}, nil
}

func validate(meta Metadata) error {
	if len(meta.ImagePositionPatient) != 3 {
		return missing("ImagePositionPatient", len(meta.ImagePositionPatient), 3)
	}
	if len(meta.ImageOrientationPatient) != 6 {
		return missing("ImageOrientationPatient", len(meta.ImageOrientationPatient), 6)
	}
	if len(meta.PixelSpacing) != 2 {
		return missing("PixelSpacing", len(meta.PixelSpacing), 2)
	}
	if meta.SliceThickness == 0 {
		return &MissingGridMetadataError{Field: "SliceThickness"}
	}
	if meta.GridScaling == 0 {
		return &MissingGridMetadataError{Field: "DoseGridScaling"}
	}
	if meta.DoseUnits == "" {
		return &MissingGridMetadataError{Field: "DoseUnits"}
	}
	if len(meta.Voxels) == 0 {
		return &MissingGridMetadataError{Field: "PixelData"}
	}
	return nil
}

func missing(field string, got, want int) error {
	if got == 0 {
		return &MissingGridMetadataError{Field: field}
	}
	return &MissingGridMetadataError{
		Field:  field,
		Detail: fmt.Sprintf("expected %d values, got %d", want, got),
	}
}

// SetInterpolationMethod switches the interpolation kernel. Changing the
// method invalidates the cached interpolator; the next evaluation rebuilds
// it lazily.
func (g *Grid) SetInterpolationMethod(method interpolation.Method) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if method != g.method {
		g.method = method
		g.interp = nil
	}
}

// InterpolationMethod returns the currently configured kernel.
func (g *Grid) InterpolationMethod() interpolation.Method {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.method
}

func (g *Grid) interpolator() *interpolation.Interpolator {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.interp == nil {
		g.interp = interpolation.NewInterpolator(g.voxels, g.method)
	}
	return g.interp
}

// EvaluatePatientPoints interpolates the dose at each patient-space point
// (grid-native mm) and returns the values in the same order. Points
// outside the scored volume read as 0.
func (g *Grid) EvaluatePatientPoints(points []geometry.Vec3) []float64 {
	indexPoints := make([][3]float64, len(points))
	for n, p := range points {
		indexPoints[n] = [3]float64(geometry.Apply(g.patientToIndex, p))
	}
	return g.interpolator().Evaluate(indexPoints)
}

// DoseArray returns the scaled dose volume. Callers must not modify it.
func (g *Grid) DoseArray() *interpolation.Volume {
	return g.voxels
}

// Units returns the grid's native dose unit.
func (g *Grid) Units() Units {
	return g.units
}

// IndexToPatient returns the voxel-index to patient-space transform.
// Callers must not modify the returned matrix.
func (g *Grid) IndexToPatient() *mat.Dense {
	return g.indexToPatient
}

// PatientToIndex returns the memoized patient-space to voxel-index
// transform. Callers must not modify the returned matrix.
func (g *Grid) PatientToIndex() *mat.Dense {
	return g.patientToIndex
}
