// Package geometry provides the affine transform between the voxel-index
// coordinate frame of a dose grid and the patient coordinate frame, along
// with the small vector arithmetic the rest of the pipeline needs.
package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// crossNormEps is the smallest acceptable norm for the through-slice
// direction. Below this the in-plane orientation vectors are treated as
// linearly dependent.
const crossNormEps = 1e-9

// DegenerateGeometryError reports grid orientation metadata that cannot
// produce an invertible index-to-patient transform.
type DegenerateGeometryError struct {
	// RowAxis and ColumnAxis are the in-plane direction vectors that were
	// provided, when the degeneracy was detected at construction time.
	RowAxis    Vec3
	ColumnAxis Vec3

	// Reason describes what made the transform unusable.
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate grid geometry: %s (row axis %v, column axis %v)",
		e.Reason, e.RowAxis, e.ColumnAxis)
}

// IndexToPatient builds the 4x4 homogeneous matrix T such that
// T * (i, j, k, 1)^t = (x, y, z, 1)^t, mapping voxel indices to patient
// coordinates. This is the standard construction for regularly spaced
// volumetric data (DICOM PS3.3 equation C.7.6.2.1-1): index i advances
// along the row direction by the column spacing, index j advances along
// the column direction by the row spacing, and index k advances along the
// cross product of the two by the slice thickness.
//
// position is the patient-space location of voxel (0,0,0). rowAxis and
// columnAxis are the two orientation unit vectors of a slice. If they are
// not linearly independent the through-slice direction degenerates and a
// *DegenerateGeometryError is returned.
func IndexToPatient(position, rowAxis, columnAxis Vec3, rowSpacing, columnSpacing, sliceThickness float64) (*mat.Dense, error) {
	sliceAxis := rowAxis.Cross(columnAxis)
	if sliceAxis.Norm() < crossNormEps {
		return nil, &DegenerateGeometryError{
			RowAxis:    rowAxis,
			ColumnAxis: columnAxis,
			Reason:     "orientation vectors are not linearly independent",
		}
	}

	t := mat.NewDense(4, 4, []float64{
		rowAxis[0] * columnSpacing, columnAxis[0] * rowSpacing, sliceAxis[0] * sliceThickness, position[0],
		rowAxis[1] * columnSpacing, columnAxis[1] * rowSpacing, sliceAxis[1] * sliceThickness, position[1],
		rowAxis[2] * columnSpacing, columnAxis[2] * rowSpacing, sliceAxis[2] * sliceThickness, position[2],
		0, 0, 0, 1,
	})

	return t, nil
}

// Invert returns the inverse of a 4x4 homogeneous transform. A singular
// matrix is reported as a *DegenerateGeometryError; callers that built the
// transform through IndexToPatient should never see one unless a spacing
// or thickness of zero slipped through.
func Invert(t *mat.Dense) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(t); err != nil {
		return nil, &DegenerateGeometryError{Reason: fmt.Sprintf("transform is not invertible: %v", err)}
	}
	return &inv, nil
}

// Apply transforms the point p through the 4x4 homogeneous matrix t.
func Apply(t *mat.Dense, p Vec3) Vec3 {
	var out Vec3
	for r := 0; r < 3; r++ {
		out[r] = t.At(r, 0)*p[0] + t.At(r, 1)*p[1] + t.At(r, 2)*p[2] + t.At(r, 3)
	}
	return out
}
