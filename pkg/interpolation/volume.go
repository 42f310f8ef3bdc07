package interpolation

import "fmt"

// Volume is a 3-D scalar field on a regular grid, stored as a flat array
// with index i fastest: value(i,j,k) = data[k*nx*ny + j*nx + i]. For dose
// grids read from volumetric datasets i is the column index, j the row
// index and k the frame index.
type Volume struct {
	data       []float64
	nx, ny, nz int
}

// NewVolume wraps data as an nx * ny * nz volume. The data length must
// match the shape exactly.
func NewVolume(data []float64, nx, ny, nz int) (*Volume, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("volume dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("volume data length %d does not match shape %dx%dx%d", len(data), nx, ny, nz)
	}
	return &Volume{data: data, nx: nx, ny: ny, nz: nz}, nil
}

// Dims returns the volume shape.
func (v *Volume) Dims() (nx, ny, nz int) {
	return v.nx, v.ny, v.nz
}

// At returns the stored value at integer indices. Indices must be in
// bounds; use the interpolator for arbitrary points.
func (v *Volume) At(i, j, k int) float64 {
	return v.data[k*v.nx*v.ny+j*v.nx+i]
}

// at0 returns the stored value at integer indices, with every index
// outside the grid reading as 0. The grid is treated as zero-padded to
// infinity.
func (v *Volume) at0(i, j, k int) float64 {
	if i < 0 || i >= v.nx || j < 0 || j >= v.ny || k < 0 || k >= v.nz {
		return 0
	}
	return v.data[k*v.nx*v.ny+j*v.nx+i]
}

// Data returns the underlying flat array. Callers must not modify it.
func (v *Volume) Data() []float64 {
	return v.data
}
