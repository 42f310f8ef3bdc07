// Package interpolation evaluates a 3-D scalar field defined on a regular
// grid at arbitrary, possibly fractional, index coordinates. Points
// outside the grid read as exactly 0 rather than failing: a dose profile
// that runs past the scored volume must report zero dose, not an error.
package interpolation

import (
	"fmt"
	"math"
	"strings"
)

// Method selects the interpolation kernel.
type Method int

const (
	// Nearest takes the value of the nearest integer index, with ties
	// broken toward the lower index.
	Nearest Method = iota

	// Linear is trilinear interpolation over the 8 surrounding grid nodes.
	Linear
)

func (m Method) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// methodNames maps accepted configuration strings to kernels.
var methodNames = map[string]Method{
	"nearest": Nearest,
	"linear":  Linear,
}

// UnsupportedInterpolationMethodError reports a configuration string that
// names no known interpolation kernel.
type UnsupportedInterpolationMethodError struct {
	Method    string
	Supported []string
}

func (e *UnsupportedInterpolationMethodError) Error() string {
	return fmt.Sprintf("interpolation method %q not supported, supported are %s",
		e.Method, strings.Join(e.Supported, " and "))
}

// ParseMethod resolves a configuration string to a Method,
// case-insensitively.
func ParseMethod(name string) (Method, error) {
	if m, ok := methodNames[strings.ToLower(name)]; ok {
		return m, nil
	}
	return 0, &UnsupportedInterpolationMethodError{
		Method:    name,
		Supported: []string{"nearest", "linear"},
	}
}

// Interpolator answers interpolated-value queries against a Volume with a
// fixed kernel. It holds no mutable state and is safe for concurrent use.
type Interpolator struct {
	vol    *Volume
	method Method
}

// NewInterpolator builds an interpolator over vol using the given kernel.
func NewInterpolator(vol *Volume, method Method) *Interpolator {
	return &Interpolator{vol: vol, method: method}
}

// Method returns the kernel this interpolator was built with.
func (in *Interpolator) Method() Method {
	return in.method
}

// Evaluate interpolates the volume at each index-space point and returns
// the values in the same order. Points outside the grid bounds yield 0.
func (in *Interpolator) Evaluate(points [][3]float64) []float64 {
	out := make([]float64, len(points))
	for n, p := range points {
		out[n] = in.evaluateOne(p[0], p[1], p[2])
	}
	return out
}

func (in *Interpolator) evaluateOne(x, y, z float64) float64 {
	nx, ny, nz := in.vol.Dims()

	// Anything more than one cell outside the grid cannot touch a stored
	// node under either kernel.
	if x < -1 || x > float64(nx) || y < -1 || y > float64(ny) || z < -1 || z > float64(nz) {
		return 0
	}

	switch in.method {
	case Nearest:
		// Ceil(v - 0.5) rounds half-integers toward the lower index.
		i := int(math.Ceil(x - 0.5))
		j := int(math.Ceil(y - 0.5))
		k := int(math.Ceil(z - 0.5))
		return in.vol.at0(i, j, k)

	case Linear:
		return in.trilinear(x, y, z)

	default:
		// Construction goes through ParseMethod or the Method constants,
		// so this is unreachable for any configured interpolator.
		return 0
	}
}

// trilinear blends the 8 grid nodes surrounding (x, y, z). Nodes lying
// outside the grid contribute 0, which makes the field continuous across
// the grid boundary down to the zero padding.
func (in *Interpolator) trilinear(x, y, z float64) float64 {
	i0 := int(math.Floor(x))
	j0 := int(math.Floor(y))
	k0 := int(math.Floor(z))

	fx := x - float64(i0)
	fy := y - float64(j0)
	fz := z - float64(k0)

	c000 := in.vol.at0(i0, j0, k0)
	c100 := in.vol.at0(i0+1, j0, k0)
	c010 := in.vol.at0(i0, j0+1, k0)
	c110 := in.vol.at0(i0+1, j0+1, k0)
	c001 := in.vol.at0(i0, j0, k0+1)
	c101 := in.vol.at0(i0+1, j0, k0+1)
	c011 := in.vol.at0(i0, j0+1, k0+1)
	c111 := in.vol.at0(i0+1, j0+1, k0+1)

	c00 := c000*(1-fx) + c100*fx
	c10 := c010*(1-fx) + c110*fx
	c01 := c001*(1-fx) + c101*fx
	c11 := c011*(1-fx) + c111*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy

	return c0*(1-fz) + c1*fz
}
