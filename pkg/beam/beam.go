// Package beam carries the delivery geometry of a treatment beam and
// derives the reference ("zero") point used to re-center reported profile
// coordinates.
package beam

import (
	"math"

	"doseprofiler/pkg/geometry"
)

// DerivationMode selects how the zero point is derived from the beam
// geometry.
type DerivationMode int

const (
	// InterceptCAXSurface derives the point where the beam's central axis
	// crosses the patient surface.
	InterceptCAXSurface DerivationMode = iota
)

// Geometry is the delivery geometry of a single beam, populated once by a
// plan-reading adapter. Nil fields were absent from the plan; a derivation
// that needs an absent field reports unavailability rather than guessing.
type Geometry struct {
	// Isocenter is the beam isocenter in patient space, mm.
	Isocenter *geometry.Vec3

	// GantryAngle is in degrees, measured in the plane orthogonal to the
	// patient's superior-inferior axis.
	GantryAngle *float64

	// SSD and SAD are the source-to-surface and source-to-axis distances
	// in mm.
	SSD *float64
	SAD *float64

	// MonitorUnits is the delivered meterset, used for per-MU
	// normalization of profiles.
	MonitorUnits *float64
}

// ZeroPoint derives the profile zero point for the given mode. The second
// return value is false when the mode is unknown or any required geometry
// parameter is absent; the caller decides whether that is fatal.
//
// InterceptCAXSurface assumes the gantry rotates in the x-y plane:
//
//	x0 = iso_x - (SSD - SAD) * sin(gantry)
//	y0 = iso_y + (SSD - SAD) * cos(gantry)
//	z0 = iso_z
func (g *Geometry) ZeroPoint(mode DerivationMode) (geometry.Vec3, bool) {
	if mode != InterceptCAXSurface {
		return geometry.Vec3{}, false
	}
	if g == nil || g.Isocenter == nil || g.GantryAngle == nil || g.SSD == nil || g.SAD == nil {
		return geometry.Vec3{}, false
	}

	iso := *g.Isocenter
	angle := *g.GantryAngle * math.Pi / 180
	depth := *g.SSD - *g.SAD

	return geometry.Vec3{
		iso[0] - depth*math.Sin(angle),
		iso[1] + depth*math.Cos(angle),
		iso[2],
	}, true
}
