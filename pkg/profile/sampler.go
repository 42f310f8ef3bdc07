// Package profile extracts one-dimensional dose profiles from a dose grid
// along arbitrary line segments. The outward-facing API accepts endpoints
// and spacing in centimeters and converts to the grid's native millimeter
// scale internally; reported coordinates come back in centimeters,
// relative to the profile's zero point.
package profile

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"doseprofiler/pkg/beam"
	"doseprofiler/pkg/dose"
	"doseprofiler/pkg/geometry"
)

// cmToMM converts the outward-facing centimeter convention to the grid's
// native millimeter scale.
const cmToMM = 10.0

// Sample is one profile point: coordinates in cm relative to the zero
// point, dose absolute in the requested unit.
type Sample struct {
	X, Y, Z float64
	Dose    float64
}

// Profile is an ordered sequence of samples along one line segment.
type Profile struct {
	Samples []Sample

	// Units is the dose unit the samples were converted to.
	Units dose.Units

	// PerMonitorUnit is true when the dose values were divided by the
	// beam's monitor units. Normalization that was requested but could
	// not be applied (no monitor units in the plan) leaves this false.
	PerMonitorUnit bool
}

// ZeroPointMode selects how the profile's zero point is resolved.
type ZeroPointMode int

const (
	// ZeroPointOrigin applies no offset.
	ZeroPointOrigin ZeroPointMode = iota

	// ZeroPointDerived derives the CAX-surface intercept from the beam
	// geometry. Sampling fails if the beam cannot supply it.
	ZeroPointDerived

	// ZeroPointExplicit uses Request.ZeroPoint as given.
	ZeroPointExplicit
)

// Request describes one profile extraction.
type Request struct {
	// P0 and P1 are the segment endpoints in cm, 3 values each.
	P0, P1 []float64

	// Spacing is the requested sample spacing in cm. The sample count is
	// floor(distance/spacing) + 1, so both endpoints are always included
	// and the actual spacing is never coarser than requested.
	Spacing float64

	// Units is the dose unit to convert samples to.
	Units dose.Units

	// NormalizeByMonitorUnits divides dose values by the beam's monitor
	// units when they are available.
	NormalizeByMonitorUnits bool

	// ZeroPointMode selects the zero-point resolution; ZeroPoint is the
	// explicit point (grid-native mm) used with ZeroPointExplicit.
	ZeroPointMode ZeroPointMode
	ZeroPoint     geometry.Vec3
}

// DimensionMismatchError reports segment endpoints that are not both
// 3-dimensional.
type DimensionMismatchError struct {
	P0Len, P1Len int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("profile endpoints must both be 3-dimensional, got %d and %d", e.P0Len, e.P1Len)
}

// ErrZeroPointUnavailable is returned when zero-point derivation is
// requested but the beam geometry cannot supply it. Sampling never
// silently falls back to the origin.
var ErrZeroPointUnavailable = errors.New("zero point unavailable: beam isocenter, gantry angle, SSD and SAD are required")

// Sampler extracts profiles from one dose grid, optionally using one
// beam's geometry for zero-point derivation and monitor-unit
// normalization. It holds no state across calls: each Sample invocation
// is a pure function of the request and the (immutable) grid and beam.
type Sampler struct {
	Grid *dose.Grid
	Beam *beam.Geometry
}

// NewSampler returns a sampler over grid and b. b may be nil when no
// zero-point derivation or monitor-unit normalization will be requested.
func NewSampler(grid *dose.Grid, b *beam.Geometry) *Sampler {
	return &Sampler{Grid: grid, Beam: b}
}

// Sample extracts one profile along the segment described by req.
func (s *Sampler) Sample(req Request) (*Profile, error) {
	if len(req.P0) != 3 || len(req.P1) != 3 {
		return nil, &DimensionMismatchError{P0Len: len(req.P0), P1Len: len(req.P1)}
	}
	if req.Spacing <= 0 {
		return nil, fmt.Errorf("sample spacing must be positive, got %g", req.Spacing)
	}

	zeroPoint, err := s.resolveZeroPoint(req)
	if err != nil {
		return nil, err
	}

	// Unit conversion is resolved before any grid work so an unsupported
	// unit fails without producing a partial profile.
	factor, err := dose.ConvertFactor(s.Grid.Units(), req.Units)
	if err != nil {
		return nil, err
	}
	perMU := false
	if req.NormalizeByMonitorUnits && s.Beam != nil && s.Beam.MonitorUnits != nil {
		factor /= *s.Beam.MonitorUnits
		perMU = true
	}

	// Shift the cm endpoints into grid-native mm, offset by the zero
	// point.
	p0 := geometry.Vec3{req.P0[0], req.P0[1], req.P0[2]}.Scale(cmToMM).Add(zeroPoint)
	p1 := geometry.Vec3{req.P1[0], req.P1[1], req.P1[2]}.Scale(cmToMM).Add(zeroPoint)
	spacing := req.Spacing * cmToMM

	points := linePoints(p0, p1, spacing)
	doses := s.Grid.EvaluatePatientPoints(points)

	samples := make([]Sample, len(points))
	for n, p := range points {
		rel := p.Sub(zeroPoint).Scale(1 / cmToMM)
		samples[n] = Sample{X: rel[0], Y: rel[1], Z: rel[2], Dose: doses[n] * factor}
	}

	return &Profile{Samples: samples, Units: req.Units, PerMonitorUnit: perMU}, nil
}

func (s *Sampler) resolveZeroPoint(req Request) (geometry.Vec3, error) {
	switch req.ZeroPointMode {
	case ZeroPointOrigin:
		return geometry.Vec3{}, nil
	case ZeroPointExplicit:
		return req.ZeroPoint, nil
	case ZeroPointDerived:
		zp, ok := s.Beam.ZeroPoint(beam.InterceptCAXSurface)
		if !ok {
			return geometry.Vec3{}, ErrZeroPointUnavailable
		}
		return zp, nil
	default:
		return geometry.Vec3{}, fmt.Errorf("unknown zero point mode %d", req.ZeroPointMode)
	}
}

// linePoints generates floor(dist/spacing)+1 evenly spaced points from p0
// to p1 inclusive of both ends. When spacing does not evenly divide the
// distance this yields a finer actual spacing than requested, never a
// coarser one.
func linePoints(p0, p1 geometry.Vec3, spacing float64) []geometry.Vec3 {
	dist := p0.Dist(p1)
	n := int(math.Floor(dist/spacing)) + 1
	if n < 2 {
		return []geometry.Vec3{p0}
	}

	xs := floats.Span(make([]float64, n), p0[0], p1[0])
	ys := floats.Span(make([]float64, n), p0[1], p1[1])
	zs := floats.Span(make([]float64, n), p0[2], p1[2])

	points := make([]geometry.Vec3, n)
	for i := range points {
		points[i] = geometry.Vec3{xs[i], ys[i], zs[i]}
	}
	return points
}
