package dicomrt

import (
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"doseprofiler/pkg/beam"
	"doseprofiler/pkg/geometry"
)

// ReadBeamGeometry extracts the delivery geometry of the first beam (and
// its first control point) from an RTPLAN dataset. Attributes live nested
// in the plan's beam and control-point sequences; a depth-first search
// finds the first occurrence of each, which matches the first-beam
// convention. Absent attributes leave the corresponding field nil, so
// downstream derivations report unavailability instead of guessing.
func ReadBeamGeometry(ds dicom.Dataset) beam.Geometry {
	var g beam.Geometry

	if iso := nestedFloats(&ds, tagIsocenterPosition); len(iso) == 3 {
		g.Isocenter = &geometry.Vec3{iso[0], iso[1], iso[2]}
	}
	g.GantryAngle = nestedScalar(&ds, tagGantryAngle)
	g.SSD = nestedScalar(&ds, tagSourceToSurfaceDistance)
	g.SAD = nestedScalar(&ds, tagSourceAxisDistance)
	g.MonitorUnits = nestedScalar(&ds, tagFinalCumulativeMetersetWeight)

	return g
}

func nestedFloats(ds *dicom.Dataset, t tag.Tag) []float64 {
	el, err := ds.FindElementByTagNested(t)
	if err != nil {
		return nil
	}
	values, err := elementFloats(el)
	if err != nil {
		return nil
	}
	return values
}

func nestedScalar(ds *dicom.Dataset, t tag.Tag) *float64 {
	values := nestedFloats(ds, t)
	if len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
