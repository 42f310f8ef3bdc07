package main

import (
	"fmt"
	"strconv"
	"strings"

	"doseprofiler/pkg/beam"
	"doseprofiler/pkg/dicomrt"
	"doseprofiler/pkg/dose"
	"doseprofiler/pkg/geometry"
	"doseprofiler/pkg/profile"
)

// loadDatasets parses a DICOM folder and resolves the dose grid and beam
// geometry the extraction needs. Both RTDOSE and RTPLAN must be present.
func loadDatasets(dir string) (*dose.Grid, beam.Geometry, error) {
	datasets, err := dicomrt.ParseFolder(dir)
	if err != nil {
		return nil, beam.Geometry{}, err
	}

	doseDS, ok := datasets[dicomrt.ModalityRTDose]
	if !ok {
		return nil, beam.Geometry{}, fmt.Errorf("no RTDOSE dataset found in %s", dir)
	}
	planDS, ok := datasets[dicomrt.ModalityRTPlan]
	if !ok {
		return nil, beam.Geometry{}, fmt.Errorf("no RTPLAN dataset found in %s", dir)
	}

	meta, err := dicomrt.ReadDoseGrid(doseDS)
	if err != nil {
		return nil, beam.Geometry{}, err
	}
	grid, err := dose.NewGrid(meta)
	if err != nil {
		return nil, beam.Geometry{}, err
	}

	return grid, dicomrt.ReadBeamGeometry(planDS), nil
}

// parseZeroPoint resolves the zero-point configuration string: "default"
// derives the CAX-surface intercept, "origin" or "none" applies no
// offset, and "x,y,z" is an explicit point in mm.
func parseZeroPoint(value string) (profile.ZeroPointMode, geometry.Vec3, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "default", "":
		return profile.ZeroPointDerived, geometry.Vec3{}, nil
	case "origin", "none":
		return profile.ZeroPointOrigin, geometry.Vec3{}, nil
	}

	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return 0, geometry.Vec3{}, fmt.Errorf("zero point must be \"default\", \"origin\" or \"x,y,z\", got %q", value)
	}
	var point geometry.Vec3
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, geometry.Vec3{}, fmt.Errorf("invalid zero point coordinate %q", part)
		}
		point[i] = v
	}
	return profile.ZeroPointExplicit, point, nil
}
