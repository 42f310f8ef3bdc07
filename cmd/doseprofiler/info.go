package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"doseprofiler/pkg/beam"
	"doseprofiler/pkg/geometry"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display dose grid and beam geometry information",
	Long:  "Show the dose grid shape, units and index-to-patient transform, the plan's beam parameters, and the derived zero point.",
	RunE:  runInfo,
}

var infoDicomDir string

func init() {
	infoCmd.Flags().StringVar(&infoDicomDir, "dicom", "", "Directory containing the RTDOSE and RTPLAN .dcm files")
	infoCmd.MarkFlagRequired("dicom")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	grid, beamGeometry, err := loadDatasets(infoDicomDir)
	if err != nil {
		return err
	}

	nx, ny, nz := grid.DoseArray().Dims()
	fmt.Println("Dose Grid")
	fmt.Println("=========")
	fmt.Printf("Shape: %dx%dx%d voxels\n", nx, ny, nz)
	fmt.Printf("Units: %s\n", grid.Units())
	fmt.Printf("Interpolation: %s\n\n", grid.InterpolationMethod())

	fmt.Println("Index-to-patient transform:")
	t := grid.IndexToPatient()
	for r := 0; r < 4; r++ {
		fmt.Printf("  [%10.4f %10.4f %10.4f %10.4f]\n", t.At(r, 0), t.At(r, 1), t.At(r, 2), t.At(r, 3))
	}
	fmt.Println()

	fmt.Println("Beam Geometry")
	fmt.Println("=============")
	printOptionalPoint("Isocenter (mm)", beamGeometry.Isocenter)
	printOptional("Gantry angle (deg)", beamGeometry.GantryAngle)
	printOptional("SSD (mm)", beamGeometry.SSD)
	printOptional("SAD (mm)", beamGeometry.SAD)
	printOptional("Monitor units", beamGeometry.MonitorUnits)
	fmt.Println()

	if zp, ok := beamGeometry.ZeroPoint(beam.InterceptCAXSurface); ok {
		fmt.Printf("CAX-surface intercept: (%.3f, %.3f, %.3f) mm\n", zp[0], zp[1], zp[2])
	} else {
		fmt.Println("CAX-surface intercept: unavailable (missing beam parameters)")
	}

	return nil
}

func printOptional(label string, v *float64) {
	if v == nil {
		fmt.Printf("%s: not in plan\n", label)
		return
	}
	fmt.Printf("%s: %.3f\n", label, *v)
}

func printOptionalPoint(label string, p *geometry.Vec3) {
	if p == nil {
		fmt.Printf("%s: not in plan\n", label)
		return
	}
	fmt.Printf("%s: (%.3f, %.3f, %.3f)\n", label, p[0], p[1], p[2])
}
