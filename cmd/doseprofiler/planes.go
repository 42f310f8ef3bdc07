package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"doseprofiler/pkg/visualization"
)

var planesCmd = &cobra.Command{
	Use:   "planes",
	Short: "Export dose grid planes as grayscale images",
	Long:  "Extract every plane of the dose grid along the requested axes and save them as PNG images, scaled to the maximum dose.",
	RunE:  runPlanes,
}

var planesFlags struct {
	dicomDir  string
	outputDir string
	axes      []string
}

func init() {
	f := planesCmd.Flags()
	f.StringVar(&planesFlags.dicomDir, "dicom", "", "Directory containing the RTDOSE and RTPLAN .dcm files")
	f.StringVar(&planesFlags.outputDir, "out", "dose_planes", "Directory to save the plane images")
	f.StringSliceVar(&planesFlags.axes, "axes", []string{"x", "y", "z"}, "Axes to export planes along")
	planesCmd.MarkFlagRequired("dicom")
	rootCmd.AddCommand(planesCmd)
}

func runPlanes(cmd *cobra.Command, args []string) error {
	grid, _, err := loadDatasets(planesFlags.dicomDir)
	if err != nil {
		return err
	}

	viewer := visualization.NewViewer(grid.DoseArray())
	for _, axis := range planesFlags.axes {
		axisDir := filepath.Join(planesFlags.outputDir, axis)
		fmt.Printf("Saving %s-axis planes to: %s\n", axis, axisDir)
		if err := viewer.SavePlaneSequence(axis, axisDir); err != nil {
			return fmt.Errorf("saving %s-axis planes: %w", axis, err)
		}
	}

	fmt.Println("Plane export completed")
	return nil
}
