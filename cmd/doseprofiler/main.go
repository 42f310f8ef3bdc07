package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "doseprofiler",
	Short: "Extract 1-D dose profiles from DICOM RTDOSE grids",
	Long: `doseprofiler extracts one-dimensional dose profiles from a 3-D
radiotherapy dose grid along arbitrary line segments in the patient
coordinate frame. It reads RTDOSE and RTPLAN datasets exported alongside
each other, re-centers profiles on the beam's CAX-surface intercept, and
writes the sampled profiles as CSV.`,
	Version: "1.0.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
