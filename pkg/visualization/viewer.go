// Package visualization renders orthogonal planes of a dose grid as
// grayscale images for diagnostic display. Intensities are scaled to the
// grid's maximum dose so the hottest voxel maps to white.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"doseprofiler/pkg/interpolation"
)

// Viewer extracts 2-D planes from a 3-D dose volume.
type Viewer struct {
	vol *interpolation.Volume

	// maxDose is the normalization reference; zero for an all-zero grid.
	maxDose float64
}

// NewViewer creates a viewer over the scaled dose volume.
func NewViewer(vol *interpolation.Volume) *Viewer {
	max := 0.0
	for _, v := range vol.Data() {
		if v > max {
			max = v
		}
	}
	return &Viewer{vol: vol, maxDose: max}
}

// ExtractPlane extracts the 2-D dose plane orthogonal to the given axis
// ("x", "y" or "z") at the given index position.
func (v *Viewer) ExtractPlane(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	nx, ny, nz := v.vol.Dims()
	var img *image.Gray16

	switch axis {
	case "x", "X":
		if position >= nx {
			return nil, fmt.Errorf("position %d exceeds grid extent %d along x", position, nx)
		}
		img = image.NewGray16(image.Rect(0, 0, nz, ny))
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				img.SetGray16(k, j, v.gray(v.vol.At(position, j, k)))
			}
		}

	case "y", "Y":
		if position >= ny {
			return nil, fmt.Errorf("position %d exceeds grid extent %d along y", position, ny)
		}
		img = image.NewGray16(image.Rect(0, 0, nx, nz))
		for k := 0; k < nz; k++ {
			for i := 0; i < nx; i++ {
				img.SetGray16(i, k, v.gray(v.vol.At(i, position, k)))
			}
		}

	case "z", "Z":
		if position >= nz {
			return nil, fmt.Errorf("position %d exceeds grid extent %d along z", position, nz)
		}
		img = image.NewGray16(image.Rect(0, 0, nx, ny))
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				img.SetGray16(i, j, v.gray(v.vol.At(i, j, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

func (v *Viewer) gray(dose float64) color.Gray16 {
	if v.maxDose <= 0 || dose <= 0 {
		return color.Gray16{}
	}
	scaled := dose / v.maxDose * 65535
	if scaled > 65535 {
		scaled = 65535
	}
	return color.Gray16{Y: uint16(scaled)}
}

// SavePlane saves an extracted plane as a PNG image.
func (v *Viewer) SavePlane(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SavePlaneSequence extracts and saves every plane along the specified
// axis into outputDir.
func (v *Viewer) SavePlaneSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	nx, ny, nz := v.vol.Dims()
	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = nx
	case "y", "Y":
		maxPos = ny
	case "z", "Z":
		maxPos = nz
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractPlane(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("plane_%s_%03d.png", axis, pos))
		if err := v.SavePlane(img, filename); err != nil {
			return err
		}
	}

	return nil
}
