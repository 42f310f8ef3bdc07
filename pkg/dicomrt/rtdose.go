package dicomrt

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"doseprofiler/pkg/dose"
)

// ReadDoseGrid extracts the grid geometry and voxel data of an RTDOSE
// dataset. Absent attributes are left at their zero value; presence is
// validated by dose.NewGrid, which reports the first missing field.
func ReadDoseGrid(ds dicom.Dataset) (dose.Metadata, error) {
	var meta dose.Metadata

	meta.ImagePositionPatient = floatsOrNil(&ds, tagImagePositionPatient)
	meta.ImageOrientationPatient = floatsOrNil(&ds, tagImageOrientationPatient)
	meta.PixelSpacing = floatsOrNil(&ds, tagPixelSpacing)
	meta.SliceThickness = firstOrZero(floatsOrNil(&ds, tagSliceThickness))
	meta.GridScaling = firstOrZero(floatsOrNil(&ds, tagDoseGridScaling))
	if units, err := elementString(&ds, tagDoseUnits); err == nil {
		meta.DoseUnits = units
	}

	voxels, cols, rows, frames, err := readPixelData(&ds)
	if err != nil {
		return dose.Metadata{}, err
	}
	meta.Voxels = voxels
	meta.Columns = cols
	meta.Rows = rows
	meta.Frames = frames

	return meta, nil
}

// readPixelData flattens the multi-frame dose array into index order
// (i fastest, i = column, j = row, k = frame). Frame f at row-major pixel
// p lands at f*rows*cols + p, which is exactly that layout.
func readPixelData(ds *dicom.Dataset) ([]float64, int, int, int, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		// Leave voxels empty; grid construction reports the field.
		return nil, 0, 0, 0, nil
	}

	info := dicom.MustGetPixelDataInfo(el.Value)
	if len(info.Frames) == 0 {
		return nil, 0, 0, 0, nil
	}

	first, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("reading dose pixel data: %w", err)
	}
	rows, cols := first.Rows, first.Cols
	frames := len(info.Frames)

	voxels := make([]float64, cols*rows*frames)
	for k := range info.Frames {
		native, err := info.Frames[k].GetNativeFrame()
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("reading dose frame %d: %w", k, err)
		}
		if len(native.Data) != rows*cols {
			return nil, 0, 0, 0, fmt.Errorf("dose frame %d has %d pixels, expected %d", k, len(native.Data), rows*cols)
		}
		base := k * rows * cols
		for p, px := range native.Data {
			voxels[base+p] = float64(px[0])
		}
	}

	return voxels, cols, rows, frames, nil
}

func floatsOrNil(ds *dicom.Dataset, t tag.Tag) []float64 {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil
	}
	values, err := elementFloats(el)
	if err != nil {
		return nil
	}
	return values
}

func firstOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}
