// Package dicomrt resolves DICOM RTDOSE and RTPLAN datasets into the
// fully typed grid metadata and beam geometry the numeric core consumes.
// All dataset and file handling lives here; the core never resolves
// nested metadata paths itself.
package dicomrt

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Modality names used when selecting datasets from a folder.
const (
	ModalityRTDose = "RTDOSE"
	ModalityRTPlan = "RTPLAN"
)

// ParseFolder walks dir, parses every .dcm file and indexes the datasets
// by modality, skipping CT series. When a modality appears more than once
// the last file seen wins, matching a folder that holds one plan and one
// dose export.
func ParseFolder(dir string) (map[string]dicom.Dataset, error) {
	out := make(map[string]dicom.Dataset)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".dcm") {
			return nil
		}

		ds, err := dicom.ParseFile(path, nil)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		modality, err := elementString(&ds, tagModality)
		if err != nil {
			return fmt.Errorf("%s has no Modality: %w", path, err)
		}
		if modality != "CT" {
			out[modality] = ds
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// elementString reads a single-valued string attribute.
func elementString(ds *dicom.Dataset, t tag.Tag) (string, error) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return "", err
	}
	values, ok := el.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return "", fmt.Errorf("tag %v holds no string value", t)
	}
	return strings.TrimSpace(values[0]), nil
}

// elementFloats reads a numeric attribute as float64 values, covering the
// decimal-string, integer and float representations the parser produces.
func elementFloats(el *dicom.Element) ([]float64, error) {
	switch v := el.Value.GetValue().(type) {
	case []float64:
		return v, nil
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, nil
	case []string:
		out := make([]float64, 0, len(v))
		for _, s := range v {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("tag %v: invalid decimal string %q", el.Tag, s)
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tag %v holds no numeric value", el.Tag)
	}
}
