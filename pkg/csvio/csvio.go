// Package csvio reads profile segment definitions from CSV and writes
// extracted profiles in the tool's block format.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"doseprofiler/pkg/profile"
)

// ReadSegments parses segment definitions from r. The first skipRows rows
// are header rows. Each remaining row carries six values in the order
// z0, z1, x0, x1, y0, y1, in cm; empty trailing fields are ignored.
func ReadSegments(r io.Reader, delimiter rune, skipRows int) ([]profile.Segment, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var segments []profile.Segment
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading segment file: %w", err)
		}
		row++
		if row <= skipRows {
			continue
		}

		var values []float64
		for _, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("segment row %d: invalid value %q", row, field)
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		if len(values) != 6 {
			return nil, fmt.Errorf("segment row %d: expected 6 values (z0,z1,x0,x1,y0,y1), got %d", row, len(values))
		}

		z0, z1, x0, x1, y0, y1 := values[0], values[1], values[2], values[3], values[4], values[5]
		segments = append(segments, profile.Segment{
			P0: [3]float64{x0, y0, z0},
			P1: [3]float64{x1, y1, z1},
		})
	}

	return segments, nil
}

// WriteProfiles writes one labeled block per profile: a 1-based sequence
// number, the four-column header, one comma-delimited row per sample with
// values to 3 decimal places, then two blank lines. The dose column
// header reflects the profile's unit, with a "/MU" suffix when the values
// were normalized by monitor units.
func WriteProfiles(w io.Writer, profiles []*profile.Profile) error {
	for i, p := range profiles {
		units := p.Units.String()
		if p.PerMonitorUnit {
			units += "/MU"
		}

		if _, err := fmt.Fprintf(w, "%d\n", i+1); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Crossline (X),Inline (Z),Depth (Y),Dose (%s)\n", units); err != nil {
			return err
		}
		for _, s := range p.Samples {
			if _, err := fmt.Fprintf(w, "%.3f,%.3f,%.3f,%.3f\n", s.X, s.Y, s.Z, s.Dose); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "\n\n"); err != nil {
			return err
		}
	}
	return nil
}
