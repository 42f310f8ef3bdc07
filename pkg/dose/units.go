package dose

import (
	"fmt"
	"strings"
)

// Units is the dose unit of a grid or a requested profile.
type Units int

const (
	// GY is absolute dose in gray.
	GY Units = iota

	// CGY is absolute dose in centigray.
	CGY

	// Relative is relative dose. A relative grid carries no absolute
	// scale, so profile extraction from it is unsupported.
	Relative
)

func (u Units) String() string {
	switch u {
	case GY:
		return "Gy"
	case CGY:
		return "cGy"
	case Relative:
		return "RELATIVE"
	default:
		return fmt.Sprintf("Units(%d)", int(u))
	}
}

// UnsupportedDoseUnitError reports a grid whose native unit cannot be
// converted to any absolute dose unit.
type UnsupportedDoseUnitError struct {
	Units string
}

func (e *UnsupportedDoseUnitError) Error() string {
	return fmt.Sprintf("dose units == %q, relative dose not supported", e.Units)
}

// InvalidDoseUnitError reports a dose unit string or conversion that the
// pipeline does not recognize. Units are never silently coerced.
type InvalidDoseUnitError struct {
	Units string
}

func (e *InvalidDoseUnitError) Error() string {
	return fmt.Sprintf("invalid dose units %q", e.Units)
}

// ParseUnits resolves the unit string of a dose grid (the DoseUnits value
// of an RTDOSE dataset, e.g. "GY" or "RELATIVE") case-insensitively.
func ParseUnits(s string) (Units, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GY":
		return GY, nil
	case "CGY":
		return CGY, nil
	case "RELATIVE":
		return Relative, nil
	default:
		return 0, &InvalidDoseUnitError{Units: s}
	}
}

// ConvertFactor returns the multiplicative factor taking dose values from
// the grid's native unit to the requested unit. A Relative native unit is
// an *UnsupportedDoseUnitError regardless of the requested unit; a
// Relative requested unit over an absolute grid is an
// *InvalidDoseUnitError.
func ConvertFactor(native, requested Units) (float64, error) {
	if native == Relative {
		return 0, &UnsupportedDoseUnitError{Units: native.String()}
	}
	if requested == Relative {
		return 0, &InvalidDoseUnitError{Units: requested.String()}
	}

	switch {
	case native == requested:
		return 1, nil
	case native == GY && requested == CGY:
		return 100, nil
	case native == CGY && requested == GY:
		return 0.01, nil
	default:
		return 0, &InvalidDoseUnitError{Units: fmt.Sprintf("%s -> %s", native, requested)}
	}
}
