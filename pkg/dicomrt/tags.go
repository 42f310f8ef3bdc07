package dicomrt

import "github.com/suyashkumar/dicom/pkg/tag"

// Attribute tags read by the adapter, named per the DICOM data dictionary.
var (
	tagModality = tag.Tag{Group: 0x0008, Element: 0x0060}

	// RTDOSE grid geometry
	tagSliceThickness          = tag.Tag{Group: 0x0018, Element: 0x0050}
	tagImagePositionPatient    = tag.Tag{Group: 0x0020, Element: 0x0032}
	tagImageOrientationPatient = tag.Tag{Group: 0x0020, Element: 0x0037}
	tagPixelSpacing            = tag.Tag{Group: 0x0028, Element: 0x0030}
	tagDoseUnits               = tag.Tag{Group: 0x3004, Element: 0x0002}
	tagDoseGridScaling         = tag.Tag{Group: 0x3004, Element: 0x000E}

	// RTPLAN beam parameters (first beam, first control point)
	tagSourceAxisDistance            = tag.Tag{Group: 0x300A, Element: 0x00B4}
	tagFinalCumulativeMetersetWeight = tag.Tag{Group: 0x300A, Element: 0x010E}
	tagGantryAngle                   = tag.Tag{Group: 0x300A, Element: 0x011E}
	tagIsocenterPosition             = tag.Tag{Group: 0x300A, Element: 0x012C}
	tagSourceToSurfaceDistance       = tag.Tag{Group: 0x300A, Element: 0x0130}
)
