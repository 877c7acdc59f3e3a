package stream

// JPEG-LS marker constants (ITU-T T.87 uses the JPEG marker space)
const (
	// Start of Image
	MarkerSOI = 0xFFD8

	// End of Image
	MarkerEOI = 0xFFD9

	// Start of Frame, JPEG-LS (SOF55)
	MarkerSOF55 = 0xFFF7

	// JPEG-LS preset parameters
	MarkerLSE = 0xFFF8

	// Start of Scan
	MarkerSOS = 0xFFDA

	// Define Number of Lines
	MarkerDNL = 0xFFDC

	// Define Restart Interval
	MarkerDRI = 0xFFDD

	// Application segments
	MarkerAPP0  = 0xFFE0
	MarkerAPP15 = 0xFFEF

	// Comment
	MarkerCOM = 0xFFFE

	// Restart markers
	MarkerRST0 = 0xFFD0
	MarkerRST7 = 0xFFD7
)

// IsAPP returns true if the marker is an application segment marker
func IsAPP(marker uint16) bool {
	return marker >= MarkerAPP0 && marker <= MarkerAPP15
}

// IsRST returns true if the marker is a Restart marker
func IsRST(marker uint16) bool {
	return marker >= MarkerRST0 && marker <= MarkerRST7
}

// HasLength returns true if the marker is followed by a length field
func HasLength(marker uint16) bool {
	// Markers without length: SOI, EOI and RSTn
	if marker == MarkerSOI || marker == MarkerEOI {
		return false
	}
	return !IsRST(marker)
}
