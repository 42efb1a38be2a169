// Package exchange implements the ETSI-derived message model: the
// Exchange envelope, its Message variants (CAM, DENM, CPM, MAPEM, SPATEM,
// INFO), and the Content/Mobile/Mortal capability views over them.
package exchange

import "math"

// ETSI wire values are fixed-point integers scaled per the ETSI ITS
// specifications; these helpers convert them to/from the SI units used
// internally (radians, meters, m/s, m/s²).

// CoordinateFromETSI converts a 1e-7 degree fixed-point coordinate to radians.
func CoordinateFromETSI(v int32) float64 {
	return float64(v) * 1e-7 * math.Pi / 180
}

// CoordinateToETSI converts a coordinate in radians to a 1e-7 degree
// fixed-point integer.
func CoordinateToETSI(rad float64) int32 {
	return int32(math.Round(rad * 180 / math.Pi * 1e7))
}

// AltitudeFromETSI converts centimeters to meters.
func AltitudeFromETSI(cm int32) float64 {
	return float64(cm) / 100
}

// AltitudeToETSI converts meters to centimeters.
func AltitudeToETSI(m float64) int32 {
	return int32(math.Round(m * 100))
}

// HeadingFromETSI converts decidegrees (mod 3600) to radians (mod 2π).
func HeadingFromETSI(decidegrees uint16) float64 {
	degrees := float64(decidegrees%3600) / 10
	return degrees * math.Pi / 180
}

// HeadingToETSI converts radians (mod 2π) to decidegrees (mod 3600).
func HeadingToETSI(rad float64) uint16 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	degrees := rad * 180 / math.Pi
	return uint16(math.Round(degrees*10)) % 3600
}

// SpeedFromETSI converts cm/s to m/s.
func SpeedFromETSI(cmPerSec uint16) float64 {
	return float64(cmPerSec) / 100
}

// SpeedToETSI converts m/s to cm/s.
func SpeedToETSI(mPerSec float64) uint16 {
	return uint16(math.Round(mPerSec * 100))
}

// AccelerationFromETSI converts dm/s² to m/s².
func AccelerationFromETSI(dmPerSec2 int16) float64 {
	return float64(dmPerSec2) / 10
}

// AccelerationToETSI converts m/s² to dm/s².
func AccelerationToETSI(mPerSec2 float64) int16 {
	return int16(math.Round(mPerSec2 * 10))
}
