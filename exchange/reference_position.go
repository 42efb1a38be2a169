package exchange

import "github.com/orange-its/go-mqtt-client/mobility/position"

// ReferencePosition is the ETSI wire-level form of a geodesic position:
// latitude/longitude in 1e-7 degrees, altitude in centimeters.
type ReferencePosition struct {
	Latitude  int32 `json:"latitude"`
	Longitude int32 `json:"longitude"`
	Altitude  int32 `json:"altitude"`
}

// ToPosition converts the ETSI wire form to an SI-unit Position.
func (r ReferencePosition) ToPosition() position.Position {
	return position.Position{
		Latitude:  CoordinateFromETSI(r.Latitude),
		Longitude: CoordinateFromETSI(r.Longitude),
		Altitude:  AltitudeFromETSI(r.Altitude),
	}
}

// ReferencePositionFromPosition converts an SI-unit Position to its ETSI
// wire form.
func ReferencePositionFromPosition(p position.Position) ReferencePosition {
	return ReferencePosition{
		Latitude:  CoordinateToETSI(p.Latitude),
		Longitude: CoordinateToETSI(p.Longitude),
		Altitude:  AltitudeToETSI(p.Altitude),
	}
}

// PathElement is one entry of a Path trace: a historical position and the
// time elapsed (milliseconds) since that position was recorded.
type PathElement struct {
	Latitude    int32  `json:"latitude"`
	Longitude   int32  `json:"longitude"`
	ElapsedTime uint16 `json:"path_delta_time"`
}
