package exchange

import (
	"math"

	"github.com/orange-its/go-mqtt-client/mobility/position"
)

// CollectivePerceptionMessage is the list of objects perceived by a
// sensor-equipped station (CPM).
type CollectivePerceptionMessage struct {
	ProtocolVersion       uint8                  `json:"protocol_version"`
	StationID             uint32                 `json:"station_id"`
	ManagementContainer   CPMManagementContainer `json:"management_container"`
	StationDataContainer  *StationDataContainer  `json:"station_data_container,omitempty"`
	PerceivedObjects      []PerceivedObject      `json:"perceived_object_container,omitempty"`
}

// CPMManagementContainer carries the reference position the perceived
// objects are expressed relative to.
type CPMManagementContainer struct {
	ReferencePosition ReferencePosition `json:"reference_position"`
}

// StationDataContainer carries either a vehicle or RSU sub-container; only
// one is ever populated for a given CPM.
type StationDataContainer struct {
	OriginatingVehicleContainer *OriginatingVehicleContainer `json:"originating_vehicle_container,omitempty"`
	OriginatingRSUContainer     *OriginatingRSUContainer     `json:"originating_rsu_container,omitempty"`
}

// OriginatingVehicleContainer carries the reporting vehicle's own heading,
// used to rotate perceived-object offsets into the world frame.
type OriginatingVehicleContainer struct {
	Heading uint16 `json:"heading"`
}

// OriginatingRSUContainer marks the CPM as RSU-originated; RSU offsets are
// resolved via ENU projection instead of vehicle-relative rotation.
type OriginatingRSUContainer struct{}

// PerceivedObject is one sensor detection, expressed as a planar (x,y)
// offset and velocity relative to the reporting station.
type PerceivedObject struct {
	ObjectID  uint16 `json:"object_id"`
	XDistance int32  `json:"x_distance"`
	YDistance int32  `json:"y_distance"`
	XSpeed    int16  `json:"x_speed"`
	YSpeed    int16  `json:"y_speed"`
}

const cpmType = "cpm"

// GetType returns the stable type tag for CPM exchanges.
func (c *CollectivePerceptionMessage) GetType() string { return cpmType }

// Appropriate rewrites the reporting station's identity.
func (c *CollectivePerceptionMessage) Appropriate(_ uint64, newStationID uint32) {
	c.StationID = newStationID
}

// AsMobile returns the Mobile view of the CPM's own station, when it
// carries a vehicle container; RSU-originated and bare CPMs are not
// themselves mobile (their perceived objects may still be, via
// MobilePerceivedObjectList).
func (c *CollectivePerceptionMessage) AsMobile() (Mobile, error) {
	if c.StationDataContainer == nil || c.StationDataContainer.OriginatingVehicleContainer == nil {
		return nil, newMissingContainerError(cpmType, "originating_vehicle_container")
	}
	return cpmMobile{c}, nil
}

// AsMortal reports that CPM never expires.
func (c *CollectivePerceptionMessage) AsMortal() (Mortal, error) {
	return nil, newNotMortalError(cpmType)
}

type cpmMobile struct {
	c *CollectivePerceptionMessage
}

func (m cpmMobile) MobileID() uint32 { return m.c.StationID }

func (m cpmMobile) Position() position.Position {
	return m.c.ManagementContainer.ReferencePosition.ToPosition()
}

func (m cpmMobile) Speed() (float64, bool) { return 0, false }

func (m cpmMobile) Heading() (float64, bool) {
	if m.c.StationDataContainer == nil || m.c.StationDataContainer.OriginatingVehicleContainer == nil {
		return 0, false
	}
	return HeadingFromETSI(m.c.StationDataContainer.OriginatingVehicleContainer.Heading), true
}

func (m cpmMobile) Acceleration() (float64, bool) { return 0, false }

// PerceivedObjectMobile is the derived Mobile view of one perceived
// object: its absolute position, heading and speed, computed from the
// reporting station's reference frame and the object's relative offset.
type PerceivedObjectMobile struct {
	ID          uint16
	ObjPosition position.Position
	ObjHeading  float64
	ObjSpeed    float64
}

func (p PerceivedObjectMobile) MobileID() uint32    { return uint32(p.ID) }
func (p PerceivedObjectMobile) Position() position.Position { return p.ObjPosition }
func (p PerceivedObjectMobile) Speed() (float64, bool)      { return p.ObjSpeed, true }
func (p PerceivedObjectMobile) Heading() (float64, bool)    { return p.ObjHeading, true }
func (p PerceivedObjectMobile) Acceleration() (float64, bool) { return 0, false }

// MobilePerceivedObjectList derives a Mobile view for every perceived
// object in the CPM.
//
// For vehicle-originated CPMs, each object's position is the reporting
// vehicle's position displaced by the object's (x,y) offset via haversine,
// and its heading is the vehicle heading rotated by the bearing of the
// object's own velocity (atan2(-vx,-vy) + π), taken modulo 2π.
// For RSU-originated CPMs, the object's position is obtained by ENU
// projection from the RSU's reference position, and its heading ignores
// the (absent) vehicle heading.
func (c *CollectivePerceptionMessage) MobilePerceivedObjectList() ([]PerceivedObjectMobile, error) {
	if c.StationDataContainer == nil {
		return nil, newMissingContainerError(cpmType, "station_data_container")
	}

	refPosition := c.ManagementContainer.ReferencePosition.ToPosition()
	vehicle := c.StationDataContainer.OriginatingVehicleContainer

	out := make([]PerceivedObjectMobile, 0, len(c.PerceivedObjects))
	for _, obj := range c.PerceivedObjects {
		vx := float64(obj.XSpeed)
		vy := float64(obj.YSpeed)
		objectBearing := math.Atan2(-vx, -vy) + math.Pi

		var objPosition position.Position
		var heading float64
		var speed float64 = math.Hypot(vx, vy)

		if vehicle != nil {
			offsetDistance := math.Hypot(float64(obj.XDistance), float64(obj.YDistance))
			offsetBearing := math.Atan2(float64(obj.XDistance), float64(obj.YDistance))
			objPosition = position.HaversineDestination(refPosition, offsetBearing, offsetDistance)

			vehicleHeading := HeadingFromETSI(vehicle.Heading)
			heading = math.Mod(vehicleHeading+objectBearing, 2*math.Pi)
		} else {
			objPosition = position.EnuDestination(refPosition, float64(obj.XDistance)/100, float64(obj.YDistance)/100, 0)
			heading = objectBearing
		}

		out = append(out, PerceivedObjectMobile{
			ID:          obj.ObjectID,
			ObjPosition: objPosition,
			ObjHeading:  heading,
			ObjSpeed:    SpeedFromETSI(uint16(speed)),
		})
	}
	return out, nil
}
