package exchange

import "github.com/orange-its/go-mqtt-client/mobility/position"

// CooperativeAwarenessMessage is the periodic vehicle state beacon (CAM).
type CooperativeAwarenessMessage struct {
	ProtocolVersion        uint8                  `json:"protocol_version"`
	StationID              uint32                 `json:"station_id"`
	GenerationDeltaTime    uint16                 `json:"generation_delta_time"`
	BasicContainer         BasicContainer         `json:"basic_container"`
	HighFrequencyContainer HighFrequencyContainer `json:"high_frequency_container"`
	LowFrequencyContainer  *LowFrequencyContainer `json:"low_frequency_container,omitempty"`
}

// BasicContainer carries the station type and reference position common to
// every CAM.
type BasicContainer struct {
	StationType uint8             `json:"station_type"`
	Position    ReferencePosition `json:"reference_position"`
}

// HighFrequencyContainer carries the fast-changing kinematic state: heading
// (decidegrees), speed (cm/s) and longitudinal acceleration (dm/s²).
type HighFrequencyContainer struct {
	Heading      uint16 `json:"heading"`
	Speed        uint16 `json:"speed"`
	Acceleration int16  `json:"longitudinal_acceleration"`
}

// LowFrequencyContainer carries slow-changing vehicle attributes.
type LowFrequencyContainer struct {
	VehicleRole uint8  `json:"vehicle_role"`
	PathHistory []PathElement `json:"path_history,omitempty"`
}

const camType = "cam"

// GetType returns the stable type tag for CAM exchanges.
func (c *CooperativeAwarenessMessage) GetType() string { return camType }

// Appropriate rewrites the station id and generation delta time so a
// forwarded CAM carries the forwarder's identity.
func (c *CooperativeAwarenessMessage) Appropriate(etsiTimestamp uint64, newStationID uint32) {
	c.StationID = newStationID
	c.GenerationDeltaTime = uint16(etsiTimestamp % 65536)
}

// AsMobile returns the Mobile view of the CAM: CAM is always mobile.
func (c *CooperativeAwarenessMessage) AsMobile() (Mobile, error) {
	return camMobile{c}, nil
}

// AsMortal reports that CAM never expires.
func (c *CooperativeAwarenessMessage) AsMortal() (Mortal, error) {
	return nil, newNotMortalError(camType)
}

type camMobile struct {
	c *CooperativeAwarenessMessage
}

func (m camMobile) MobileID() uint32 { return m.c.StationID }

func (m camMobile) Position() position.Position {
	return m.c.BasicContainer.Position.ToPosition()
}

func (m camMobile) Speed() (float64, bool) {
	return SpeedFromETSI(m.c.HighFrequencyContainer.Speed), true
}

func (m camMobile) Heading() (float64, bool) {
	return HeadingFromETSI(m.c.HighFrequencyContainer.Heading), true
}

func (m camMobile) Acceleration() (float64, bool) {
	return AccelerationFromETSI(m.c.HighFrequencyContainer.Acceleration), true
}
