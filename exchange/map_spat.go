package exchange

import "encoding/json"

// MapExtendedMessage carries intersection topology for cooperative traffic
// control (MAPEM). The core reads only the identifying fields; the full
// map payload is preserved opaquely for downstream consumers.
type MapExtendedMessage struct {
	ProtocolVersion uint8           `json:"protocol_version"`
	StationID       uint32          `json:"station_id"`
	IntersectionID  uint16          `json:"intersection_id"`
	RegionID        *uint16         `json:"region_id,omitempty"`
	MapData         json.RawMessage `json:"map_data,omitempty"`
}

const mapemType = "mapem"

// GetType returns the stable type tag for MAPEM exchanges.
func (m *MapExtendedMessage) GetType() string { return mapemType }

// Appropriate rewrites the reporting station's identity.
func (m *MapExtendedMessage) Appropriate(_ uint64, newStationID uint32) {
	m.StationID = newStationID
}

// AsMobile reports that MAPEM is never mobile: it describes static
// infrastructure.
func (m *MapExtendedMessage) AsMobile() (Mobile, error) {
	return nil, newNotMobileError(mapemType)
}

// AsMortal reports that MAPEM never expires.
func (m *MapExtendedMessage) AsMortal() (Mortal, error) {
	return nil, newNotMortalError(mapemType)
}

// SignalPhaseAndTimingExtendedMessage carries signal timing for cooperative
// traffic control (SPATEM).
type SignalPhaseAndTimingExtendedMessage struct {
	ProtocolVersion uint8           `json:"protocol_version"`
	StationID       uint32          `json:"station_id"`
	IntersectionID  uint16          `json:"intersection_id"`
	RegionID        *uint16         `json:"region_id,omitempty"`
	SpatData        json.RawMessage `json:"spat_data,omitempty"`
}

const spatemType = "spatem"

// GetType returns the stable type tag for SPATEM exchanges.
func (s *SignalPhaseAndTimingExtendedMessage) GetType() string { return spatemType }

// Appropriate rewrites the reporting station's identity.
func (s *SignalPhaseAndTimingExtendedMessage) Appropriate(_ uint64, newStationID uint32) {
	s.StationID = newStationID
}

// AsMobile reports that SPATEM is never mobile.
func (s *SignalPhaseAndTimingExtendedMessage) AsMobile() (Mobile, error) {
	return nil, newNotMobileError(spatemType)
}

// AsMortal reports that SPATEM never expires.
func (s *SignalPhaseAndTimingExtendedMessage) AsMortal() (Mortal, error) {
	return nil, newNotMortalError(spatemType)
}
