package exchange

import "github.com/orange-its/go-mqtt-client/mobility/position"

// Cause codes for the DENM constructor helpers.
const (
	CauseTrafficCondition  uint8 = 1
	CauseStationaryVehicle uint8 = 94
	CauseCollisionRisk     uint8 = 97
)

// DecentralizedEnvironmentalNotificationMessage is an event alert (DENM):
// hazard, stopped vehicle, or collision risk.
type DecentralizedEnvironmentalNotificationMessage struct {
	ProtocolVersion     uint8                `json:"protocol_version"`
	StationID           uint32               `json:"station_id"`
	ManagementContainer ManagementContainer  `json:"management_container"`
	SituationContainer  *SituationContainer  `json:"situation_container,omitempty"`
	LocationContainer   *LocationContainer   `json:"location_container,omitempty"`
}

// ManagementContainer is the DENM container every variant carries: event
// identity, position, and lifecycle fields.
type ManagementContainer struct {
	ActionID                  ActionID          `json:"action_id"`
	DetectionTime             uint64            `json:"detection_time"`
	ReferenceTime             uint64            `json:"reference_time"`
	Termination               *uint8            `json:"termination,omitempty"`
	EventPosition             ReferencePosition `json:"event_position"`
	RelevanceDistance         *uint8            `json:"relevance_distance,omitempty"`
	RelevanceTrafficDirection *uint8            `json:"relevance_traffic_direction,omitempty"`
	ValidityDuration          *uint32           `json:"validity_duration,omitempty"`
	TransmissionInterval      *uint16           `json:"transmission_interval,omitempty"`
	StationType               *uint8            `json:"station_type,omitempty"`
}

// ActionID identifies the DENM event: the station that raised it and a
// per-station sequence number.
type ActionID struct {
	OriginatingStationID uint32 `json:"originating_station_id"`
	SequenceNumber       uint16 `json:"sequence_number"`
}

// SituationContainer carries the cause/subcause of the event.
type SituationContainer struct {
	InformationQuality *uint8    `json:"information_quality,omitempty"`
	EventType          EventType `json:"event_type"`
}

// EventType is a cause/subcause pair.
type EventType struct {
	Cause    uint8  `json:"cause"`
	Subcause *uint8 `json:"subcause,omitempty"`
}

// LocationContainer carries the event's kinematic context, when known.
type LocationContainer struct {
	EventSpeed           *uint16 `json:"event_speed,omitempty"`
	EventPositionHeading *uint16 `json:"event_position_heading,omitempty"`
}

const denmType = "denm"

func uint8ptr(v uint8) *uint8 { return &v }

// NewStationaryVehicle builds a cause-94 DENM reporting a stopped vehicle,
// with an explicit zero subcause and event speed.
func NewStationaryVehicle(
	stationID, originatingStationID uint32,
	eventPosition ReferencePosition,
	sequenceNumber uint16,
	etsiTimestamp uint64,
	eventPositionHeading *uint16,
) *DecentralizedEnvironmentalNotificationMessage {
	zero := uint16(0)
	return newDENM(stationID, originatingStationID, eventPosition, sequenceNumber, etsiTimestamp,
		CauseStationaryVehicle, uint8ptr(0), nil, nil, &zero, eventPositionHeading, 10)
}

// NewTrafficCondition builds a cause-1 DENM reporting a traffic condition.
func NewTrafficCondition(
	stationID, originatingStationID uint32,
	eventPosition ReferencePosition,
	sequenceNumber uint16,
	etsiTimestamp uint64,
	subcause, relevanceDistance, relevanceTrafficDirection *uint8,
	eventSpeed, eventPositionHeading *uint16,
) *DecentralizedEnvironmentalNotificationMessage {
	return newDENM(stationID, originatingStationID, eventPosition, sequenceNumber, etsiTimestamp,
		CauseTrafficCondition, subcause, relevanceDistance, relevanceTrafficDirection, eventSpeed, eventPositionHeading, 10)
}

// NewCollisionRisk builds a cause-97 DENM reporting an imminent collision
// risk. Its validity_duration is 2 seconds rather than the 10 used by the
// other causes: a collision risk is only relevant for the few seconds it
// takes the situation to resolve one way or the other.
func NewCollisionRisk(
	stationID, originatingStationID uint32,
	eventPosition ReferencePosition,
	sequenceNumber uint16,
	etsiTimestamp uint64,
	subcause, relevanceDistance, relevanceTrafficDirection *uint8,
	eventSpeed, eventPositionHeading *uint16,
) *DecentralizedEnvironmentalNotificationMessage {
	return newDENM(stationID, originatingStationID, eventPosition, sequenceNumber, etsiTimestamp,
		CauseCollisionRisk, subcause, relevanceDistance, relevanceTrafficDirection, eventSpeed, eventPositionHeading, 2)
}

// UpdateCollisionRisk refreshes an existing cause-97 DENM in place:
// position, reference_time, relevance and kinematics are replaced while
// action_id (and so the event's identity) is preserved.
func (d *DecentralizedEnvironmentalNotificationMessage) UpdateCollisionRisk(
	eventPosition ReferencePosition,
	etsiTimestamp uint64,
	relevanceDistance, relevanceTrafficDirection *uint8,
	eventSpeed, eventPositionHeading *uint16,
) {
	d.ManagementContainer.EventPosition = eventPosition
	d.ManagementContainer.ReferenceTime = etsiTimestamp
	d.ManagementContainer.RelevanceDistance = relevanceDistance
	d.ManagementContainer.RelevanceTrafficDirection = relevanceTrafficDirection
	if eventSpeed != nil || eventPositionHeading != nil {
		d.LocationContainer = &LocationContainer{EventSpeed: eventSpeed, EventPositionHeading: eventPositionHeading}
	}
}

// UpdateInformationQuality sets or replaces the situation container's
// information_quality field.
func (d *DecentralizedEnvironmentalNotificationMessage) UpdateInformationQuality(informationQuality uint8) {
	if d.SituationContainer == nil {
		d.SituationContainer = &SituationContainer{}
	}
	d.SituationContainer.InformationQuality = uint8ptr(informationQuality)
}

func newDENM(
	stationID, originatingStationID uint32,
	eventPosition ReferencePosition,
	sequenceNumber uint16,
	etsiTimestamp uint64,
	cause uint8,
	subcause, relevanceDistance, relevanceTrafficDirection *uint8,
	eventSpeed, eventPositionHeading *uint16,
	validityDuration uint32,
) *DecentralizedEnvironmentalNotificationMessage {
	transmissionInterval := uint16(200)
	return &DecentralizedEnvironmentalNotificationMessage{
		ProtocolVersion: 2,
		StationID:       stationID,
		ManagementContainer: ManagementContainer{
			ActionID: ActionID{
				OriginatingStationID: originatingStationID,
				SequenceNumber:       sequenceNumber,
			},
			DetectionTime:             etsiTimestamp,
			ReferenceTime:             etsiTimestamp,
			EventPosition:             eventPosition,
			ValidityDuration:          &validityDuration,
			TransmissionInterval:      &transmissionInterval,
			StationType:               uint8ptr(5),
			RelevanceDistance:         relevanceDistance,
			RelevanceTrafficDirection: relevanceTrafficDirection,
		},
		SituationContainer: &SituationContainer{
			EventType: EventType{Cause: cause, Subcause: subcause},
		},
		LocationContainer: &LocationContainer{
			EventSpeed:           eventSpeed,
			EventPositionHeading: eventPositionHeading,
		},
	}
}

// IsStationaryVehicle reports whether the DENM carries cause 94.
func (d *DecentralizedEnvironmentalNotificationMessage) IsStationaryVehicle() bool {
	return d.SituationContainer != nil && d.SituationContainer.EventType.Cause == CauseStationaryVehicle
}

// IsTrafficCondition reports whether the DENM carries cause 1.
func (d *DecentralizedEnvironmentalNotificationMessage) IsTrafficCondition() bool {
	return d.SituationContainer != nil && d.SituationContainer.EventType.Cause == CauseTrafficCondition
}

// IsCollisionRisk reports whether the DENM carries cause 97.
func (d *DecentralizedEnvironmentalNotificationMessage) IsCollisionRisk() bool {
	return d.SituationContainer != nil && d.SituationContainer.EventType.Cause == CauseCollisionRisk
}

// GetType returns the stable type tag for DENM exchanges.
func (d *DecentralizedEnvironmentalNotificationMessage) GetType() string { return denmType }

// Appropriate rewrites the DENM's identity to the forwarder's: station_id
// and action_id.originating_station_id both take newStationID, a fresh
// sequence_number is not minted here (callers mint one via SequenceNumber
// and assign ActionID.SequenceNumber directly), and both detection_time
// and reference_time are reset to the supplied timestamp.
func (d *DecentralizedEnvironmentalNotificationMessage) Appropriate(etsiTimestamp uint64, newStationID uint32) {
	d.StationID = newStationID
	d.ManagementContainer.ActionID.OriginatingStationID = newStationID
	d.ManagementContainer.DetectionTime = etsiTimestamp
	d.ManagementContainer.ReferenceTime = etsiTimestamp
}

// AsMobile returns the Mobile view of the DENM: DENM is conditionally
// mobile, only when it carries a location container. The container's
// event speed and heading may each be absent; Speed and Heading then
// report ok=false.
func (d *DecentralizedEnvironmentalNotificationMessage) AsMobile() (Mobile, error) {
	if d.LocationContainer == nil {
		return nil, newMissingContainerError(denmType, "location_container")
	}
	return denmMobile{d}, nil
}

// AsMortal returns the Mortal view: DENM always expires.
func (d *DecentralizedEnvironmentalNotificationMessage) AsMortal() (Mortal, error) {
	return denmMortal{d}, nil
}

type denmMobile struct {
	d *DecentralizedEnvironmentalNotificationMessage
}

func (m denmMobile) MobileID() uint32 { return m.d.StationID }

func (m denmMobile) Position() position.Position {
	return m.d.ManagementContainer.EventPosition.ToPosition()
}

func (m denmMobile) Speed() (float64, bool) {
	if m.d.LocationContainer == nil || m.d.LocationContainer.EventSpeed == nil {
		return 0, false
	}
	return SpeedFromETSI(*m.d.LocationContainer.EventSpeed), true
}

func (m denmMobile) Heading() (float64, bool) {
	if m.d.LocationContainer == nil || m.d.LocationContainer.EventPositionHeading == nil {
		return 0, false
	}
	return HeadingFromETSI(*m.d.LocationContainer.EventPositionHeading), true
}

func (m denmMobile) Acceleration() (float64, bool) { return 0, false }

type denmMortal struct {
	d *DecentralizedEnvironmentalNotificationMessage
}

// etsiEpochMillisecondsOffset is the offset in milliseconds between the
// Unix epoch and the ETSI TimestampIts epoch (2004-01-01T00:00:00Z).
const etsiEpochMillisecondsOffset = 1072915200000

func (m denmMortal) Timeout() uint64 {
	validity := uint32(600)
	if m.d.ManagementContainer.ValidityDuration != nil {
		validity = *m.d.ManagementContainer.ValidityDuration
	}
	return m.d.ManagementContainer.DetectionTime + etsiEpochMillisecondsOffset + uint64(validity)*1000
}

func (m denmMortal) Terminated() bool {
	return m.d.ManagementContainer.Termination != nil
}

// Terminate sets termination = 0, refreshes detection_time to the current
// ETSI timestamp and shortens validity_duration to 10 seconds.
func (m denmMortal) Terminate() {
	m.d.ManagementContainer.Termination = uint8ptr(0)
	m.d.ManagementContainer.DetectionTime = etsiNowMillis()
	validity := uint32(10)
	m.d.ManagementContainer.ValidityDuration = &validity
}
