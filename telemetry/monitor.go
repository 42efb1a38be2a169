package telemetry

import (
	"fmt"

	"github.com/orange-its/go-mqtt-client/exchange"
)

// Direction distinguishes a monitor trace record for an inbound exchange
// from one for an outbound (republished or analyzer-produced) exchange.
type Direction string

const (
	DirectionReceivedOn Direction = "received_on"
	DirectionSentOn     Direction = "sent_on"
)

// Cause is a causal tag attached to an exchange crossing a monitor: the
// identity of the exchange that triggered its production, when known.
type Cause struct {
	SourceUUID  string
	MessageType string
}

// CauseFromExchange derives a Cause tag from the exchange that produced a
// downstream packet. It is a pure function of its input.
func CauseFromExchange(payload *exchange.Exchange) Cause {
	if payload == nil {
		return Cause{}
	}
	return Cause{SourceUUID: payload.SourceUUID, MessageType: payload.TypeField}
}

func (c Cause) String() string {
	return fmt.Sprintf("%s+%s", c.SourceUUID, c.MessageType)
}

// TraceRecord is the structured record emitted for every Exchange packet
// crossing the Dispatch or Filter stage.
type TraceRecord struct {
	Direction       Direction
	LocalSourceUUID string
	Label           string
	Cause           *Cause
}

// NewTraceRecord builds a TraceRecord for payload observed on topicRoute
// at instanceID, travelling in direction. cause, when non-nil, is attached
// as the record's causal tag; nil records no cause.
func NewTraceRecord(direction Direction, localSourceUUID, instanceID, topicRoute string, payload *exchange.Exchange, cause *Cause) TraceRecord {
	var sourceUUID string
	if payload != nil {
		sourceUUID = payload.SourceUUID
	}
	return TraceRecord{
		Direction:       direction,
		LocalSourceUUID: localSourceUUID,
		Label:           fmt.Sprintf("%s/%s/%s", instanceID, topicRoute, sourceUUID),
		Cause:           cause,
	}
}

// Monitor logs TraceRecords through an injected logger, matching the
// shape used throughout the module so any BusLogger-compatible
// implementation can be attached.
type Monitor struct {
	logger BusLogger
}

// BusLogger is the structured logging interface the monitor reports
// through.
type BusLogger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
}

// NewMonitor builds a Monitor over logger. A nil logger discards records.
func NewMonitor(logger BusLogger) *Monitor {
	if logger == nil {
		logger = noopMonitorLogger{}
	}
	return &Monitor{logger: logger}
}

type noopMonitorLogger struct{}

func (noopMonitorLogger) Debug(string, ...any) {}
func (noopMonitorLogger) Info(string, ...any)  {}

// Record emits a TraceRecord at debug level.
func (m *Monitor) Record(record TraceRecord) {
	fields := []any{"direction", record.Direction, "source_uuid", record.LocalSourceUUID, "label", record.Label}
	if record.Cause != nil {
		fields = append(fields, "cause", record.Cause.String())
	}
	m.logger.Debug("monitor: trace record", fields...)
}
