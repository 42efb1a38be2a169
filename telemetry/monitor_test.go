package telemetry

import (
	"testing"

	"github.com/orange-its/go-mqtt-client/exchange"
	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, keysAndValues ...any) {
	l.messages = append(l.messages, msg)
}
func (l *recordingLogger) Info(msg string, keysAndValues ...any) {}

func TestCauseFromExchange(t *testing.T) {
	payload := &exchange.Exchange{TypeField: "denm", SourceUUID: "car_1"}
	cause := CauseFromExchange(payload)
	assert.Equal(t, "car_1", cause.SourceUUID)
	assert.Equal(t, "denm", cause.MessageType)
	assert.Equal(t, "car_1+denm", cause.String())
}

func TestCauseFromNilExchangeIsZeroValue(t *testing.T) {
	cause := CauseFromExchange(nil)
	assert.Equal(t, Cause{}, cause)
}

func TestNewTraceRecordBuildsCompositeLabel(t *testing.T) {
	payload := &exchange.Exchange{TypeField: "cam", SourceUUID: "car_1"}
	record := NewTraceRecord(DirectionReceivedOn, "relay_1", "relay_1", "5GCroCo/outQueue/v2x/cam", payload, nil)

	assert.Equal(t, DirectionReceivedOn, record.Direction)
	assert.Equal(t, "relay_1/5GCroCo/outQueue/v2x/cam/car_1", record.Label)
	assert.Nil(t, record.Cause)
}

func TestMonitorRecordLogsAtDebug(t *testing.T) {
	logger := &recordingLogger{}
	monitor := NewMonitor(logger)

	payload := &exchange.Exchange{TypeField: "cam", SourceUUID: "car_1"}
	cause := CauseFromExchange(payload)
	monitor.Record(NewTraceRecord(DirectionSentOn, "relay_1", "relay_1", "5GCroCo/inQueue/v2x/cam", payload, &cause))

	assert.Len(t, logger.messages, 1)
}
