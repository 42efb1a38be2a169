package exchange

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRoundTripCAM(t *testing.T) {
	cam := &CooperativeAwarenessMessage{
		ProtocolVersion: 2,
		StationID:       42,
		BasicContainer: BasicContainer{
			StationType: 5,
			Position:    ReferencePosition{Latitude: 1, Longitude: 2, Altitude: 3},
		},
		HighFrequencyContainer: HighFrequencyContainer{Speed: 2753, Heading: 900},
	}
	original := NewExchange("self", "1.0", "veh_1", 1000, cam)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Exchange
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.TypeField, decoded.TypeField)
	assert.Equal(t, original.SourceUUID, decoded.SourceUUID)
	require.NoError(t, decoded.CheckTypeInvariant())

	decodedCAM, ok := decoded.Message.(*CooperativeAwarenessMessage)
	require.True(t, ok)
	assert.EqualValues(t, 42, decodedCAM.StationID)
	assert.EqualValues(t, 2753, decodedCAM.HighFrequencyContainer.Speed)
}

func TestExchangeUnmarshalRejectsTypeMismatch(t *testing.T) {
	raw := []byte(`{"type":"denm","origin":"x","version":"1","source_uuid":"u","timestamp":1,"message":{"protocol_version":2,"station_id":1,"basic_container":{"station_type":5,"reference_position":{"latitude":0,"longitude":0,"altitude":0}},"high_frequency_container":{"heading":0,"speed":0,"longitudinal_acceleration":0}}}`)
	var decoded Exchange
	err := json.Unmarshal(raw, &decoded)
	assert.Error(t, err)
}

func TestExchangeUnmarshalRejectsUnknownType(t *testing.T) {
	raw := []byte(`{"type":"bogus","message":{}}`)
	var decoded Exchange
	err := json.Unmarshal(raw, &decoded)
	assert.Error(t, err)
}
