package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCAMTopic(t *testing.T) {
	got, err := ParseGeoTopic("5GCroCo/outQueue/v2x/cam/car_1/0/1/2/3")
	require.NoError(t, err)

	assert.Equal(t, "5GCroCo", got.Project)
	assert.Equal(t, QueueOut, got.Queue)
	assert.Equal(t, "v2x", got.Server)
	assert.Equal(t, MessageTypeCAM, got.MessageType)
	assert.Equal(t, "car_1", got.UUID)
	assert.Equal(t, 4, got.GeoExtension.Len())
}

func TestParseDENMTopic(t *testing.T) {
	got, err := ParseGeoTopic("5GCroCo/outQueue/v2x/denm/wse_app_bcn1/1/2/0/2/2/2/2/3/3/0/0/3/2/0/2/0/1/0/1/0/3/1")
	require.NoError(t, err)

	assert.Equal(t, MessageTypeDENM, got.MessageType)
	assert.Equal(t, "wse_app_bcn1", got.UUID)
	assert.Equal(t, 22, got.GeoExtension.Len())
}

func TestParseInfoTopic(t *testing.T) {
	got, err := ParseGeoTopic("5GCroCo/outQueue/info/broker")
	require.NoError(t, err)

	assert.Equal(t, MessageTypeInfo, got.MessageType)
	assert.Empty(t, got.Server)
	assert.Equal(t, "broker", got.UUID)
	assert.Equal(t, 0, got.GeoExtension.Len())
}

func TestParseInQueueTopic(t *testing.T) {
	got, err := ParseGeoTopic("5GCroCo/inQueue/v2x/cam/car_1/0/1/2/3")
	require.NoError(t, err)

	assert.Equal(t, QueueIn, got.Queue)
}

func TestGeoTopicAsRouteOmitsServerForInfo(t *testing.T) {
	got, _ := ParseGeoTopic("5GCroCo/outQueue/info/broker")
	assert.Equal(t, "5GCroCo/outQueue/info", got.AsRoute())
}

func TestGeoTopicAppropriate(t *testing.T) {
	got, _ := ParseGeoTopic("5GCroCo/outQueue/v2x/cam/car_1/0/1")
	got.Appropriate("forwarder_1")

	assert.Equal(t, "forwarder_1", got.UUID)
	assert.Equal(t, QueueIn, got.Queue)
}

func TestParseGeoTopicRejectsUnknownQueue(t *testing.T) {
	_, err := ParseGeoTopic("5GCroCo/wrongQueue/v2x/cam/car_1")
	assert.Error(t, err)
}

func TestParseGeoTopicRejectsInvalidTile(t *testing.T) {
	_, err := ParseGeoTopic("5GCroCo/outQueue/v2x/cam/car_1/9")
	assert.Error(t, err)
}
