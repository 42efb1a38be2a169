package mqttclient

import (
	"testing"

	"github.com/eclipse/paho.golang/paho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerURLSchemeSelection(t *testing.T) {
	cases := []struct {
		name         string
		useTLS       bool
		useWebsocket bool
		wantScheme   string
	}{
		{"plain tcp", false, false, "mqtt"},
		{"tls", true, false, "mqtts"},
		{"websocket", false, true, "ws"},
		{"tls websocket", true, true, "wss"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := Options{Host: "broker.example.com", Port: 8883, UseTLS: tc.useTLS, UseWebsocket: tc.useWebsocket}
			u, err := opts.brokerURL()
			require.NoError(t, err)
			assert.Equal(t, tc.wantScheme, u.Scheme)
			assert.Equal(t, "broker.example.com:8883", u.Host)
		})
	}
}

func TestUserPropertiesRoundTrip(t *testing.T) {
	original := map[string]string{"traceparent": "00-abc-def-01", "tracestate": "vendor=value"}

	props := mapToProperties(original)
	assert.Len(t, props, 2)

	back := propertiesToMap(props)
	assert.Equal(t, original, back)
}

func TestPropertiesToMapEmptyIsNil(t *testing.T) {
	assert.Nil(t, propertiesToMap(nil))
	assert.Nil(t, propertiesToMap(paho.UserProperties{}))
}
