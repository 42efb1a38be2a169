package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeSendsBasicAuthAndReturnsParsedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "car_1", username)
		assert.Equal(t, "secret", password)

		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "car_1", req.UEID)
		assert.Equal(t, "obu", req.Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{
			IoT3ID:         "run-42",
			PSKRunLogin:    "car_1-run",
			PSKRunPassword: "run-secret",
			Protocols: map[Protocol]string{
				ProtocolMQTTS: "mqtts://broker.example.com:8883",
				ProtocolMQTT:  "mqtt://broker.example.com:1883",
			},
		})
	}))
	defer server.Close()

	client := &Client{Endpoint: server.URL, Username: "car_1", Password: "secret", HTTPClient: server.Client()}
	resp, err := client.Handshake(context.Background(), Request{
		UEID: "car_1", PSKLogin: "car_1", PSKPassword: "secret", Role: "obu",
	})
	require.NoError(t, err)
	assert.Equal(t, "run-42", resp.IoT3ID)

	uri, err := SelectProtocol(resp, true, false)
	require.NoError(t, err)
	assert.Equal(t, "mqtts://broker.example.com:8883", uri)
}

func TestHandshakeNonSuccessStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := &Client{Endpoint: server.URL, HTTPClient: server.Client()}
	_, err := client.Handshake(context.Background(), Request{})
	require.Error(t, err)
	var bootstrapErr *BootstrapError
	require.ErrorAs(t, err, &bootstrapErr)
	assert.Equal(t, http.StatusUnauthorized, bootstrapErr.StatusCode)
}

func TestSelectProtocolMissingEntryIsAnError(t *testing.T) {
	resp := &Response{Protocols: map[Protocol]string{ProtocolMQTT: "mqtt://broker:1883"}}
	_, err := SelectProtocol(resp, true, true)
	require.Error(t, err)
}
