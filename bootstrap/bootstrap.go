// Package bootstrap performs the optional HTTP handshake that exchanges a
// pre-shared login for a short-lived broker URI and credentials.
package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Protocol is a broker access protocol named in a bootstrap response.
type Protocol string

const (
	ProtocolMQTT       Protocol = "mqtt"
	ProtocolMQTTS      Protocol = "mqtts"
	ProtocolMQTTWS     Protocol = "mqtt-ws"
	ProtocolMQTTWSS    Protocol = "mqtt-wss"
	ProtocolOTLPHTTP   Protocol = "otlp-http"
	ProtocolOTLPHTTPS  Protocol = "otlp-https"
)

// Request is the bootstrap handshake payload.
type Request struct {
	UEID         string `json:"ue_id"`
	PSKLogin     string `json:"psk_login"`
	PSKPassword  string `json:"psk_password"`
	Role         string `json:"role"`
}

// Response is the bootstrap handshake result: a run-scoped identity,
// credentials, and a map of protocol name to connection URI.
type Response struct {
	IoT3ID          string              `json:"iot3_id"`
	PSKRunLogin     string              `json:"psk_run_login"`
	PSKRunPassword  string              `json:"psk_run_password"`
	Protocols       map[Protocol]string `json:"protocols"`
}

// BootstrapError reports a failed handshake: a transport failure, a
// non-2xx status, or a response the client could not parse.
type BootstrapError struct {
	Endpoint   string
	StatusCode int
	Reason     string
	Cause      error
}

func (e *BootstrapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bootstrap: %s: %s: %v", e.Endpoint, e.Reason, e.Cause)
	}
	return fmt.Sprintf("bootstrap: %s: %s (status %d)", e.Endpoint, e.Reason, e.StatusCode)
}

func (e *BootstrapError) Unwrap() error { return e.Cause }

// Client performs the handshake against a single bootstrap endpoint.
type Client struct {
	Endpoint   string
	Username   string
	Password   string
	HTTPClient *http.Client
}

// NewClient builds a Client addressing host:port/path, selecting https
// when useTLS is set.
func NewClient(host string, port uint16, path, username, password string, useTLS bool) *Client {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	return &Client{
		Endpoint:   fmt.Sprintf("%s://%s:%d%s", scheme, host, port, path),
		Username:   username,
		Password:   password,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Handshake POSTs req with HTTP basic auth and returns the parsed
// Response.
func (c *Client) Handshake(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &BootstrapError{Endpoint: c.Endpoint, Reason: "cannot encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &BootstrapError{Endpoint: c.Endpoint, Reason: "cannot build request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	httpReq.SetBasicAuth(c.Username, c.Password)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &BootstrapError{Endpoint: c.Endpoint, Reason: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BootstrapError{Endpoint: c.Endpoint, Reason: "cannot read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &BootstrapError{Endpoint: c.Endpoint, StatusCode: resp.StatusCode, Reason: "non-2xx response"}
	}

	var out Response
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &BootstrapError{Endpoint: c.Endpoint, Reason: "cannot decode response", Cause: err}
	}
	return &out, nil
}

// SelectProtocol picks one of the four mqtt protocol variants (mqtt,
// mqtts, mqtt-ws, mqtt-wss) from a bootstrap Response's Protocols map,
// driven by the local use_tls/use_websocket flags, and returns its URI.
// The otlp entries are never selected here.
func SelectProtocol(resp *Response, useTLS, useWebsocket bool) (string, error) {
	var protocol Protocol
	switch {
	case useTLS && useWebsocket:
		protocol = ProtocolMQTTWSS
	case useTLS && !useWebsocket:
		protocol = ProtocolMQTTS
	case !useTLS && useWebsocket:
		protocol = ProtocolMQTTWS
	default:
		protocol = ProtocolMQTT
	}
	uri, ok := resp.Protocols[protocol]
	if !ok {
		return "", fmt.Errorf("bootstrap: response does not offer protocol %q", protocol)
	}
	return uri, nil
}
