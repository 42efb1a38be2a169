// Package router maps inbound MQTT publishes to typed deserializers.
//
// The table is append-only: Register adds entries, Dispatch never removes
// one. Entries are tried in registration order and the first pattern that
// matches the publish topic wins, mirroring MQTT v5 subscription
// semantics (+ matches exactly one level, # matches zero or more trailing
// levels, literal segments must match exactly).
package router

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/orange-its/go-mqtt-client/exchange"
)

// BusLogger is the structured logging interface routes and packets are
// reported through. Its shape matches the logger used throughout the
// module so callers can pass the same instance everywhere.
type BusLogger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// PublishEvent is the router's view of an inbound MQTT v5 publish: just
// enough to match a route and deserialize a payload. Transport-specific
// fields (QoS, packet identifiers, retain) live above the router.
type PublishEvent struct {
	Topic          string
	Payload        []byte
	UserProperties map[string]string
}

// Packet is the unit handed downstream by the router once a payload has
// been deserialized: exactly one of Exchange or Information is set.
type Packet struct {
	Topic          string
	UserProperties map[string]string
	Exchange       *exchange.Exchange
	Information    *exchange.Information
}

// Deserializer decodes a publish payload into a Packet.
type Deserializer func(event PublishEvent) (Packet, error)

// ExchangeDeserializer decodes a CAM/DENM/CPM/MAPEM/SPATEM payload into an
// Exchange-carrying Packet.
func ExchangeDeserializer(event PublishEvent) (Packet, error) {
	var ex exchange.Exchange
	if err := ex.UnmarshalJSON(event.Payload); err != nil {
		return Packet{}, err
	}
	return Packet{Topic: event.Topic, UserProperties: event.UserProperties, Exchange: &ex}, nil
}

// InformationDeserializer decodes an INFO payload into an
// Information-carrying Packet.
func InformationDeserializer(event PublishEvent) (Packet, error) {
	var info exchange.Information
	if err := json.Unmarshal(event.Payload, &info); err != nil {
		return Packet{}, err
	}
	return Packet{Topic: event.Topic, UserProperties: event.UserProperties, Information: &info}, nil
}

type route struct {
	pattern      string
	segments     []string
	deserializer Deserializer
}

// Router is an append-only table of topic pattern to deserializer
// bindings. It is safe for concurrent Register and Dispatch calls, though
// in practice only the Dispatch stage calls Dispatch.
type Router struct {
	mu     sync.RWMutex
	routes []route
	logger BusLogger
}

// New creates an empty Router. A nil logger is replaced by a no-op one.
func New(logger BusLogger) *Router {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Router{logger: logger}
}

// Register appends a pattern→deserializer binding. pattern follows MQTT
// v5 subscription syntax: "+" matches one level, "#" matches the
// remaining levels and must be the last segment.
func (r *Router) Register(pattern string, deserializer Deserializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{
		pattern:      pattern,
		segments:     strings.Split(pattern, "/"),
		deserializer: deserializer,
	})
}

// Dispatch matches event against the registered patterns in order and
// invokes the first match's deserializer. A deserialization failure is
// logged and reported as ok=false; it never panics and never aborts the
// caller's event loop.
func (r *Router) Dispatch(event PublishEvent) (packet Packet, ok bool) {
	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	topicSegments := strings.Split(event.Topic, "/")
	for _, rt := range routes {
		if !matchTopic(rt.segments, topicSegments) {
			continue
		}
		p, err := rt.deserializer(event)
		if err != nil {
			r.logger.Error("router: dropping undeserializable publish",
				"topic", event.Topic, "pattern", rt.pattern, "error", err)
			return Packet{}, false
		}
		return p, true
	}
	r.logger.Debug("router: no route matched publish", "topic", event.Topic)
	return Packet{}, false
}

// matchTopic reports whether a published topic's segments satisfy a
// subscription pattern's segments under MQTT v5 wildcard rules.
func matchTopic(pattern, topic []string) bool {
	for i, p := range pattern {
		if p == "#" {
			return true
		}
		if i >= len(topic) {
			return false
		}
		if p != "+" && p != topic[i] {
			return false
		}
	}
	return len(pattern) == len(topic)
}
