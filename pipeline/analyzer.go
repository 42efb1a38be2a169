package pipeline

import (
	"sync"

	"github.com/orange-its/go-mqtt-client/config"
	"github.com/orange-its/go-mqtt-client/exchange"
	"github.com/orange-its/go-mqtt-client/transport/topic"
)

// Packet is the unit passed between pipeline stages: a topic paired with
// either a received/produced Exchange or an Information message.
type Packet struct {
	Topic          topic.Topic
	Exchange       *exchange.Exchange
	Information    *exchange.Information
	UserProperties map[string]string
}

// Clone makes an independent copy of p, used wherever the spec requires
// a packet to be handed to two downstream consumers (dispatcher →
// monitoring + analysis; filter → monitoring + publish). The Exchange and
// Information pointers are shared, not deep-copied: once an analyzer has
// run, the payload is treated as read-only.
func (p Packet) Clone() Packet {
	clone := p
	if p.UserProperties != nil {
		clone.UserProperties = make(map[string]string, len(p.UserProperties))
		for k, v := range p.UserProperties {
			clone.UserProperties[k] = v
		}
	}
	return clone
}

// Context is an analyzer-defined, RWMutex-protected cell shared across
// every worker in the analyze pool. The analyzer author is responsible
// for keeping critical sections short, per §5's shared-resource policy.
type Context[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewContext wraps an initial value.
func NewContext[T any](initial T) *Context[T] {
	return &Context[T]{value: initial}
}

// Read runs fn with a read lock held and returns its result.
func (c *Context[T]) Read(fn func(T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.value)
}

// Write runs fn with a write lock held, allowing it to mutate the cell
// via the returned replacement value.
func (c *Context[T]) Write(fn func(T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = fn(c.value)
}

// Analyzer is a user-supplied object, created once per worker thread,
// that turns one inbound Packet into zero or more outbound Packets.
// Analyze must be deterministic on its inputs modulo the shared context
// and sequence number; its failures are not caught by the pipeline.
type Analyzer interface {
	Analyze(packet Packet) []Packet
}

// AnalyzerFactory builds one Analyzer per worker, sharing the same
// configuration, context cell, and sequence number across all workers in
// the pool. context is whatever *Context[T] the caller constructed; its
// type is opaque to the pipeline and known only to the analyzer.
type AnalyzerFactory func(configuration *config.Configuration, context any, sequenceNumber *exchange.SequenceNumber) Analyzer
