// Package introspection exposes the running pipeline's counters over gRPC,
// so an operator can query message throughput and backoff state without
// scraping logs. It never influences pipeline behavior.
package introspection

import (
	"sync/atomic"
	"time"
)

// Collector accumulates the counters a running pipeline reports. The
// pipeline and the gRPC service share one Collector: the pipeline writes,
// the service reads a consistent Snapshot.
type Collector struct {
	received  atomic.Uint64
	sent      atomic.Uint64
	filtered  atomic.Uint64
	backoffMs atomic.Int64
	sequence  atomic.Uint32
}

// NewCollector returns a zeroed Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// IncReceived records one more exchange dispatched out of the router.
func (c *Collector) IncReceived() { c.received.Add(1) }

// IncSent records one more exchange successfully published.
func (c *Collector) IncSent() { c.sent.Add(1) }

// IncFiltered records one more exchange dropped by the region-of-
// responsibility filter.
func (c *Collector) IncFiltered() { c.filtered.Add(1) }

// SetBackoff records the current reconnect backoff duration.
func (c *Collector) SetBackoff(d time.Duration) {
	c.backoffMs.Store(d.Milliseconds())
}

// SetSequenceNumber records the pipeline's sequence number counter, as
// reported by the pipeline: the next value the counter will issue.
func (c *Collector) SetSequenceNumber(n uint16) {
	c.sequence.Store(uint32(n))
}

// Snapshot is a point-in-time read of every counter.
type Snapshot struct {
	ReceivedTotal          uint64
	SentTotal              uint64
	FilteredTotal          uint64
	ReconnectBackoffMillis int64
	SequenceNumber         uint32
}

// Snapshot reads every counter without coordinating across them: a caller
// may observe a sent count that is momentarily ahead of received, which is
// fine for introspection purposes.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		ReceivedTotal:          c.received.Load(),
		SentTotal:              c.sent.Load(),
		FilteredTotal:          c.filtered.Load(),
		ReconnectBackoffMillis: c.backoffMs.Load(),
		SequenceNumber:         c.sequence.Load(),
	}
}
