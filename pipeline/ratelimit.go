package pipeline

import (
	"sync"
	"time"
)

// slidingWindow counts events in a trailing time window using sub-buckets,
// so the count decays smoothly instead of resetting in a single step.
type slidingWindow struct {
	mu          sync.Mutex
	window      time.Duration
	bucketCount int
	buckets     map[int64]int
	total       int
}

func newSlidingWindow(window time.Duration) *slidingWindow {
	return &slidingWindow{window: window, bucketCount: 10, buckets: make(map[int64]int)}
}

func (w *slidingWindow) bucketSize() time.Duration {
	return w.window / time.Duration(w.bucketCount)
}

func (w *slidingWindow) record(now time.Time, limit int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	bucket := now.UnixNano() / int64(w.bucketSize())
	minBucket := bucket - int64(w.bucketCount)
	for b := range w.buckets {
		if b < minBucket {
			w.total -= w.buckets[b]
			delete(w.buckets, b)
		}
	}
	if w.total >= limit {
		return false
	}
	w.buckets[bucket]++
	w.total++
	return true
}

// congestionLimiter caps the outbound publish rate per ITS message type,
// the generation-rate half of ETSI TS 102 687 Decentralized Congestion
// Control (the channel-load half needs a real radio and is out of scope
// for a library that only sees the MQTT bridge side of the network).
type congestionLimiter struct {
	mu      sync.Mutex
	perType map[string]*slidingWindow
	limit   int
	window  time.Duration
}

// newCongestionLimiter returns a limiter allowing up to limit publishes
// per message type within window. A non-positive limit disables limiting.
func newCongestionLimiter(limit int, window time.Duration) *congestionLimiter {
	if window <= 0 {
		window = time.Second
	}
	return &congestionLimiter{perType: make(map[string]*slidingWindow), limit: limit, window: window}
}

// Allow reports whether a packet of the given type may be published now,
// recording it against the budget when it is.
func (c *congestionLimiter) Allow(mt string) bool {
	if c == nil || c.limit <= 0 {
		return true
	}
	c.mu.Lock()
	w, ok := c.perType[mt]
	if !ok {
		w = newSlidingWindow(c.window)
		c.perType[mt] = w
	}
	c.mu.Unlock()

	return w.record(timeNow(), c.limit)
}

// timeNow is a var so tests can stub the clock without touching the real
// one used by the rest of the pipeline.
var timeNow = time.Now
