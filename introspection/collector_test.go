package introspection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorSnapshotReflectsIncrements(t *testing.T) {
	c := NewCollector()
	c.IncReceived()
	c.IncReceived()
	c.IncSent()
	c.IncFiltered()
	c.SetBackoff(2 * time.Second)
	c.SetSequenceNumber(42)

	snap := c.Snapshot()
	assert.Equal(t, uint64(2), snap.ReceivedTotal)
	assert.Equal(t, uint64(1), snap.SentTotal)
	assert.Equal(t, uint64(1), snap.FilteredTotal)
	assert.Equal(t, int64(2000), snap.ReconnectBackoffMillis)
	assert.Equal(t, uint32(42), snap.SequenceNumber)
}

func TestCollectorZeroValueSnapshotIsAllZero(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	assert.Zero(t, snap.ReceivedTotal)
	assert.Zero(t, snap.SentTotal)
	assert.Zero(t, snap.FilteredTotal)
	assert.Zero(t, snap.ReconnectBackoffMillis)
	assert.Zero(t, snap.SequenceNumber)
}
