package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCongestionLimiterDisabledWhenLimitIsZero(t *testing.T) {
	l := newCongestionLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("cam"))
	}
}

func TestCongestionLimiterBlocksAfterLimitReached(t *testing.T) {
	l := newCongestionLimiter(2, time.Minute)
	assert.True(t, l.Allow("denm"))
	assert.True(t, l.Allow("denm"))
	assert.False(t, l.Allow("denm"))
}

func TestCongestionLimiterTracksTypesIndependently(t *testing.T) {
	l := newCongestionLimiter(1, time.Minute)
	assert.True(t, l.Allow("cam"))
	assert.True(t, l.Allow("denm"))
	assert.False(t, l.Allow("cam"))
	assert.False(t, l.Allow("denm"))
}
