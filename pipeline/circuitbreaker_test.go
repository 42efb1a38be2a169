package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishBreakerOpensAfterThresholdFailures(t *testing.T) {
	b := newPublishBreaker(testLogger{}, 2, time.Hour)
	require.True(t, b.Allow("cam"))
	b.RecordResult("cam", errors.New("boom"))
	require.True(t, b.Allow("cam"))
	b.RecordResult("cam", errors.New("boom"))

	assert.False(t, b.Allow("cam"))
}

func TestPublishBreakerTracksTypesIndependently(t *testing.T) {
	b := newPublishBreaker(testLogger{}, 1, time.Hour)
	b.RecordResult("cam", errors.New("boom"))

	assert.False(t, b.Allow("cam"))
	assert.True(t, b.Allow("denm"))
}

func TestPublishBreakerHalfOpenProbeClosesOnSuccess(t *testing.T) {
	b := newPublishBreaker(testLogger{}, 1, time.Millisecond)
	b.RecordResult("cam", errors.New("boom"))
	require.False(t, b.Allow("cam"))

	time.Sleep(5 * time.Millisecond)
	require.True(t, b.Allow("cam"))
	b.RecordResult("cam", nil)

	assert.True(t, b.Allow("cam"))
}

func TestNilPublishBreakerAllowsEverything(t *testing.T) {
	var b *publishBreaker
	assert.True(t, b.Allow("cam"))
	b.RecordResult("cam", errors.New("boom"))
	assert.True(t, b.Allow("cam"))
}
