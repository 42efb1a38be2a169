package exchange

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateRoundTrip(t *testing.T) {
	for _, degrees := range []float64{0, 48.8417860, -85, 179.999999} {
		rad := degrees * math.Pi / 180
		etsi := CoordinateToETSI(rad)
		back := CoordinateFromETSI(etsi)
		assert.InDelta(t, rad, back, 1e-9)
	}
}

func TestSpeedRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1.5, 27.53, 655.34} {
		assert.InDelta(t, v, SpeedFromETSI(SpeedToETSI(v)), 0.01)
	}
}

func TestHeadingRoundTrip(t *testing.T) {
	for _, h := range []float64{0, math.Pi / 4, math.Pi, 3 * math.Pi / 2} {
		got := HeadingFromETSI(HeadingToETSI(h))
		assert.InDelta(t, math.Mod(h, 2*math.Pi), got, 1e-9)
	}
}

func TestPositionEncodingScenarioS4(t *testing.T) {
	ref := ReferencePosition{Latitude: 488417860, Longitude: 23678940, Altitude: 16880}
	p := ref.ToPosition()
	back := ReferencePositionFromPosition(p)

	assert.Equal(t, ref, back)
}
