package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestMetersToDegrees(t *testing.T) {
	assert.Equal(t, 1.0, MetersToDegrees(111320))
	assert.Equal(t, 111320.0, DegreesToMeters(1))
	assert.Equal(t, 0.0, MetersToDegrees(0))
}

func TestLatitudeCorrection(t *testing.T) {
	// cos(60°) == 0.5 so a degree is half as long
	assert.InDelta(t, 2.0, MetersToDegreesAt(111320, 60), 1e-9)
	assert.InDelta(t, 55660.0, DegreesToMetersAt(1, 60), 1e-6)

	// southern latitudes behave like northern ones
	assert.Equal(t, MetersToDegreesAt(500, 45), MetersToDegreesAt(500, -45))
}

func TestRoundTrip(t *testing.T) {
	for _, lat := range []float64{-80, -45, 0, 12.5, 45, 89} {
		m := DegreesToMetersAt(MetersToDegreesAt(1000, lat), lat)
		assert.Truef(t, scalar.EqualWithinRel(m, 1000, 1e-6), "lat %v: got %v", lat, m)
	}
	assert.Truef(t, scalar.EqualWithinRel(DegreesToMeters(MetersToDegrees(1000)), 1000, 1e-12), "equator round trip")
}

func TestPolesAreUnguarded(t *testing.T) {
	// cos(90°) is a tiny positive number in floating point, the division is not guarded
	v := MetersToDegreesAt(1000, 90)
	assert.False(t, math.IsNaN(v))
	assert.Greater(t, v, 1e14)
	assert.Equal(t, v, MetersToDegreesAt(1000, -90))

	assert.InDelta(t, 0.0, DegreesToMetersAt(1, 90), 1e-10)
}
