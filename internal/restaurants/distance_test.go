package restaurants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	london := Point{51.5074, -0.1278}
	paris := Point{48.8566, 2.3522}

	assert.InDelta(t, 343.5, DistanceKm(london, paris), 1.0)
	assert.Zero(t, DistanceKm(paris, paris))
}

func TestNearbyKeepsOrderAndDefaultsRadius(t *testing.T) {
	here := Point{12.9716, 77.5946}
	rs := []Restaurant{
		{ID: "near", Latitude: 12.975, Longitude: 77.60},
		{ID: "far", Latitude: 13.2, Longitude: 77.7},
		{ID: "close", Latitude: 12.96, Longitude: 77.58},
	}

	assert.Equal(t, []string{"near", "close"}, ids(Nearby(rs, here, 0)))
	assert.Equal(t, []string{"near", "far", "close"}, ids(Nearby(rs, here, 50)))
}
