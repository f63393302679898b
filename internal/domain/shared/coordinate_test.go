package shared_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquarter/airlift/internal/domain/shared"
)

func TestCoordinate_DistanceIgnoresAltitude(t *testing.T) {
	a := shared.Coordinate{X: 0, Y: 0, Z: 0}
	b := shared.Coordinate{X: 3, Y: 5000, Z: 4}

	assert.InDelta(t, 5.0, a.DistanceTo(b), 1e-9)
}

func TestZone_Contains(t *testing.T) {
	zone, err := shared.NewZone("drop", shared.NewGroundCoordinate(100, 100), 50)
	require.NoError(t, err)

	assert.True(t, zone.Contains(shared.NewGroundCoordinate(120, 120)))
	assert.False(t, zone.Contains(shared.NewGroundCoordinate(200, 200)))
}

func TestZone_Validation(t *testing.T) {
	_, err := shared.NewZone("", shared.Coordinate{}, 50)
	assert.Error(t, err)

	_, err = shared.NewZone("drop", shared.Coordinate{}, 0)
	assert.Error(t, err)
}

func TestZone_RandomPointStaysInside(t *testing.T) {
	zone, err := shared.NewZone("staging", shared.NewGroundCoordinate(-500, 2000), 200)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		p := zone.RandomPoint(rng)
		assert.True(t, zone.Contains(p), "point %v escaped the zone", p)
	}
}
