package shared

import (
	"fmt"
	"math"
	"math/rand"
)

// Coordinate is a point in the mission's flat map frame.
// X and Z span the ground plane, Y is altitude in meters.
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// NewGroundCoordinate creates a coordinate at ground level
func NewGroundCoordinate(x, z float64) Coordinate {
	return Coordinate{X: x, Z: z}
}

// DistanceTo returns the 2D ground distance to another coordinate in meters.
// Altitude is ignored: range checks for pickup and deploy are ground-plane checks.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dx := c.X - other.X
	dz := c.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Translate returns a new coordinate offset by dx, dz on the ground plane
func (c Coordinate) Translate(dx, dz float64) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y, Z: c.Z + dz}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.0f, %.0f)", c.X, c.Z)
}

// Zone is a circular area on the map, used for spawn staging and deploy targets
type Zone struct {
	Name   string
	Center Coordinate
	Radius float64
}

// NewZone creates a zone with validation
func NewZone(name string, center Coordinate, radius float64) (Zone, error) {
	if name == "" {
		return Zone{}, fmt.Errorf("zone name cannot be empty")
	}
	if radius <= 0 {
		return Zone{}, fmt.Errorf("zone radius must be positive, got %f", radius)
	}
	return Zone{Name: name, Center: center, Radius: radius}, nil
}

// Contains reports whether the coordinate lies inside the zone
func (z Zone) Contains(c Coordinate) bool {
	return z.Center.DistanceTo(c) <= z.Radius
}

// RandomPoint returns a uniformly distributed point inside the zone
func (z Zone) RandomPoint(rng *rand.Rand) Coordinate {
	// sqrt for uniform area density
	r := z.Radius * math.Sqrt(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	return z.Center.Translate(r*math.Cos(theta), r*math.Sin(theta))
}

func (z Zone) String() string {
	return fmt.Sprintf("Zone(%s, r=%.0fm)", z.Name, z.Radius)
}
