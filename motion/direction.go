package motion

import "image"

// Direction indexes the fixed 8-neighbour compass table.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	// DirectionUnset marks a region that has not been matched yet.
	DirectionUnset Direction = -1
)

// NumDirections is the size of the direction table.
const NumDirections = 8

// Unit offsets per direction. y grows downward.
var directionOffsets = [NumDirections]image.Point{
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
}

// Angles in degrees, clockwise from North.
var directionAngles = [NumDirections]float64{0, 45, 90, 135, 180, 225, 270, 315}

var directionNames = [NumDirections]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Valid reports whether d indexes the direction table.
func (d Direction) Valid() bool { return d >= 0 && d < NumDirections }

// Offset returns the unit offset of d, or the zero point for an invalid direction.
func (d Direction) Offset() image.Point {
	if !d.Valid() {
		return image.Point{}
	}
	return directionOffsets[d]
}

// Angle returns the compass angle of d in degrees.
func (d Direction) Angle() float64 {
	if !d.Valid() {
		return 0
	}
	return directionAngles[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "unset"
	}
	return directionNames[d]
}

// NearestDirection maps an angle in degrees to the closest compass direction.
func NearestDirection(angle float64) Direction {
	a := normalizeAngle(angle)
	return Direction(int(a/45+0.5) % NumDirections)
}
