package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate identifies a cell on the board in device/pixel space.
type Coordinate struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
}

// CoordinateKey is the lookup key derived from a Coordinate.
// key(a) == key(b) holds iff a == b.
type CoordinateKey string

// keySeparator never appears in a base-10 integer, so splitting on it is unambiguous.
const keySeparator = ","

// Pt is shorthand for Coordinate{X: x, Y: y}.
func Pt(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// Key returns the canonical key for c.
func (c Coordinate) Key() CoordinateKey {
	return CoordinateKey(strconv.Itoa(c.X) + keySeparator + strconv.Itoa(c.Y))
}

// Equal reports whether both components match.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// ParseKey converts a key produced by Coordinate.Key back into a Coordinate.
// Only canonical keys are accepted, so "+1,2" and "01,2" are rejected.
func ParseKey(key CoordinateKey) (Coordinate, error) {
	xs, ys, ok := strings.Cut(string(key), keySeparator)
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: key %q has no separator", ErrInvalidCoordinate, key)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: bad x in key %q", ErrInvalidCoordinate, key)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: bad y in key %q", ErrInvalidCoordinate, key)
	}
	c := Coordinate{X: x, Y: y}
	if c.Key() != key {
		return Coordinate{}, fmt.Errorf("%w: key %q is not canonical", ErrInvalidCoordinate, key)
	}
	return c, nil
}
