package geometry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned when a direction name cannot be parsed or
// a zero Direction is used where a real one is required.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction is one of the six axis-aligned access directions. The zero value
// is not a valid direction.
type Direction int

const (
	Front Direction = iota + 1
	Back
	Left
	Right
	Top
	Bottom
)

// Directions lists all valid directions in declaration order.
var Directions = []Direction{Front, Back, Left, Right, Top, Bottom}

var directionNames = map[Direction]string{
	Front:  "front",
	Back:   "back",
	Left:   "left",
	Right:  "right",
	Top:    "top",
	Bottom: "bottom",
}

// compass holds the fixed orientation convention for each direction. It
// cannot be derived from the axis mapping and must not be "simplified".
type compass struct {
	opposite, left, right, top, bottom Direction
}

var compassTable = map[Direction]compass{
	Front:  {opposite: Back, left: Left, right: Right, top: Top, bottom: Bottom},
	Back:   {opposite: Front, left: Right, right: Left, top: Top, bottom: Bottom},
	Left:   {opposite: Right, left: Back, right: Front, top: Top, bottom: Bottom},
	Right:  {opposite: Left, left: Front, right: Back, top: Top, bottom: Bottom},
	Top:    {opposite: Bottom, left: Left, right: Right, top: Back, bottom: Front},
	Bottom: {opposite: Top, left: Left, right: Right, top: Front, bottom: Back},
}

// ParseDirection parses a direction name, ignoring case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d, n := range directionNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Valid reports whether d is one of the six named directions.
func (d Direction) Valid() bool {
	_, ok := directionNames[d]
	return ok
}

// String returns the lower-case direction name.
func (d Direction) String() string {
	if n, ok := directionNames[d]; ok {
		return n
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Axis returns the axis the direction's face is perpendicular to.
func (d Direction) Axis() Axis {
	switch d {
	case Left, Right:
		return AxisX
	case Front, Back:
		return AxisY
	default:
		return AxisZ
	}
}

// Sign returns -1 for directions facing the low end of their axis
// (Front, Left, Bottom) and +1 otherwise.
func (d Direction) Sign() float64 {
	switch d {
	case Front, Left, Bottom:
		return -1
	default:
		return 1
	}
}

// Vector returns the outward unit vector of the face d names.
func (d Direction) Vector() Point {
	return UnitVector(d.Axis(), d.Sign())
}

// Opposite returns the direction facing the other way on the same axis.
func (d Direction) Opposite() Direction { return compassTable[d].opposite }

// LeftOf returns the direction on the left when looking along d.
func (d Direction) LeftOf() Direction { return compassTable[d].left }

// RightOf returns the direction on the right when looking along d.
func (d Direction) RightOf() Direction { return compassTable[d].right }

// Above returns the direction that is "up" when looking along d.
func (d Direction) Above() Direction { return compassTable[d].top }

// Below returns the direction that is "down" when looking along d.
func (d Direction) Below() Direction { return compassTable[d].bottom }
