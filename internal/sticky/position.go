package sticky

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxPercent keeps a note's top-left corner far enough from the right
	// and bottom edges that the note itself stays inside the container.
	MaxPercent = 95.0
	MinPercent = 0.0
)

// Position is a note's top-left corner as percentages of the container.
type Position struct {
	X float64
	Y float64
}

// DefaultPosition is where new sticky notes appear.
var DefaultPosition = Position{X: 70, Y: 20}

// Point is a pointer location or offset in pixels.
type Point struct {
	X float64
	Y float64
}

// CSS returns the position as percentage strings, e.g. "70%" and "20%".
func (p Position) CSS() (x, y string) {
	return formatPercent(p.X), formatPercent(p.Y)
}

func (p Position) String() string {
	x, y := p.CSS()
	return x + "," + y
}

// ParsePosition reads percentage strings with or without the trailing "%".
func ParsePosition(x, y string) (Position, error) {
	px, err := parsePercent(x)
	if err != nil {
		return Position{}, err
	}
	py, err := parsePercent(y)
	if err != nil {
		return Position{}, err
	}
	return Position{X: px, Y: py}, nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return v, nil
}

func clamp(v float64) float64 {
	return max(MinPercent, min(MaxPercent, v))
}
