// Package canvas rasterises routed diagrams into a rune matrix so they can be
// previewed as box-drawing text in a terminal.
package canvas

import "errors"

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// Cell is a character position. Origin is top-left, Y grows downward.
type Cell struct {
	X, Y int
}

// BoxStyle holds the characters used to draw a rectangle.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var (
	// DefaultBoxStyle is used for steps and action blocks.
	DefaultBoxStyle = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	// DoubleBoxStyle marks the initial step.
	DoubleBoxStyle = BoxStyle{'╔', '╗', '╚', '╝', '═', '║'}
)
