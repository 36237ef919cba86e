package canvas

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MatrixCanvas is a rune matrix with box-drawing primitives.
//
// MatrixCanvas is NOT thread-safe for writes. Reads (Get, Size, String) are
// safe as long as no writes happen at the same time.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a blank canvas.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = []rune(strings.Repeat(" ", width))
	}
	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

func (c *MatrixCanvas) inBounds(p Cell) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}

// Get returns the character at p, or a space outside the canvas.
func (c *MatrixCanvas) Get(p Cell) rune {
	if !c.inBounds(p) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set merges char into the cell at p.
func (c *MatrixCanvas) Set(p Cell, char rune) error {
	if !c.inBounds(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// Put overwrites the cell at p without merging.
func (c *MatrixCanvas) Put(p Cell, char rune) error {
	if !c.inBounds(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = char
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := range c.matrix {
		for x := range c.matrix[y] {
			c.matrix[y][x] = ' '
		}
	}
}

// Lines returns the rows with trailing spaces removed.
func (c *MatrixCanvas) Lines() []string {
	lines := make([]string, c.height)
	for y, row := range c.matrix {
		var sb strings.Builder
		for _, r := range row {
			if r == 0 {
				// wide character continuation
				continue
			}
			sb.WriteRune(r)
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// String returns the canvas rows joined by newlines.
func (c *MatrixCanvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// DrawBox draws a rectangle whose corners are at (x, y) and
// (x+width-1, y+height-1).
func (c *MatrixCanvas) DrawBox(x, y, width, height int, style BoxStyle) error {
	if width < 2 || height < 2 {
		return fmt.Errorf("invalid box dimensions %dx%d", width, height)
	}
	right, bottom := x+width-1, y+height-1

	for i := x + 1; i < right; i++ {
		c.Set(Cell{i, y}, style.Horizontal)
		c.Set(Cell{i, bottom}, style.Horizontal)
	}
	for i := y + 1; i < bottom; i++ {
		c.Set(Cell{x, i}, style.Vertical)
		c.Set(Cell{right, i}, style.Vertical)
	}
	c.Set(Cell{x, y}, style.TopLeft)
	c.Set(Cell{right, y}, style.TopRight)
	c.Set(Cell{x, bottom}, style.BottomLeft)
	c.Set(Cell{right, bottom}, style.BottomRight)
	return nil
}

// DrawHorizontalLine draws from x1 to x2 inclusive, clipped to the canvas.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawVerticalLine draws from y1 to y2 inclusive, clipped to the canvas.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune) error {
	if x < 0 || x >= c.width {
		return ErrOutOfBounds
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := max(y1, 0); y <= min(y2, c.height-1); y++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawText writes text starting at (x, y), overwriting what is there. Wide
// characters take two cells; text past the right edge is dropped.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	currentX := x
	for _, r := range text {
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		if currentX+width > c.width {
			break
		}
		if currentX >= 0 {
			c.matrix[y][currentX] = r
			if width == 2 {
				c.matrix[y][currentX+1] = 0
			}
		}
		currentX += width
	}
	return nil
}

// DrawPath draws an orthogonal polyline through cells, with rounded corners
// at the joints. Diagonal legs are drawn as their horizontal then vertical
// parts.
func (c *MatrixCanvas) DrawPath(cells []Cell) error {
	cells = dedupeCells(cells)
	if len(cells) < 2 {
		return fmt.Errorf("path must have at least 2 distinct cells")
	}

	for i := 0; i < len(cells)-1; i++ {
		p1, p2 := cells[i], cells[i+1]
		if p1.Y == p2.Y {
			c.DrawHorizontalLine(p1.X, p1.Y, p2.X, '─')
		} else {
			c.DrawVerticalLine(p1.X, p1.Y, p2.Y, '│')
		}
	}
	for i := 1; i < len(cells)-1; i++ {
		if corner := selectCorner(cells[i-1], cells[i], cells[i+1]); corner != 0 {
			c.Put(cells[i], corner)
		}
	}
	return nil
}

// orthogonalize inserts an elbow into every diagonal leg. Rounding float
// routes to cells can misalign points by one cell.
func orthogonalize(cells []Cell) []Cell {
	if len(cells) == 0 {
		return nil
	}
	out := []Cell{cells[0]}
	for _, p := range cells[1:] {
		prev := out[len(out)-1]
		if prev.X != p.X && prev.Y != p.Y {
			out = append(out, Cell{p.X, prev.Y})
		}
		out = append(out, p)
	}
	return out
}

func dedupeCells(cells []Cell) []Cell {
	cells = orthogonalize(cells)
	var out []Cell
	for _, p := range cells {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// selectCorner returns the corner joining two legs, or 0 when the legs are
// collinear.
func selectCorner(prev, curr, next Cell) rune {
	from := getDirection(prev, curr)
	to := getDirection(curr, next)

	switch {
	case from == 'E' && to == 'S', from == 'N' && to == 'W':
		return '╮'
	case from == 'E' && to == 'N', from == 'S' && to == 'W':
		return '╯'
	case from == 'W' && to == 'S', from == 'N' && to == 'E':
		return '╭'
	case from == 'W' && to == 'N', from == 'S' && to == 'E':
		return '╰'
	}
	return 0
}

func getDirection(p1, p2 Cell) rune {
	switch {
	case p2.X > p1.X:
		return 'E'
	case p2.X < p1.X:
		return 'W'
	case p2.Y > p1.Y:
		return 'S'
	default:
		return 'N'
	}
}

// arrowFor returns the arrow head pointing along the last leg of a path.
func arrowFor(prev, last Cell) rune {
	switch getDirection(prev, last) {
	case 'E':
		return '▶'
	case 'W':
		return '◀'
	case 'N':
		return '▲'
	default:
		return '▼'
	}
}
