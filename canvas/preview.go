package canvas

import (
	"math"

	"github.com/mattn/go-runewidth"

	"grafed/core"
	"grafed/pathfinding"
)

// Preview maps diagram coordinates to cells: one cell is ScaleX units wide
// and ScaleY units tall.
type Preview struct {
	ScaleX float64
	ScaleY float64
}

// NewPreview returns a preview with the given scale. Non-positive scales
// fall back to 1.
func NewPreview(scaleX, scaleY float64) *Preview {
	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}
	return &Preview{ScaleX: scaleX, ScaleY: scaleY}
}

// frame is the cell mapping for one diagram: its top-left corner lands on
// cell (0, 0).
type frame struct {
	origin core.Point
	p      *Preview
}

func (f frame) cell(pt core.Point) Cell {
	return Cell{
		X: int(math.Round((pt.X - f.origin.X) / f.p.ScaleX)),
		Y: int(math.Round((pt.Y - f.origin.Y) / f.p.ScaleY)),
	}
}

// rect returns the corner cells of a positioned, sized element.
func (f frame) rect(pos core.Point, size core.Size) (Cell, Cell) {
	return f.cell(pos), f.cell(core.Point{X: pos.X + size.Width, Y: pos.Y + size.Height})
}

// Render draws the diagram. Nodes are drawn first, then connections, then
// text so labels stay readable where lines cross them.
func (p *Preview) Render(elements []core.Element) (*MatrixCanvas, error) {
	if len(elements) == 0 {
		return NewMatrixCanvas(1, 1)
	}

	f := frame{origin: diagramOrigin(elements), p: p}
	width, height := f.extent(elements)
	c, err := NewMatrixCanvas(width, height)
	if err != nil {
		return nil, err
	}

	for _, e := range elements {
		switch v := e.(type) {
		case *core.Node:
			c.drawNode(f, v)
		case *core.ActionBlock:
			tl, br := f.rect(v.Position, v.Size)
			c.DrawBox(tl.X, tl.Y, br.X-tl.X+1, br.Y-tl.Y+1, DefaultBoxStyle)
		}
	}
	for _, conn := range core.Connections(elements) {
		c.drawConnection(f, conn)
	}
	for _, e := range elements {
		switch v := e.(type) {
		case *core.Node:
			c.drawNodeText(f, v)
		case *core.ActionBlock:
			tl, br := f.rect(v.Position, v.Size)
			c.drawCentered(tl, br, v.Action)
		}
	}
	return c, nil
}

func diagramOrigin(elements []core.Element) core.Point {
	origin := core.Point{X: math.Inf(1), Y: math.Inf(1)}
	include := func(pt core.Point) {
		origin.X = math.Min(origin.X, pt.X)
		origin.Y = math.Min(origin.Y, pt.Y)
	}
	for _, e := range elements {
		switch v := e.(type) {
		case *core.Node:
			include(v.Position)
		case *core.ActionBlock:
			include(v.Position)
		case *core.Connection:
			for _, pt := range pathfinding.FlattenSegments(v.Segments) {
				include(pt)
			}
		}
	}
	if math.IsInf(origin.X, 1) {
		return core.Point{}
	}
	return origin
}

// extent returns the canvas size needed for every element and its text.
func (f frame) extent(elements []core.Element) (width, height int) {
	include := func(c Cell) {
		width = max(width, c.X+1)
		height = max(height, c.Y+1)
	}
	for _, e := range elements {
		switch v := e.(type) {
		case *core.Node:
			tl, br := f.rect(v.Position, v.Size)
			include(tl)
			include(br)
			if v.IsTransition() && v.Condition != "" {
				include(Cell{br.X + 1 + runewidth.StringWidth(v.Condition), br.Y})
			}
		case *core.ActionBlock:
			tl, br := f.rect(v.Position, v.Size)
			include(tl)
			include(br)
		case *core.Connection:
			for _, pt := range pathfinding.FlattenSegments(v.Segments) {
				include(f.cell(pt))
			}
		}
	}
	return width, height
}

// drawNode draws the outline of a node. Steps are boxes, the initial step
// double-lined. Transitions are a heavy bar on their bottom row, AND gates a
// double bar and OR gates a single one.
func (c *MatrixCanvas) drawNode(f frame, n *core.Node) {
	tl, br := f.rect(n.Position, n.Size)

	switch n.Type {
	case core.TypeStep:
		style := DefaultBoxStyle
		if n.StepType == core.StepInitial {
			style = DoubleBoxStyle
		}
		if err := c.DrawBox(tl.X, tl.Y, br.X-tl.X+1, br.Y-tl.Y+1, style); err != nil {
			c.DrawHorizontalLine(tl.X, tl.Y, br.X, style.Horizontal)
		}
	case core.TypeTransition:
		c.DrawHorizontalLine(tl.X, br.Y, br.X, '━')
	case core.TypeAndGate:
		c.DrawHorizontalLine(tl.X, tl.Y, br.X, '═')
	case core.TypeOrGate:
		c.DrawHorizontalLine(tl.X, tl.Y, br.X, '─')
	}
}

func (c *MatrixCanvas) drawNodeText(f frame, n *core.Node) {
	tl, br := f.rect(n.Position, n.Size)
	switch {
	case n.IsStep():
		c.drawCentered(tl, br, n.Label)
	case n.IsTransition() && n.Condition != "":
		c.DrawText(br.X+2, br.Y, n.Condition)
	}
}

// drawCentered writes text in the middle row of a box, truncated to its
// inner width.
func (c *MatrixCanvas) drawCentered(tl, br Cell, text string) {
	inner := br.X - tl.X - 1
	if text == "" || inner <= 0 || br.Y-tl.Y < 2 {
		return
	}
	text = runewidth.Truncate(text, inner, "…")
	x := tl.X + 1 + (inner-runewidth.StringWidth(text))/2
	c.DrawText(x, tl.Y+(br.Y-tl.Y)/2, text)
}

// drawConnection draws the connector polyline with an arrow head on the
// target anchor.
func (c *MatrixCanvas) drawConnection(f frame, conn *core.Connection) {
	points := pathfinding.FlattenSegments(conn.Segments)
	cells := make([]Cell, 0, len(points))
	for _, pt := range points {
		cells = append(cells, f.cell(pt))
	}
	cells = dedupeCells(cells)
	if len(cells) < 2 {
		return
	}

	c.DrawPath(cells)
	last := cells[len(cells)-1]
	c.Put(last, arrowFor(cells[len(cells)-2], last))
}
