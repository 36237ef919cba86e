package connections

import (
	"grafed/core"
)

// UpdateConnectionSegment applies a drag of one segment to dragPoint and
// returns the new segments. The input connection is not modified.
//
// The first and last segments touch the node anchors, and those anchor points
// never move. A vertical boundary segment only moves its far end to
// dragPoint.Y, together with the whole horizontal segment it adjoins so the
// path stays orthogonal. Interior segments move freely along their normal
// axis and drag the touching ends of their neighbors with them. Drags that
// match none of these shapes leave the path as it is.
func UpdateConnectionSegment(conn *core.Connection, segmentID string, dragPoint core.Point) []core.ConnectionSegment {
	index := -1
	for i, s := range conn.Segments {
		if s.ID == segmentID {
			index = i
			break
		}
	}
	if index < 0 {
		return conn.Segments
	}

	segments := core.CloneSegments(conn.Segments)
	last := len(segments) - 1
	// A lone segment joins both anchors. Near-aligned paths carry small
	// horizontal jogs inside it and are never dragged.
	if last == 0 || !wellFormed(segments) {
		return segments
	}

	switch index {
	case 0:
		dragFirstSegment(segments, dragPoint.Y)
	case last:
		dragLastSegment(segments, dragPoint.Y)
	default:
		dragInteriorSegment(segments, index, dragPoint)
	}
	return segments
}

func wellFormed(segments []core.ConnectionSegment) bool {
	for _, s := range segments {
		if len(s.Points) < 2 {
			return false
		}
	}
	return true
}

// dragFirstSegment moves the far end of a vertical first segment. The
// adjoining horizontal segment must not itself carry the end anchor.
func dragFirstSegment(segments []core.ConnectionSegment, y float64) {
	first := &segments[0]
	if first.Orientation != core.Vertical || len(segments) < 3 {
		return
	}
	next := &segments[1]
	if next.Orientation != core.Horizontal {
		return
	}

	first.Points[len(first.Points)-1].Y = y
	setY(next.Points, y)
	if beyond := &segments[2]; beyond.Orientation == core.Vertical {
		beyond.Points[0].Y = y
	}
}

// dragLastSegment mirrors dragFirstSegment at the end of the path.
func dragLastSegment(segments []core.ConnectionSegment, y float64) {
	last := len(segments) - 1
	final := &segments[last]
	if final.Orientation != core.Vertical || len(segments) < 3 {
		return
	}
	prev := &segments[last-1]
	if prev.Orientation != core.Horizontal {
		return
	}

	final.Points[0].Y = y
	setY(prev.Points, y)
	if before := &segments[last-2]; before.Orientation == core.Vertical {
		before.Points[len(before.Points)-1].Y = y
	}
}

func dragInteriorSegment(segments []core.ConnectionSegment, index int, dragPoint core.Point) {
	seg := &segments[index]
	prev := &segments[index-1]
	next := &segments[index+1]

	switch seg.Orientation {
	case core.Horizontal:
		setY(seg.Points, dragPoint.Y)
		if prev.Orientation == core.Vertical {
			prev.Points[len(prev.Points)-1].Y = dragPoint.Y
		}
		if next.Orientation == core.Vertical {
			next.Points[0].Y = dragPoint.Y
		}
	case core.Vertical:
		setX(seg.Points, dragPoint.X)
		if prev.Orientation == core.Horizontal {
			prev.Points[len(prev.Points)-1].X = dragPoint.X
		}
		if next.Orientation == core.Horizontal {
			next.Points[0].X = dragPoint.X
		}
	}
}

func setY(points []core.Point, y float64) {
	for i := range points {
		points[i].Y = y
	}
}

func setX(points []core.Point, x float64) {
	for i := range points {
		points[i].X = x
	}
}
