package geometry

import "grafed/core"

// SegmentsIntersect reports whether the line segments p1-p2 and p3-p4 cross.
// Parallel (and collinear) segments never intersect; otherwise the
// intersection parameter of both segments must lie in [0,1].
func SegmentsIntersect(p1, p2, p3, p4 core.Point) bool {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y

	det := d1x*d2y - d1y*d2x
	if det == 0 {
		return false
	}

	ox, oy := p3.X-p1.X, p3.Y-p1.Y
	t := (ox*d2y - oy*d2x) / det
	u := (ox*d1y - oy*d1x) / det

	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// LineIntersectsRect reports whether the segment a-b touches the rectangle:
// either endpoint lies inside it, or the segment crosses one of its four edges.
func LineIntersectsRect(a, b core.Point, r core.Bounds) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}

	topLeft := r.Min
	topRight := core.Point{X: r.Max.X, Y: r.Min.Y}
	bottomLeft := core.Point{X: r.Min.X, Y: r.Max.Y}
	bottomRight := r.Max

	return SegmentsIntersect(a, b, topLeft, topRight) ||
		SegmentsIntersect(a, b, topRight, bottomRight) ||
		SegmentsIntersect(a, b, bottomRight, bottomLeft) ||
		SegmentsIntersect(a, b, bottomLeft, topLeft)
}

// PolylineIntersectsRect reports whether any consecutive pair of points
// touches the rectangle.
func PolylineIntersectsRect(points []core.Point, r core.Bounds) bool {
	for i := 0; i+1 < len(points); i++ {
		if LineIntersectsRect(points[i], points[i+1], r) {
			return true
		}
	}
	return false
}
