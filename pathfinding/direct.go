package pathfinding

import (
	"grafed/core"
	"grafed/geometry"
)

// DirectPathFinder creates vertical-horizontal-vertical paths without
// obstacle avoidance.
type DirectPathFinder struct{}

// NewDirectPathFinder creates a new direct path finder.
func NewDirectPathFinder() *DirectPathFinder {
	return &DirectPathFinder{}
}

// FindPath returns the simple path from start to end.
// The obstacles are ignored as this finder doesn't avoid obstacles.
func (d *DirectPathFinder) FindPath(start, end core.Point, obstacles []*core.Node) Route {
	return Route{Segments: GenerateSimpleConnectionPath(start, end)}
}

// String returns a string representation of the path finder.
func (d *DirectPathFinder) String() string {
	return "DirectPathFinder"
}

// GenerateSimpleConnectionPath returns the orthogonal path between two anchors.
//
// Anchors less than AlignmentThreshold apart horizontally are joined by one
// vertical segment running at their average x; the exact anchors stay the
// first and last points. Otherwise the path is three segments, vertical,
// horizontal, vertical, with the horizontal leg at the exact arithmetic
// midpoint of the two y values so sibling branches line up.
func GenerateSimpleConnectionPath(start, end core.Point) []core.ConnectionSegment {
	if geometry.Abs(start.X-end.X) < AlignmentThreshold {
		avgX := (start.X + end.X) / 2
		return []core.ConnectionSegment{
			newSegment(0, core.Vertical, pinnedVertical(start, avgX, end)...),
		}
	}

	midY := (start.Y + end.Y) / 2
	bendTop := core.Point{X: start.X, Y: midY}
	bendBottom := core.Point{X: end.X, Y: midY}

	return []core.ConnectionSegment{
		newSegment(0, core.Vertical, start, bendTop),
		newSegment(1, core.Horizontal, bendTop, bendBottom),
		newSegment(2, core.Vertical, bendBottom, end),
	}
}

// pinnedVertical returns the points of a vertical run at x that starts and
// ends exactly on the given anchors.
func pinnedVertical(start core.Point, x float64, end core.Point) []core.Point {
	points := []core.Point{start}
	for _, p := range []core.Point{{X: x, Y: start.Y}, {X: x, Y: end.Y}, end} {
		if points[len(points)-1] != p {
			points = append(points, p)
		}
	}
	if len(points) == 1 {
		points = append(points, end)
	}
	return points
}
