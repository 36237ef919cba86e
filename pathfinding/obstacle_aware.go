package pathfinding

import (
	"grafed/core"
	"grafed/geometry"
	"grafed/obstacles"
)

// ObstacleAwarePathFinder checks the simple path against node bounding boxes
// and reroutes upward connections around the diagram.
type ObstacleAwarePathFinder struct{}

// NewObstacleAwarePathFinder creates a new obstacle-aware path finder.
func NewObstacleAwarePathFinder() *ObstacleAwarePathFinder {
	return &ObstacleAwarePathFinder{}
}

// FindPath returns the obstacle-checked path from start to end.
func (o *ObstacleAwarePathFinder) FindPath(start, end core.Point, nodes []*core.Node) Route {
	if start.Y > end.Y {
		return Route{Segments: detourPath(start, end), Detour: true}
	}

	simple := GenerateSimpleConnectionPath(start, end)

	// Downward flows keep the midpoint path even when it collides; the
	// collisions are only reported.
	return Route{
		Segments:   simple,
		Collisions: FindCollisions(FlattenSegments(simple), nodes),
	}
}

// String returns a string representation of the path finder.
func (o *ObstacleAwarePathFinder) String() string {
	return "ObstacleAwarePathFinder"
}

// GenerateComplexConnectionPath returns the segments the obstacle-aware path
// finder produces for start and end.
func GenerateComplexConnectionPath(start, end core.Point, nodes []*core.Node) []core.ConnectionSegment {
	return NewObstacleAwarePathFinder().FindPath(start, end, nodes).Segments
}

// FindCollisions returns the ids of the step, transition and gate obstacles
// whose bounding box the polyline touches, in obstacle order.
func FindCollisions(points []core.Point, nodes []*core.Node) []string {
	candidates := make([]*core.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil && n.Type.IsNode() {
			candidates = append(candidates, n)
		}
	}

	var hits []string
	for _, z := range obstacles.Zones(candidates) {
		if geometry.PolylineIntersectsRect(points, z.Bounds) {
			hits = append(hits, z.NodeID)
		}
	}
	return hits
}

// DetourX returns the column an upward connection climbs along.
func DetourX(start, end core.Point) float64 {
	if geometry.Abs(start.X-end.X) <= NearAlignedThreshold {
		return start.X - DetourOffset
	}
	return min(start.X, end.X)
}

// detourPath builds the horizontal, vertical, horizontal detour for an upward
// connection. Legs no longer than DegenerateLegTolerance are dropped, and the
// last point is always the exact end anchor.
func detourPath(start, end core.Point) []core.ConnectionSegment {
	x := DetourX(start, end)

	type leg struct {
		to          core.Point
		orientation core.Orientation
	}
	legs := []leg{
		{core.Point{X: x, Y: start.Y}, core.Horizontal},
		{core.Point{X: x, Y: end.Y}, core.Vertical},
		{end, core.Horizontal},
	}

	var segments []core.ConnectionSegment
	cursor := start
	for _, l := range legs {
		to := l.to
		if l.orientation == core.Horizontal {
			to.Y = cursor.Y
			if geometry.Abs(to.X-cursor.X) <= DegenerateLegTolerance {
				continue
			}
		} else {
			to.X = cursor.X
			if geometry.Abs(to.Y-cursor.Y) <= DegenerateLegTolerance {
				continue
			}
		}
		segments = append(segments, newSegment(len(segments), l.orientation, cursor, to))
		cursor = to
	}

	if len(segments) == 0 {
		return []core.ConnectionSegment{newSegment(0, core.Vertical, start, end)}
	}

	last := &segments[len(segments)-1]
	last.Points[len(last.Points)-1] = end
	return segments
}
