// Package pathfinding synthesizes orthogonal connector polylines between two
// anchor points, optionally checking them against node obstacles.
package pathfinding

import (
	"fmt"

	"grafed/core"
)

// Routing constants. The constraint validator depends on these, so they are
// not configurable.
const (
	// AlignmentThreshold is the horizontal distance below which two anchors
	// are joined by a single vertical segment.
	AlignmentThreshold = 5.0

	// NearAlignedThreshold is the horizontal distance within which an upward
	// connection is considered to run along a single column.
	NearAlignedThreshold = 20.0

	// DetourOffset is how far left of the start an upward detour runs when
	// source and target are near-aligned.
	DetourOffset = 100.0

	// DegenerateLegTolerance is the length at or below which a detour leg is
	// dropped.
	DegenerateLegTolerance = 1.0
)

// Route is the result of a path search.
type Route struct {
	Segments []core.ConnectionSegment

	// Collisions lists the ids of the obstacles the midpoint path touches.
	Collisions []string

	// Detour is set when the route is the upward detour.
	Detour bool
}

// Points flattens the route into a single polyline without repeated joints.
func (r Route) Points() []core.Point {
	return FlattenSegments(r.Segments)
}

// PathFinder turns a start/end pair into connection segments.
type PathFinder interface {
	// FindPath returns the segments from start to end. The first point of the
	// first segment is start and the last point of the last segment is end.
	FindPath(start, end core.Point, obstacles []*core.Node) Route
}

// FlattenSegments joins segment points into a polyline, dropping the shared
// joint between consecutive segments.
func FlattenSegments(segments []core.ConnectionSegment) []core.Point {
	var points []core.Point
	for _, s := range segments {
		for _, p := range s.Points {
			if len(points) > 0 && points[len(points)-1] == p {
				continue
			}
			points = append(points, p)
		}
	}
	return points
}

// segmentID names the i-th segment of a freshly generated path. Callers
// that need globally unique ids rename them.
func segmentID(i int) string {
	return fmt.Sprintf("seg-%d", i)
}

func newSegment(i int, o core.Orientation, points ...core.Point) core.ConnectionSegment {
	return core.ConnectionSegment{ID: segmentID(i), Points: points, Orientation: o}
}
