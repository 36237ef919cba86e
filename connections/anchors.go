// Package connections computes where connections attach to nodes, regenerates
// their orthogonal segments, and applies interactive segment drags.
package connections

import (
	"grafed/core"
	"grafed/geometry"
)

// Endpoints holds the mandated start and end anchor of a connection.
type Endpoints struct {
	Start core.Point
	End   core.Point
}

// IsUpward reports whether the target lies above the source, i.e. the
// source's bottom edge is below the target's top edge.
func IsUpward(source, target *core.Node) bool {
	return source.Bounds().Max.Y > target.Bounds().Min.Y
}

// CalculateConnectionPoints returns the anchors a connection from source to
// target must use. Flow is top-to-bottom: the start sits at the source's
// bottom center and the end at the target's top center, regardless of where
// the nodes are. An AND gate instead anchors at the other node's center x,
// clamped to the gate's synchronization bar, so several connections can fan
// out along it.
func CalculateConnectionPoints(source, target *core.Node) Endpoints {
	sb := source.Bounds()
	tb := target.Bounds()
	upward := IsUpward(source, target)

	start := core.Point{X: sb.CenterX(), Y: sb.Max.Y}
	end := core.Point{X: tb.CenterX(), Y: tb.Min.Y}

	if source.Type == core.TypeAndGate {
		start.X = geometry.Clamp(tb.CenterX(), sb.Min.X, sb.Max.X)
		if upward {
			start.Y = sb.Min.Y
		}
	}

	if target.Type == core.TypeAndGate {
		end.X = geometry.Clamp(sb.CenterX(), tb.Min.X, tb.Max.X)
		if upward {
			end.Y = tb.Max.Y
		}
	}

	return Endpoints{Start: start, End: end}
}
