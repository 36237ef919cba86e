package connections

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"grafed/core"
	"grafed/obstacles"
	"grafed/pathfinding"
)

// Router handles the routing of connections between nodes in a diagram.
type Router struct {
	pathFinder pathfinding.PathFinder
	logger     *log.Logger
}

// NewRouter creates a new connection router. A nil pathFinder selects the
// obstacle-aware finder and a nil logger discards output.
func NewRouter(pathFinder pathfinding.PathFinder, logger *log.Logger) *Router {
	if pathFinder == nil {
		pathFinder = pathfinding.NewObstacleAwarePathFinder()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Router{pathFinder: pathFinder, logger: logger}
}

// Enforce recomputes the segments of conn from scratch: anchors first, then
// the obstacle-checked path. The existing segments are ignored and conn is
// not modified; callers write the result back.
func (r *Router) Enforce(conn *core.Connection, source, target *core.Node, obstacleNodes []*core.Node) []core.ConnectionSegment {
	ends := CalculateConnectionPoints(source, target)
	route := r.pathFinder.FindPath(ends.Start, ends.End, obstacleNodes)

	if len(route.Collisions) > 0 {
		r.logger.Debug("route crosses nodes",
			"connection", conn.ID, "source", source.ID, "target", target.ID,
			"obstacles", route.Collisions)
	}
	if route.Detour {
		r.logger.Debug("upward connection rerouted", "connection", conn.ID,
			"segments", len(route.Segments))
	}

	segments := route.Segments
	for i := range segments {
		segments[i].ID = fmt.Sprintf("%s-s%d", conn.ID, i)
	}
	return segments
}

// RouteConnection resolves the endpoints of conn in the snapshot and returns
// its freshly routed segments. Every other step, transition and gate in the
// snapshot is an obstacle.
func (r *Router) RouteConnection(conn *core.Connection, elements []core.Element) ([]core.ConnectionSegment, error) {
	idx := core.NewIndex(elements)
	source := idx.Node(conn.SourceID)
	if source == nil {
		return nil, fmt.Errorf("connection %s: %w: %s", conn.ID, core.ErrSourceNotFound, conn.SourceID)
	}
	target := idx.Node(conn.TargetID)
	if target == nil {
		return nil, fmt.Errorf("connection %s: %w: %s", conn.ID, core.ErrTargetNotFound, conn.TargetID)
	}

	return r.Enforce(conn, source, target, obstacles.ForConnection(elements, source.ID, target.ID)), nil
}

// RouteConnections routes every connection of the snapshot. Each connection
// depends only on its own endpoints and the node obstacles, so the result is
// independent of routing order.
func (r *Router) RouteConnections(elements []core.Element) (map[string][]core.ConnectionSegment, error) {
	routes := make(map[string][]core.ConnectionSegment)
	for _, conn := range core.Connections(elements) {
		segments, err := r.RouteConnection(conn, elements)
		if err != nil {
			return nil, err
		}
		routes[conn.ID] = segments
	}
	return routes, nil
}

// EnforceConnectionConstraints recomputes the segments of conn with the
// obstacle-aware path finder.
func EnforceConnectionConstraints(conn *core.Connection, source, target *core.Node, obstacleNodes []*core.Node) []core.ConnectionSegment {
	return NewRouter(nil, nil).Enforce(conn, source, target, obstacleNodes)
}
