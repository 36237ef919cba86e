package editor

import (
	"fmt"

	"grafed/connections"
	"grafed/core"
	"grafed/divergence"
	"grafed/validation"
)

// route recomputes the segments of c from the current snapshot.
func (s *Store) route(c *core.Connection) error {
	segments, err := s.router.RouteConnection(c, s.elements)
	if err != nil {
		return err
	}
	c.Segments = segments
	return nil
}

// rerouteNode re-routes every connection touching the node. Connections whose
// other end is missing keep their segments.
func (s *Store) rerouteNode(nodeID string) {
	for _, c := range core.Connections(s.elements) {
		if !c.Touches(nodeID) {
			continue
		}
		if err := s.route(c); err != nil {
			s.logger.Warn("connection not re-routed", "connection", c.ID, "err", err)
		}
	}
}

// RouteConnection re-routes one connection on request.
func (s *Store) RouteConnection(id string) error {
	c, err := s.connection(id)
	if err != nil {
		return err
	}
	if err := s.route(c); err != nil {
		return err
	}
	s.record("route")
	return nil
}

// ValidateAll checks every connection against its mandated anchors.
func (s *Store) ValidateAll() []validation.ConnectionReport {
	return validation.ValidateDiagram(s.elements)
}

// Lint runs the structural checks over the diagram.
func (s *Store) Lint() validation.Report {
	return validation.Lint(s.elements)
}

// EnforceAll re-routes every invalid connection and returns the ids of the
// repaired ones. Connections with a missing endpoint are skipped.
func (s *Store) EnforceAll() []string {
	var repaired []string
	for _, report := range validation.Invalid(s.ValidateAll()) {
		c, err := s.connection(report.ConnectionID)
		if err != nil {
			continue
		}
		if err := s.route(c); err != nil {
			s.logger.Warn("connection not repaired", "connection", c.ID, "err", err)
			continue
		}
		s.logger.Debug("connection repaired", "connection", c.ID, "violations", report.Violations)
		repaired = append(repaired, c.ID)
	}
	if len(repaired) > 0 {
		s.record("enforce")
	}
	return repaired
}

// DragSegment moves one segment of a connection towards point. It is the
// handler for pointer drags: an unknown connection or any failure while
// editing is logged and leaves the diagram unchanged. It reports whether the
// connection was updated.
func (s *Store) DragSegment(connectionID, segmentID string, point core.Point) (applied bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("segment drag failed", "connection", connectionID, "segment", segmentID, "panic", r)
			applied = false
		}
	}()

	c, err := s.connection(connectionID)
	if err != nil {
		s.logger.Warn("segment drag ignored", "err", err)
		return false
	}

	found := false
	for _, seg := range c.Segments {
		found = found || seg.ID == segmentID
	}
	if !found {
		s.logger.Warn("segment drag ignored", "connection", connectionID, "err", core.ErrSegmentNotFound, "segment", segmentID)
		return false
	}

	c.Segments = connections.UpdateConnectionSegment(c, segmentID, point)
	s.record("drag segment")
	return true
}

// NearestOpenDivergence reports the divergence structure above the element.
func (s *Store) NearestOpenDivergence(id string) divergence.Result {
	return divergence.FindNearestOpenDivergence(id, s.elements)
}

// Replace swaps the whole diagram, for example after loading a file.
func (s *Store) Replace(elements []core.Element) error {
	seen := make(map[string]bool, len(elements))
	for _, e := range elements {
		if seen[e.ElementID()] {
			return fmt.Errorf("%w: %s", core.ErrDuplicateElement, e.ElementID())
		}
		seen[e.ElementID()] = true
	}
	s.elements = core.CloneElements(elements)
	s.record("replace")
	return nil
}
