// Package obstacles selects the nodes a connection must be checked against
// and exposes them as rectangular zones.
package obstacles

import (
	"grafed/core"
)

// ObstacleZone represents a rectangular obstacle area
type ObstacleZone struct {
	Bounds core.Bounds
	Type   core.ElementType
	NodeID string
}

// ForConnection returns every step, transition and gate in the snapshot
// except the connection's own endpoints, in snapshot order. Connections and
// action blocks never obstruct.
func ForConnection(elements []core.Element, sourceID, targetID string) []*core.Node {
	var out []*core.Node
	for _, n := range core.Nodes(elements) {
		if n.ID == sourceID || n.ID == targetID {
			continue
		}
		if !n.Type.IsNode() {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Zones converts obstacle nodes into zones.
func Zones(nodes []*core.Node) []ObstacleZone {
	zones := make([]ObstacleZone, 0, len(nodes))
	for _, n := range nodes {
		zones = append(zones, ObstacleZone{Bounds: n.Bounds(), Type: n.Type, NodeID: n.ID})
	}
	return zones
}
