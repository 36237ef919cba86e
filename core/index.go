package core

// Index is a read-only lookup over an element snapshot. It keeps the
// snapshot order for connections so traversals are deterministic.
type Index struct {
	byID     map[string]Element
	outgoing map[string][]*Connection
	incoming map[string][]*Connection
}

// NewIndex builds an index over elements. Later duplicates win.
func NewIndex(elements []Element) *Index {
	idx := &Index{
		byID:     make(map[string]Element, len(elements)),
		outgoing: make(map[string][]*Connection),
		incoming: make(map[string][]*Connection),
	}
	for _, e := range elements {
		idx.byID[e.ElementID()] = e
		if c, ok := e.(*Connection); ok {
			idx.outgoing[c.SourceID] = append(idx.outgoing[c.SourceID], c)
			idx.incoming[c.TargetID] = append(idx.incoming[c.TargetID], c)
		}
	}
	return idx
}

// Get returns the element with the given id.
func (idx *Index) Get(id string) (Element, bool) {
	e, ok := idx.byID[id]
	return e, ok
}

// Node returns the node with the given id, or nil.
func (idx *Index) Node(id string) *Node {
	n, _ := idx.byID[id].(*Node)
	return n
}

// Outgoing returns the connections leaving id in snapshot order.
func (idx *Index) Outgoing(id string) []*Connection {
	return idx.outgoing[id]
}

// Incoming returns the connections arriving at id in snapshot order.
func (idx *Index) Incoming(id string) []*Connection {
	return idx.incoming[id]
}

// Nodes returns every node of a snapshot in order.
func Nodes(elements []Element) []*Node {
	var nodes []*Node
	for _, e := range elements {
		if n, ok := e.(*Node); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Connections returns every connection of a snapshot in order.
func Connections(elements []Element) []*Connection {
	var conns []*Connection
	for _, e := range elements {
		if c, ok := e.(*Connection); ok {
			conns = append(conns, c)
		}
	}
	return conns
}
