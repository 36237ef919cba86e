// Package core contains the fundamental types used throughout the grafed diagram core.
package core

// Point represents a coordinate on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size represents the extent of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds represents an axis-aligned rectangular area.
type Bounds struct {
	Min, Max Point
}

// Width returns the width of the bounds.
func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounds.
func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// CenterX returns the horizontal center of the bounds.
func (b Bounds) CenterX() float64 {
	return b.Min.X + b.Width()/2
}

// Contains checks if a point is within the bounds, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether two bounds overlap, edges included.
func (b Bounds) Intersects(o Bounds) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

// ElementType is the discriminator of every diagram element.
type ElementType string

const (
	TypeStep        ElementType = "step"
	TypeTransition  ElementType = "transition"
	TypeAndGate     ElementType = "and-gate"
	TypeOrGate      ElementType = "or-gate"
	TypeActionBlock ElementType = "action-block"
	TypeConnection  ElementType = "connection"
)

// IsNode reports whether elements of this type take part in the routing graph.
func (t ElementType) IsNode() bool {
	switch t {
	case TypeStep, TypeTransition, TypeAndGate, TypeOrGate:
		return true
	default:
		return false
	}
}

// IsGate reports whether t is one of the gate types.
func (t ElementType) IsGate() bool {
	return t == TypeAndGate || t == TypeOrGate
}

// StepType distinguishes the step variants.
type StepType string

const (
	StepInitial StepType = "initial"
	StepNormal  StepType = "normal"
	StepTask    StepType = "task"
	StepMacro   StepType = "macro"
)

// GateMode says whether a gate opens or closes a parallel structure.
type GateMode string

const (
	GateDivergence  GateMode = "divergence"
	GateConvergence GateMode = "convergence"
)

// Orientation is the axis a connection segment runs along.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Element is a diagram element. The set of implementations is closed:
// *Node, *ActionBlock and *Connection.
type Element interface {
	ElementID() string
	ElementType() ElementType
	isElement()
}

// Node is a sized, positioned element of the routing graph: a step, a
// transition or a gate. Fields that only apply to one variant are left at
// their zero value for the others.
type Node struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Position Point       `json:"position"` // top-left corner
	Size     Size        `json:"size"`
	Label    string      `json:"label,omitempty"`

	StepType  StepType `json:"stepType,omitempty"`  // steps
	Condition string   `json:"condition,omitempty"` // transitions

	GateMode    GateMode `json:"gateMode,omitempty"` // gates
	BranchCount int      `json:"branchCount,omitempty"`
}

func (n *Node) ElementID() string        { return n.ID }
func (n *Node) ElementType() ElementType { return n.Type }
func (*Node) isElement()                 {}

// Bounds returns the bounding box of the node.
func (n *Node) Bounds() Bounds {
	return Bounds{
		Min: n.Position,
		Max: Point{X: n.Position.X + n.Size.Width, Y: n.Position.Y + n.Size.Height},
	}
}

// Center returns the center point of the node.
func (n *Node) Center() Point {
	return Point{
		X: n.Position.X + n.Size.Width/2,
		Y: n.Position.Y + n.Size.Height/2,
	}
}

// IsStep reports whether the node is a step.
func (n *Node) IsStep() bool { return n.Type == TypeStep }

// IsTransition reports whether the node is a transition.
func (n *Node) IsTransition() bool { return n.Type == TypeTransition }

// IsGate reports whether the node is an AND or OR gate.
func (n *Node) IsGate() bool { return n.Type.IsGate() }

// Clone returns a copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// ActionBlock is attached to a parent step. It is not part of the routing graph.
type ActionBlock struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
	Action   string `json:"action,omitempty"`
}

func (a *ActionBlock) ElementID() string      { return a.ID }
func (*ActionBlock) ElementType() ElementType { return TypeActionBlock }
func (*ActionBlock) isElement()               {}

// Clone returns a copy of the action block.
func (a *ActionBlock) Clone() *ActionBlock {
	c := *a
	return &c
}

// ConnectionSegment is one axis-aligned run of a connection polyline.
type ConnectionSegment struct {
	ID          string      `json:"id"`
	Points      []Point     `json:"points"`
	Orientation Orientation `json:"orientation"`
}

// First returns the first point of the segment.
func (s ConnectionSegment) First() Point { return s.Points[0] }

// Last returns the last point of the segment.
func (s ConnectionSegment) Last() Point { return s.Points[len(s.Points)-1] }

// Clone returns a deep copy of the segment.
func (s ConnectionSegment) Clone() ConnectionSegment {
	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	return ConnectionSegment{ID: s.ID, Points: points, Orientation: s.Orientation}
}

// Connection is a directed edge between two nodes. Its geometry is entirely
// the Segments sequence.
type Connection struct {
	ID       string              `json:"id"`
	SourceID string              `json:"sourceId"`
	TargetID string              `json:"targetId"`
	Segments []ConnectionSegment `json:"segments"`
}

func (c *Connection) ElementID() string      { return c.ID }
func (*Connection) ElementType() ElementType { return TypeConnection }
func (*Connection) isElement()               {}

// Touches reports whether the connection starts or ends at the given node.
func (c *Connection) Touches(nodeID string) bool {
	return c.SourceID == nodeID || c.TargetID == nodeID
}

// Clone returns a deep copy of the connection.
func (c *Connection) Clone() *Connection {
	clone := &Connection{ID: c.ID, SourceID: c.SourceID, TargetID: c.TargetID}
	clone.Segments = CloneSegments(c.Segments)
	return clone
}

// CloneSegments deep copies a segment sequence.
func CloneSegments(segments []ConnectionSegment) []ConnectionSegment {
	if segments == nil {
		return nil
	}
	out := make([]ConnectionSegment, len(segments))
	for i, s := range segments {
		out[i] = s.Clone()
	}
	return out
}

// CloneElement returns a deep copy of any element.
func CloneElement(e Element) Element {
	switch v := e.(type) {
	case *Node:
		return v.Clone()
	case *ActionBlock:
		return v.Clone()
	case *Connection:
		return v.Clone()
	default:
		return e
	}
}

// CloneElements deep copies an element snapshot.
func CloneElements(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = CloneElement(e)
	}
	return out
}
