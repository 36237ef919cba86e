package editor

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grafed/core"
	"grafed/divergence"
	"grafed/validation"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("e%d", n)
	})
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	opts = append([]Option{sequentialIDs(), WithLogger(logger)}, opts...)
	return NewStore(nil, opts...), &buf
}

func mustNode(t *testing.T) func(*core.Node, error) *core.Node {
	return func(n *core.Node, err error) *core.Node {
		t.Helper()
		require.NoError(t, err)
		return n
	}
}

func TestStore_AddElements(t *testing.T) {
	s, _ := newTestStore(t)

	step := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepInitial, "0"))
	assert.Equal(t, "e1", step.ID)
	assert.Equal(t, DefaultSizes().Step, step.Size)

	_, err := s.AddStep(core.Point{X: 0, Y: 200}, core.StepInitial, "1")
	assert.ErrorIs(t, err, core.ErrDuplicateInitialStep)

	normal := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 200}, "", "1"))
	assert.Equal(t, core.StepNormal, normal.StepType)

	tr := mustNode(t)(s.AddTransition(core.Point{X: 10, Y: 100}, "start"))
	assert.Equal(t, "start", tr.Condition)

	_, err = s.AddGate(core.TypeAndGate, core.GateDivergence, core.Point{}, 1)
	assert.ErrorIs(t, err, core.ErrInvalidBranchCount)
	_, err = s.AddGate(core.TypeStep, core.GateDivergence, core.Point{}, 2)
	assert.ErrorIs(t, err, core.ErrInvalidElementType)
	_, err = s.AddGate(core.TypeOrGate, "sideways", core.Point{}, 2)
	assert.ErrorIs(t, err, core.ErrInvalidGateMode)

	gate := mustNode(t)(s.AddGate(core.TypeOrGate, core.GateConvergence, core.Point{X: 0, Y: 400}, 3))
	assert.Equal(t, 3, gate.BranchCount)

	assert.Equal(t, 4, s.Len())
}

func TestStore_AddActionBlock(t *testing.T) {
	s, _ := newTestStore(t)
	step := mustNode(t)(s.AddStep(core.Point{X: 100, Y: 50}, core.StepNormal, "1"))
	tr := mustNode(t)(s.AddTransition(core.Point{X: 0, Y: 0}, "a"))

	first, err := s.AddActionBlock(step.ID, "motor := 1")
	require.NoError(t, err)
	assert.Equal(t, core.Point{X: 180, Y: 50}, first.Position)

	second, err := s.AddActionBlock(step.ID, "lamp := 1")
	require.NoError(t, err)
	assert.Equal(t, core.Point{X: 180, Y: 90}, second.Position)

	_, err = s.AddActionBlock(tr.ID, "x")
	assert.ErrorIs(t, err, core.ErrNotAStep)
	_, err = s.AddActionBlock("missing", "x")
	assert.ErrorIs(t, err, core.ErrElementNotFound)
}

func TestStore_AddConnection(t *testing.T) {
	s, _ := newTestStore(t)
	step := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepInitial, "0"))
	tr := mustNode(t)(s.AddTransition(core.Point{X: 10, Y: 100}, "go"))

	conn, err := s.AddConnection(step.ID, tr.ID)
	require.NoError(t, err)
	require.Len(t, conn.Segments, 1)
	assert.Equal(t, core.Point{X: 30, Y: 60}, conn.Segments[0].First())
	assert.Equal(t, core.Point{X: 30, Y: 100}, conn.Segments[0].Last())

	_, err = s.AddConnection("ghost", tr.ID)
	assert.ErrorIs(t, err, core.ErrSourceNotFound)
	_, err = s.AddConnection(step.ID, "ghost")
	assert.ErrorIs(t, err, core.ErrTargetNotFound)
	assert.Equal(t, 3, s.Len())
}

func TestStore_MoveElementReroutes(t *testing.T) {
	s, _ := newTestStore(t)
	step := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepInitial, "0"))
	tr := mustNode(t)(s.AddTransition(core.Point{X: 10, Y: 100}, "go"))
	block, err := s.AddActionBlock(step.ID, "x")
	require.NoError(t, err)
	conn, err := s.AddConnection(step.ID, tr.ID)
	require.NoError(t, err)

	require.NoError(t, s.MoveElement(step.ID, core.Point{X: 200, Y: -40}))

	e, ok := s.GetElementByID(conn.ID)
	require.True(t, ok)
	moved := e.(*core.Connection)
	require.Len(t, moved.Segments, 3)
	assert.Equal(t, core.Point{X: 230, Y: 20}, moved.Segments[0].First())
	assert.Equal(t, core.Point{X: 30, Y: 100}, moved.Segments[2].Last())

	e, _ = s.GetElementByID(block.ID)
	assert.Equal(t, core.Point{X: 280, Y: -40}, e.(*core.ActionBlock).Position)

	for _, r := range s.ValidateAll() {
		assert.True(t, r.Valid, r.ConnectionID)
	}

	err = s.MoveElement(conn.ID, core.Point{})
	assert.ErrorIs(t, err, core.ErrNotANode)
	err = s.MoveElement("ghost", core.Point{})
	assert.ErrorIs(t, err, core.ErrElementNotFound)
}

func TestStore_UpdateNode(t *testing.T) {
	s, _ := newTestStore(t)
	s0 := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepInitial, "0"))
	s1 := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 200}, core.StepNormal, "1"))
	gate := mustNode(t)(s.AddGate(core.TypeAndGate, core.GateDivergence, core.Point{X: 0, Y: 400}, 2))

	require.NoError(t, s.UpdateNode(s1.ID, func(n *core.Node) {
		n.Label = "fill"
		n.ID = "hijack"
		n.Type = core.TypeTransition
	}))
	e, ok := s.GetElementByID(s1.ID)
	require.True(t, ok)
	assert.Equal(t, "fill", e.(*core.Node).Label)
	assert.Equal(t, core.TypeStep, e.(*core.Node).Type)

	err := s.UpdateNode(s1.ID, func(n *core.Node) { n.StepType = core.StepInitial })
	assert.ErrorIs(t, err, core.ErrDuplicateInitialStep)
	e, _ = s.GetElementByID(s1.ID)
	assert.Equal(t, core.StepNormal, e.(*core.Node).StepType)

	require.NoError(t, s.UpdateNode(s0.ID, func(n *core.Node) { n.StepType = core.StepInitial }))

	err = s.UpdateNode(gate.ID, func(n *core.Node) { n.BranchCount = 0 })
	assert.ErrorIs(t, err, core.ErrInvalidBranchCount)
}

func TestStore_UpdateNodePositionCarriesActionBlocks(t *testing.T) {
	s, _ := newTestStore(t)
	mustNode(t)(s.AddStep(core.Point{X: 0, Y: 400}, core.StepInitial, "0"))
	step := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepNormal, "1"))
	tr := mustNode(t)(s.AddTransition(core.Point{X: 10, Y: 100}, "go"))
	block, err := s.AddActionBlock(step.ID, "x")
	require.NoError(t, err)
	conn, err := s.AddConnection(step.ID, tr.ID)
	require.NoError(t, err)

	require.NoError(t, s.UpdateNode(step.ID, func(n *core.Node) {
		n.Position = core.Point{X: 200, Y: -40}
	}))

	e, ok := s.GetElementByID(block.ID)
	require.True(t, ok)
	assert.Equal(t, core.Point{X: 280, Y: -40}, e.(*core.ActionBlock).Position)

	e, _ = s.GetElementByID(conn.ID)
	assert.Equal(t, core.Point{X: 230, Y: 20}, e.(*core.Connection).Segments[0].First())

	// rejected updates leave the blocks in place
	err = s.UpdateNode(step.ID, func(n *core.Node) {
		n.Position = core.Point{X: 500, Y: 500}
		n.StepType = core.StepInitial
	})
	assert.ErrorIs(t, err, core.ErrDuplicateInitialStep)
	e, _ = s.GetElementByID(block.ID)
	assert.Equal(t, core.Point{X: 280, Y: -40}, e.(*core.ActionBlock).Position)
}

func TestStore_DeleteCascades(t *testing.T) {
	s, _ := newTestStore(t)
	step := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepInitial, "0"))
	tr := mustNode(t)(s.AddTransition(core.Point{X: 10, Y: 100}, "go"))
	other := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 200}, core.StepNormal, "1"))
	_, err := s.AddActionBlock(step.ID, "x")
	require.NoError(t, err)
	_, err = s.AddConnection(step.ID, tr.ID)
	require.NoError(t, err)
	keep, err := s.AddConnection(tr.ID, other.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteElement(step.ID))

	assert.Equal(t, []string{tr.ID, other.ID, keep.ID}, elementIDs(s.Elements()))
	assert.ErrorIs(t, s.DeleteElement(step.ID), core.ErrElementNotFound)

	require.NoError(t, s.DeleteElement(keep.ID))
	assert.Equal(t, []string{tr.ID, other.ID}, elementIDs(s.Elements()))
}

func TestStore_UndoRedo(t *testing.T) {
	s, _ := newTestStore(t)
	assert.False(t, s.CanUndo())

	step := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepInitial, "0"))
	require.NoError(t, s.MoveElement(step.ID, core.Point{X: 50, Y: 50}))

	require.NoError(t, s.Undo())
	e, _ := s.GetElementByID(step.ID)
	assert.Equal(t, core.Point{X: 0, Y: 0}, e.(*core.Node).Position)

	require.NoError(t, s.Undo())
	assert.Equal(t, 0, s.Len())
	assert.ErrorIs(t, s.Undo(), core.ErrNothingToUndo)

	require.NoError(t, s.Redo())
	require.NoError(t, s.Redo())
	e, _ = s.GetElementByID(step.ID)
	assert.Equal(t, core.Point{X: 50, Y: 50}, e.(*core.Node).Position)
	assert.False(t, s.CanRedo())
}

func TestStore_ElementsAreCopies(t *testing.T) {
	s, _ := newTestStore(t)
	step := mustNode(t)(s.AddStep(core.Point{X: 0, Y: 0}, core.StepInitial, "0"))

	s.Elements()[0].(*core.Node).Position.X = 999
	step.Position.X = 999

	e, _ := s.GetElementByID(step.ID)
	assert.Equal(t, 0.0, e.(*core.Node).Position.X)
}

func TestStore_EnforceAll(t *testing.T) {
	s0 := &core.Node{ID: "s0", Type: core.TypeStep, StepType: core.StepInitial, Size: core.Size{Width: 60, Height: 60}}
	t0 := &core.Node{ID: "t0", Type: core.TypeTransition, Position: core.Point{X: 10, Y: 100}, Size: core.Size{Width: 40, Height: 10}}
	stale := &core.Connection{ID: "c0", SourceID: "s0", TargetID: "t0", Segments: []core.ConnectionSegment{
		{ID: "x", Orientation: core.Vertical, Points: []core.Point{{X: 5, Y: 5}, {X: 5, Y: 50}}},
	}}
	empty := &core.Connection{ID: "c1", SourceID: "t0", TargetID: "s0"}
	dangling := &core.Connection{ID: "c2", SourceID: "t0", TargetID: "ghost"}

	s := NewStore([]core.Element{s0, t0, stale, empty, dangling})
	assert.Len(t, validation.Invalid(s.ValidateAll()), 3)

	repaired := s.EnforceAll()
	assert.Equal(t, []string{"c0", "c1"}, repaired)

	invalid := validation.Invalid(s.ValidateAll())
	require.Len(t, invalid, 1)
	assert.Equal(t, "c2", invalid[0].ConnectionID)

	e, _ := s.GetElementByID("c1")
	loop := e.(*core.Connection)
	assert.Equal(t, "c1-s0", loop.Segments[0].ID)

	assert.Empty(t, s.EnforceAll())
}

func TestStore_RouteConnection(t *testing.T) {
	s0 := &core.Node{ID: "s0", Type: core.TypeStep, Size: core.Size{Width: 60, Height: 60}}
	t0 := &core.Node{ID: "t0", Type: core.TypeTransition, Position: core.Point{X: 10, Y: 100}, Size: core.Size{Width: 40, Height: 10}}
	c0 := &core.Connection{ID: "c0", SourceID: "s0", TargetID: "t0"}
	s := NewStore([]core.Element{s0, t0, c0}, WithRouteCache(8))

	require.NoError(t, s.RouteConnection("c0"))
	assert.True(t, s.ValidateAll()[0].Valid)

	assert.ErrorIs(t, s.RouteConnection("s0"), core.ErrNotAConnection)
	assert.ErrorIs(t, s.RouteConnection("nope"), core.ErrElementNotFound)
}

func TestStore_DragSegment(t *testing.T) {
	s, logs := newTestStore(t)
	a := mustNode(t)(s.AddStep(core.Point{X: 70, Y: 0}, core.StepInitial, "0"))
	b := mustNode(t)(s.AddTransition(core.Point{X: 280, Y: 200}, "go"))
	conn, err := s.AddConnection(a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, conn.Segments, 3)

	assert.True(t, s.DragSegment(conn.ID, conn.Segments[1].ID, core.Point{X: 0, Y: 150}))
	e, _ := s.GetElementByID(conn.ID)
	dragged := e.(*core.Connection)
	assert.Equal(t, 150.0, dragged.Segments[1].First().Y)
	assert.True(t, s.ValidateAll()[0].Valid, "anchors survive the drag")

	assert.False(t, s.DragSegment("ghost", "s", core.Point{}))
	assert.False(t, s.DragSegment(conn.ID, "ghost", core.Point{}))
	assert.Contains(t, logs.String(), "segment drag ignored")
}

func TestStore_DragSegmentUndo(t *testing.T) {
	c0 := &core.Connection{ID: "c0", SourceID: "a", TargetID: "b", Segments: []core.ConnectionSegment{
		{ID: "v0", Orientation: core.Vertical, Points: []core.Point{{X: 0, Y: 0}, {X: 0, Y: 10}}},
		{ID: "h", Orientation: core.Horizontal, Points: []core.Point{{X: 0, Y: 10}, {X: 10, Y: 10}}},
		{ID: "v1", Orientation: core.Vertical, Points: []core.Point{{X: 10, Y: 10}, {X: 10, Y: 20}}},
	}}
	s := NewStore([]core.Element{c0})

	require.True(t, s.DragSegment("c0", "h", core.Point{X: 5, Y: 5}))
	e, _ := s.GetElementByID("c0")
	assert.Equal(t, []core.Point{{X: 0, Y: 5}, {X: 10, Y: 5}}, e.(*core.Connection).Segments[1].Points)
	assert.True(t, s.CanUndo())

	require.NoError(t, s.Undo())
	e, _ = s.GetElementByID("c0")
	assert.Equal(t, c0.Segments, e.(*core.Connection).Segments)
}

func TestStore_NearestOpenDivergence(t *testing.T) {
	s, _ := newTestStore(t)
	root := mustNode(t)(s.AddStep(core.Point{X: 200, Y: 0}, core.StepInitial, "0"))
	t1 := mustNode(t)(s.AddTransition(core.Point{X: 100, Y: 100}, "a"))
	t2 := mustNode(t)(s.AddTransition(core.Point{X: 300, Y: 100}, "b"))
	x := mustNode(t)(s.AddStep(core.Point{X: 100, Y: 200}, core.StepNormal, "1"))
	y := mustNode(t)(s.AddStep(core.Point{X: 300, Y: 200}, core.StepNormal, "2"))
	for _, pair := range [][2]string{{root.ID, t1.ID}, {root.ID, t2.ID}, {t1.ID, x.ID}, {t2.ID, y.ID}} {
		_, err := s.AddConnection(pair[0], pair[1])
		require.NoError(t, err)
	}

	res := s.NearestOpenDivergence(x.ID)
	assert.True(t, res.IsOpen)
	assert.Equal(t, divergence.KindOR, res.Type)
	assert.Equal(t, root.ID, res.Start.ID)

	gate := mustNode(t)(s.AddGate(core.TypeOrGate, core.GateConvergence, core.Point{X: 100, Y: 300}, 2))
	_, err := s.AddConnection(y.ID, gate.ID)
	require.NoError(t, err)

	assert.False(t, s.NearestOpenDivergence(x.ID).IsOpen)
}

func TestStore_Replace(t *testing.T) {
	s, _ := newTestStore(t)
	mustNode(t)(s.AddStep(core.Point{}, core.StepInitial, "0"))

	err := s.Replace([]core.Element{
		&core.Node{ID: "a", Type: core.TypeStep},
		&core.Node{ID: "a", Type: core.TypeStep},
	})
	assert.ErrorIs(t, err, core.ErrDuplicateElement)

	require.NoError(t, s.Replace([]core.Element{&core.Node{ID: "b", Type: core.TypeStep}}))
	assert.Equal(t, []string{"b"}, elementIDs(s.Elements()))

	require.NoError(t, s.Undo())
	assert.Equal(t, []string{"e1"}, elementIDs(s.Elements()))
}
