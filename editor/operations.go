package editor

import (
	"fmt"

	"grafed/core"
)

// actionBlockGap is the horizontal distance between a step and its action
// blocks.
const actionBlockGap = 20.0

// AddStep adds a step with its top-left corner at pos. Only one initial step
// may exist.
func (s *Store) AddStep(pos core.Point, stepType core.StepType, label string) (*core.Node, error) {
	if stepType == "" {
		stepType = core.StepNormal
	}
	if stepType == core.StepInitial && s.hasInitialStep("") {
		return nil, core.ErrDuplicateInitialStep
	}

	n := &core.Node{
		ID:       s.newID(),
		Type:     core.TypeStep,
		Position: pos,
		Size:     s.sizes.Step,
		Label:    label,
		StepType: stepType,
	}
	s.elements = append(s.elements, n)
	s.record("add step")
	return n.Clone(), nil
}

// AddTransition adds a transition guarded by condition.
func (s *Store) AddTransition(pos core.Point, condition string) (*core.Node, error) {
	n := &core.Node{
		ID:        s.newID(),
		Type:      core.TypeTransition,
		Position:  pos,
		Size:      s.sizes.Transition,
		Condition: condition,
	}
	s.elements = append(s.elements, n)
	s.record("add transition")
	return n.Clone(), nil
}

// AddGate adds an AND or OR gate opening or closing branchCount branches.
func (s *Store) AddGate(typ core.ElementType, mode core.GateMode, pos core.Point, branchCount int) (*core.Node, error) {
	if !typ.IsGate() {
		return nil, fmt.Errorf("%w: %q is not a gate", core.ErrInvalidElementType, typ)
	}
	if mode != core.GateDivergence && mode != core.GateConvergence {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidGateMode, mode)
	}
	if branchCount < 2 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidBranchCount, branchCount)
	}

	n := &core.Node{
		ID:          s.newID(),
		Type:        typ,
		Position:    pos,
		Size:        s.sizes.Gate,
		GateMode:    mode,
		BranchCount: branchCount,
	}
	s.elements = append(s.elements, n)
	s.record("add gate")
	return n.Clone(), nil
}

// AddActionBlock attaches an action to a step. Blocks are placed to the
// right of the step, stacked top to bottom.
func (s *Store) AddActionBlock(parentStepID, action string) (*core.ActionBlock, error) {
	parent, err := s.node(parentStepID)
	if err != nil {
		return nil, err
	}
	if !parent.IsStep() {
		return nil, fmt.Errorf("%w: %s", core.ErrNotAStep, parentStepID)
	}

	stacked := len(s.actionBlocks(parentStepID))
	a := &core.ActionBlock{
		ID:       s.newID(),
		ParentID: parentStepID,
		Position: core.Point{
			X: parent.Position.X + parent.Size.Width + actionBlockGap,
			Y: parent.Position.Y + float64(stacked)*s.sizes.ActionBlock.Height,
		},
		Size:   s.sizes.ActionBlock,
		Action: action,
	}
	s.elements = append(s.elements, a)
	s.record("add action block")
	return a.Clone(), nil
}

// AddConnection connects two existing nodes and routes the new connection.
// Unknown endpoints fail fast.
func (s *Store) AddConnection(sourceID, targetID string) (*core.Connection, error) {
	if n, _ := s.node(sourceID); n == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrSourceNotFound, sourceID)
	}
	if n, _ := s.node(targetID); n == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrTargetNotFound, targetID)
	}

	c := &core.Connection{ID: s.newID(), SourceID: sourceID, TargetID: targetID}
	s.elements = append(s.elements, c)
	if err := s.route(c); err != nil {
		s.elements = s.elements[:len(s.elements)-1]
		return nil, err
	}
	s.record("add connection")
	return c.Clone(), nil
}

// MoveElement moves a node or action block so its top-left corner is at pos.
// A step's action blocks move with it and every connection touching a moved
// node is re-routed.
func (s *Store) MoveElement(id string, pos core.Point) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrElementNotFound, id)
	}

	switch e := s.elements[i].(type) {
	case *core.Node:
		from := e.Position
		e.Position = pos
		s.shiftActionBlocks(e.ID, from, pos)
		s.rerouteNode(e.ID)
	case *core.ActionBlock:
		e.Position = pos
	default:
		return fmt.Errorf("%w: %s", core.ErrNotANode, id)
	}

	s.record("move")
	return nil
}

// UpdateNode applies mutate to the node and re-routes its connections. The
// id and type cannot be changed. A position change carries the step's action
// blocks along as MoveElement does.
func (s *Store) UpdateNode(id string, mutate func(*core.Node)) error {
	n, err := s.node(id)
	if err != nil {
		return err
	}

	before := n.Clone()
	mutate(n)
	n.ID, n.Type = before.ID, before.Type

	if n.IsStep() && n.StepType == core.StepInitial && s.hasInitialStep(n.ID) {
		*n = *before
		return core.ErrDuplicateInitialStep
	}
	if n.IsGate() && n.BranchCount < 2 {
		count := n.BranchCount
		*n = *before
		return fmt.Errorf("%w: %d", core.ErrInvalidBranchCount, count)
	}

	s.shiftActionBlocks(id, before.Position, n.Position)
	s.rerouteNode(id)
	s.record("update")
	return nil
}

// DeleteElement removes an element. Deleting a node also removes its
// connections, and deleting a step removes its action blocks.
func (s *Store) DeleteElement(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrElementNotFound, id)
	}

	_, isNode := s.elements[i].(*core.Node)
	kept := make([]core.Element, 0, len(s.elements))
	for _, e := range s.elements {
		switch v := e.(type) {
		case *core.Connection:
			if v.ID == id || (isNode && v.Touches(id)) {
				continue
			}
		case *core.ActionBlock:
			if v.ID == id || (isNode && v.ParentID == id) {
				continue
			}
		case *core.Node:
			if v.ID == id {
				continue
			}
		}
		kept = append(kept, e)
	}

	removed := len(s.elements) - len(kept)
	s.elements = kept
	s.logger.Debug("deleted", "id", id, "elements", removed)
	s.record("delete")
	return nil
}

func (s *Store) hasInitialStep(except string) bool {
	for _, n := range core.Nodes(s.elements) {
		if n.ID != except && n.IsStep() && n.StepType == core.StepInitial {
			return true
		}
	}
	return false
}

// shiftActionBlocks moves the blocks of stepID by the offset from -> to.
func (s *Store) shiftActionBlocks(stepID string, from, to core.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 && dy == 0 {
		return
	}
	for _, a := range s.actionBlocks(stepID) {
		a.Position.X += dx
		a.Position.Y += dy
	}
}

func (s *Store) actionBlocks(stepID string) []*core.ActionBlock {
	var out []*core.ActionBlock
	for _, e := range s.elements {
		if a, ok := e.(*core.ActionBlock); ok && a.ParentID == stepID {
			out = append(out, a)
		}
	}
	return out
}
