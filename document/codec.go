package document

import (
	"encoding/json"
	"fmt"

	"grafed/core"
)

// wireElement is the flat JSON shape shared by every element type. The type
// field selects which of the other fields apply.
type wireElement struct {
	ID   string           `json:"id"`
	Type core.ElementType `json:"type"`

	Position *core.Point `json:"position,omitempty"`
	Size     *core.Size  `json:"size,omitempty"`
	Label    string      `json:"label,omitempty"`

	StepType    core.StepType `json:"stepType,omitempty"`
	Condition   string        `json:"condition,omitempty"`
	GateMode    core.GateMode `json:"gateMode,omitempty"`
	BranchCount *int          `json:"branchCount,omitempty"`

	ParentID string `json:"parentId,omitempty"`
	Action   string `json:"action,omitempty"`

	SourceID string                   `json:"sourceId,omitempty"`
	TargetID string                   `json:"targetId,omitempty"`
	Segments []core.ConnectionSegment `json:"segments,omitempty"`
}

func toWire(e core.Element) (wireElement, error) {
	switch v := e.(type) {
	case *core.Node:
		w := wireElement{
			ID:        v.ID,
			Type:      v.Type,
			Position:  &v.Position,
			Size:      &v.Size,
			Label:     v.Label,
			StepType:  v.StepType,
			Condition: v.Condition,
			GateMode:  v.GateMode,
		}
		if v.IsGate() {
			count := v.BranchCount
			w.BranchCount = &count
		}
		return w, nil
	case *core.ActionBlock:
		return wireElement{
			ID:       v.ID,
			Type:     core.TypeActionBlock,
			Position: &v.Position,
			Size:     &v.Size,
			ParentID: v.ParentID,
			Action:   v.Action,
		}, nil
	case *core.Connection:
		return wireElement{
			ID:       v.ID,
			Type:     core.TypeConnection,
			SourceID: v.SourceID,
			TargetID: v.TargetID,
			Segments: v.Segments,
		}, nil
	default:
		return wireElement{}, fmt.Errorf("%w: %T", core.ErrInvalidElementType, e)
	}
}

func fromWire(w wireElement) (core.Element, error) {
	switch {
	case w.Type.IsNode():
		n := &core.Node{
			ID:        w.ID,
			Type:      w.Type,
			Label:     w.Label,
			StepType:  w.StepType,
			Condition: w.Condition,
			GateMode:  w.GateMode,
		}
		if w.Position != nil {
			n.Position = *w.Position
		}
		if w.Size != nil {
			n.Size = *w.Size
		}
		if w.BranchCount != nil {
			n.BranchCount = *w.BranchCount
		}
		return n, nil
	case w.Type == core.TypeActionBlock:
		a := &core.ActionBlock{ID: w.ID, ParentID: w.ParentID, Action: w.Action}
		if w.Position != nil {
			a.Position = *w.Position
		}
		if w.Size != nil {
			a.Size = *w.Size
		}
		return a, nil
	case w.Type == core.TypeConnection:
		return &core.Connection{
			ID:       w.ID,
			SourceID: w.SourceID,
			TargetID: w.TargetID,
			Segments: w.Segments,
		}, nil
	default:
		return nil, fmt.Errorf("element %q: %w: %q", w.ID, core.ErrInvalidElementType, w.Type)
	}
}

// MarshalElements encodes an element snapshot as a JSON array.
func MarshalElements(elements []core.Element) ([]byte, error) {
	wire := make([]wireElement, 0, len(elements))
	for _, e := range elements {
		w, err := toWire(e)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

// UnmarshalElements decodes a JSON array produced by MarshalElements.
func UnmarshalElements(data []byte) ([]core.Element, error) {
	var wire []wireElement
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	return decodeElements(wire)
}

func decodeElements(wire []wireElement) ([]core.Element, error) {
	elements := make([]core.Element, 0, len(wire))
	seen := make(map[string]bool, len(wire))
	for _, w := range wire {
		if seen[w.ID] {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateElement, w.ID)
		}
		seen[w.ID] = true

		e, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, nil
}
