package core

import "errors"

// Element store errors.
var (
	ErrElementNotFound      = errors.New("element not found")
	ErrNotANode             = errors.New("element is not a node")
	ErrNotAConnection       = errors.New("element is not a connection")
	ErrNotAStep             = errors.New("element is not a step")
	ErrDuplicateElement     = errors.New("duplicate element id")
	ErrSourceNotFound       = errors.New("source node not found")
	ErrTargetNotFound       = errors.New("target node not found")
	ErrDuplicateInitialStep = errors.New("diagram already has an initial step")
	ErrInvalidBranchCount   = errors.New("gate branch count must be at least 2")
	ErrInvalidElementType   = errors.New("invalid element type")
	ErrNothingToUndo        = errors.New("nothing to undo")
	ErrNothingToRedo        = errors.New("nothing to redo")
	ErrSegmentNotFound      = errors.New("segment not found")
	ErrInvalidGateMode      = errors.New("invalid gate mode")
)
