// Package validation checks connections against their mandated anchors and
// lints whole diagrams for structural mistakes.
package validation

import (
	"fmt"

	"grafed/connections"
	"grafed/core"
	"grafed/geometry"
)

// AnchorTolerance is the per-axis distance within which a stored endpoint
// still matches its mandated anchor.
const AnchorTolerance = 1.0

// Violation messages for malformed connections.
const (
	ViolationNoSegments = "no segments"
	ViolationNoPoints   = "segments have no points"
)

// Result is the outcome of validating one connection. Violations are values,
// not errors: an invalid connection is a normal, repairable state.
type Result struct {
	Valid      bool
	Violations []string
}

// ConnectionReport pairs a connection id with its validation result.
type ConnectionReport struct {
	ConnectionID string
	Result
}

// constraintValidator accumulates violations for one connection.
type constraintValidator struct {
	violations []string
}

func (v *constraintValidator) addViolation(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *constraintValidator) result() Result {
	return Result{Valid: len(v.violations) == 0, Violations: v.violations}
}

// checkEndpoint records a mismatch between a stored endpoint and its anchor.
func (v *constraintValidator) checkEndpoint(label string, expected, got core.Point) {
	if geometry.Within(expected, got, AnchorTolerance) {
		return
	}
	v.addViolation("%s mismatch: expected (%g, %g), got (%g, %g)",
		label, expected.X, expected.Y, got.X, got.Y)
}

// ValidateConnectionConstraints checks that conn starts and ends on the
// anchors mandated for source and target.
func ValidateConnectionConstraints(source, target *core.Node, conn *core.Connection) Result {
	v := &constraintValidator{}

	if len(conn.Segments) == 0 {
		v.addViolation(ViolationNoSegments)
		return v.result()
	}
	first := conn.Segments[0]
	last := conn.Segments[len(conn.Segments)-1]
	if len(first.Points) == 0 || len(last.Points) == 0 {
		v.addViolation(ViolationNoPoints)
		return v.result()
	}

	ends := connections.CalculateConnectionPoints(source, target)
	v.checkEndpoint("Start point", ends.Start, first.First())
	v.checkEndpoint("End point", ends.End, last.Last())

	return v.result()
}

// ValidateDiagram validates every connection of the snapshot in order.
// Connections whose endpoints cannot be resolved are reported as invalid.
func ValidateDiagram(elements []core.Element) []ConnectionReport {
	idx := core.NewIndex(elements)

	var reports []ConnectionReport
	for _, conn := range core.Connections(elements) {
		source := idx.Node(conn.SourceID)
		target := idx.Node(conn.TargetID)

		var result Result
		switch {
		case source == nil:
			result = Result{Violations: []string{fmt.Sprintf("source %q not found", conn.SourceID)}}
		case target == nil:
			result = Result{Violations: []string{fmt.Sprintf("target %q not found", conn.TargetID)}}
		default:
			result = ValidateConnectionConstraints(source, target, conn)
		}
		reports = append(reports, ConnectionReport{ConnectionID: conn.ID, Result: result})
	}
	return reports
}

// Invalid filters reports down to the invalid ones.
func Invalid(reports []ConnectionReport) []ConnectionReport {
	var out []ConnectionReport
	for _, r := range reports {
		if !r.Valid {
			out = append(out, r)
		}
	}
	return out
}
