package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"

	"grafed/core"
	"grafed/obstacles"
	"grafed/pathfinding"
)

// Severity grades a lint issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Lint rule names.
const (
	RuleNoInitialStep        = "no-initial-step"
	RuleMultipleInitialSteps = "multiple-initial-steps"
	RuleDanglingConnection   = "dangling-connection"
	RuleUnreachableStep      = "unreachable-step"
	RuleDeadEndStep          = "dead-end-step"
	RuleInvalidCondition     = "invalid-condition"
	RuleEmptyCondition       = "empty-condition"
	RuleInvalidGate          = "invalid-gate"
	RuleRouteCollision       = "route-collision"
)

// Issue is one lint finding.
type Issue struct {
	Rule      string
	Severity  Severity
	ElementID string
	Message   string
}

// String formats the issue for terminal output.
func (i Issue) String() string {
	if i.ElementID == "" {
		return fmt.Sprintf("%s [%s]: %s", i.Severity, i.Rule, i.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Rule, i.ElementID, i.Message)
}

// Report holds every issue of a lint run.
type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue has error severity.
func (r Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (r Report) Count(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

type linter struct {
	elements []core.Element
	idx      *core.Index
	issues   []Issue
}

func (l *linter) add(rule string, sev Severity, id, format string, args ...any) {
	l.issues = append(l.issues, Issue{
		Rule:      rule,
		Severity:  sev,
		ElementID: id,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Lint checks the structure of a diagram snapshot. Conditions are compiled
// but never evaluated.
func Lint(elements []core.Element) Report {
	l := &linter{elements: elements, idx: core.NewIndex(elements)}

	l.checkInitialSteps()
	l.checkConnections()
	l.checkReachability()
	l.checkNodes()

	return Report{Issues: l.issues}
}

func (l *linter) initialSteps() []*core.Node {
	var out []*core.Node
	for _, n := range core.Nodes(l.elements) {
		if n.IsStep() && n.StepType == core.StepInitial {
			out = append(out, n)
		}
	}
	return out
}

func (l *linter) checkInitialSteps() {
	initial := l.initialSteps()
	switch {
	case len(initial) == 0:
		l.add(RuleNoInitialStep, SeverityError, "", "diagram has no initial step")
	case len(initial) > 1:
		for _, n := range initial[1:] {
			l.add(RuleMultipleInitialSteps, SeverityError, n.ID,
				"second initial step (first is %s)", initial[0].ID)
		}
	}
}

func (l *linter) checkConnections() {
	for _, c := range core.Connections(l.elements) {
		dangling := false
		if l.idx.Node(c.SourceID) == nil {
			l.add(RuleDanglingConnection, SeverityError, c.ID, "source %q is not a node", c.SourceID)
			dangling = true
		}
		if l.idx.Node(c.TargetID) == nil {
			l.add(RuleDanglingConnection, SeverityError, c.ID, "target %q is not a node", c.TargetID)
			dangling = true
		}
		if !dangling {
			l.checkRoute(c)
		}
	}
}

// checkRoute warns about routed connections that run through other nodes.
// Downward routes are allowed to, so this is never an error.
func (l *linter) checkRoute(c *core.Connection) {
	points := pathfinding.FlattenSegments(c.Segments)
	if len(points) < 2 {
		return
	}
	nodes := obstacles.ForConnection(l.elements, c.SourceID, c.TargetID)
	for _, id := range pathfinding.FindCollisions(points, nodes) {
		l.add(RuleRouteCollision, SeverityWarning, c.ID, "route passes through %s", id)
	}
}

// checkReachability walks outgoing connections from the initial steps.
func (l *linter) checkReachability() {
	initial := l.initialSteps()
	if len(initial) == 0 {
		return
	}

	visited := make(map[string]bool)
	queue := make([]string, 0, len(initial))
	for _, n := range initial {
		visited[n.ID] = true
		queue = append(queue, n.ID)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range l.idx.Outgoing(id) {
			if !visited[c.TargetID] {
				visited[c.TargetID] = true
				queue = append(queue, c.TargetID)
			}
		}
	}

	for _, n := range core.Nodes(l.elements) {
		if n.IsStep() && !visited[n.ID] {
			l.add(RuleUnreachableStep, SeverityError, n.ID, "step %q is not reachable from the initial step", n.Label)
		}
	}
}

func (l *linter) checkNodes() {
	for _, n := range core.Nodes(l.elements) {
		switch {
		case n.IsStep():
			if len(l.idx.Outgoing(n.ID)) == 0 {
				l.add(RuleDeadEndStep, SeverityWarning, n.ID, "step %q has no outgoing connection", n.Label)
			}
		case n.IsTransition():
			if strings.TrimSpace(n.Condition) == "" {
				l.add(RuleEmptyCondition, SeverityWarning, n.ID, "transition has no condition")
				continue
			}
			if err := CheckCondition(n.Condition); err != nil {
				l.add(RuleInvalidCondition, SeverityError, n.ID, "%v", err)
			}
		case n.IsGate():
			if n.BranchCount < 2 {
				l.add(RuleInvalidGate, SeverityError, n.ID, "gate has %d branches, need at least 2", n.BranchCount)
			}
		}
	}
}

var conditionKeywords = regexp.MustCompile(`\b(AND|OR|NOT|TRUE|FALSE)\b`)

// NormalizeCondition rewrites the upper-case logic keywords of transition
// conditions into expression syntax.
func NormalizeCondition(condition string) string {
	return conditionKeywords.ReplaceAllStringFunc(condition, strings.ToLower)
}

// CheckCondition compiles a transition condition. Unknown variables are
// allowed since conditions name process inputs.
func CheckCondition(condition string) error {
	_, err := expr.Compile(NormalizeCondition(condition), expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("condition %q: %w", condition, err)
	}
	return nil
}
