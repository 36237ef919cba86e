// Package editor holds the mutable diagram: an ordered element store whose
// mutations re-route the affected connections and are recorded for undo.
package editor

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"grafed/connections"
	"grafed/core"
	"grafed/pathfinding"
)

// Sizes are the default sizes of newly created elements.
type Sizes struct {
	Step        core.Size
	Transition  core.Size
	Gate        core.Size
	ActionBlock core.Size
}

// DefaultSizes returns the built-in element sizes.
func DefaultSizes() Sizes {
	return Sizes{
		Step:        core.Size{Width: 60, Height: 60},
		Transition:  core.Size{Width: 40, Height: 10},
		Gate:        core.Size{Width: 200, Height: 5},
		ActionBlock: core.Size{Width: 120, Height: 40},
	}
}

// Store is the element store. It is not safe for concurrent use.
type Store struct {
	elements []core.Element
	router   *connections.Router
	history  *History
	logger   *log.Logger
	sizes    Sizes
	newID    func() string

	pathFinder      pathfinding.PathFinder
	cacheSize       int
	historyCapacity int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPathFinder replaces the obstacle-aware path finder.
func WithPathFinder(pf pathfinding.PathFinder) Option {
	return func(s *Store) { s.pathFinder = pf }
}

// WithRouteCache caches routes for up to size endpoint/obstacle combinations.
func WithRouteCache(size int) Option {
	return func(s *Store) { s.cacheSize = size }
}

// WithSizes sets the default element sizes.
func WithSizes(sizes Sizes) Option {
	return func(s *Store) { s.sizes = sizes }
}

// WithHistoryCapacity sets how many snapshots undo can reach back.
func WithHistoryCapacity(n int) Option {
	return func(s *Store) { s.historyCapacity = n }
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates a store holding elements. The elements are copied and
// their connections are left as they are; call EnforceAll to repair them.
func NewStore(elements []core.Element, opts ...Option) *Store {
	s := &Store{
		sizes:           DefaultSizes(),
		newID:           uuid.NewString,
		historyCapacity: DefaultHistoryCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	pf := s.pathFinder
	if pf == nil {
		pf = pathfinding.NewObstacleAwarePathFinder()
	}
	if s.cacheSize > 0 {
		pf = pathfinding.NewCachedPathFinder(pf, s.cacheSize)
	}
	s.router = connections.NewRouter(pf, s.logger)

	s.elements = core.CloneElements(elements)
	s.history = NewHistory(s.historyCapacity)
	s.record("load")
	return s
}

// Elements returns a copy of the ordered element list.
func (s *Store) Elements() []core.Element {
	return core.CloneElements(s.elements)
}

// Len returns the number of elements.
func (s *Store) Len() int {
	return len(s.elements)
}

// GetElementByID returns a copy of the element with the given id.
func (s *Store) GetElementByID(id string) (core.Element, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return core.CloneElement(s.elements[i]), true
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.elements {
		if e.ElementID() == id {
			return i
		}
	}
	return -1
}

// node returns the live node with the given id.
func (s *Store) node(id string) (*core.Node, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrElementNotFound, id)
	}
	n, ok := s.elements[i].(*core.Node)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNotANode, id)
	}
	return n, nil
}

// connection returns the live connection with the given id.
func (s *Store) connection(id string) (*core.Connection, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrElementNotFound, id)
	}
	c, ok := s.elements[i].(*core.Connection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNotAConnection, id)
	}
	return c, nil
}

// record pushes the current snapshot to the history.
func (s *Store) record(op string) {
	if err := s.history.SaveState(s.elements); err != nil {
		s.logger.Warn("history snapshot failed", "op", op, "err", err)
		return
	}
	pos, total := s.history.Stats()
	s.logger.Debug("history", "op", op, "position", pos, "states", total)
}

// CanUndo reports whether there is a state to go back to.
func (s *Store) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether an undone state can be restored.
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// Undo restores the previous snapshot.
func (s *Store) Undo() error {
	elements, err := s.history.Undo()
	if err != nil {
		return err
	}
	s.elements = elements
	return nil
}

// Redo restores the snapshot undone last.
func (s *Store) Redo() error {
	elements, err := s.history.Redo()
	if err != nil {
		return err
	}
	s.elements = elements
	return nil
}
