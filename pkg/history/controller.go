package history

import (
	"fmt"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/paint"
)

// Controller orchestrates toggle/undo/redo against a paint.Set.
type Controller struct {
	set    *paint.Set
	done   []domain.Action
	undone []domain.Action
	policy RedoPolicy
}

// Option configures a Controller.
type Option func(*Controller)

// WithRedoPolicy selects how toggles treat the redo path.
func WithRedoPolicy(p RedoPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// New creates a Controller with empty history over set.
// A nil set starts an empty board.
func New(set *paint.Set, opts ...Option) *Controller {
	if set == nil {
		set = paint.NewSet()
	}
	c := &Controller{
		set:    set,
		policy: RedoTruncate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Toggle paints c if it is empty, or erases it if it is painted, and records the action.
func (c *Controller) Toggle(coord domain.Coordinate) domain.Action {
	var act domain.Action
	if c.set.Contains(coord) {
		c.set.Remove(coord)
		act = domain.Delete(coord)
	} else {
		c.set.Add(coord)
		act = domain.Paint(coord)
	}
	c.done = append(c.done, act)

	if c.policy == RedoTruncate {
		c.undone = nil
	}
	return act
}

// Undo reverses the most recent applied action.
// It returns false when there is nothing to undo.
func (c *Controller) Undo() (domain.Action, bool) {
	act, ok := pop(&c.done)
	if !ok {
		return domain.Action{}, false
	}
	c.undone = append(c.undone, act)

	if act.Kind == domain.ActionDelete {
		c.set.Add(act.Coordinate)
	} else {
		c.set.Remove(act.Coordinate)
	}
	return act, true
}

// Redo re-applies the most recently undone action.
// It returns false when there is nothing to redo.
func (c *Controller) Redo() (domain.Action, bool) {
	act, ok := pop(&c.undone)
	if !ok {
		return domain.Action{}, false
	}
	c.done = append(c.done, act)
	apply(c.set, act)
	return act, true
}

// Set exposes the controlled paint set for read access.
func (c *Controller) Set() *paint.Set {
	return c.set
}

// Policy returns the active redo policy.
func (c *Controller) Policy() RedoPolicy {
	return c.policy
}

// Done returns a copy of the done stack, oldest first.
func (c *Controller) Done() []domain.Action {
	return append([]domain.Action{}, c.done...)
}

// Undone returns a copy of the undone stack, oldest first.
func (c *Controller) Undone() []domain.Action {
	return append([]domain.Action{}, c.undone...)
}

// CanUndo reports whether Undo would change anything.
func (c *Controller) CanUndo() bool {
	return len(c.done) > 0
}

// CanRedo reports whether Redo would change anything.
func (c *Controller) CanRedo() bool {
	return len(c.undone) > 0
}

// Replay rebuilds a paint set by applying the done stack to an empty set.
func (c *Controller) Replay() *paint.Set {
	s := paint.NewSet()
	for _, act := range c.done {
		apply(s, act)
	}
	return s
}

// Consistent reports whether replaying done reproduces the current paint set.
// This always holds under RedoTruncate. Under RedoRetain, undoing a stale redo can break it.
func (c *Controller) Consistent() bool {
	return c.Replay().Equal(c.set)
}

// Snapshot captures the controller state.
func (c *Controller) Snapshot(sessionID string, revision uint64) *domain.Snapshot {
	return &domain.Snapshot{
		SessionID: sessionID,
		Revision:  revision,
		Painted:   c.set.List(),
		Done:      c.Done(),
		Undone:    c.Undone(),
	}
}

// Restore rebuilds a controller from a snapshot. The painted list is authoritative.
func Restore(snap *domain.Snapshot, opts ...Option) (*Controller, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", domain.ErrCorruptSnapshot)
	}

	set := paint.NewSet()
	for _, cell := range snap.Painted {
		if set.Contains(cell) {
			return nil, fmt.Errorf("%w: cell %s painted twice", domain.ErrCorruptSnapshot, cell)
		}
		set.Add(cell)
	}
	if err := checkActions(snap.Done); err != nil {
		return nil, err
	}
	if err := checkActions(snap.Undone); err != nil {
		return nil, err
	}

	c := New(set, opts...)
	c.done = append([]domain.Action{}, snap.Done...)
	c.undone = append([]domain.Action{}, snap.Undone...)
	return c, nil
}

func checkActions(actions []domain.Action) error {
	for i, act := range actions {
		if !act.Kind.Valid() {
			return fmt.Errorf("%w: action %d has kind %q", domain.ErrCorruptSnapshot, i, act.Kind)
		}
	}
	return nil
}

func apply(s *paint.Set, act domain.Action) {
	if act.Kind == domain.ActionPaint {
		s.Add(act.Coordinate)
	} else {
		s.Remove(act.Coordinate)
	}
}

func pop(stack *[]domain.Action) (domain.Action, bool) {
	n := len(*stack)
	if n == 0 {
		return domain.Action{}, false
	}
	act := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return act, true
}
