package paintboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/history"
)

// Board is the high-level entry point for one painting session.
// It wraps a history.Controller and adds identity, a revision counter,
// lifecycle hooks and logging.
//
// A Board is not safe for concurrent use; see session.Manager for serialized access.
type Board struct {
	id       string
	revision uint64
	history  *history.Controller
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	policy   history.RedoPolicy

	deferred bool
	pending  []pendingEvent
}

type pendingEvent struct {
	hook  func(context.Context, *domain.BoardEvent)
	event *domain.BoardEvent
}

// Option defines a functional option for configuring the Board.
type Option func(*Board)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Board) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the board.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithRedoPolicy chooses what a toggle does to the redo path (default: history.RedoTruncate).
func WithRedoPolicy(p history.RedoPolicy) Option {
	return func(b *Board) {
		b.policy = p
	}
}

func newBoard(id string, opts []Option) *Board {
	b := &Board{id: id, policy: history.RedoTruncate}
	for _, opt := range opts {
		opt(b)
	}
	// Ensure logger is initialized so callers never pass nil around.
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b.logger = b.logger.With("session_id", id)
	return b
}

// New creates an empty board for the given session.
func New(sessionID string, opts ...Option) *Board {
	b := newBoard(sessionID, opts)
	b.history = history.New(nil, history.WithRedoPolicy(b.policy))
	return b
}

// FromSnapshot rebuilds a board from a stored snapshot.
func FromSnapshot(snap *domain.Snapshot, opts ...Option) (*Board, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", domain.ErrCorruptSnapshot)
	}
	b := newBoard(snap.SessionID, opts)
	h, err := history.Restore(snap, history.WithRedoPolicy(b.policy))
	if err != nil {
		return nil, fmt.Errorf("failed to restore board %q: %w", snap.SessionID, err)
	}
	b.history = h
	b.revision = snap.Revision
	return b, nil
}

// Toggle paints c if empty, or erases it if painted, and returns the recorded action.
func (b *Board) Toggle(ctx context.Context, c domain.Coordinate) domain.Action {
	act := b.history.Toggle(c)
	b.revision++
	b.logger.Debug("toggle", "kind", act.Kind, "x", c.X, "y", c.Y, "revision", b.revision)
	b.emit(ctx, domain.EventToggle, &act, b.hooks.OnToggle)
	return act
}

// Undo reverses the last applied action. ok is false when there was nothing to undo.
func (b *Board) Undo(ctx context.Context) (domain.Action, bool) {
	act, ok := b.history.Undo()
	b.afterStep(ctx, domain.EventUndo, act, ok, b.hooks.OnUndo)
	return act, ok
}

// Redo re-applies the last undone action. ok is false when there was nothing to redo.
func (b *Board) Redo(ctx context.Context) (domain.Action, bool) {
	act, ok := b.history.Redo()
	b.afterStep(ctx, domain.EventRedo, act, ok, b.hooks.OnRedo)
	return act, ok
}

func (b *Board) afterStep(ctx context.Context, typ domain.EventType, act domain.Action, ok bool, hook func(context.Context, *domain.BoardEvent)) {
	if !ok {
		b.logger.Debug(string(typ)+" skipped: empty history")
		b.emit(ctx, typ, nil, hook)
		return
	}
	b.revision++
	b.logger.Debug(string(typ), "kind", act.Kind, "x", act.Coordinate.X, "y", act.Coordinate.Y, "revision", b.revision)
	b.emit(ctx, typ, &act, hook)
}

func (b *Board) emit(ctx context.Context, typ domain.EventType, act *domain.Action, hook func(context.Context, *domain.BoardEvent)) {
	if hook == nil {
		return
	}
	e := &domain.BoardEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			SessionID: b.id,
		},
		Action:  act,
		Painted: b.history.Set().Len(),
	}
	if b.deferred {
		b.pending = append(b.pending, pendingEvent{hook: hook, event: e})
		return
	}
	hook(ctx, e)
}

// DeferEvents queues lifecycle hook calls until FlushEvents or DiscardEvents.
// Callers that persist the board use it so hooks only see stored mutations.
func (b *Board) DeferEvents() {
	b.deferred = true
}

// FlushEvents runs the queued hooks in order and resumes immediate delivery.
func (b *Board) FlushEvents(ctx context.Context) {
	pending := b.pending
	b.pending, b.deferred = nil, false
	for _, p := range pending {
		p.hook(ctx, p.event)
	}
}

// DiscardEvents drops the queued hooks and resumes immediate delivery.
func (b *Board) DiscardEvents() {
	b.pending, b.deferred = nil, false
}

// ID returns the session ID.
func (b *Board) ID() string {
	return b.id
}

// Revision returns the number of effective mutations applied so far.
func (b *Board) Revision() uint64 {
	return b.revision
}

// Contains reports whether c is painted.
func (b *Board) Contains(c domain.Coordinate) bool {
	return b.history.Set().Contains(c)
}

// Painted lists the painted cells in insertion order, for rendering.
func (b *Board) Painted() []domain.Coordinate {
	return b.history.Set().List()
}

// Done returns the applied actions, most recent last.
func (b *Board) Done() []domain.Action {
	return b.history.Done()
}

// Undone returns the undone actions, most recently undone last.
func (b *Board) Undone() []domain.Action {
	return b.history.Undone()
}

// CanUndo reports whether Undo would change anything.
func (b *Board) CanUndo() bool {
	return b.history.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (b *Board) CanRedo() bool {
	return b.history.CanRedo()
}

// Snapshot captures the board for storage or transport.
func (b *Board) Snapshot() *domain.Snapshot {
	return b.history.Snapshot(b.id, b.revision)
}
