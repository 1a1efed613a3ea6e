package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventToggle EventType = "toggle"
	EventUndo   EventType = "undo"
	EventRedo   EventType = "redo"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// BoardEvent describes one toggle/undo/redo call on a board.
type BoardEvent struct {
	EventBase
	// Action is nil when undo/redo found an empty stack.
	Action  *Action `json:"action,omitempty"`
	Painted int     `json:"painted"`
}

// Applied reports whether the call changed history.
func (e *BoardEvent) Applied() bool {
	return e.Action != nil
}

// LifecycleHooks defines callbacks for board observability.
type LifecycleHooks struct {
	OnToggle func(context.Context, *BoardEvent)
	OnUndo   func(context.Context, *BoardEvent)
	OnRedo   func(context.Context, *BoardEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnToggle: chain(h.OnToggle, other.OnToggle),
		OnUndo:   chain(h.OnUndo, other.OnUndo),
		OnRedo:   chain(h.OnRedo, other.OnRedo),
	}
}

func chain(a, b func(context.Context, *BoardEvent)) func(context.Context, *BoardEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *BoardEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
