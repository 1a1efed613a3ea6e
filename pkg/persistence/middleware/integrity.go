package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/history"
	"github.com/aretw0/paintboard/pkg/ports"
)

type integrityMiddleware struct {
	next ports.BoardStore
}

// NewIntegrityMiddleware rejects snapshots that cannot be restored into a board,
// both on the way in and on the way out of the wrapped store.
func NewIntegrityMiddleware() Middleware {
	return func(next ports.BoardStore) ports.BoardStore {
		return &integrityMiddleware{next: next}
	}
}

func check(sessionID string, snap *domain.Snapshot) error {
	if _, err := history.Restore(snap); err != nil {
		return err
	}
	if snap.SessionID != sessionID {
		return fmt.Errorf("%w: snapshot of %q stored under %q", domain.ErrCorruptSnapshot, snap.SessionID, sessionID)
	}
	return nil
}

func (m *integrityMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	if err := check(sessionID, snap); err != nil {
		return fmt.Errorf("refusing to save board: %w", err)
	}
	return m.next.Save(ctx, sessionID, snap)
}

func (m *integrityMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	snap, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := check(sessionID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (m *integrityMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *integrityMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
