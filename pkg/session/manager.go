package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/paintboard"
	"github.com/aretw0/paintboard/internal/logging"
	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a board's distributed lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates board access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.BoardStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker    ports.DistributedLocker // Optional distributed locker
	lockTTL   time.Duration
	boardOpts []paintboard.Option
	logger    *slog.Logger
}

// Outcome is the result of one mutating call.
type Outcome struct {
	// Action is the applied action; nil when undo/redo had nothing to do.
	Action *domain.Action
	// Board is the snapshot after the call.
	Board *domain.Snapshot
	// Diff holds the cell changes caused by the call; nil when nothing changed.
	Diff *domain.BoardDiff
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithBoardOptions sets the options used whenever a board is built or rebuilt
// (hooks, logger, redo policy).
func WithBoardOptions(opts ...paintboard.Option) Option {
	return func(m *Manager) {
		m.boardOpts = append(m.boardOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager over the given store.
func NewManager(store ports.BoardStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return err
	}

	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Load retrieves an existing board snapshot.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// LoadOrStart loads a board, creating an empty one if the session does not exist yet.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		snap = domain.NewSnapshot(sessionID)
		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return snap, err
}

// Save stores the snapshot.
func (m *Manager) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, snap)
	})
}

// Delete ends the session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying board store.
func (m *Manager) Store() ports.BoardStore {
	return m.store
}

// Toggle flips one cell on the board, starting the session if needed.
func (m *Manager) Toggle(ctx context.Context, sessionID string, c domain.Coordinate) (*Outcome, error) {
	return m.mutate(ctx, sessionID, func(b *paintboard.Board) (domain.Action, bool) {
		return b.Toggle(ctx, c), true
	})
}

// Undo reverses the board's last action. Undo on empty history is a no-op, not an error.
func (m *Manager) Undo(ctx context.Context, sessionID string) (*Outcome, error) {
	return m.mutate(ctx, sessionID, func(b *paintboard.Board) (domain.Action, bool) {
		return b.Undo(ctx)
	})
}

// Redo re-applies the board's last undone action. Redo on empty history is a no-op.
func (m *Manager) Redo(ctx context.Context, sessionID string) (*Outcome, error) {
	return m.mutate(ctx, sessionID, func(b *paintboard.Board) (domain.Action, bool) {
		return b.Redo(ctx)
	})
}

func (m *Manager) mutate(ctx context.Context, sessionID string, op func(*paintboard.Board) (domain.Action, bool)) (*Outcome, error) {
	var out *Outcome
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		before, err := m.loadOrNew(ctx, sessionID)
		if err != nil {
			return err
		}

		board, err := paintboard.FromSnapshot(before, m.boardOpts...)
		if err != nil {
			return err
		}

		// Hooks fire only once the mutation is stored.
		board.DeferEvents()
		act, applied := op(board)
		after := board.Snapshot()
		out = &Outcome{Board: after}
		if !applied {
			board.FlushEvents(ctx)
			return nil
		}
		out.Action = &act
		out.Diff = domain.Diff(before, after)

		if err := m.store.Save(ctx, sessionID, after); err != nil {
			board.DiscardEvents()
			return fmt.Errorf("failed to save board: %w", err)
		}
		board.FlushEvents(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) loadOrNew(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}
	return domain.NewSnapshot(sessionID), nil
}
