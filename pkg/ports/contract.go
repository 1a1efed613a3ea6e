package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBoardStoreContract runs a suite of tests to verify that a BoardStore implementation
// adheres to the defined interface contract.
func RunBoardStoreContract(t *testing.T, store BoardStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID)
		snap.Revision = 3
		snap.Painted = []domain.Coordinate{domain.Pt(10, 10), domain.Pt(-1, 5)}
		snap.Done = []domain.Action{domain.Paint(domain.Pt(10, 10)), domain.Paint(domain.Pt(-1, 5))}
		snap.Undone = []domain.Action{domain.Paint(domain.Pt(7, 7))}

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.SessionID, loaded.SessionID)
		assert.Equal(t, snap.Revision, loaded.Revision)
		// Painted order is part of the contract: clients render in insertion order.
		assert.Equal(t, snap.Painted, loaded.Painted)
		assert.Equal(t, snap.Done, loaded.Done)
		assert.Equal(t, snap.Undone, loaded.Undone)
	})

	t.Run("Isolation", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID)
		snap.Painted = []domain.Coordinate{domain.Pt(1, 1)}
		require.NoError(t, store.Save(ctx, sessionID, snap))

		// Mutating the caller's copy must not leak into the store.
		snap.Painted[0] = domain.Pt(9, 9)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Coordinate{domain.Pt(1, 1)}, loaded.Painted)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSnapshot(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err)

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Deleting twice is fine.
		assert.NoError(t, store.Delete(ctx, sessionID))
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSnapshot(id1))
		_ = store.Save(ctx, id2, domain.NewSnapshot(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
