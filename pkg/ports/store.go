package ports

import (
	"context"

	"github.com/aretw0/paintboard/pkg/domain"
)

// BoardStore defines the interface for holding board sessions while they are alive.
// A session ends when it is deleted (or, for stores that support it, when it expires).
type BoardStore interface {
	// Save stores the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete ends the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of live sessions.
	List(ctx context.Context) ([]string, error)
}
