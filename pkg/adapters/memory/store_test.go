package memory_test

import (
	"testing"

	"github.com/aretw0/paintboard/pkg/adapters/memory"
	"github.com/aretw0/paintboard/pkg/ports"
)

// Ensure Store implements BoardStore
var _ ports.BoardStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunBoardStoreContract(t, store)
}
