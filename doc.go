/*
Package paintboard is a paint-state engine for grid painting surfaces: cells are toggled
between painted and empty, and every toggle can be undone and redone along a single linear
history.

It follows a Hexagonal Architecture. The Board (this package) owns the authoritative set of
painted cells and the done/undone action stacks for one session. Rendering, pointer capture
and transport live in adapters (HTTP, MCP, terminal) that feed coordinates in and re-query
the painted list after each mutation.

# Key Features

  - Value-identity coordinates with a collision-free lookup key.
  - Global undo/redo across all cells, with silent no-ops on empty history.
  - Configurable redo policy: truncate on new toggle (default) or retain.
  - Snapshots for session stores (memory, Redis) and incremental diffs for live clients.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/paintboard"
		"github.com/aretw0/paintboard/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		board := paintboard.New("session-123")

		board.Toggle(ctx, domain.Pt(10, 10)) // painted
		board.Toggle(ctx, domain.Pt(20, 10)) // painted
		board.Undo(ctx)                      // (20,10) erased again
		board.Redo(ctx)                      // and back

		fmt.Println(board.Painted())
	}
*/
package paintboard
