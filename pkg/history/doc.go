// Package history provides undo/redo for the paint board.
//
// A Controller owns two stacks of domain.Action recorded against a paint.Set:
//
//	done:   applied actions, most recent last
//	undone: undone actions, most recently undone last
//
// Toggle flips one cell and pushes the applied PAINT or DELETE onto done. Undo moves the
// top of done onto undone and applies the inverse effect. Redo moves the top of undone
// back onto done and re-applies the original effect. Undo and redo on an empty stack are
// silent no-ops.
//
// History is a single global sequence across all cells, not per-cell history.
//
// # Redo Policy
//
// RedoTruncate (the default) clears undone on every toggle, so a fresh toggle after undos
// permanently discards the redo path. RedoRetain never clears undone; a stale action can
// then be redone after unrelated toggles.
//
// A Controller is not safe for concurrent use. Callers serialize access per board.
package history
