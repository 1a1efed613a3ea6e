package history

import "fmt"

// RedoPolicy decides what a toggle does to the undone stack.
type RedoPolicy string

const (
	// RedoTruncate clears the undone stack whenever a new toggle is applied.
	RedoTruncate RedoPolicy = "truncate"
	// RedoRetain keeps the undone stack across toggles.
	RedoRetain RedoPolicy = "retain"
)

// ParseRedoPolicy maps a config string to a policy. Empty means RedoTruncate.
func ParseRedoPolicy(s string) (RedoPolicy, error) {
	switch RedoPolicy(s) {
	case "", RedoTruncate:
		return RedoTruncate, nil
	case RedoRetain:
		return RedoRetain, nil
	}
	return "", fmt.Errorf("unknown redo policy %q (want %q or %q)", s, RedoTruncate, RedoRetain)
}
