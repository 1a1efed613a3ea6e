package domain

import "fmt"

// ActionKind tells whether an action added or removed a cell.
type ActionKind string

const (
	ActionPaint  ActionKind = "PAINT"  // The cell was added
	ActionDelete ActionKind = "DELETE" // The cell was removed
)

// Valid reports whether k is one of the known kinds.
func (k ActionKind) Valid() bool {
	return k == ActionPaint || k == ActionDelete
}

// Action records the mutation that was applied to the paint set at the moment it was performed.
type Action struct {
	Coordinate Coordinate `json:"coordinate"`
	Kind       ActionKind `json:"kind"`
}

// Paint builds a PAINT action for c.
func Paint(c Coordinate) Action {
	return Action{Coordinate: c, Kind: ActionPaint}
}

// Delete builds a DELETE action for c.
func Delete(c Coordinate) Action {
	return Action{Coordinate: c, Kind: ActionDelete}
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s", a.Kind, a.Coordinate)
}
