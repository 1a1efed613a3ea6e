package domain

// Snapshot is the serializable state of one board session.
type Snapshot struct {
	SessionID string `json:"session_id"`

	// Revision increases by one for every toggle, undo or redo that changed history.
	Revision uint64 `json:"revision"`

	// Painted lists the painted cells in insertion order.
	Painted []Coordinate `json:"painted"`

	// Done holds applied actions, most recent last.
	Done []Action `json:"done"`

	// Undone holds undone actions, most recently undone last.
	Undone []Action `json:"undone"`
}

// NewSnapshot returns the state of a fresh session.
func NewSnapshot(sessionID string) *Snapshot {
	return &Snapshot{
		SessionID: sessionID,
		Painted:   []Coordinate{},
		Done:      []Action{},
		Undone:    []Action{},
	}
}

// Clone returns a deep copy, so stores can hand out snapshots without sharing slices.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		SessionID: s.SessionID,
		Revision:  s.Revision,
		Painted:   append([]Coordinate{}, s.Painted...),
		Done:      append([]Action{}, s.Done...),
		Undone:    append([]Action{}, s.Undone...),
	}
}

// CanUndo reports whether the done stack is non-empty.
func (s *Snapshot) CanUndo() bool {
	return len(s.Done) > 0
}

// CanRedo reports whether the undone stack is non-empty.
func (s *Snapshot) CanRedo() bool {
	return len(s.Undone) > 0
}
