package domain

// BoardDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type BoardDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`
	Revision  uint64 `json:"revision"`

	// Painted lists cells that became painted, in the new snapshot's order.
	Painted []Coordinate `json:"painted,omitempty"`

	// Erased lists cells that are no longer painted, in the old snapshot's order.
	Erased []Coordinate `json:"erased,omitempty"`

	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, every painted cell of newSnap is reported (initial load).
// It returns nil when neither the painted cells nor the revision changed.
func Diff(oldSnap, newSnap *Snapshot) *BoardDiff {
	if newSnap == nil {
		return nil
	}

	diff := &BoardDiff{
		SessionID: newSnap.SessionID,
		Revision:  newSnap.Revision,
		CanUndo:   newSnap.CanUndo(),
		CanRedo:   newSnap.CanRedo(),
	}

	if oldSnap == nil {
		diff.Painted = append([]Coordinate{}, newSnap.Painted...)
		return diff
	}

	before := keySet(oldSnap.Painted)
	after := keySet(newSnap.Painted)

	for _, c := range newSnap.Painted {
		if _, ok := before[c.Key()]; !ok {
			diff.Painted = append(diff.Painted, c)
		}
	}
	for _, c := range oldSnap.Painted {
		if _, ok := after[c.Key()]; !ok {
			diff.Erased = append(diff.Erased, c)
		}
	}

	if diff.IsEmpty() && oldSnap.Revision == newSnap.Revision {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any cell changes.
func (d *BoardDiff) IsEmpty() bool {
	return len(d.Painted) == 0 && len(d.Erased) == 0
}

func keySet(cells []Coordinate) map[CoordinateKey]struct{} {
	set := make(map[CoordinateKey]struct{}, len(cells))
	for _, c := range cells {
		set[c.Key()] = struct{}{}
	}
	return set
}
