package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *BoardDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &Snapshot{
				SessionID: "sess-1",
				Revision:  1,
				Painted:   []Coordinate{Pt(1, 1)},
				Done:      []Action{Paint(Pt(1, 1))},
			},
			wantDiff: &BoardDiff{
				SessionID: "sess-1",
				Revision:  1,
				Painted:   []Coordinate{Pt(1, 1)},
				CanUndo:   true,
			},
		},
		{
			name: "No Changes",
			old:  &Snapshot{SessionID: "sess-1", Revision: 2, Painted: []Coordinate{Pt(1, 1)}},
			new:  &Snapshot{SessionID: "sess-1", Revision: 2, Painted: []Coordinate{Pt(1, 1)}},
		},
		{
			name: "Cell Painted",
			old:  &Snapshot{SessionID: "sess-1", Revision: 1, Painted: []Coordinate{Pt(1, 1)}},
			new: &Snapshot{
				SessionID: "sess-1",
				Revision:  2,
				Painted:   []Coordinate{Pt(1, 1), Pt(2, 2)},
				Done:      []Action{Paint(Pt(1, 1)), Paint(Pt(2, 2))},
			},
			wantDiff: &BoardDiff{
				SessionID: "sess-1",
				Revision:  2,
				Painted:   []Coordinate{Pt(2, 2)},
				CanUndo:   true,
			},
		},
		{
			name: "Cell Erased By Undo",
			old: &Snapshot{
				SessionID: "sess-1",
				Revision:  2,
				Painted:   []Coordinate{Pt(1, 1), Pt(2, 2)},
			},
			new: &Snapshot{
				SessionID: "sess-1",
				Revision:  3,
				Painted:   []Coordinate{Pt(1, 1)},
				Done:      []Action{Paint(Pt(1, 1))},
				Undone:    []Action{Paint(Pt(2, 2))},
			},
			wantDiff: &BoardDiff{
				SessionID: "sess-1",
				Revision:  3,
				Erased:    []Coordinate{Pt(2, 2)},
				CanUndo:   true,
				CanRedo:   true,
			},
		},
		{
			name: "Revision Bump Without Cell Change",
			old:  &Snapshot{SessionID: "sess-1", Revision: 4, Painted: []Coordinate{Pt(5, 5)}},
			new: &Snapshot{
				SessionID: "sess-1",
				Revision:  5,
				Painted:   []Coordinate{Pt(5, 5)},
				Done:      []Action{Paint(Pt(5, 5)), Paint(Pt(5, 5))},
			},
			wantDiff: &BoardDiff{SessionID: "sess-1", Revision: 5, CanUndo: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiff_NilNew(t *testing.T) {
	assert.Nil(t, Diff(NewSnapshot("a"), nil))
}

func TestBoardDiff_JSON(t *testing.T) {
	diff := Diff(
		&Snapshot{SessionID: "s", Revision: 1, Painted: []Coordinate{Pt(3, 4)}},
		&Snapshot{SessionID: "s", Revision: 2, Painted: []Coordinate{}},
	)
	require.NotNil(t, diff)

	data, err := json.Marshal(diff)
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"s","revision":2,"erased":[{"x":3,"y":4}],"can_undo":false,"can_redo":false}`, string(data))
}
