package mcp

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/paintboard/pkg/adapters/memory"
	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(session.NewManager(memory.NewStore()))
}

func TestToggleUndoRedoTools(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	res, err := s.handleToggle(ctx, req, map[string]interface{}{"session_id": "m1", "x": float64(3), "y": float64(4)})
	require.NoError(t, err)
	require.NotNil(t, res.Action)
	assert.Equal(t, domain.Paint(domain.Pt(3, 4)), *res.Action)
	assert.Equal(t, []domain.Coordinate{domain.Pt(3, 4)}, res.Board.Painted)

	// Weak typing accepts numeric strings.
	res, err = s.handleToggle(ctx, req, map[string]interface{}{"session_id": "m1", "x": "3", "y": "4"})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionDelete, res.Action.Kind)
	assert.Empty(t, res.Board.Painted)

	res, err = s.handleUndo(ctx, req, map[string]interface{}{"session_id": "m1"})
	require.NoError(t, err)
	assert.Equal(t, domain.Delete(domain.Pt(3, 4)), *res.Action)
	assert.Equal(t, []domain.Coordinate{domain.Pt(3, 4)}, res.Board.Painted)
	assert.True(t, res.Board.CanRedo)

	res, err = s.handleRedo(ctx, req, map[string]interface{}{"session_id": "m1"})
	require.NoError(t, err)
	assert.Empty(t, res.Board.Painted)
	assert.False(t, res.Board.CanRedo)
}

func TestUndoOnEmptyBoard(t *testing.T) {
	s := newTestServer()
	res, err := s.handleUndo(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"session_id": "empty"})
	require.NoError(t, err)
	assert.Nil(t, res.Action)
	assert.NotNil(t, res.Board.Painted)
}

func TestToolArgumentValidation(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	_, err := s.handleToggle(ctx, req, map[string]interface{}{"session_id": "m1", "x": float64(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)

	_, err = s.handleToggle(ctx, req, map[string]interface{}{"session_id": "m1", "x": "left", "y": float64(1)})
	assert.Error(t, err)

	for name, args := range map[string]map[string]interface{}{
		"fractional":   {"session_id": "m1", "x": 1.5, "y": 2.9},
		"fraction str": {"session_id": "m1", "x": "1.5", "y": float64(2)},
		"too large":    {"session_id": "m1", "x": 1e300, "y": float64(0)},
		"not a number": {"session_id": "m1", "x": math.NaN(), "y": float64(0)},
	} {
		_, err = s.handleToggle(ctx, req, args)
		assert.ErrorIs(t, err, domain.ErrInvalidCoordinate, name)
	}

	board, err := s.handleGetBoard(ctx, req, map[string]interface{}{"session_id": "m1"})
	require.NoError(t, err)
	assert.Empty(t, board.Painted, "rejected calls paint nothing")

	_, err = s.handleUndo(ctx, req, map[string]interface{}{})
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)

	_, err = s.handleGetBoard(ctx, req, map[string]interface{}{"session_id": "../etc"})
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
}

func TestGetBoardAndResources(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	board, err := s.handleGetBoard(ctx, req, map[string]interface{}{"session_id": "unknown"})
	require.NoError(t, err)
	assert.Empty(t, board.Painted)
	assert.Equal(t, "unknown", board.SessionID)

	_, err = s.handleToggle(ctx, req, map[string]interface{}{"session_id": "r1", "x": 0, "y": -1})
	require.NoError(t, err)

	board, err = s.handleGetBoard(ctx, req, map[string]interface{}{"session_id": "r1"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Coordinate{domain.Pt(0, -1)}, board.Painted)
	assert.Equal(t, uint64(1), board.Revision)

	contents, err := s.readBoards(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, BoardsURI, text.URI)
	assert.JSONEq(t, `["r1"]`, text.Text)

	var rr mcp.ReadResourceRequest
	rr.Params.URI = "paintboard://boards/r1"
	contents, err = s.readBoard(ctx, rr)
	require.NoError(t, err)
	var got BoardResponse
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &got))
	assert.Equal(t, board, got)

	rr.Params.URI = "paintboard://boards/missing"
	_, err = s.readBoard(ctx, rr)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
