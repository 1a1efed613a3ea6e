package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/paintboard"
	"github.com/aretw0/paintboard/internal/logging"
	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const (
	// BoardsURI lists the active board sessions.
	BoardsURI = "paintboard://boards"
	// BoardURITemplate addresses a single board.
	BoardURITemplate = "paintboard://boards/{id}"
)

// BoardResponse aligns with the OpenAPI Board schema so every adapter returns the same shape.
type BoardResponse struct {
	SessionID string              `json:"session_id" jsonschema_description:"The board session"`
	Revision  uint64              `json:"revision" jsonschema_description:"Number of applied mutations"`
	Painted   []domain.Coordinate `json:"painted" jsonschema_description:"Painted cells in insertion order"`
	CanUndo   bool                `json:"can_undo"`
	CanRedo   bool                `json:"can_redo"`
}

// ActionResponse is returned by toggle_cell, undo and redo.
type ActionResponse struct {
	Action *domain.Action `json:"action,omitempty" jsonschema_description:"The applied action; absent when history was empty"`
	Board  BoardResponse  `json:"board"`
}

// Boards defines the session operations required by the MCP server.
type Boards interface {
	Toggle(ctx context.Context, sessionID string, c domain.Coordinate) (*session.Outcome, error)
	Undo(ctx context.Context, sessionID string) (*session.Outcome, error)
	Redo(ctx context.Context, sessionID string) (*session.Outcome, error)
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]string, error)
}

// Server exposes board sessions as an MCP Server.
type Server struct {
	boards    Boards
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(boards Boards, opts ...Option) *Server {
	s := &Server{
		boards:    boards,
		mcpServer: server.NewMCPServer("paintboard-mcp", strings.TrimSpace(paintboard.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session_id", mcp.Required(), mcp.Description("Board session ID ([A-Za-z0-9_-], up to 64 chars)"))

	// TOOL: toggle_cell
	s.mcpServer.AddTool(mcp.NewTool("toggle_cell",
		mcp.WithDescription("Paint the cell at (x, y) if it is empty, or erase it if it is painted. Starts the board if needed."),
		sessionArg,
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Column (integer)")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Row (integer)")),
		mcp.WithOutputSchema[ActionResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggle))

	// TOOL: undo
	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Revert the most recent action. Does nothing when there is nothing to undo."),
		sessionArg,
		mcp.WithOutputSchema[ActionResponse](),
	), mcp.NewStructuredToolHandler(s.handleUndo))

	// TOOL: redo
	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Re-apply the most recently undone action. Does nothing when there is nothing to redo."),
		sessionArg,
		mcp.WithOutputSchema[ActionResponse](),
	), mcp.NewStructuredToolHandler(s.handleRedo))

	// TOOL: get_board
	s.mcpServer.AddTool(mcp.NewTool("get_board",
		mcp.WithDescription("Get the painted cells of a board."),
		sessionArg,
		mcp.WithOutputSchema[BoardResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetBoard))
}

// toolArgs is the decoded form of the tool arguments.
type toolArgs struct {
	SessionID string   `mapstructure:"session_id"`
	X         *float64 `mapstructure:"x"`
	Y         *float64 `mapstructure:"y"`
}

func decodeArgs(args map[string]interface{}) (toolArgs, error) {
	var out toolArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(args); err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := domain.ValidateSessionID(out.SessionID); err != nil {
		return out, err
	}
	return out, nil
}

func (a toolArgs) coordinate() (domain.Coordinate, error) {
	if a.X == nil || a.Y == nil {
		return domain.Coordinate{}, fmt.Errorf("%w: both x and y are required", domain.ErrInvalidCoordinate)
	}
	x, err := toInt("x", *a.X)
	if err != nil {
		return domain.Coordinate{}, err
	}
	y, err := toInt("y", *a.Y)
	if err != nil {
		return domain.Coordinate{}, err
	}
	return domain.Pt(x, y), nil
}

// toInt accepts only integral values that fit in an int. JSON numbers arrive as float64.
func toInt(name string, v float64) (int, error) {
	if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", domain.ErrInvalidCoordinate, name, v)
	}
	return int(v), nil
}

// Handler methods for structured tools

func (s *Server) handleToggle(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ActionResponse, error) {
	a, err := decodeArgs(args)
	if err != nil {
		return ActionResponse{}, err
	}
	c, err := a.coordinate()
	if err != nil {
		return ActionResponse{}, err
	}
	out, err := s.boards.Toggle(ctx, a.SessionID, c)
	if err != nil {
		s.logger.Error("MCP Toggle failed", "session_id", a.SessionID, "err", err)
		return ActionResponse{}, fmt.Errorf("toggle failed: %w", err)
	}
	return actionResponse(out), nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ActionResponse, error) {
	a, err := decodeArgs(args)
	if err != nil {
		return ActionResponse{}, err
	}
	out, err := s.boards.Undo(ctx, a.SessionID)
	if err != nil {
		return ActionResponse{}, fmt.Errorf("undo failed: %w", err)
	}
	return actionResponse(out), nil
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ActionResponse, error) {
	a, err := decodeArgs(args)
	if err != nil {
		return ActionResponse{}, err
	}
	out, err := s.boards.Redo(ctx, a.SessionID)
	if err != nil {
		return ActionResponse{}, fmt.Errorf("redo failed: %w", err)
	}
	return actionResponse(out), nil
}

func (s *Server) handleGetBoard(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (BoardResponse, error) {
	a, err := decodeArgs(args)
	if err != nil {
		return BoardResponse{}, err
	}
	snap, err := s.boards.Load(ctx, a.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		// An unknown board reads as an empty one.
		snap = domain.NewSnapshot(a.SessionID)
	} else if err != nil {
		return BoardResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return boardResponse(snap), nil
}

func actionResponse(out *session.Outcome) ActionResponse {
	return ActionResponse{
		Action: out.Action,
		Board:  boardResponse(out.Board),
	}
}

func boardResponse(snap *domain.Snapshot) BoardResponse {
	painted := snap.Painted
	if painted == nil {
		painted = []domain.Coordinate{}
	}
	return BoardResponse{
		SessionID: snap.SessionID,
		Revision:  snap.Revision,
		Painted:   painted,
		CanUndo:   snap.CanUndo(),
		CanRedo:   snap.CanRedo(),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: paintboard://boards
	s.mcpServer.AddResource(mcp.NewResource(BoardsURI, "Active Boards",
		mcp.WithResourceDescription("IDs of the board sessions currently held by the store"),
		mcp.WithMIMEType("application/json"),
	), s.readBoards)

	// EXPOSE: paintboard://boards/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(BoardURITemplate, "Board",
		mcp.WithTemplateDescription("Painted cells of one board"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readBoard)
}

func (s *Server) readBoards(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.boards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return jsonContents(BoardsURI, ids)
}

func (s *Server) readBoard(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, "paintboard://boards/")
	if err := domain.ValidateSessionID(id); err != nil {
		return nil, err
	}
	snap, err := s.boards.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return jsonContents(uri, boardResponse(snap))
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
