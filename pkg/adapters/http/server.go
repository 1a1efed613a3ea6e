package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/paintboard"
	"github.com/aretw0/paintboard/internal/logging"
	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// maxBodyBytes caps request bodies; a coordinate never needs more.
const maxBodyBytes = 1 << 10

// Boards defines the session operations the HTTP adapter drives.
// session.Manager satisfies it.
type Boards interface {
	Toggle(ctx context.Context, sessionID string, c domain.Coordinate) (*session.Outcome, error)
	Undo(ctx context.Context, sessionID string) (*session.Outcome, error)
	Redo(ctx context.Context, sessionID string) (*session.Outcome, error)
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)
	LoadOrStart(ctx context.Context, sessionID string) (*domain.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

var _ Boards = (*session.Manager)(nil)

// Server exposes board sessions over JSON/HTTP.
type Server struct {
	Boards  Boards
	Streams *StreamManager
	logger  *slog.Logger
	metrics http.Handler
}

// HandlerOption configures the Server.
type HandlerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h (typically promhttp.Handler()) at /metrics.
func WithMetricsHandler(h http.Handler) HandlerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the board sessions.
func NewHandler(boards Boards, opts ...HandlerOption) http.Handler {
	server := &Server{
		Boards: boards,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	r.Get("/boards", server.ListBoards)
	r.Route("/boards/{id}", func(r chi.Router) {
		r.Get("/", server.GetBoard)
		r.Post("/", server.StartBoard)
		r.Delete("/", server.DeleteBoard)
		r.Post("/toggle", server.Toggle)
		r.Post("/undo", server.Undo)
		r.Post("/redo", server.Redo)
	})
	r.Get("/events", server.SubscribeEvents)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BoardView is the wire form of a board for rendering clients.
type BoardView struct {
	SessionID string              `json:"session_id"`
	Revision  uint64              `json:"revision"`
	Painted   []domain.Coordinate `json:"painted"`
	CanUndo   bool                `json:"can_undo"`
	CanRedo   bool                `json:"can_redo"`
	Done      int                 `json:"done"`
	Undone    int                 `json:"undone"`
}

// MutationResult is returned by toggle, undo and redo.
type MutationResult struct {
	// Action is omitted when undo/redo found an empty history.
	Action *domain.Action `json:"action,omitempty"`
	Board  BoardView      `json:"board"`
}

// ToggleRequest is the body of POST /boards/{id}/toggle.
// Pointers let the handler reject a missing component instead of defaulting it to 0.
type ToggleRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// Coordinate validates the request at the input boundary.
func (t ToggleRequest) Coordinate() (domain.Coordinate, error) {
	if t.X == nil || t.Y == nil {
		return domain.Coordinate{}, fmt.Errorf("%w: both x and y are required", domain.ErrInvalidCoordinate)
	}
	return domain.Pt(*t.X, *t.Y), nil
}

func viewFromSnapshot(s *domain.Snapshot) BoardView {
	painted := s.Painted
	if painted == nil {
		painted = []domain.Coordinate{}
	}
	return BoardView{
		SessionID: s.SessionID,
		Revision:  s.Revision,
		Painted:   painted,
		CanUndo:   s.CanUndo(),
		CanRedo:   s.CanRedo(),
		Done:      len(s.Done),
		Undone:    len(s.Undone),
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := GetSpec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	} else if err != nil {
		s.logger.Error("Failed to load OpenAPI spec", "err", err)
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":         "paintboard-http",
		"version":     strings.TrimSpace(paintboard.Version),
		"api_version": apiVersion,
	})
}

// ListBoards handles GET /boards.
func (s *Server) ListBoards(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Boards.List(r.Context())
	if err != nil {
		s.fail(w, "ListBoards", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, ids)
}

// GetBoard handles GET /boards/{id}.
func (s *Server) GetBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.boardID(w, r)
	if !ok {
		return
	}
	snap, err := s.Boards.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "GetBoard", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, viewFromSnapshot(snap))
}

// StartBoard handles POST /boards/{id}: returns the board, starting an empty one if needed.
func (s *Server) StartBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.boardID(w, r)
	if !ok {
		return
	}
	snap, err := s.Boards.LoadOrStart(r.Context(), id)
	if err != nil {
		s.fail(w, "StartBoard", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, viewFromSnapshot(snap))
}

// DeleteBoard handles DELETE /boards/{id}.
func (s *Server) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.boardID(w, r)
	if !ok {
		return
	}
	if err := s.Boards.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeleteBoard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /boards/{id}/toggle.
func (s *Server) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.boardID(w, r)
	if !ok {
		return
	}

	var body ToggleRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Toggle: Invalid request body", "err", err)
		return
	}
	coord, err := body.Coordinate()
	if err != nil {
		s.fail(w, "Toggle", err)
		return
	}

	out, err := s.Boards.Toggle(r.Context(), id, coord)
	s.finish(w, "Toggle", out, err)
}

// Undo handles POST /boards/{id}/undo.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.boardID(w, r)
	if !ok {
		return
	}
	out, err := s.Boards.Undo(r.Context(), id)
	s.finish(w, "Undo", out, err)
}

// Redo handles POST /boards/{id}/redo.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.boardID(w, r)
	if !ok {
		return
	}
	out, err := s.Boards.Redo(r.Context(), id)
	s.finish(w, "Redo", out, err)
}

// finish broadcasts the diff of a mutation and writes the result.
func (s *Server) finish(w http.ResponseWriter, op string, out *session.Outcome, err error) {
	if err != nil {
		s.fail(w, op, err)
		return
	}

	if out.Diff != nil {
		if bytes, err := json.Marshal(out.Diff); err == nil {
			s.Streams.Broadcast(out.Board.SessionID, string(bytes))
		}
	} else {
		s.logger.Debug(op+": No diff calculated", "session_id", out.Board.SessionID)
	}

	writeJSON(w, s.logger, http.StatusOK, MutationResult{
		Action: out.Action,
		Board:  viewFromSnapshot(out.Board),
	})
}

// boardID binds and validates the {id} path parameter.
func (s *Server) boardID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err == nil {
		err = domain.ValidateSessionID(id)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid board id: %v", err), http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// fail maps domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidSessionID), errors.Is(err, domain.ErrInvalidCoordinate):
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn(op+": Input rejected", "err", err)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
