package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/paintboard/internal/logging"
	"github.com/aretw0/paintboard/pkg/adapters/memory"
	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...HandlerOption) (http.Handler, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(memory.NewStore())
	return NewHandler(mgr, opts...), mgr
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) MutationResult {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res MutationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "paintboard-http", info["app"])
	assert.Equal(t, "0.3.0", info["api_version"])
	assert.NotEmpty(t, info["version"])
}

func TestOpenAPISpec(t *testing.T) {
	spec, err := GetSpec()
	require.NoError(t, err)
	assert.NotNil(t, spec.Paths.Find("/boards/{id}/toggle"))

	h, _ := newTestServer(t)
	w := do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestToggleUndoRedo(t *testing.T) {
	h, _ := newTestServer(t)

	res := decodeResult(t, do(t, h, "POST", "/boards/b1/toggle", `{"x":1,"y":1}`))
	require.NotNil(t, res.Action)
	assert.Equal(t, domain.Paint(domain.Pt(1, 1)), *res.Action)
	assert.Equal(t, []domain.Coordinate{domain.Pt(1, 1)}, res.Board.Painted)
	assert.True(t, res.Board.CanUndo)
	assert.Equal(t, uint64(1), res.Board.Revision)

	res = decodeResult(t, do(t, h, "POST", "/boards/b1/toggle", `{"x":2,"y":2}`))
	assert.Len(t, res.Board.Painted, 2)

	res = decodeResult(t, do(t, h, "POST", "/boards/b1/undo", ""))
	require.NotNil(t, res.Action)
	assert.Equal(t, domain.Paint(domain.Pt(2, 2)), *res.Action)
	assert.Equal(t, []domain.Coordinate{domain.Pt(1, 1)}, res.Board.Painted)
	assert.True(t, res.Board.CanRedo)

	res = decodeResult(t, do(t, h, "POST", "/boards/b1/redo", ""))
	require.NotNil(t, res.Action)
	assert.Len(t, res.Board.Painted, 2)
	assert.False(t, res.Board.CanRedo)
	assert.Equal(t, 2, res.Board.Done)
}

func TestUndoOnEmptyIsNoop(t *testing.T) {
	h, _ := newTestServer(t)

	res := decodeResult(t, do(t, h, "POST", "/boards/fresh/undo", ""))
	assert.Nil(t, res.Action)
	assert.Empty(t, res.Board.Painted)
	assert.NotNil(t, res.Board.Painted, "painted must encode as [] not null")
	assert.Equal(t, uint64(0), res.Board.Revision)

	// A no-op never creates the board.
	w := do(t, h, "GET", "/boards/fresh", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleRejectsBadInput(t *testing.T) {
	h, _ := newTestServer(t)

	cases := map[string]string{
		"missing y":     `{"x":1}`,
		"unknown field": `{"x":1,"y":2,"z":3}`,
		"not a number":  `{"x":"a","y":2}`,
		"not json":      `paint`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, h, "POST", "/boards/b1/toggle", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := do(t, h, "POST", "/boards/bad.id/toggle", `{"x":1,"y":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoardLifecycle(t *testing.T) {
	h, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/boards/life", "").Code)

	w := do(t, h, "POST", "/boards/life", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view BoardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "life", view.SessionID)
	assert.Empty(t, view.Painted)

	decodeResult(t, do(t, h, "POST", "/boards/life/toggle", `{"x":-3,"y":4}`))

	w = do(t, h, "GET", "/boards", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["life"]`, w.Body.String())

	w = do(t, h, "GET", "/boards/life", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, []domain.Coordinate{domain.Pt(-3, 4)}, view.Painted)

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/boards/life", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/boards/life", "").Code)
	assert.JSONEq(t, `[]`, do(t, h, "GET", "/boards", "").Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "OPTIONS", "/boards/b1/toggle", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsHandler(t *testing.T) {
	h, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/metrics", "").Code)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("paintboard_actions_total 1\n"))
	})
	h, _ = newTestServer(t, WithMetricsHandler(metrics))
	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "paintboard_actions_total")
}

func TestSubscribeEvents_RequiresSession(t *testing.T) {
	h, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/events", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/events?session_id=a%20b", "").Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	handler := NewHandler(mgr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events?session_id=sse-1", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	decodeResult(t, do(t, handler, "POST", "/boards/sse-1/toggle", `{"x":5,"y":6}`))
	// Other sessions are not delivered.
	decodeResult(t, do(t, handler, "POST", "/boards/sse-2/toggle", `{"x":7,"y":8}`))

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, "event: diff")
	assert.Contains(t, output, `"painted":[{"x":5,"y":6}]`)
	assert.NotContains(t, output, `"x":7`)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())

	ch, cancel := sm.Subscribe("s")
	assert.Equal(t, 1, sm.Subscribers("s"))

	sm.Broadcast("s", "hello")
	sm.Broadcast("other", "ignored")
	assert.Equal(t, "hello", <-ch)

	// Full buffers drop instead of blocking.
	for i := 0; i < 20; i++ {
		sm.Broadcast("s", "spam")
	}
	assert.Len(t, ch, cap(ch))

	cancel()
	assert.Equal(t, 0, sm.Subscribers("s"))
	for range ch {
	}
}
