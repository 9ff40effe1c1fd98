package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/internal/randutil"
	"github.com/lox/videopoker/poker"
)

type countingDemo struct{ n int }

func (c *countingDemo) NotifyInput() { c.n++ }

type testServer struct {
	session *game.Session
	server  *Server
	http    *httptest.Server
	demo    *countingDemo
}

func newTestServer(t *testing.T, decks ...[]poker.Card) *testServer {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	s, err := game.NewSession(game.DefaultConfig(),
		game.WithClock(quartz.NewMock(t)),
		game.WithLogger(logger),
		game.WithRand(randutil.New(9)),
		game.WithDeckSource(game.ScriptedDecks(decks...)),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	demo := &countingDemo{}
	srv := NewServer(s, Options{Logger: logger, Demo: demo})
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{session: s, server: srv, http: ts, demo: demo}
}

func (ts *testServer) post(t *testing.T, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	resp, err := http.Post(ts.http.URL+path, "application/json", r)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (ts *testServer) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(ts.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeState(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var st map[string]any
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestPlayARound(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, game.StackedDeck("2h 7h 9h Jh Kh"))

	status, body := ts.get(t, "/api/state")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "betting", decodeState(t, body)["phase"])

	status, body = ts.post(t, "/api/deal", `{"bet": 100}`)
	require.Equal(t, http.StatusOK, status, string(body))
	st := decodeState(t, body)
	assert.Equal(t, "dealt", st["phase"])
	assert.EqualValues(t, 900, st["credits"])

	status, _ = ts.post(t, "/api/hold/0", "")
	require.Equal(t, http.StatusOK, status)
	assert.False(t, ts.session.State().Held[0])

	status, body = ts.post(t, "/api/hold/0", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, ts.session.State().Held[0])

	status, body = ts.post(t, "/api/draw", "")
	require.Equal(t, http.StatusOK, status)
	st = decodeState(t, body)
	assert.Equal(t, "drawn", st["phase"])
	assert.EqualValues(t, 600, st["win"])
	assert.Equal(t, "Flush", st["classification"])

	status, _ = ts.post(t, "/api/gamble", "")
	require.Equal(t, http.StatusOK, status)

	status, body = ts.post(t, "/api/guess/red", "")
	require.Equal(t, http.StatusOK, status)
	var guess GuessResponse
	require.NoError(t, json.Unmarshal(body, &guess))
	assert.True(t, guess.Card.Valid())
	assert.Equal(t, guess.Card.IsRed(), guess.Correct)
	assert.True(t, guess.State.RevealPending)

	status, body = ts.post(t, "/api/cashout", "")
	assert.Equal(t, http.StatusConflict, status)
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "reveal_pending", e.Code)

	assert.Equal(t, 7, ts.demo.n, "every action counts as input")
}

func TestEngineErrorsAreConflicts(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		path string
		body string
		code string
	}{
		{"/api/draw", "", "wrong_phase"},
		{"/api/gamble", "", "wrong_phase"},
		{"/api/deal", `{"bet": 5}`, "invalid_bet"},
		{"/api/deal", `{"bet": 5000}`, "invalid_bet"},
		{"/api/hold/7", "", "wrong_phase"},
	}
	for _, tc := range tests {
		status, body := ts.post(t, tc.path, tc.body)
		assert.Equal(t, http.StatusConflict, status, tc.path)
		var e ErrorResponse
		require.NoError(t, json.Unmarshal(body, &e))
		assert.Equal(t, tc.code, e.Code, tc.path)
		assert.NotEmpty(t, e.Error)
	}
	assert.Equal(t, game.Betting, ts.session.State().Phase)
}

func TestBadRequests(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for _, path := range []string{"/api/hold/x", "/api/bet/sideways", "/api/guess/green"} {
		status, body := ts.post(t, path, "")
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Contains(t, string(body), "bad_request")
	}
	status, _ := ts.post(t, "/api/deal", `{"bet":`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBetAndHistory(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	status, body := ts.post(t, "/api/bet/max", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1000, decodeState(t, body)["bet"])

	status, body = ts.get(t, "/api/history")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, _ = ts.get(t, "/health")
	assert.Equal(t, http.StatusOK, status)

	status, _ = ts.post(t, "/api/restart", "")
	assert.Equal(t, http.StatusOK, status)
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketStreamsEvents(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, game.StackedDeck("2h 7h 9h Jh Kh"))

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	hello := readMessage(t, conn)
	assert.Equal(t, MessageTypeHello, hello.Type)
	assert.Equal(t, "betting", decodeState(t, hello.Data)["phase"])
	require.Eventually(t, func() bool { return ts.server.Connections() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, ts.session.Deal(250))
	msg := readMessage(t, conn)
	assert.Equal(t, string(game.EventTypeDeal), msg.Type)
	data := decodeState(t, msg.Data)
	assert.EqualValues(t, 250, data["bet"])
	state := data["state"].(map[string]any)
	assert.Equal(t, "dealt", state["phase"])

	require.NoError(t, ts.session.Draw())
	assert.Equal(t, string(game.EventTypeDraw), readMessage(t, conn).Type)

	ts.server.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Zero(t, ts.server.Connections())
}
