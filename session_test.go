/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/puzzlebox/puzzles"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testConfig() *Config {
	return &Config{
		advanceDelay: puzzles.DefaultAdvanceDelay,
		bind:         "127.0.0.1",
		port:         8080,
		seed:         42,
	}
}

type testServer struct {
	clock *puzzles.ManualClock
	sm    *SessionManager
	srv   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := testConfig()
	clock := puzzles.NewManualClock()
	sm := newSessionManager(cfg, puzzles.Default(), clock)
	errs := make(chan error, 64)
	srv := httptest.NewServer(newRouter(cfg, sm, errs))

	t.Cleanup(func() {
		srv.Close()
		sm.Close()
	})

	return &testServer{clock: clock, sm: sm, srv: srv}
}

func (ts *testServer) dial(t *testing.T, session string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/play/" + session + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// readUntil returns the first message of type typ accepted by match.
func readUntil[T any](t *testing.T, conn *websocket.Conn, typ string, match func(T) bool) T {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var envelope struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &envelope))
		if envelope.Type != typ {
			continue
		}

		var msg T
		require.NoError(t, json.Unmarshal(data, &msg))
		if match == nil || match(msg) {
			return msg
		}
	}
}

func readState(t *testing.T, conn *websocket.Conn, index int) PuzzleStateMessage {
	t.Helper()

	return readUntil(t, conn, "puzzle_state", func(m PuzzleStateMessage) bool {
		return m.Index == index
	})
}

func sendInput(t *testing.T, conn *websocket.Conn, instance string, in puzzles.Input) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "input", Instance: instance, Input: in}))
}

func TestSessionSolveAndAdvance(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "solve")

	first := readUntil[ProgressMessage](t, conn, "progress", nil)
	assert.Equal(t, 0, first.Active)
	assert.Equal(t, 10, first.Total)
	assert.True(t, first.First)
	assert.Len(t, first.Titles, 10)
	readState(t, conn, 0)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Index: 99}))
	ignored := readUntil[ProgressMessage](t, conn, "progress", nil)
	assert.Equal(t, 0, ignored.Active)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Index: 4}))
	state := readState(t, conn, 4)
	assert.Equal(t, "ciphers", state.Kind)
	assert.NotEmpty(t, state.Instance)

	for i, n := range []int{1, 3, 8} {
		sendInput(t, conn, state.Instance, puzzles.Input{Action: "set", Index: i, Number: n})
	}
	readUntil(t, conn, "puzzle_state", func(m PuzzleStateMessage) bool {
		view, ok := m.State.(map[string]any)
		return ok && view["status"] == "completed"
	})

	ts.clock.Advance(time.Second)
	done := readUntil(t, conn, "progress", func(m ProgressMessage) bool {
		return len(m.CompletedIDs) == 1
	})
	assert.Equal(t, []int{4}, done.CompletedIDs)
	assert.Equal(t, 4, done.Active)
	assert.Equal(t, 10, done.Percentage)

	ts.clock.Advance(puzzles.DefaultAdvanceDelay)
	next := readState(t, conn, 5)
	assert.Equal(t, "colors", next.Kind)
	assert.False(t, next.Solved)
	assert.NotEqual(t, state.Instance, next.Instance)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "previous"}))
	back := readState(t, conn, 4)
	assert.True(t, back.Solved)
}

func TestSessionDropsStaleInput(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "stale")

	old := readState(t, conn, 0)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "next"}))
	current := readState(t, conn, 1)
	require.NotEqual(t, old.Instance, current.Instance)

	sendInput(t, conn, old.Instance, puzzles.Input{Action: "press", Number: 1})
	stale := readUntil[SimpleMessage](t, conn, "stale", nil)
	assert.NotEmpty(t, stale.Message)

	after := readState(t, conn, 1)
	assert.Equal(t, current.Instance, after.Instance)
	assert.Equal(t, current.State, after.State)
}

func TestSessionReportsBadInputToSender(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "errors")

	state := readState(t, conn, 0)
	sendInput(t, conn, state.Instance, puzzles.Input{Action: "bogus"})

	msg := readUntil[SimpleMessage](t, conn, "error", nil)
	assert.Contains(t, msg.Message, "bogus")
}

func TestSessionSharedBetweenClients(t *testing.T) {
	ts := newTestServer(t)
	a := ts.dial(t, "shared")
	readState(t, a, 0)

	b := ts.dial(t, "shared")
	readState(t, b, 0)

	require.NoError(t, a.WriteJSON(ClientMessage{Type: "navigate", Index: 3}))
	readState(t, a, 3)
	seen := readState(t, b, 3)
	assert.Equal(t, "hidden_word", seen.Kind)

	require.NoError(t, b.WriteJSON(ClientMessage{Type: "reset_all"}))
	reset := readUntil(t, a, "progress", func(m ProgressMessage) bool { return m.Active == 0 })
	assert.Empty(t, reset.CompletedIDs)
	assert.Equal(t, 1, ts.sm.count())
}

func TestSessionManagerReap(t *testing.T) {
	cfg := testConfig()
	sm := newSessionManager(cfg, puzzles.Default(), puzzles.NewManualClock())
	defer sm.Close()

	idle, err := sm.getSession("idle")
	require.NoError(t, err)
	busy, err := sm.getSession("busy")
	require.NoError(t, err)

	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	assert.Equal(t, 1, sm.reap(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, sm.count())

	again, err := sm.getSession("busy")
	require.NoError(t, err)
	assert.Same(t, busy, again)

	fresh, err := sm.getSession("idle")
	require.NoError(t, err)
	assert.NotSame(t, idle, fresh)
}

func TestSessionManagerCloseStopsGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig()
	cfg.sessionTimeout = time.Hour
	sm := newSessionManager(cfg, puzzles.Default(), puzzles.WallClock())

	for _, id := range []string{"a", "b", "c"} {
		_, err := sm.getSession(id)
		require.NoError(t, err)
	}
	require.Equal(t, 3, sm.count())

	sm.Close()
	sm.Close()

	assert.Zero(t, sm.count())
	_, err := sm.getSession("d")
	assert.ErrorIs(t, err, errSessionClosed)
}

func TestReapIntervalIsNeverBelowMinimum(t *testing.T) {
	assert.Equal(t, minReapInterval, reapInterval(time.Nanosecond))
	assert.Equal(t, minReapInterval, reapInterval(time.Second))
	assert.Equal(t, 30*time.Minute, reapInterval(time.Hour))
}

func TestSessionManagerTinyTimeoutDoesNotPanic(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig()
	cfg.sessionTimeout = time.Nanosecond

	var sm *SessionManager
	require.NotPanics(t, func() {
		sm = newSessionManager(cfg, puzzles.Default(), puzzles.WallClock())
	})
	sm.Close()
}

func TestNewSessionID(t *testing.T) {
	sm := newSessionManager(testConfig(), puzzles.Default(), puzzles.NewManualClock())
	defer sm.Close()

	seen := make(map[string]bool)
	for range 50 {
		id := sm.newSessionID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
