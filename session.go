/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Puzzlebox play sessions
//
// Every session is a single run through the ten puzzles, shared by every
// browser tab that opens the same session URL.
//
// Features:
// - WebSockets per session ID: /play/:session and /play/:session/ws
// - One goroutine per session owns the progress tracker and the mounted puzzle
// - Timer callbacks are posted back onto that goroutine
// - Each mounted puzzle gets a fresh instance ID; input for an old instance is dropped
// - Sessions auto-reaped after configurable idle timeout
// - Random 8-char session IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/puzzlebox/puzzles"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var errSessionClosed = errors.New("session closed")

const minReapInterval = time.Second

// Messages coming from clients
type ClientMessage struct {
	Type     string        `json:"type"`               // "navigate", "previous", "next", "reset_all", "input"
	Index    int           `json:"index,omitempty"`    // navigate
	Instance string        `json:"instance,omitempty"` // input
	Input    puzzles.Input `json:"input"`              // input
}

// ProgressMessage is broadcast after every change.
type ProgressMessage struct {
	Type         string   `json:"type"` // "progress"
	Current      int      `json:"current"`
	Total        int      `json:"total"`
	Completed    int      `json:"completed"`
	Percentage   int      `json:"percentage"`
	Active       int      `json:"active"`
	CompletedIDs []int    `json:"completed_ids"`
	Titles       []string `json:"titles"`
	First        bool     `json:"first"`
	Last         bool     `json:"last"`
}

// PuzzleStateMessage carries the view of the mounted puzzle.
type PuzzleStateMessage struct {
	Type        string `json:"type"` // "puzzle_state"
	Index       int    `json:"index"`
	Kind        string `json:"kind"`
	Instance    string `json:"instance"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Solved      bool   `json:"solved"`
	State       any    `json:"state"`
}

// SimpleMessage is sent to a single client ("error", "stale").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type clientInput struct {
	client *Client
	msg    ClientMessage
}

// loopScheduler delivers timer callbacks on the session goroutine.
type loopScheduler struct {
	base    puzzles.Scheduler
	session *Session
}

func (l loopScheduler) AfterFunc(d time.Duration, fn func()) puzzles.Timer {
	return l.base.AfterFunc(d, func() {
		select {
		case l.session.timers <- fn:
		case <-l.session.done:
		}
	})
}

type Session struct {
	id      string
	cfg     *Config
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	inputs   chan clientInput
	timers   chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	lastActive time.Time

	// Owned by run.
	registry *puzzles.Registry
	progress *puzzles.Progress
	sched    puzzles.Scheduler
	random   puzzles.Source
	handler  puzzles.Handler
	tasks    *puzzles.Tasks
	instance string
	index    int
	epoch    uint64
}

func newSession(cfg *Config, id string, registry *puzzles.Registry, base puzzles.Scheduler, seed uint64) *Session {
	now := time.Now()
	s := &Session{
		id:         id,
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		inputs:     make(chan clientInput),
		timers:     make(chan func()),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		lastActive: now,
		registry:   registry,
		random:     puzzles.NewSource(seed),
	}
	s.sched = loopScheduler{base: base, session: s}
	s.progress = puzzles.NewProgress(registry, s.sched, cfg.advanceDelay)
	s.mount()

	return s
}

func (s *Session) run() {
	defer s.shutdown()

	for {
		select {
		case c := <-s.register:
			s.touch()
			s.clients[c] = true
			s.sendTo(c, s.progressMessage())
			s.sendTo(c, s.stateMessage())

		case c := <-s.unreg:
			s.touch()
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
			}

		case in := <-s.inputs:
			s.touch()
			s.handle(in)
			s.sync()
			s.broadcast()

		case fn := <-s.timers:
			fn()
			s.sync()
			s.broadcast()

		case <-s.quit:
			return
		}
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastActive
}

func (s *Session) handle(in clientInput) {
	msg := in.msg

	switch msg.Type {
	case "navigate":
		s.progress.Navigate(msg.Index)
	case "previous":
		s.progress.Navigate(s.progress.ActiveIndex() - 1)
	case "next":
		s.progress.Navigate(s.progress.ActiveIndex() + 1)
	case "reset_all":
		logf(s.cfg, "SESSION: Progress reset in %s", s.id)
		s.progress.Reset()
	case "input":
		if msg.Instance != s.instance {
			s.sendTo(in.client, SimpleMessage{
				Type:    "stale",
				Message: "That puzzle is no longer active.",
			})
			return
		}
		if err := s.handler.Handle(msg.Input); err != nil {
			logf(s.cfg, "ERROR: %s in %s: %v", s.registry.Get(s.index).Kind, s.id, err)
			s.sendTo(in.client, SimpleMessage{
				Type:    "error",
				Message: err.Error(),
			})
		}
	default:
		// ignore unknown types
	}
}

// sync remounts the active puzzle if the progress tracker moved on.
func (s *Session) sync() {
	if s.epoch == s.progress.Epoch() {
		return
	}
	s.mount()
}

func (s *Session) mount() {
	if s.tasks != nil {
		s.tasks.Stop()
	}

	index := s.progress.ActiveIndex()
	desc := s.progress.Active()
	instance := uuid.NewString()
	tasks := puzzles.NewTasks(s.sched)

	handler := desc.New()
	handler.Mount(puzzles.Env{
		OnComplete: func() {
			if s.instance != instance {
				return
			}
			logf(s.cfg, "PUZZLE: %q solved in %s", desc.Title, s.id)
			s.progress.Complete(index)
		},
		IsCompleted: func() bool {
			return s.progress.IsCompleted(index)
		},
		Tasks: tasks,
		Rand:  s.random,
	})

	s.handler = handler
	s.tasks = tasks
	s.instance = instance
	s.index = index
	s.epoch = s.progress.Epoch()
}

func (s *Session) progressMessage() ProgressMessage {
	sum := s.progress.Summary()
	active := s.progress.ActiveIndex()

	return ProgressMessage{
		Type:         "progress",
		Current:      sum.Current,
		Total:        sum.Total,
		Completed:    sum.Completed,
		Percentage:   sum.Percentage,
		Active:       active,
		CompletedIDs: s.progress.CompletedIDs(),
		Titles:       s.registry.Titles(),
		First:        active == 0,
		Last:         active == s.progress.Total()-1,
	}
}

func (s *Session) stateMessage() PuzzleStateMessage {
	desc := s.registry.Get(s.index)

	return PuzzleStateMessage{
		Type:        "puzzle_state",
		Index:       s.index,
		Kind:        desc.Kind,
		Instance:    s.instance,
		Title:       desc.Title,
		Description: desc.Description,
		Solved:      s.progress.IsCompleted(s.index),
		State:       s.handler.View(),
	}
}

// sendTo drops clients that cannot keep up.
func (s *Session) sendTo(c *Client, msg any) {
	if !s.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Session) broadcast() {
	progress := s.progressMessage()
	state := s.stateMessage()

	for client := range s.clients {
		s.sendTo(client, progress)
		s.sendTo(client, state)
	}
}

// stop ends the session goroutine and waits for it to finish.
func (s *Session) stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
}

func (s *Session) shutdown() {
	s.tasks.Stop()
	s.progress.Stop()

	for c := range s.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(s.clients, c)
	}

	close(s.done)
}

func (s *Session) join(c *Client) error {
	select {
	case s.register <- c:
		return nil
	case <-s.done:
		return errSessionClosed
	}
}

func (s *Session) submit(c *Client, msg ClientMessage) error {
	select {
	case s.inputs <- clientInput{client: c, msg: msg}:
		return nil
	case <-s.done:
		return errSessionClosed
	}
}

func (s *Session) leave(c *Client) {
	select {
	case s.unreg <- c:
	case <-s.done:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionManager holds a set of sessions keyed by ID, so each
// /play/:session is its own isolated run.
type SessionManager struct {
	cfg      *Config
	registry *puzzles.Registry
	sched    puzzles.Scheduler

	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration

	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newSessionManager(cfg *Config, registry *puzzles.Registry, sched puzzles.Scheduler) *SessionManager {
	sm := &SessionManager{
		cfg:         cfg,
		registry:    registry,
		sched:       sched,
		sessions:    make(map[string]*Session),
		idleTimeout: cfg.sessionTimeout,
		quit:        make(chan struct{}),
	}
	if sm.idleTimeout > 0 {
		sm.wg.Add(1)
		go sm.reaperLoop()
	}
	return sm
}

func (sm *SessionManager) seed() (uint64, error) {
	if sm.cfg.seed != 0 {
		return sm.cfg.seed, nil
	}

	return puzzles.NewSeed()
}

func (sm *SessionManager) getSession(id string) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[id]; ok {
		return s, nil
	}

	select {
	case <-sm.quit:
		return nil, errSessionClosed
	default:
	}

	seed, err := sm.seed()
	if err != nil {
		return nil, err
	}

	s := newSession(sm.cfg, id, sm.registry, sm.sched, seed)
	sm.sessions[id] = s

	sm.wg.Add(1)
	go func() {
		defer sm.wg.Done()
		s.run()
	}()

	logf(sm.cfg, "SESSION: Started %s", id)

	return s, nil
}

// newSessionID generates a crypto-random session ID and ensures it doesn't
// collide with existing sessions.
func (sm *SessionManager) newSessionID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		sm.mu.Lock()
		_, exists := sm.sessions[id]
		sm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap removes sessions idle since before cutoff and returns how many went.
func (sm *SessionManager) reap(cutoff time.Time) int {
	var expired []*Session

	sm.mu.Lock()
	for id, s := range sm.sessions {
		if s.idleSince().Before(cutoff) {
			delete(sm.sessions, id)
			expired = append(expired, s)
		}
	}
	sm.mu.Unlock()

	for _, s := range expired {
		s.stop()
		logf(sm.cfg, "SESSION: Reaped idle session %s", s.id)
	}

	return len(expired)
}

// reapInterval is how often the reaper runs for the given idle timeout.
func reapInterval(idleTimeout time.Duration) time.Duration {
	return max(idleTimeout/2, minReapInterval)
}

// reaperLoop periodically removes sessions that have been idle longer than idleTimeout.
func (sm *SessionManager) reaperLoop() {
	defer sm.wg.Done()

	ticker := time.NewTicker(reapInterval(sm.idleTimeout))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.reap(time.Now().Add(-sm.idleTimeout))
		case <-sm.quit:
			return
		}
	}
}

func (sm *SessionManager) count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return len(sm.sessions)
}

// Close stops the reaper and every session.
func (sm *SessionManager) Close() {
	sm.closeOnce.Do(func() {
		close(sm.quit)

		sm.mu.Lock()
		sessions := make([]*Session, 0, len(sm.sessions))
		for id, s := range sm.sessions {
			delete(sm.sessions, id)
			sessions = append(sessions, s)
		}
		sm.mu.Unlock()

		for _, s := range sessions {
			s.stop()
		}
	})

	sm.wg.Wait()
}

// WebSocket handler that picks the session based on :session
func serveWS(cfg *Config, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("session")
		if id == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}

		session, err := sm.getSession(id)
		if err != nil {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Upgrade failed for %s: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
		}

		if err := session.join(client); err != nil {
			_ = conn.Close()
			return
		}

		logf(cfg, "SESSION: %s joined %s", realIP(r), id)

		go client.writePump()
		client.readPump(session)
	}
}

func (c *Client) readPump(s *Session) {
	defer func() {
		s.leave(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if err := s.submit(c, msg); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current session URL using go-qrcode.
func serveQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("session") == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// redirectNewSession handles GET / by generating a new random session ID
// and redirecting to /play/:session.
func redirectNewSession(cfg *Config, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		id := sm.newSessionID()
		logf(cfg, "SESSION: Created %s for %s", id, realIP(r))
		http.Redirect(w, r, cfg.prefix+"/play/"+id, http.StatusTemporaryRedirect)
	}
}

// registerPlay sets up routes so that:
//   - /                     → redirects to new random session
//   - /play/:session        → HTML client
//   - /play/:session/ws     → WebSocket for that session
//   - /play/:session/qr     → PNG QR code for that session URL
func registerPlay(cfg *Config, sm *SessionManager, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/", redirectNewSession(cfg, sm))
	mux.GET(cfg.prefix+"/play/:session", servePlayPage(cfg, errs))
	mux.GET(cfg.prefix+"/play/:session/ws", serveWS(cfg, sm))
	mux.GET(cfg.prefix+"/play/:session/qr", serveQR(cfg))
}
