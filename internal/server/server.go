// Package server exposes one session over HTTP: JSON endpoints for every
// player action and a WebSocket stream of session events.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/videopoker/internal/game"
)

// InputNotifier is told about every player action. The demo driver
// implements it.
type InputNotifier interface {
	NotifyInput()
}

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	Demo   InputNotifier
	// RequestTimeout bounds /api requests. Default 10s.
	RequestTimeout time.Duration
}

// Server serves a single session.
type Server struct {
	session  *game.Session
	demo     InputNotifier
	logger   *log.Logger
	upgrader websocket.Upgrader
	timeout  time.Duration

	mu          sync.Mutex
	connections map[*Connection]struct{}
	closed      bool
}

// NewServer creates a server and subscribes it to session's events.
func NewServer(session *game.Session, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{
		session: session,
		demo:    opts.Demo,
		logger:  opts.Logger.WithPrefix("server"),
		timeout: opts.RequestTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local single-player machine; any page may watch it
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]struct{}),
	}
	session.Subscribe(s)
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Use(middleware.AllowContentType("application/json"))

		r.Get("/state", s.handleState)
		r.Get("/history", s.handleHistory)
		r.Post("/deal", s.handleDeal)
		r.Post("/hold/{index}", s.handleHold)
		r.Post("/draw", s.handleDraw)
		r.Post("/bet/{direction}", s.handleBet)
		r.Post("/gamble", s.handleGamble)
		r.Post("/guess/{color}", s.handleGuess)
		r.Post("/cashout", s.handleCashOut)
		r.Post("/restart", s.handleRestart)
	})
	return r
}

// Close disconnects every stream and stops listening to the session.
func (s *Server) Close() {
	s.session.Unsubscribe(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for conn := range s.connections {
		_ = conn.Close()
		delete(s.connections, conn)
	}
}

// Connections returns the number of open /ws streams.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// OnEvent implements game.EventSubscriber. It runs with the session locked
// and only queues messages.
func (s *Server) OnEvent(event game.GameEvent) {
	msg, err := eventMessage(event)
	if err != nil {
		s.logger.Error("Failed to encode event", "type", event.EventType(), "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		conn.Send(msg)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	conn := NewConnection(ws, s.logger)

	hello, err := NewMessage(MessageTypeHello, s.session.State(), time.Now())
	if err != nil {
		s.logger.Error("Failed to encode state", "error", err)
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()

	conn.Send(hello)
	conn.Start()
	s.logger.Info("Client connected", "total", total)

	go func() {
		<-conn.Done()
		s.mu.Lock()
		delete(s.connections, conn)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "total", total)
	}()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
