package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reactor/pkg/host/memdom"
)

// clientBuffer is the number of messages queued per client before the
// client is dropped.
const clientBuffer = 256

// MessageType is the type of a stream message.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessageOp       MessageType = "op"
)

// Message is sent to stream clients as JSON.
type Message struct {
	Type   MessageType `json:"type"`
	HTML   string      `json:"html,omitempty"`
	Op     string      `json:"op,omitempty"`
	Node   int         `json:"node,omitempty"`
	Parent int         `json:"parent,omitempty"`
	Anchor int         `json:"anchor,omitempty"`
	Key    string      `json:"key,omitempty"`
	Value  string      `json:"value,omitempty"`
}

func opMessage(op memdom.Op) Message {
	msg := Message{Type: MessageOp, Op: op.Kind.String(), Key: op.Key}
	if op.Node != nil {
		msg.Node = op.Node.ID
	}
	if op.Parent != nil {
		msg.Parent = op.Parent.ID
	}
	if op.Anchor != nil {
		msg.Anchor = op.Anchor.ID
	}
	if op.Value != nil {
		msg.Value = fmt.Sprint(op.Value)
	}
	return msg
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the registry served on /metrics.
// Default: prometheus.DefaultGatherer
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFlush sets the function run after a dispatched event, normally the
// scheduler's Drain.
func WithFlush(fn func()) Option {
	return func(s *Server) {
		s.flush = fn
	}
}

// Server exposes a memdom document over HTTP: the serialized tree, a
// WebSocket stream of host operations, event dispatch and metrics.
//
// The document is not safe for concurrent use. Everything that mutates it,
// including scheduler flushes, must go through Do.
type Server struct {
	doc      *memdom.Document
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	flush    func()

	mu sync.Mutex

	clients  map[*client]struct{}
	cmu      sync.RWMutex
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Server for doc and subscribes to its operations.
func New(doc *memdom.Document, opts ...Option) *Server {
	s := &Server{
		doc:      doc,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	doc.OnOp(s.publish)
	return s
}

// Do runs fn with exclusive access to the document.
func (s *Server) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/tree", s.handleTree)
	r.Post("/dispatch/{id}/{event}", s.handleDispatch)
	r.Get("/ws", s.handleStream)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves Handler on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	var html string
	s.Do(func() { html = s.doc.HTML() })
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid node id", http.StatusBadRequest)
		return
	}
	event := chi.URLParam(r, "event")

	handled := false
	s.Do(func() {
		var target *memdom.Node
		s.doc.Root().Walk(func(n *memdom.Node) bool {
			if n.ID == id {
				target = n
				return false
			}
			return true
		})
		if target == nil {
			return
		}
		handled = s.doc.Dispatch(target, event, nil)
		if handled && s.flush != nil {
			s.flush()
		}
	})

	if !handled {
		http.Error(w, "no handler", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStream sends a snapshot of the tree followed by every host
// operation.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	// Registering under the document lock orders the snapshot before any
	// operation the client receives.
	s.Do(func() {
		data, _ := json.Marshal(Message{Type: MessageSnapshot, HTML: s.doc.HTML()})
		c.send <- data
		s.cmu.Lock()
		s.clients[c] = struct{}{}
		s.cmu.Unlock()
	})

	go s.writeLoop(c)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(c)
}

func (s *Server) writeLoop(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(c)
			return
		}
	}
}

func (s *Server) publish(op memdom.Op) {
	data, err := json.Marshal(opMessage(op))
	if err != nil {
		return
	}

	// Sends happen under the read lock so drop cannot close a channel
	// mid-send.
	var slow []*client
	s.cmu.RLock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	s.cmu.RUnlock()

	for _, c := range slow {
		s.logger.Warn("dropping slow stream client", "remote", c.conn.RemoteAddr().String())
		s.drop(c)
	}
}

func (s *Server) drop(c *client) {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	c.conn.Close()
}

// ClientCount returns the number of connected stream clients.
func (s *Server) ClientCount() int {
	s.cmu.RLock()
	defer s.cmu.RUnlock()
	return len(s.clients)
}

// Close closes all stream connections.
func (s *Server) Close() {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
		c.conn.Close()
	}
}
