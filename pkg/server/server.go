package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/metrics"
)

// Config configures the Server.
type Config struct {
	// Address is the listen address (default: "localhost:3000").
	Address string

	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration

	// CheckOrigin validates websocket origins. Default allows same host.
	CheckOrigin func(r *http.Request) bool

	// LiveScript appends the live-update script to GET /.
	LiveScript bool

	// Metrics records operations and clients when set.
	Metrics *metrics.Metrics

	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer

	Logger *slog.Logger
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:         "localhost:3000",
		ReadTimeout:     10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		LiveScript:      true,
	}
}

// Server serves one Document.
type Server struct {
	doc      *Document
	config   *Config
	upgrader websocket.Upgrader
	hub      *hub
	logger   *slog.Logger
}

// New creates a Server for doc. Unset config fields take their defaults.
func New(doc *Document, config *Config) *Server {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		doc:    doc,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		hub:    newHub(),
		logger: logger.With("component", "server"),
	}
}

// Handler returns the HTTP handler with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/data", s.handleData)
	r.Get("/ws", s.handleWebSocket)
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", s.config.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	return s.hub.len()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	html, err := s.doc.HTML()
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
	if s.config.LiveScript {
		_, _ = w.Write([]byte(liveScript))
	}
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var body []byte
	err := s.doc.Data(func(data any) error {
		var err error
		body, err = json.Marshal(data)
		return err
	})
	if err != nil {
		s.logger.Warn("data not serializable", "error", err)
		http.Error(w, "data not serializable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}
	s.hub.add(c)
	if m := s.config.Metrics; m != nil {
		m.ClientConnected()
	}
	s.logger.Debug("client connected", "remote", r.RemoteAddr, "clients", s.hub.len())
	defer s.drop(c)

	if html, version, err := s.doc.Body(); err == nil {
		if err := c.send(Message{Type: MessageRender, Version: version, HTML: html}); err != nil {
			return
		}
	}
	s.readLoop(r.Context(), c)
}

func (s *Server) readLoop(ctx context.Context, c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		var op Op
		if err := json.Unmarshal(data, &op); err != nil {
			_ = c.send(Message{Type: MessageError, Code: "B402", Error: "malformed operation: " + err.Error()})
			continue
		}

		start := time.Now()
		result, version, err := s.doc.Apply(ctx, op)
		if m := s.config.Metrics; m != nil {
			m.ObserveOp(op.Op, time.Since(start), err)
		}
		if err != nil {
			s.logger.Debug("operation failed", "op", op.Op, "ref", op.Ref, "error", err)
			_ = c.send(errorMessage(op.ID, err))
			continue
		}
		if err := c.send(Message{Type: MessageAck, ID: op.ID, Version: version, Result: result}); err != nil {
			s.logger.Warn("ack failed", "op", op.Op, "error", err)
		}
		s.broadcast()
	}
}

func errorMessage(id int64, err error) Message {
	m := Message{Type: MessageError, ID: id, Error: err.Error()}
	var be *errors.BindError
	if stderrors.As(err, &be) {
		m.Code = be.Code
	}
	return m
}

// broadcast sends the current body to every client. Clients that cannot
// be written to are dropped.
func (s *Server) broadcast() {
	html, version, err := s.doc.Body()
	if err != nil {
		s.logger.Error("render failed", "error", err)
		return
	}
	msg := Message{Type: MessageRender, Version: version, HTML: html}
	for _, c := range s.hub.snapshot() {
		if err := c.send(msg); err != nil {
			s.logger.Debug("dropping client", "error", err)
			s.drop(c)
		}
	}
}

func (s *Server) drop(c *client) {
	if !s.hub.remove(c) {
		return
	}
	_ = c.conn.Close()
	if m := s.config.Metrics; m != nil {
		m.ClientDisconnected()
	}
}

// liveScript replaces the body with every rendered update.
const liveScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  var version = 0;
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "render" && (msg.version || 0) >= version) {
      version = msg.version || 0;
      document.body.innerHTML = msg.html;
    }
  };
  window.bindery = function (op) { ws.send(JSON.stringify(op)); };
})();
</script>
`
