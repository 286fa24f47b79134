package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// Config tunes connection handling.
type Config struct {
	// HeartbeatTimeout closes a connection that sent nothing for this long.
	HeartbeatTimeout time.Duration
	WriteTimeout     time.Duration
	// SendQueue is the per-client outbound buffer; a client that fills it is dropped.
	SendQueue int
	// WorkQueue is the per-client inbound buffer between reader and worker.
	WorkQueue int
	// AllowedOrigins are accepted in addition to loopback and same-host origins.
	AllowedOrigins []string
}

// DefaultConfig returns the settings used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		HeartbeatTimeout: 90 * time.Second,
		WriteTimeout:     10 * time.Second,
		SendQueue:        64,
		WorkQueue:        32,
	}
}

// Server upgrades HTTP requests to websocket connections and runs each one
// with three goroutines: a reader that answers pings itself, a worker that
// handles the remaining messages in order, and a writer.
type Server struct {
	cfg        Config
	hub        *Hub
	dispatcher *Dispatcher
	logger     *slog.Logger
	newID      func() string
}

// NewServer creates a Server.
func NewServer(cfg Config, hub *Hub, dispatcher *Dispatcher, logger *slog.Logger) *Server {
	def := DefaultConfig()
	if cfg.HeartbeatTimeout <= 0 {
		cfg.HeartbeatTimeout = def.HeartbeatTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.SendQueue <= 0 {
		cfg.SendQueue = def.SendQueue
	}
	if cfg.WorkQueue <= 0 {
		cfg.WorkQueue = def.WorkQueue
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, hub: hub, dispatcher: dispatcher, logger: logger, newID: uuid.NewString}
}

// Handler returns the HTTP handler for the websocket endpoint.
func (s *Server) Handler() http.Handler {
	return websocket.Server{Handshake: s.handshake, Handler: s.serve}
}

// Close drops every open connection.
func (s *Server) Close() {
	s.hub.CloseAll()
}

func (s *Server) handshake(config *websocket.Config, req *http.Request) error {
	origin, err := websocket.Origin(config, req)
	if err != nil {
		return err
	}
	config.Origin = origin
	if origin == nil || s.originAllowed(origin, req.Host) {
		return nil
	}
	s.logger.Warn("websocket origin rejected", "origin", origin.String())
	return fmt.Errorf("origin %s not allowed", origin)
}

func (s *Server) originAllowed(origin *url.URL, requestHost string) bool {
	switch origin.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	if strings.EqualFold(origin.Host, requestHost) {
		return true
	}
	o := strings.TrimSuffix(origin.Scheme+"://"+origin.Host, "/")
	for _, allowed := range s.cfg.AllowedOrigins {
		if strings.EqualFold(strings.TrimSuffix(strings.TrimSpace(allowed), "/"), o) {
			return true
		}
	}
	return false
}

func (s *Server) serve(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newClient(s.newID(), s.cfg.SendQueue, func() { _ = conn.Close() })
	s.hub.Register(c)
	defer s.hub.Unregister(c)

	work := make(chan Inbound, s.cfg.WorkQueue)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.writeLoop(conn, c)
	}()
	go func() {
		defer wg.Done()
		s.workLoop(ctx, c, work)
	}()

	s.dispatcher.Welcome(ctx, c)
	s.readLoop(ctx, conn, c, work)
	c.Close()
	close(work)
	wg.Wait()
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, c *Client, work chan<- Inbound) {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.HeartbeatTimeout)); err != nil {
			return
		}
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			s.logReadError(c, err)
			return
		}
		msg, err := Decode(frame)
		if err != nil {
			s.dispatcher.Reject(ctx, c, err)
			continue
		}
		if _, ok := msg.(Ping); ok {
			c.Send(Message{Type: TypePong})
			continue
		}
		select {
		case work <- msg:
		case <-c.Done():
			return
		}
	}
}

func (s *Server) logReadError(c *Client, err error) {
	select {
	case <-c.Done():
		return
	default:
	}
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
	case errors.As(err, &netErr) && netErr.Timeout():
		s.logger.Info("websocket heartbeat timeout", "client_id", c.ID)
	default:
		s.logger.Debug("websocket read failed", "client_id", c.ID, "err", err)
	}
}

// workLoop drains the connection's inbound queue. File I/O happens here so a
// slow disk never stalls the reader.
func (s *Server) workLoop(ctx context.Context, c *Client, work <-chan Inbound) {
	for {
		select {
		case <-c.Done():
			return
		case msg, ok := <-work:
			if !ok {
				return
			}
			s.dispatcher.Dispatch(ctx, c, msg)
		}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, c *Client) {
	for {
		select {
		case <-c.Done():
			return
		case msg := <-c.send:
			if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				c.Close()
				return
			}
			if err := websocket.JSON.Send(conn, msg); err != nil {
				s.logger.Debug("websocket write failed", "client_id", c.ID, "err", err)
				c.Close()
				return
			}
		}
	}
}
