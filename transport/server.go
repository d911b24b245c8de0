package transport

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// Server upgrades HTTP requests to websocket connections and runs one
// Connection per socket. It implements http.Handler so the API router can
// mount it like any other route.
type Server struct {
	log       *slog.Logger
	ctx       context.Context
	wg        sync.WaitGroup
	config    ConnectionConfig
	onMessage MessageHandler
	onClose   OnCloseHandler
}

func NewServer(ctx context.Context, log *slog.Logger, config ConnectionConfig,
	onMessage MessageHandler, onClose OnCloseHandler) *Server {
	return &Server{
		log:       log,
		ctx:       ctx,
		config:    config,
		onMessage: onMessage,
		onClose:   onClose,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The frontend is served from another origin during development.
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	conn := NewConnection(s.ctx, &s.wg, socket, s.config, s.onMessage, s.onClose, s.log)
	conn.Run()
}

// Wait blocks until every accepted connection has terminated.
func (s *Server) Wait() {
	s.wg.Wait()
}
