package websocket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/server/authctx"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Handler upgrades /ws requests into page sessions.
type Handler struct {
	hub      *Hub
	deps     session.Deps
	opts     Options
	base     context.Context
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler builds the upgrade handler. Sessions are bound to base rather
// than the request so they outlive request timeouts. allowedOrigins of "*"
// accepts any origin.
func NewHandler(base context.Context, hub *Hub, deps session.Deps, opts Options, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	deps.Logger = logger
	return &Handler{
		hub:  hub,
		deps: deps,
		opts: opts,
		base: base,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.ServeHTTP)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", "err", err)
		return
	}

	var caller *session.Caller
	if u := authctx.FromContext(r.Context()); u != nil {
		caller = &session.Caller{Subject: u.Subject, Role: u.Role}
	}

	client := newClient(h.hub, conn, session.New(h.deps, caller), h.opts, h.logger)
	if !h.hub.add(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	client.Start(h.base)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
