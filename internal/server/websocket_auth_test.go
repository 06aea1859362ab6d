package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/config"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/handler"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/memstore"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/session"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/websocket"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAuthServer(t *testing.T) (*memstore.Store, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	broker := feed.NewBroker(nil)
	store := memstore.New(broker)
	store.AddAgent(domain.Agent{Name: "Ava", Role: domain.RoleManager, Active: true})
	clock := businessday.Fixed(time.UTC, time.Date(2026, 10, 19, 21, 0, 0, 0, time.UTC))
	storewide := service.StorewideService{Clock: clock, Store: store.StorewideStore(), Totals: store}
	reports := service.ReportService{Storewide: storewide}
	shiftSvc := service.ShiftService{Clock: clock, Shifts: store}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	ws := websocket.NewHandler(ctx, hub, session.Deps{
		Clock:     clock,
		Agents:    store,
		Shifts:    store,
		Totals:    store,
		Feed:      broker,
		ShiftSvc:  shiftSvc,
		Storewide: storewide,
		Reports:   reports,
	}, websocket.Options{
		WriteWait:      time.Second,
		PongWait:       5 * time.Second,
		PingPeriod:     4 * time.Second,
		MaxMessageSize: 4096,
	}, []string{"*"}, logger)

	cfg := config.Config{JWTSecret: secret, AllowedOrigins: []string{"*"}, RateLimitPerMinute: 1000}
	r := NewRouter(cfg, logger,
		handler.HealthHandler{DB: healthy{}},
		handler.AgentHandler{Agents: store},
		handler.TodayHandler{Clock: clock, Agents: store, Shifts: store, Totals: store},
		handler.ShiftHandler{Svc: shiftSvc},
		handler.StorewideHandler{Svc: storewide},
		handler.ReportHandler{Reports: reports},
		ws,
	)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return store, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?access_token="
}

func dialAs(t *testing.T, url, bearer string) *gws.Conn {
	t.Helper()
	conn, _, err := gws.DefaultDialer.Dial(url+bearer, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func nextFrame(t *testing.T, conn *gws.Conn, match func(websocket.Frame) bool) websocket.Frame {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var f websocket.Frame
		require.NoError(t, json.Unmarshal(msg, &f))
		if match(f) {
			return f
		}
	}
}

func errorFor(cmd session.CommandType) func(websocket.Frame) bool {
	return func(f websocket.Frame) bool { return f.Type == websocket.FrameError && f.Command == cmd }
}

func TestWebsocketStorewideRequiresCloserRole(t *testing.T) {
	store, url := startAuthServer(t)
	conn := dialAs(t, url, token(t, "agent"))

	snap := nextFrame(t, conn, func(f websocket.Frame) bool { return f.Type == websocket.FrameSnapshot })
	assert.False(t, snap.Data.CanClose)

	mallory := "Mallory"
	for _, cmd := range []session.Command{
		{Type: session.CmdExpandStorewide},
		{Type: session.CmdEditStorewide, Closer: &mallory},
		{Type: session.CmdPrefill},
		{Type: session.CmdSaveStorewide},
	} {
		require.NoError(t, conn.WriteJSON(cmd))
		f := nextFrame(t, conn, errorFor(cmd.Type))
		assert.Equal(t, session.ErrForbidden.Error(), f.Error)
	}

	_, err := store.StorewideStore().Get(context.Background(), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
}

func TestWebsocketStorewideAllowsManager(t *testing.T) {
	store, url := startAuthServer(t)
	conn := dialAs(t, url, token(t, "manager"))

	require.NoError(t, conn.WriteJSON(session.Command{Type: session.CmdExpandStorewide}))
	nextFrame(t, conn, func(f websocket.Frame) bool {
		return f.Type == websocket.FrameSnapshot && f.Data.CanClose && f.Data.Storewide != nil
	})

	ava := "Ava"
	require.NoError(t, conn.WriteJSON(session.Command{Type: session.CmdEditStorewide, Closer: &ava}))
	require.NoError(t, conn.WriteJSON(session.Command{Type: session.CmdSaveStorewide}))
	nextFrame(t, conn, func(f websocket.Frame) bool {
		return f.Type == websocket.FrameSnapshot && f.Data.Controller.DayStatus == session.DayClosed
	})

	rep, err := store.StorewideStore().Get(context.Background(), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Ava", rep.CloserName)
}
