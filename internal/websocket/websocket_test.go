package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/memstore"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = Options{
	WriteWait:      time.Second,
	PongWait:       5 * time.Second,
	PingPeriod:     4 * time.Second,
	MaxMessageSize: 4096,
}

func startServer(t *testing.T) (*Hub, *feed.Broker, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	broker := feed.NewBroker(nil)
	store := memstore.New(broker)
	store.AddAgent(domain.Agent{Name: "Ava", Role: domain.RoleAgent, Active: true})
	clock := businessday.Fixed(time.UTC, time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC))
	storewide := service.StorewideService{Clock: clock, Store: store.StorewideStore(), Totals: store}
	deps := session.Deps{
		Clock:     clock,
		Agents:    store,
		Shifts:    store,
		Totals:    store,
		Feed:      broker,
		ShiftSvc:  service.ShiftService{Clock: clock, Shifts: store},
		Storewide: storewide,
		Reports:   service.ReportService{Storewide: storewide},
	}

	hub := NewHub(nil)
	go hub.Run(ctx)
	r := chi.NewRouter()
	NewHandler(ctx, hub, deps, testOptions, []string{"*"}, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, broker, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(Frame) bool) Frame {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var f Frame
		require.NoError(t, json.Unmarshal(msg, &f))
		if match(f) {
			return f
		}
	}
}

func TestSessionOverWebsocket(t *testing.T) {
	hub, broker, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readUntil(t, conn, func(f Frame) bool {
		return f.Type == FrameSnapshot && f.Data.Table != nil && f.Data.Table.Ready
	})
	assert.Equal(t, session.ViewDashboard, first.Data.Controller.View)
	assert.Equal(t, []string{"Ava"}, first.Data.Table.Data.Missing)
	assert.Equal(t, 1, hub.ClientCount())

	require.NoError(t, conn.WriteJSON(session.Command{Type: session.CmdNavigate, View: session.ViewReport}))
	report := readUntil(t, conn, func(f Frame) bool {
		return f.Type == FrameSnapshot && f.Data.Controller.View == session.ViewReport && f.Data.Report != nil
	})
	require.NotNil(t, report.Data.Report.Report)
	assert.Equal(t, service.StatusNoRecord, report.Data.Report.Report.Status)

	require.NoError(t, conn.WriteJSON(session.Command{Type: session.CmdNavigate, View: "nowhere"}))
	failed := readUntil(t, conn, func(f Frame) bool { return f.Type == FrameError })
	assert.Equal(t, session.CmdNavigate, failed.Command)
	assert.Contains(t, failed.Error, "unknown view")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	malformed := readUntil(t, conn, func(f Frame) bool { return f.Type == FrameError })
	assert.Equal(t, "malformed command", malformed.Error)

	conn.Close()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0 && broker.Len() == 0
	}, 3*time.Second, 5*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://bdc.example.com"})

	req := httptest.NewRequest("GET", "/ws", nil)
	assert.True(t, check(req))
	req.Header.Set("Origin", "https://bdc.example.com")
	assert.True(t, check(req))
	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
