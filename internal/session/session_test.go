package session

import (
	"context"
	"testing"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/memstore"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/viewmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type fixture struct {
	broker *feed.Broker
	store  *memstore.Store
	deps   Deps
}

func newFixture(agents ...string) fixture {
	broker := feed.NewBroker(nil)
	store := memstore.New(broker)
	for _, name := range agents {
		store.AddAgent(domain.Agent{Name: name, Role: domain.RoleAgent, Active: true})
	}
	clock := businessday.Fixed(time.UTC, time.Date(2026, 10, 19, 22, 15, 0, 0, time.UTC))
	storewide := service.StorewideService{Clock: clock, Store: store.StorewideStore(), Totals: store}
	return fixture{
		broker: broker,
		store:  store,
		deps: Deps{
			Clock:     clock,
			Agents:    store,
			Shifts:    store,
			Totals:    store,
			Feed:      broker,
			ShiftSvc:  service.ShiftService{Clock: clock, Shifts: store},
			Storewide: storewide,
			Reports:   service.ReportService{Storewide: storewide},
		},
	}
}

func open(t *testing.T, f fixture) *Session {
	t.Helper()
	return openAs(t, f, nil)
}

func openAs(t *testing.T, f fixture, caller *Caller) *Session {
	t.Helper()
	s := New(f.deps, caller)
	s.Open(context.Background())
	t.Cleanup(s.Close)
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Table != nil && snap.Table.Ready && snap.Totals.Ready && snap.Shift.Agents != nil
	}, waitFor, time.Millisecond)
	return s
}

func TestSessionMountsDashboardViews(t *testing.T) {
	f := newFixture("Ava", "Ben")
	s := open(t, f)

	snap := s.Snapshot()
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, "2026-10-19", snap.Date)
	assert.Equal(t, ViewDashboard, snap.Controller.View)
	assert.Equal(t, []string{"Ava", "Ben"}, snap.Table.Data.Missing)
	assert.Nil(t, snap.Storewide)
	assert.Nil(t, snap.Report)
	assert.Equal(t, 2, f.broker.Len())

	s.Close()
	assert.Equal(t, 0, f.broker.Len())
	assert.ErrorIs(t, s.Handle(context.Background(), Command{Type: CmdRefresh}), ErrSessionClosed)
}

func TestSessionPreselectsOnlyAgent(t *testing.T) {
	s := open(t, newFixture("Solo"))

	assert.Equal(t, "Solo", s.Snapshot().Shift.Selected)
}

func TestSessionSubmitShiftRequiresAgent(t *testing.T) {
	f := newFixture("Ava", "Ben")
	s := open(t, f)

	err := s.Handle(context.Background(), Command{Type: CmdSubmitShift, Shift: &form.ShiftInput{CallsMade: "5"}})

	require.ErrorIs(t, err, form.ErrAgentRequired)
	assert.Equal(t, "Please choose an agent.", s.Snapshot().Shift.Error)
	assert.Equal(t, 0, f.store.ShiftCount())
	assert.False(t, s.Snapshot().ShiftSubmitted)
}

func TestSessionSubmitShift(t *testing.T) {
	f := newFixture("Ava", "Ben")
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.Handle(ctx, Command{Type: CmdSelectAgent, Agent: "Ben"}))
	err := s.Handle(ctx, Command{Type: CmdSubmitShift, Shift: &form.ShiftInput{
		CallsMade:       "30",
		AppointmentsSet: "3",
		Notes:           "good night",
	}})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.True(t, snap.ShiftSubmitted)
	assert.Equal(t, "22:15:00", snap.Shift.SavedAt)
	assert.Empty(t, snap.Shift.Draft.Notes)
	assert.Equal(t, form.Field("30"), snap.Shift.Draft.CallsMade)

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return len(snap.Table.Data.Submitted) == 1 && snap.Totals.Data.CallsMade == 30
	}, waitFor, time.Millisecond)
}

func TestSessionStorewideFlowClosesDay(t *testing.T) {
	f := newFixture("Ava")
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.Handle(ctx, Command{Type: CmdExpandStorewide}))
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Storewide != nil && snap.Storewide.Pills.Ready
	}, waitFor, time.Millisecond)
	assert.Equal(t, 3, f.broker.Len())

	closer := "Ava"
	require.NoError(t, s.Handle(ctx, Command{Type: CmdEditStorewide, Closer: &closer}))
	require.NoError(t, s.Handle(ctx, Command{Type: CmdEditStorewide, Field: domain.FieldPhoneUps, Value: "8"}))
	assert.ErrorIs(t, s.Handle(ctx, Command{Type: CmdEditStorewide, Field: "bogus", Value: "1"}), ErrUnknownField)
	require.NoError(t, s.Handle(ctx, Command{Type: CmdPrefill}))
	assert.Equal(t, viewmodel.PrefillArmed, s.Snapshot().Storewide.Mode)

	require.NoError(t, s.Handle(ctx, Command{Type: CmdSaveStorewide}))

	snap := s.Snapshot()
	assert.Equal(t, ControllerState{View: ViewReport, DayStatus: DayClosed}, snap.Controller)
	require.NotNil(t, snap.Report)
	require.NotNil(t, snap.Report.Report)
	assert.Equal(t, "Ava", snap.Report.Report.Closer)
	assert.Equal(t, service.StatusOpen, snap.Report.Report.Status)
	assert.Equal(t, 8, snap.Report.Report.Lines[1].Value)
	assert.Nil(t, snap.Table)
	assert.Equal(t, 0, f.broker.Len())

	require.NoError(t, s.Handle(ctx, Command{Type: CmdNavigate, View: ViewDashboard}))
	snap = s.Snapshot()
	assert.Equal(t, DayClosed, snap.Controller.DayStatus)
	assert.True(t, snap.Shift.Disabled)
	require.Eventually(t, func() bool { return f.broker.Len() == 2 }, waitFor, time.Millisecond)
	assert.ErrorIs(t, s.Handle(ctx, Command{Type: CmdExpandStorewide}), ErrDayClosed)
	assert.ErrorIs(t, s.Handle(ctx, Command{Type: CmdSubmitShift, Shift: &form.ShiftInput{AgentName: "Ava"}}), ErrDayClosed)
	assert.Equal(t, 0, f.store.ShiftCount())
}

func TestSessionCollapseUnmountsCard(t *testing.T) {
	f := newFixture("Ava")
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.Handle(ctx, Command{Type: CmdExpandStorewide}))
	require.NoError(t, s.Handle(ctx, Command{Type: CmdCollapseStorewide}))

	assert.Nil(t, s.Snapshot().Storewide)
	assert.Equal(t, 2, f.broker.Len())
	assert.ErrorIs(t, s.Handle(ctx, Command{Type: CmdPrefill}), ErrStorewideCollapsed)
}

func TestSessionRejectsUnknownInput(t *testing.T) {
	s := open(t, newFixture("Ava"))
	ctx := context.Background()

	assert.ErrorIs(t, s.Handle(ctx, Command{Type: "dance"}), ErrUnknownCommand)
	assert.ErrorIs(t, s.Handle(ctx, Command{Type: CmdNavigate, View: "settings"}), ErrUnknownView)
	assert.Equal(t, ViewDashboard, s.Snapshot().Controller.View)
}

func TestSessionCloseDayFromDashboard(t *testing.T) {
	f := newFixture("Ava")
	s := open(t, f)

	require.NoError(t, s.Handle(context.Background(), Command{Type: CmdCloseDay}))

	snap := s.Snapshot()
	assert.Equal(t, ViewReport, snap.Controller.View)
	require.NotNil(t, snap.Report.Report)
	assert.Equal(t, service.StatusNoRecord, snap.Report.Report.Status)
}

func TestSessionStorewideNeedsCloserRole(t *testing.T) {
	f := newFixture("Ava", "Ben")
	s := openAs(t, f, &Caller{Subject: "u-ben", Role: domain.RoleAgent})
	ctx := context.Background()
	assert.False(t, s.Snapshot().CanClose)

	mallory := "Mallory"
	for _, cmd := range []Command{
		{Type: CmdExpandStorewide},
		{Type: CmdEditStorewide, Closer: &mallory},
		{Type: CmdPrefill},
		{Type: CmdSaveStorewide},
	} {
		assert.ErrorIs(t, s.Handle(ctx, cmd), ErrForbidden, string(cmd.Type))
	}
	snap := s.Snapshot()
	assert.False(t, snap.Controller.StorewideExpanded)
	assert.Nil(t, snap.Storewide)
	assert.Equal(t, DayOpen, snap.Controller.DayStatus)
	_, err := f.store.Get(ctx, f.deps.Clock.Today())
	require.Error(t, err)

	require.NoError(t, s.Handle(ctx, Command{Type: CmdCloseDay}))
	assert.Equal(t, DayClosed, s.Snapshot().Controller.DayStatus)
}

func TestSessionStorewideAllowsAssistantManager(t *testing.T) {
	f := newFixture("Ava")
	s := openAs(t, f, &Caller{Subject: "u-cal", Role: domain.RoleAssistantManager})

	assert.True(t, s.Snapshot().CanClose)
	require.NoError(t, s.Handle(context.Background(), Command{Type: CmdExpandStorewide}))
	assert.True(t, s.Snapshot().Controller.StorewideExpanded)
}
