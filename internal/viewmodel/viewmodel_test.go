package viewmodel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/memstore"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow   = time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	testClock = businessday.Fixed(time.UTC, testNow)
	today     = testClock.Today()
)

const waitFor = 2 * time.Second

func seed(b *feed.Broker) *memstore.Store {
	var pub memstore.Publisher
	if b != nil {
		pub = b
	}
	s := memstore.New(pub)
	s.AddAgent(domain.Agent{Name: "Ava", Role: domain.RoleManager, Active: true})
	s.AddAgent(domain.Agent{Name: "Ben", Role: domain.RoleAgent, Active: true})
	s.AddAgent(domain.Agent{Name: "Cal", Role: domain.RoleAssistantManager, Active: true})
	s.AddAgent(domain.Agent{Name: "Dee", Role: domain.RoleAgent, Active: false})
	return s
}

func shift(name string, calls, set, shown, sold int) domain.ShiftSubmission {
	return domain.ShiftSubmission{
		AgentName:         name,
		ShiftDate:         today,
		CallsMade:         calls,
		AppointmentsSet:   set,
		AppointmentsShown: shown,
		CarsSold:          sold,
	}
}

func TestLiveDiscardsStaleResult(t *testing.T) {
	gates := []chan int{make(chan int), make(chan int)}
	var calls atomic.Int32
	live := NewLive("test", feed.Filter{}, func(ctx context.Context) (int, error) {
		i := calls.Add(1) - 1
		return <-gates[i], nil
	})
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- live.Load(ctx) }()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- live.Load(ctx) }()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, time.Millisecond)

	gates[1] <- 2
	require.NoError(t, <-second)
	assert.Equal(t, 2, live.Snapshot().Data)
	assert.False(t, live.Snapshot().Loading)

	gates[0] <- 1
	require.NoError(t, <-first)
	assert.Equal(t, 2, live.Snapshot().Data)
}

func TestLiveFailureKeepsPreviousData(t *testing.T) {
	var fail atomic.Bool
	live := NewLive("test", feed.Filter{}, func(ctx context.Context) (string, error) {
		if fail.Load() {
			return "", fetchErr("agents", errors.New("timeout"))
		}
		return "rows", nil
	})
	ctx := context.Background()

	require.NoError(t, live.Load(ctx))
	fail.Store(true)
	require.Error(t, live.Load(ctx))

	snap := live.Snapshot()
	assert.Equal(t, "rows", snap.Data)
	assert.True(t, snap.Ready)
	assert.Equal(t, "Failed to load agents: timeout", snap.Error)

	fail.Store(false)
	require.NoError(t, live.Load(ctx))
	assert.Empty(t, live.Snapshot().Error)
}

func TestPartitionUsesPresenceOnly(t *testing.T) {
	roster := []domain.Agent{{Name: "Ava"}, {Name: "Cal"}, {Name: "Ben"}}
	rows := []domain.ShiftSubmission{{AgentName: "Ben"}, {AgentName: "Ghost"}}

	submitted, missing := Partition(roster, rows)

	assert.Equal(t, []string{"Ben"}, submitted)
	assert.Equal(t, []string{"Ava", "Cal"}, missing)
}

func TestLoadTableJoinsRosterAndRows(t *testing.T) {
	store := seed(nil)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, shift("Ben", 50, 4, 3, 1)))

	table, err := LoadTable(ctx, store, store, today)
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Ava", table.Rows[0].Name)
	assert.Equal(t, "Cal", table.Rows[1].Name)
	assert.Equal(t, "Asst. Manager", table.Rows[1].RoleLabel)

	ben := table.Rows[2]
	assert.Equal(t, domain.StatusSubmitted, ben.Status)
	assert.Equal(t, "75%", ben.Metrics.ShowRate.String())
	assert.Equal(t, "33%", ben.Metrics.CloseRate.String())
	assert.Equal(t, "8%", ben.Metrics.SetRate.String())
	assert.Equal(t, "—", ben.Metrics.BookedRate.String())
	assert.Equal(t, 50, ben.Metrics.Activity)

	assert.Equal(t, domain.StatusMissing, table.Rows[0].Status)
	assert.Equal(t, "—", table.Rows[0].Metrics.ShowRate.String())
	assert.Equal(t, []string{"Ben"}, table.Submitted)
	assert.Equal(t, []string{"Ava", "Cal"}, table.Missing)
}

func TestLoadTableReportsWhichFetchFailed(t *testing.T) {
	store := seed(nil)
	store.FailShifts = errors.New("permission denied")

	_, err := LoadTable(context.Background(), store, store, today)

	require.Error(t, err)
	assert.Equal(t, "Failed to load today's shifts: permission denied", Message(err))
}

func TestTodayTableFollowsFeed(t *testing.T) {
	broker := feed.NewBroker(nil)
	store := seed(broker)
	view := NewTodayTable(store, store, today)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go view.Bind(ctx, broker)
	require.Eventually(t, func() bool { return view.Snapshot().Ready }, waitFor, time.Millisecond)
	assert.Len(t, view.Snapshot().Data.Missing, 3)

	require.NoError(t, store.Upsert(ctx, shift("Ava", 10, 1, 1, 0)))

	require.Eventually(t, func() bool {
		return len(view.Snapshot().Data.Submitted) == 1
	}, waitFor, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return broker.Len() == 0 }, waitFor, time.Millisecond)
}

func TestQuickTotalsView(t *testing.T) {
	store := seed(nil)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, shift("Ava", 10, 4, 3, 1)))
	require.NoError(t, store.Upsert(ctx, shift("Ben", 20, 0, 0, 0)))

	view := NewQuickTotals(store, today)
	assert.Equal(t, "2026-10-19", view.Snapshot().Data.Date)

	require.NoError(t, view.Load(ctx))
	got := view.Snapshot().Data
	assert.Equal(t, 30, got.CallsMade)
	assert.Equal(t, "75%", got.ShowRate.String())
	assert.ElementsMatch(t, []string{"Ava", "Ben"}, got.SubmittedAgents)

	store.FailTotals = errors.New("boom")
	require.Error(t, view.Load(ctx))
	assert.Equal(t, "Failed to load BDC totals: boom", view.Snapshot().Error)
	assert.Equal(t, 30, view.Snapshot().Data.CallsMade)
}

func TestPrefillTransitions(t *testing.T) {
	cases := []struct {
		mode PrefillMode
		ev   CardEvent
		next PrefillMode
		run  PrefillRun
	}{
		{PrefillIdle, CardPrefillRequested, PrefillArmed, RunManual},
		{PrefillArmed, CardPrefillRequested, PrefillArmed, RunManual},
		{PrefillIdle, CardShiftsChanged, PrefillIdle, RunNone},
		{PrefillArmed, CardShiftsChanged, PrefillArmed, RunSilent},
		{PrefillArmed, CardSaved, PrefillIdle, RunNone},
		{PrefillArmed, CardUnmounted, PrefillIdle, RunNone},
	}
	for _, tc := range cases {
		next, run := Apply(tc.mode, tc.ev)
		assert.Equal(t, tc.next, next, "%v on %d", tc.mode, tc.ev)
		assert.Equal(t, tc.run, run, "%v on %d", tc.mode, tc.ev)
	}
}

func newCard(store *memstore.Store) *StorewideCard {
	svc := service.StorewideService{
		Clock:  testClock,
		Store:  store.StorewideStore(),
		Totals: store,
	}
	return NewStorewideCard(store, store, svc, today)
}

func TestStorewideCardArmedPrefillTracksSubmissions(t *testing.T) {
	broker := feed.NewBroker(nil)
	store := seed(broker)
	card := newCard(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Upsert(ctx, shift("Ava", 10, 2, 1, 0)))

	go card.Bind(ctx, broker)
	require.Eventually(t, func() bool { return card.Snapshot().Pills.Ready }, waitFor, time.Millisecond)

	require.NoError(t, card.Prefill(ctx))
	snap := card.Snapshot()
	assert.Equal(t, PrefillArmed, snap.Mode)
	assert.Equal(t, MsgPrefilled, snap.Message)
	assert.Equal(t, form.Field("10"), snap.Form.Values[domain.FieldDialsBDC])

	require.NoError(t, store.Upsert(ctx, shift("Ben", 15, 3, 2, 1)))

	require.Eventually(t, func() bool {
		s := card.Snapshot()
		return s.Form.Values[domain.FieldDialsBDC] == "25" && s.Form.Values[domain.FieldSoldBDC] == "1"
	}, waitFor, time.Millisecond)
	assert.Equal(t, MsgPrefilled, card.Snapshot().Message)
	assert.Equal(t, []string{"Ava", "Ben"}, card.Snapshot().Pills.Data.Submitted)

	_, err := card.Submit(ctx)
	require.NoError(t, err)
	snap = card.Snapshot()
	assert.Equal(t, PrefillIdle, snap.Mode)
	assert.Equal(t, MsgSubmitted, snap.Message)
	assert.Equal(t, LabelResubmit, snap.SubmitLabel)

	require.NoError(t, store.Upsert(ctx, shift("Cal", 5, 0, 0, 0)))
	require.Eventually(t, func() bool {
		return len(card.Snapshot().Pills.Data.Submitted) == 3
	}, waitFor, time.Millisecond)
	assert.Equal(t, form.Field("25"), card.Snapshot().Form.Values[domain.FieldDialsBDC])
}

func TestStorewideCardSilentRefreshMessage(t *testing.T) {
	store := seed(nil)
	card := newCard(store)
	ctx := context.Background()

	require.NoError(t, card.Prefill(ctx))
	card.mu.Lock()
	card.message = ""
	card.mu.Unlock()

	require.NoError(t, card.dispatch(ctx, CardShiftsChanged))
	assert.Equal(t, MsgPrefillSynced, card.Snapshot().Message)
}

func TestStorewideCardPrefillFailure(t *testing.T) {
	store := seed(nil)
	store.FailTotals = errors.New("offline")
	card := newCard(store)
	ctx := context.Background()

	require.Error(t, card.Prefill(ctx))
	assert.Contains(t, card.Snapshot().Error, "offline")

	card.mu.Lock()
	card.err = ""
	card.mu.Unlock()
	require.Error(t, card.dispatch(ctx, CardShiftsChanged))
	assert.Empty(t, card.Snapshot().Error)
}

func TestStorewideCardMountLoadsExisting(t *testing.T) {
	store := seed(nil)
	ctx := context.Background()
	leads := 14
	existing := domain.StorewideReport{ReportDate: today, CloserName: "Ava"}
	existing.Counts.Set(domain.FieldLeadsReceived, &leads)
	require.NoError(t, store.StorewideStore().Upsert(ctx, existing))

	card := newCard(store)
	require.NoError(t, card.Mount(ctx))

	snap := card.Snapshot()
	assert.True(t, snap.HasExisting)
	assert.Equal(t, LabelResubmit, snap.SubmitLabel)
	assert.Equal(t, "Ava", snap.Form.CloserName)
	assert.Equal(t, form.Field("14"), snap.Form.Values[domain.FieldLeadsReceived])
	assert.Equal(t, form.Field(""), snap.Form.Values[domain.FieldPhoneUps])
}

func TestStorewideCardSubmitFailure(t *testing.T) {
	store := seed(nil)
	card := newCard(store)
	ctx := context.Background()
	require.NoError(t, card.Prefill(ctx))
	store.FailStorewide = errors.New("rejected")

	_, err := card.Submit(ctx)

	require.Error(t, err)
	snap := card.Snapshot()
	assert.False(t, snap.HasExisting)
	assert.False(t, snap.Busy)
	assert.Equal(t, PrefillArmed, snap.Mode)
	assert.Contains(t, snap.Error, "rejected")
}

// gatedTotals blocks QuickTotals on release once armed.
type gatedTotals struct {
	*memstore.Store
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedTotals) QuickTotals(ctx context.Context, date time.Time) (domain.QuickTotals, error) {
	if g.armed.Load() {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.Store.QuickTotals(ctx, date)
}

func TestStorewideCardLateSilentPrefillAfterSubmit(t *testing.T) {
	store := seed(nil)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, shift("Ava", 10, 2, 1, 0)))
	totals := &gatedTotals{Store: store, entered: make(chan struct{}), release: make(chan struct{})}
	svc := service.StorewideService{Clock: testClock, Store: store.StorewideStore(), Totals: totals}
	card := NewStorewideCard(store, store, svc, today)

	require.NoError(t, card.Prefill(ctx))
	card.Edit(domain.FieldDialsBDC, "7")
	require.NoError(t, store.Upsert(ctx, shift("Ben", 15, 3, 2, 1)))

	totals.armed.Store(true)
	done := make(chan error, 1)
	go func() { done <- card.dispatch(ctx, CardShiftsChanged) }()
	<-totals.entered

	_, err := card.Submit(ctx)
	require.NoError(t, err)
	close(totals.release)
	require.NoError(t, <-done)

	snap := card.Snapshot()
	assert.Equal(t, PrefillIdle, snap.Mode)
	assert.Equal(t, MsgSubmitted, snap.Message)
	assert.Equal(t, form.Field("7"), snap.Form.Values[domain.FieldDialsBDC])
}
