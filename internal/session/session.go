package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/viewmodel"
	"github.com/google/uuid"
)

var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrUnknownField       = errors.New("unknown storewide field")
	ErrStorewideCollapsed = errors.New("storewide form is not open")
	ErrSessionClosed      = errors.New("session closed")
	ErrForbidden          = errors.New("storewide form requires a manager or assistant manager")
)

const msgChooseAgent = "Please choose an agent."

// Deps are the collaborators shared by every session.
type Deps struct {
	Clock     businessday.Clock
	Agents    ports.AgentLister
	Shifts    ports.ShiftStore
	Totals    ports.TotalsReader
	Feed      ports.ChangeFeed
	ShiftSvc  service.ShiftService
	Storewide service.StorewideService
	Reports   service.ReportService
	Logger    *slog.Logger
}

// ShiftForm is the "Submit My Shift" card.
type ShiftForm struct {
	Agents   []string        `json:"agents"`
	Selected string          `json:"selected"`
	Draft    form.ShiftInput `json:"draft"`
	Saving   bool            `json:"saving"`
	SavedAt  string          `json:"savedAt,omitempty"`
	Error    string          `json:"error,omitempty"`
	Disabled bool            `json:"disabled"`
}

// ReportState is the report screen.
type ReportState struct {
	Report *service.Report `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Snapshot is everything a page renders.
type Snapshot struct {
	SessionID      string          `json:"sessionId"`
	Date           string          `json:"date"`
	Controller     ControllerState `json:"controller"`
	ShiftSubmitted bool            `json:"shiftSubmitted"`
	CanClose       bool            `json:"canClose"`

	Totals    *viewmodel.State[viewmodel.Totals] `json:"totals,omitempty"`
	Table     *viewmodel.State[viewmodel.Table]  `json:"table,omitempty"`
	Shift     *ShiftForm                         `json:"shift,omitempty"`
	Storewide *viewmodel.CardState               `json:"storewide,omitempty"`
	Report    *ReportState                       `json:"report,omitempty"`
}

// mount is one running view and the goroutine following its subscription.
type mount struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (m *mount) stop() {
	if m == nil {
		return
	}
	m.cancel()
	<-m.done
}

// Caller is the authenticated user driving a session.
type Caller struct {
	Subject string
	Role    domain.AgentRole
}

// Session is one connected page. The business date is fixed when the
// session is created.
type Session struct {
	id     string
	deps   Deps
	caller *Caller
	date   time.Time
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	updates chan struct{}

	mu        sync.Mutex
	closed    bool
	ctrl      Controller
	submitted bool
	totals    *viewmodel.Live[viewmodel.Totals]
	table     *viewmodel.Live[viewmodel.Table]
	card      *viewmodel.StorewideCard
	shift     ShiftForm
	report    ReportState
	mounts    []*mount
	cardMount *mount
}

// New creates a session for caller. A nil caller means authentication is
// disabled and every command is allowed.
func New(deps Deps, caller *Caller) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	logger = logger.With("session_id", id)
	if caller != nil {
		logger = logger.With("subject", caller.Subject, "role", caller.Role)
	}
	return &Session{
		id:      id,
		deps:    deps,
		caller:  caller,
		date:    deps.Clock.Today(),
		logger:  logger,
		updates: make(chan struct{}, 1),
		ctrl:    NewController(),
	}
}

func (s *Session) ID() string { return s.id }

// CanClose reports whether the caller may use the storewide form.
func (s *Session) CanClose() bool {
	return s.caller == nil || s.caller.Role.IsCloser()
}

// Updates signals that the snapshot changed. Signals coalesce.
func (s *Session) Updates() <-chan struct{} { return s.updates }

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Open mounts the dashboard. ctx bounds the whole session.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	sessionsGauge.Inc()
	s.logger.Info("session opened", "date", businessday.Key(s.date))
	s.mountDashboard()
}

// Close unmounts every view and closes their subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed || s.cancel == nil {
		s.closed = true
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.unmountDashboard()
	s.cancel()
	sessionsGauge.Dec()
	s.logger.Info("session closed")
}

func (s *Session) start(fn func(ctx context.Context)) *mount {
	ctx, cancel := context.WithCancel(s.ctx)
	m := &mount{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(m.done)
		fn(ctx)
	}()
	return m
}

func (s *Session) mountDashboard() {
	totals := viewmodel.NewQuickTotals(s.deps.Totals, s.date)
	table := viewmodel.NewTodayTable(s.deps.Agents, s.deps.Shifts, s.date)
	totals.OnChange(s.notify)
	table.OnChange(s.notify)

	s.mu.Lock()
	s.totals = totals
	s.table = table
	s.shift = ShiftForm{Draft: s.shift.Draft, Disabled: s.ctrl.Closed()}
	s.mounts = []*mount{
		s.start(func(ctx context.Context) { totals.Bind(ctx, s.deps.Feed) }),
		s.start(func(ctx context.Context) { table.Bind(ctx, s.deps.Feed) }),
		s.start(s.loadShiftAgents),
	}
	expanded := s.ctrl.Expanded()
	s.mu.Unlock()

	if expanded {
		s.mountCard()
	}
	s.notify()
}

func (s *Session) unmountDashboard() {
	s.unmountCard()
	s.mu.Lock()
	mounts := s.mounts
	s.mounts = nil
	s.totals = nil
	s.table = nil
	s.mu.Unlock()
	for _, m := range mounts {
		m.stop()
	}
}

func (s *Session) mountCard() {
	card := viewmodel.NewStorewideCard(s.deps.Agents, s.deps.Shifts, s.deps.Storewide, s.date)
	card.OnChange(s.notify)
	s.mu.Lock()
	s.card = card
	s.cardMount = s.start(func(ctx context.Context) { card.Bind(ctx, s.deps.Feed) })
	s.mu.Unlock()
}

func (s *Session) unmountCard() {
	s.mu.Lock()
	m := s.cardMount
	s.cardMount = nil
	s.card = nil
	s.mu.Unlock()
	m.stop()
}

// loadShiftAgents fills the shift form's agent picker once per mount.
func (s *Session) loadShiftAgents(ctx context.Context) {
	agents, err := s.deps.Agents.ListActive(ctx)
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	if err != nil {
		s.shift.Error = viewmodel.Message(&viewmodel.FetchError{Subject: "agents", Err: err})
	} else {
		names := make([]string, 0, len(agents))
		for _, a := range agents {
			names = append(names, a.Name)
		}
		s.shift.Agents = names
		if len(names) == 1 && s.shift.Selected == "" {
			s.shift.Selected = names[0]
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Snapshot renders the page.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		SessionID:      s.id,
		Date:           businessday.Key(s.date),
		Controller:     s.ctrl.State(),
		ShiftSubmitted: s.submitted,
		CanClose:       s.CanClose(),
	}
	totals, table, card := s.totals, s.table, s.card
	if s.ctrl.View() == ViewDashboard {
		shift := s.shift
		shift.Agents = append([]string(nil), s.shift.Agents...)
		shift.Disabled = s.ctrl.Closed()
		snap.Shift = &shift
	} else {
		report := s.report
		snap.Report = &report
	}
	s.mu.Unlock()

	if totals != nil {
		st := totals.Snapshot()
		snap.Totals = &st
	}
	if table != nil {
		st := table.Snapshot()
		snap.Table = &st
	}
	if card != nil {
		st := card.Snapshot()
		snap.Storewide = &st
	}
	return snap
}

// Handle applies one page command. Operator-facing failures are also
// recorded in the snapshot; the returned error is for the transport.
func (s *Session) Handle(ctx context.Context, cmd Command) error {
	s.mu.Lock()
	closed := s.closed || s.ctx == nil
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}
	label := string(cmd.Type)
	if !cmd.Type.known() {
		label = "unknown"
	}
	commandsTotal.WithLabelValues(label).Inc()

	var err error
	switch cmd.Type {
	case CmdExpandStorewide, CmdEditStorewide, CmdPrefill, CmdSaveStorewide:
		if !s.CanClose() {
			s.logger.Warn("storewide command rejected", "command", cmd.Type)
			return ErrForbidden
		}
	}
	switch cmd.Type {
	case CmdNavigate:
		err = s.navigate(ctx, cmd.View)
	case CmdCloseDay:
		s.closeDay(ctx)
	case CmdExpandStorewide:
		err = s.expand()
	case CmdCollapseStorewide:
		s.collapse()
	case CmdSelectAgent:
		s.mu.Lock()
		s.shift.Selected = cmd.Agent
		s.mu.Unlock()
	case CmdSubmitShift:
		err = s.submitShift(ctx, cmd.Shift)
	case CmdEditStorewide:
		err = s.editStorewide(cmd)
	case CmdPrefill:
		err = s.withCard(func(c *viewmodel.StorewideCard) error { return c.Prefill(ctx) })
	case CmdSaveStorewide:
		err = s.saveStorewide(ctx)
	case CmdRefresh:
		err = s.refresh(ctx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	if err != nil {
		s.logger.Debug("command failed", "command", cmd.Type, "err", err)
	}
	s.notify()
	return err
}

func (s *Session) navigate(ctx context.Context, v View) error {
	s.mu.Lock()
	from := s.ctrl.View()
	if err := s.ctrl.Navigate(v); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.switchScreen(ctx, from, v)
	return nil
}

func (s *Session) switchScreen(ctx context.Context, from, to View) {
	if from == to {
		return
	}
	if to == ViewReport {
		s.unmountDashboard()
		s.loadReport(ctx)
		return
	}
	s.mountDashboard()
}

func (s *Session) closeDay(ctx context.Context) {
	s.mu.Lock()
	from := s.ctrl.View()
	s.ctrl.CloseDay()
	s.mu.Unlock()
	s.logger.Info("day closed", "date", businessday.Key(s.date))
	if from == ViewReport {
		s.loadReport(ctx)
		return
	}
	s.switchScreen(ctx, from, ViewReport)
}

func (s *Session) loadReport(ctx context.Context) {
	rep, err := s.deps.Reports.ForDate(ctx, s.date)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.report = ReportState{Error: err.Error()}
		return
	}
	s.report = ReportState{Report: &rep}
}

func (s *Session) expand() error {
	s.mu.Lock()
	if s.ctrl.View() != ViewDashboard {
		s.mu.Unlock()
		return fmt.Errorf("%w: storewide form is on the dashboard", ErrUnknownView)
	}
	already := s.ctrl.Expanded()
	if err := s.ctrl.ExpandStorewide(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	if !already {
		s.mountCard()
	}
	return nil
}

func (s *Session) collapse() {
	s.mu.Lock()
	s.ctrl.CollapseStorewide()
	s.mu.Unlock()
	s.unmountCard()
}

func (s *Session) withCard(fn func(c *viewmodel.StorewideCard) error) error {
	s.mu.Lock()
	card := s.card
	s.mu.Unlock()
	if card == nil {
		return ErrStorewideCollapsed
	}
	return fn(card)
}

func (s *Session) editStorewide(cmd Command) error {
	return s.withCard(func(c *viewmodel.StorewideCard) error {
		if cmd.Closer != nil {
			c.SetCloser(*cmd.Closer)
			return nil
		}
		if !cmd.Field.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownField, cmd.Field)
		}
		c.Edit(cmd.Field, cmd.Value)
		return nil
	})
}

// saveStorewide submits the storewide form and, once saved, closes the day.
func (s *Session) saveStorewide(ctx context.Context) error {
	var rep domain.StorewideReport
	err := s.withCard(func(c *viewmodel.StorewideCard) error {
		var err error
		rep, err = c.Submit(ctx)
		return err
	})
	if err != nil {
		return err
	}
	s.logger.Info("storewide submitted", "closer", rep.CloserName)
	s.closeDay(ctx)
	return nil
}

func (s *Session) submitShift(ctx context.Context, in *form.ShiftInput) error {
	s.mu.Lock()
	if err := s.ctrl.CanSubmitShift(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.ctrl.View() != ViewDashboard {
		s.mu.Unlock()
		return fmt.Errorf("%w: shift form is on the dashboard", ErrUnknownView)
	}
	draft := s.shift.Draft
	if in != nil {
		draft = *in
	}
	if draft.AgentName == "" {
		draft.AgentName = s.shift.Selected
	}
	s.shift.Draft = draft
	s.shift.Saving = true
	s.shift.Error = ""
	s.mu.Unlock()
	s.notify()

	res, err := s.deps.ShiftSvc.Submit(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift.Saving = false
	switch {
	case service.IsValidation(err):
		s.shift.Error = msgChooseAgent
		return err
	case err != nil:
		s.shift.Error = err.Error()
		return err
	}
	s.shift.Selected = res.Submission.AgentName
	s.shift.SavedAt = res.SavedAt
	s.shift.Draft.Notes = ""
	s.submitted = true
	return nil
}

// refresh reloads every mounted view now.
func (s *Session) refresh(ctx context.Context) error {
	s.mu.Lock()
	totals, table, card := s.totals, s.table, s.card
	view := s.ctrl.View()
	s.mu.Unlock()

	if view == ViewReport {
		s.loadReport(ctx)
		return nil
	}
	var errs []error
	if totals != nil {
		errs = append(errs, totals.Load(ctx))
	}
	if table != nil {
		errs = append(errs, table.Load(ctx))
	}
	if card != nil {
		errs = append(errs, card.Refresh(ctx))
	}
	return errors.Join(errs...)
}
