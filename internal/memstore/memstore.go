// Package memstore is an in-memory implementation of the store ports. It
// behaves like the Postgres repositories, including change notifications,
// and is used by tests across packages.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/repository"
)

type Publisher interface {
	Publish(e feed.Event) int
}

type shiftKey struct {
	agent string
	date  string
}

// Store holds every table. Fail* fields inject errors per operation.
type Store struct {
	mu        sync.Mutex
	agents    []domain.Agent
	shifts    map[shiftKey]domain.ShiftSubmission
	storewide map[string]domain.StorewideReport
	feed      Publisher

	FailAgents    error
	FailShifts    error
	FailUpsert    error
	FailStorewide error
	FailTotals    error
}

func New(p Publisher) *Store {
	return &Store{
		shifts:    make(map[shiftKey]domain.ShiftSubmission),
		storewide: make(map[string]domain.StorewideReport),
		feed:      p,
	}
}

// AddAgent inserts or replaces a roster row.
func (s *Store) AddAgent(a domain.Agent) {
	s.mu.Lock()
	for i := range s.agents {
		if s.agents[i].Name == a.Name {
			s.agents[i] = a
			s.mu.Unlock()
			s.publish(feed.TableAgents, "UPDATE", "")
			return
		}
	}
	s.agents = append(s.agents, a)
	s.mu.Unlock()
	s.publish(feed.TableAgents, "INSERT", "")
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAgents != nil {
		return nil, s.FailAgents
	}
	out := make([]domain.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		if a.Active {
			out = append(out, a)
		}
	}
	domain.SortRoster(out)
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, row domain.ShiftSubmission) error {
	s.mu.Lock()
	if s.FailUpsert != nil {
		err := s.FailUpsert
		s.mu.Unlock()
		return err
	}
	known := false
	for _, a := range s.agents {
		if a.Name == row.AgentName {
			known = true
			break
		}
	}
	if !known {
		s.mu.Unlock()
		return repository.ErrUnknownAgent
	}
	key := shiftKey{agent: row.AgentName, date: row.ShiftDate.Format(domain.DateLayout)}
	op := "INSERT"
	if _, ok := s.shifts[key]; ok {
		op = "UPDATE"
	}
	now := time.Now()
	row.UpdatedAt = &now
	s.shifts[key] = row
	s.mu.Unlock()
	s.publish(feed.TableShifts, op, key.date)
	return nil
}

func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]domain.ShiftSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailShifts != nil {
		return nil, s.FailShifts
	}
	day := date.Format(domain.DateLayout)
	var out []domain.ShiftSubmission
	for k, v := range s.shifts {
		if k.date == day {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentName < out[j].AgentName })
	return out, nil
}

// ShiftCount is the number of stored shift rows across all dates.
func (s *Store) ShiftCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shifts)
}

func (s *Store) QuickTotals(ctx context.Context, date time.Time) (domain.QuickTotals, error) {
	s.mu.Lock()
	fail := s.FailTotals
	s.mu.Unlock()
	if fail != nil {
		return domain.QuickTotals{}, fail
	}
	rows, err := s.ListByDate(ctx, date)
	if err != nil {
		return domain.QuickTotals{}, err
	}
	t := domain.EmptyQuickTotals(date)
	for _, r := range rows {
		t.CallsMade += r.CallsMade
		t.ApptsSet += r.AppointmentsSet
		t.ApptsShown += r.AppointmentsShown
		t.CarsSold += r.CarsSold
		t.SubmittedAgents = append(t.SubmittedAgents, r.AgentName)
	}
	return t, nil
}

func (s *Store) Get(ctx context.Context, date time.Time) (*domain.StorewideReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailStorewide != nil {
		return nil, s.FailStorewide
	}
	rep, ok := s.storewide[date.Format(domain.DateLayout)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rep, nil
}

func (s *Store) upsertStorewide(rep domain.StorewideReport) string {
	day := rep.ReportDate.Format(domain.DateLayout)
	op := "INSERT"
	if _, ok := s.storewide[day]; ok {
		op = "UPDATE"
	}
	s.storewide[day] = rep
	return op
}

// StorewideStore adapts the storewide table, whose Upsert collides with the
// shift table's method name on Store.
func (s *Store) StorewideStore() StorewideTable {
	return StorewideTable{s: s}
}

type StorewideTable struct {
	s *Store
}

func (t StorewideTable) Get(ctx context.Context, date time.Time) (*domain.StorewideReport, error) {
	return t.s.Get(ctx, date)
}

func (t StorewideTable) Upsert(ctx context.Context, rep domain.StorewideReport) error {
	t.s.mu.Lock()
	if t.s.FailStorewide != nil {
		err := t.s.FailStorewide
		t.s.mu.Unlock()
		return err
	}
	op := t.s.upsertStorewide(rep)
	t.s.mu.Unlock()
	t.s.publish(feed.TableStorewide, op, rep.ReportDate.Format(domain.DateLayout))
	return nil
}

func (t StorewideTable) Reopen(ctx context.Context, date time.Time, generatedTime string) error {
	t.s.mu.Lock()
	day := date.Format(domain.DateLayout)
	rep, ok := t.s.storewide[day]
	if !ok {
		rep = domain.StorewideReport{ReportDate: date}
	}
	rep.CloserName = domain.UnknownCloser
	rep.GeneratedTime = generatedTime
	rep.Locked = false
	op := t.s.upsertStorewide(rep)
	t.s.mu.Unlock()
	t.s.publish(feed.TableStorewide, op, day)
	return nil
}

func (s *Store) publish(table feed.Table, op, date string) {
	if s.feed != nil {
		s.feed.Publish(feed.Event{Table: table, Op: op, Date: date})
	}
}
