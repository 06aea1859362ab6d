package viewmodel

import (
	"context"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/rates"
	"golang.org/x/sync/errgroup"
)

// AgentRow is one line of today's table. Agents without a submission show
// zero counts and unavailable rates.
type AgentRow struct {
	Name              string                  `json:"name"`
	Role              domain.AgentRole        `json:"role"`
	RoleLabel         string                  `json:"roleLabel"`
	Status            domain.SubmissionStatus `json:"status"`
	CallsMade         int                     `json:"callsMade"`
	AppointmentsSet   int                     `json:"appointmentsSet"`
	AppointmentsShown int                     `json:"appointmentsShown"`
	CarsSold          int                     `json:"carsSold"`
	EmailsSent        int                     `json:"emailsSent"`
	TextsSent         int                     `json:"textsSent"`
	ContactedCalls    int                     `json:"contactedCalls"`
	Metrics           rates.Metrics           `json:"metrics"`
}

// Table is the TodayTable view.
type Table struct {
	Date string     `json:"date"`
	Rows []AgentRow `json:"rows"`
	Status
}

// Roster fetches the active roster and the date's shifts concurrently. The
// result is only returned when both succeed.
func Roster(ctx context.Context, agents ports.AgentLister, shifts ports.ShiftStore, date time.Time) ([]domain.Agent, []domain.ShiftSubmission, error) {
	var (
		roster []domain.Agent
		rows   []domain.ShiftSubmission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = agents.ListActive(gctx)
		return fetchErr("agents", err)
	})
	g.Go(func() error {
		var err error
		rows, err = shifts.ListByDate(gctx, date)
		return fetchErr("today's shifts", err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return roster, rows, nil
}

// BuildTable joins the roster with the date's rows.
func BuildTable(date time.Time, roster []domain.Agent, rows []domain.ShiftSubmission) Table {
	byAgent := make(map[string]domain.ShiftSubmission, len(rows))
	for _, r := range rows {
		byAgent[r.AgentName] = r
	}
	t := Table{Date: businessday.Key(date), Rows: make([]AgentRow, 0, len(roster))}
	for _, a := range roster {
		row := AgentRow{Name: a.Name, Role: a.Role, RoleLabel: a.Role.Label(), Status: domain.StatusMissing}
		if s, ok := byAgent[a.Name]; ok {
			row.Status = domain.StatusSubmitted
			row.CallsMade = s.CallsMade
			row.AppointmentsSet = s.AppointmentsSet
			row.AppointmentsShown = s.AppointmentsShown
			row.CarsSold = s.CarsSold
			row.EmailsSent = s.EmailsSent
			row.TextsSent = s.TextsSent
			row.ContactedCalls = s.ContactedCalls
		}
		row.Metrics = rates.Compute(rates.Counts{
			CallsMade:         row.CallsMade,
			AppointmentsSet:   row.AppointmentsSet,
			AppointmentsShown: row.AppointmentsShown,
			CarsSold:          row.CarsSold,
			EmailsSent:        row.EmailsSent,
			TextsSent:         row.TextsSent,
			ContactedCalls:    row.ContactedCalls,
		})
		t.Rows = append(t.Rows, row)
	}
	t.Submitted, t.Missing = Partition(roster, rows)
	return t
}

// LoadTable fetches and builds the table for date.
func LoadTable(ctx context.Context, agents ports.AgentLister, shifts ports.ShiftStore, date time.Time) (Table, error) {
	roster, rows, err := Roster(ctx, agents, shifts, date)
	if err != nil {
		return Table{}, err
	}
	return BuildTable(date, roster, rows), nil
}

// NewTodayTable binds the table to today's shift changes.
func NewTodayTable(agents ports.AgentLister, shifts ports.ShiftStore, date time.Time) *Live[Table] {
	filter := feed.Filter{Table: feed.TableShifts, Date: businessday.Key(date)}
	return NewLive("today_table", filter, func(ctx context.Context) (Table, error) {
		return LoadTable(ctx, agents, shifts, date)
	})
}
