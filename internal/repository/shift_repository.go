package repository

import (
	"context"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/db"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
)

type ShiftRepository struct {
	DB *db.Postgres
}

// Upsert writes the agent's row for the shift date, replacing every column of
// an earlier submission. A nil note clears the stored one.
func (r ShiftRepository) Upsert(ctx context.Context, s domain.ShiftSubmission) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO bdc_shifts (agent_name, shift_date, calls_made, appointments_set, appointments_shown, cars_sold,
		                        emails_sent, texts_sent, contacted_calls, notes, created_at, updated_at)
		VALUES ($1,$2::date,$3,$4,$5,$6,$7,$8,$9,$10, now(), now())
		ON CONFLICT (agent_name, shift_date) DO UPDATE SET
			calls_made=EXCLUDED.calls_made,
			appointments_set=EXCLUDED.appointments_set,
			appointments_shown=EXCLUDED.appointments_shown,
			cars_sold=EXCLUDED.cars_sold,
			emails_sent=EXCLUDED.emails_sent,
			texts_sent=EXCLUDED.texts_sent,
			contacted_calls=EXCLUDED.contacted_calls,
			notes=EXCLUDED.notes,
			updated_at=now()
	`, s.AgentName, s.ShiftDate.Format(domain.DateLayout), s.CallsMade, s.AppointmentsSet, s.AppointmentsShown, s.CarsSold,
		s.EmailsSent, s.TextsSent, s.ContactedCalls, s.Notes)
	return translate(err)
}

// ListByDate returns every submission for date ordered by agent.
func (r ShiftRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.ShiftSubmission, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT agent_name, shift_date, calls_made, appointments_set, appointments_shown, cars_sold,
		       emails_sent, texts_sent, contacted_calls, notes, updated_at
		FROM bdc_shifts
		WHERE shift_date = $1::date
		ORDER BY agent_name ASC
	`, date.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ShiftSubmission
	for rows.Next() {
		var s domain.ShiftSubmission
		if err := rows.Scan(&s.AgentName, &s.ShiftDate, &s.CallsMade, &s.AppointmentsSet, &s.AppointmentsShown, &s.CarsSold,
			&s.EmailsSent, &s.TextsSent, &s.ContactedCalls, &s.Notes, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
