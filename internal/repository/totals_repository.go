package repository

import (
	"context"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/db"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
)

type TotalsRepository struct {
	DB *db.Postgres
}

// QuickTotals sums every submission for date. A date without rows yields zeros.
func (r TotalsRepository) QuickTotals(ctx context.Context, date time.Time) (domain.QuickTotals, error) {
	t := domain.EmptyQuickTotals(date)
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(calls_made),0),
			COALESCE(SUM(appointments_set),0),
			COALESCE(SUM(appointments_shown),0),
			COALESCE(SUM(cars_sold),0),
			COALESCE(array_agg(agent_name ORDER BY agent_name) FILTER (WHERE agent_name IS NOT NULL), '{}')
		FROM bdc_shifts
		WHERE shift_date = $1::date
	`, date.Format(domain.DateLayout)).Scan(&t.CallsMade, &t.ApptsSet, &t.ApptsShown, &t.CarsSold, &t.SubmittedAgents)
	return t, err
}
