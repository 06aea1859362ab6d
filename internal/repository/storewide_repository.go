package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/db"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/jackc/pgx/v5"
)

type StorewideRepository struct {
	DB *db.Postgres
}

var (
	storewideColumns = joinFields(", ")
	storewideSelect  = `SELECT report_date, closer_name, locked, COALESCE(generated_time, ''), ` + storewideColumns + `
		FROM storewide_nightly_numbers
		WHERE report_date = $1::date`
	storewideUpsert = buildStorewideUpsert()
)

func joinFields(sep string) string {
	cols := make([]string, 0, len(domain.StorewideFields))
	for _, f := range domain.StorewideFields {
		cols = append(cols, string(f))
	}
	return strings.Join(cols, sep)
}

func buildStorewideUpsert() string {
	n := len(domain.StorewideFields)
	params := make([]string, 0, n)
	updates := make([]string, 0, n)
	for i, f := range domain.StorewideFields {
		params = append(params, fmt.Sprintf("$%d", i+5))
		updates = append(updates, fmt.Sprintf("%s=EXCLUDED.%s", f, f))
	}
	return `INSERT INTO storewide_nightly_numbers (report_date, closer_name, locked, generated_time, ` + storewideColumns + `)
		VALUES ($1::date, $2, $3, $4, ` + strings.Join(params, ", ") + `)
		ON CONFLICT (report_date) DO UPDATE SET
			closer_name=EXCLUDED.closer_name,
			locked=EXCLUDED.locked,
			generated_time=EXCLUDED.generated_time,
			` + strings.Join(updates, ",\n\t\t\t")
}

// Get returns the report for date or ErrNotFound.
func (r StorewideRepository) Get(ctx context.Context, date time.Time) (*domain.StorewideReport, error) {
	var rep domain.StorewideReport
	dest := append([]any{&rep.ReportDate, &rep.CloserName, &rep.Locked, &rep.GeneratedTime}, rep.Counts.Targets()...)
	if err := r.DB.Pool.QueryRow(ctx, storewideSelect, date.Format(domain.DateLayout)).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// Upsert writes the whole row keyed by report date.
func (r StorewideRepository) Upsert(ctx context.Context, rep domain.StorewideReport) error {
	args := append([]any{rep.ReportDate.Format(domain.DateLayout), rep.CloserName, rep.Locked, rep.GeneratedTime}, rep.Counts.Values()...)
	_, err := r.DB.Pool.Exec(ctx, storewideUpsert, args...)
	return translate(err)
}

// Reopen clears the lock for date, creating a placeholder row when none exists.
// Numeric columns of an existing row are left untouched.
func (r StorewideRepository) Reopen(ctx context.Context, date time.Time, generatedTime string) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO storewide_nightly_numbers (report_date, closer_name, generated_time, locked)
		VALUES ($1::date, $2, $3, false)
		ON CONFLICT (report_date) DO UPDATE SET
			closer_name=EXCLUDED.closer_name,
			generated_time=EXCLUDED.generated_time,
			locked=false
	`, date.Format(domain.DateLayout), domain.UnknownCloser, generatedTime)
	return err
}
