package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/repository"
)

const generatedTimeLayout = "3:04 PM"

type StorewideService struct {
	Clock      businessday.Clock
	ReportZone *time.Location
	Store      ports.StorewideStore
	Totals     ports.TotalsReader
	Logger     *slog.Logger
}

// Prefill is the slice of quick totals copied into the BDC channel columns.
type Prefill struct {
	DialsBDC int `json:"dialsBdc"`
	SetBDC   int `json:"setBdc"`
	ShownBDC int `json:"shownBdc"`
	SoldBDC  int `json:"soldBdc"`
}

// Apply writes the prefill into the storewide form.
func (p Prefill) Apply(in *form.StorewideInput) {
	in.Set(domain.FieldDialsBDC, form.FieldOf(&p.DialsBDC))
	in.Set(domain.FieldSetBDC, form.FieldOf(&p.SetBDC))
	in.Set(domain.FieldShownBDC, form.FieldOf(&p.ShownBDC))
	in.Set(domain.FieldSoldBDC, form.FieldOf(&p.SoldBDC))
}

func PrefillFrom(t domain.QuickTotals) Prefill {
	return Prefill{DialsBDC: t.CallsMade, SetBDC: t.ApptsSet, ShownBDC: t.ApptsShown, SoldBDC: t.CarsSold}
}

// Today returns today's report, or nil when none has been saved yet.
func (s StorewideService) Today(ctx context.Context) (*domain.StorewideReport, error) {
	return s.ForDate(ctx, s.Clock.Today())
}

func (s StorewideService) ForDate(ctx context.Context, date time.Time) (*domain.StorewideReport, error) {
	rep, err := s.Store.Get(ctx, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load storewide report: %w", err)
	}
	return rep, nil
}

// Save upserts today's report from the form and stamps the generated time.
func (s StorewideService) Save(ctx context.Context, in form.StorewideInput) (domain.StorewideReport, error) {
	rep := in.Report(s.Clock.Today(), s.GeneratedTime())
	if err := s.Store.Upsert(ctx, rep); err != nil {
		storewideSaves.WithLabelValues("error").Inc()
		return domain.StorewideReport{}, fmt.Errorf("save storewide report: %w", err)
	}
	storewideSaves.WithLabelValues("ok").Inc()
	s.logger().Info("storewide report saved", "date", businessday.Key(rep.ReportDate), "closer", rep.CloserName)
	return rep, nil
}

// Prefill reads today's BDC quick totals.
func (s StorewideService) Prefill(ctx context.Context) (Prefill, error) {
	t, err := s.Totals.QuickTotals(ctx, s.Clock.Today())
	if err != nil {
		return Prefill{}, fmt.Errorf("load quick totals: %w", err)
	}
	return PrefillFrom(t), nil
}

// Reopen unlocks today's report. It is an operator helper and not part of
// the dashboard flow.
func (s StorewideService) Reopen(ctx context.Context) error {
	today := s.Clock.Today()
	if err := s.Store.Reopen(ctx, today, s.GeneratedTime()); err != nil {
		return fmt.Errorf("reopen %s: %w", businessday.Key(today), err)
	}
	s.logger().Info("storewide report reopened", "date", businessday.Key(today))
	return nil
}

// GeneratedTime is the wall-clock stamp stored with a report, e.g. "9:05 PM".
func (s StorewideService) GeneratedTime() string {
	zone := s.ReportZone
	if zone == nil {
		zone = s.Clock.Location()
	}
	return s.Clock.Now().In(zone).Format(generatedTimeLayout)
}

func (s StorewideService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
