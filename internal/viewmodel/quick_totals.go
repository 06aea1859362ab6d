package viewmodel

import (
	"context"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/rates"
)

// Totals is the QuickTotals view.
type Totals struct {
	Date            string        `json:"date"`
	CallsMade       int           `json:"callsMade"`
	ApptsSet        int           `json:"apptsSet"`
	ApptsShown      int           `json:"apptsShown"`
	CarsSold        int           `json:"carsSold"`
	ShowRate        rates.Percent `json:"showRate"`
	SubmittedAgents []string      `json:"submittedAgents"`
}

func TotalsFrom(t domain.QuickTotals) Totals {
	submitted := t.SubmittedAgents
	if submitted == nil {
		submitted = []string{}
	}
	return Totals{
		Date:            businessday.Key(t.ReportDate),
		CallsMade:       t.CallsMade,
		ApptsSet:        t.ApptsSet,
		ApptsShown:      t.ApptsShown,
		CarsSold:        t.CarsSold,
		ShowRate:        rates.Of(t.ApptsShown, t.ApptsSet),
		SubmittedAgents: submitted,
	}
}

func LoadTotals(ctx context.Context, totals ports.TotalsReader, date time.Time) (Totals, error) {
	t, err := totals.QuickTotals(ctx, date)
	if err != nil {
		return Totals{}, fetchErr("BDC totals", err)
	}
	return TotalsFrom(t), nil
}

func NewQuickTotals(totals ports.TotalsReader, date time.Time) *Live[Totals] {
	filter := feed.Filter{Table: feed.TableShifts, Date: businessday.Key(date)}
	live := NewLive("quick_totals", filter, func(ctx context.Context) (Totals, error) {
		return LoadTotals(ctx, totals, date)
	})
	live.state.Data = TotalsFrom(domain.EmptyQuickTotals(date))
	return live
}
