package service

import (
	"context"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
)

const (
	StatusNoRecord = "Open (no record yet)"
	StatusOpen     = "Open"
	StatusClosed   = "Closed"
)

// reportLayout is the fixed line order of the nightly report.
var reportLayout = []struct {
	Label string
	Field domain.StorewideField
}{
	{"Yesterday's Leads", domain.FieldLeadsReceived},
	{"Phone Ups", domain.FieldPhoneUps},
	{"Appts Meant", domain.FieldAppointmentsMeant},
	{"Appts Shown (All)", domain.FieldAppointmentsShown},
	{"Appts for Tomorrow (ALL)", domain.FieldAppointmentsTomorrow},
	{"Store Visits Today", domain.FieldVisitsLogged},
	{"SOLD", domain.FieldCarsSold},
	{"Calls BDC", domain.FieldDialsBDC},
	{"Calls Sales", domain.FieldDialsSales},
	{"Calls Internet", domain.FieldDialsInternet},
	{"Set BDC", domain.FieldSetBDC},
	{"Set Sales", domain.FieldSetSales},
	{"Set Internet", domain.FieldSetInternet},
	{"Shown BDC", domain.FieldShownBDC},
	{"Shown Sales", domain.FieldShownSales},
	{"Shown Internet", domain.FieldShownInternet},
	{"Sold Internet", domain.FieldSoldInternet},
	{"Sold BDC", domain.FieldSoldBDC},
	{"Sold Sales", domain.FieldSoldSales},
}

type ReportLine struct {
	Label string                `json:"label"`
	Field domain.StorewideField `json:"field"`
	Value int                   `json:"value"`
	// Zero lines are highlighted on the printed report.
	Zero bool `json:"zero"`
}

// Report is the read-only nightly numbers view.
type Report struct {
	Date        string       `json:"date"`
	Closer      string       `json:"closer"`
	GeneratedAt string       `json:"generatedAt"`
	Status      string       `json:"status"`
	Lines       []ReportLine `json:"lines"`
}

type ReportService struct {
	Storewide StorewideService
}

func (s ReportService) Today(ctx context.Context) (Report, error) {
	return s.ForDate(ctx, s.Storewide.Clock.Today())
}

func (s ReportService) ForDate(ctx context.Context, date time.Time) (Report, error) {
	rec, err := s.Storewide.ForDate(ctx, date)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(date, rec, s.Storewide.GeneratedTime()), nil
}

// BuildReport lays out rec; a nil record yields an all-zero report.
// fallbackTime is shown when the record carries no generated time.
func BuildReport(date time.Time, rec *domain.StorewideReport, fallbackTime string) Report {
	rep := Report{
		Date:        businessday.Key(date),
		Closer:      domain.UnknownCloser,
		GeneratedAt: fallbackTime,
		Status:      StatusNoRecord,
		Lines:       make([]ReportLine, 0, len(reportLayout)),
	}
	var counts domain.StorewideCounts
	if rec != nil {
		counts = rec.Counts
		rep.Status = StatusOpen
		if rec.Locked {
			rep.Status = StatusClosed
		}
		if rec.CloserName != "" {
			rep.Closer = rec.CloserName
		}
		if rec.GeneratedTime != "" {
			rep.GeneratedAt = rec.GeneratedTime
		}
	}
	for _, l := range reportLayout {
		v := domain.IntOr(counts.Get(l.Field), 0)
		rep.Lines = append(rep.Lines, ReportLine{Label: l.Label, Field: l.Field, Value: v, Zero: v == 0})
	}
	return rep
}
