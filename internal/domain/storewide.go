package domain

import "time"

// StorewideField names one numeric column of the storewide report.
type StorewideField string

const (
	FieldLeadsReceived        StorewideField = "leads_received"
	FieldPhoneUps             StorewideField = "phone_ups"
	FieldAppointmentsMeant    StorewideField = "appointments_meant"
	FieldAppointmentsShown    StorewideField = "appointments_shown"
	FieldAppointmentsTomorrow StorewideField = "appointments_tomorrow"
	FieldVisitsLogged         StorewideField = "visits_logged"
	FieldCarsSold             StorewideField = "cars_sold"

	FieldDialsBDC      StorewideField = "dials_bdc"
	FieldDialsSales    StorewideField = "dials_sales"
	FieldDialsInternet StorewideField = "dials_internet"

	FieldSetBDC      StorewideField = "set_bdc"
	FieldSetSales    StorewideField = "set_sales"
	FieldSetInternet StorewideField = "set_internet"

	FieldShownBDC      StorewideField = "shown_bdc"
	FieldShownSales    StorewideField = "shown_sales"
	FieldShownInternet StorewideField = "shown_internet"

	FieldSoldBDC      StorewideField = "sold_bdc"
	FieldSoldSales    StorewideField = "sold_sales"
	FieldSoldInternet StorewideField = "sold_internet"
)

// StorewideFields lists every numeric column in table order.
var StorewideFields = []StorewideField{
	FieldLeadsReceived, FieldPhoneUps, FieldAppointmentsMeant, FieldAppointmentsShown,
	FieldAppointmentsTomorrow, FieldVisitsLogged, FieldCarsSold,
	FieldDialsBDC, FieldDialsSales, FieldDialsInternet,
	FieldSetBDC, FieldSetSales, FieldSetInternet,
	FieldShownBDC, FieldShownSales, FieldShownInternet,
	FieldSoldBDC, FieldSoldSales, FieldSoldInternet,
}

// Valid reports whether f is one of StorewideFields.
func (f StorewideField) Valid() bool {
	for _, known := range StorewideFields {
		if f == known {
			return true
		}
	}
	return false
}

// StorewideReport is the closer's nightly aggregate, one row per report date.
// Counts are nil when the column was never written.
type StorewideReport struct {
	ReportDate    time.Time
	CloserName    string
	Locked        bool
	GeneratedTime string
	Counts        StorewideCounts
}

type StorewideCounts struct {
	LeadsReceived        *int
	PhoneUps             *int
	AppointmentsMeant    *int
	AppointmentsShown    *int
	AppointmentsTomorrow *int
	VisitsLogged         *int
	CarsSold             *int

	DialsBDC      *int
	DialsSales    *int
	DialsInternet *int

	SetBDC      *int
	SetSales    *int
	SetInternet *int

	ShownBDC      *int
	ShownSales    *int
	ShownInternet *int

	SoldBDC      *int
	SoldSales    *int
	SoldInternet *int
}

// Ref returns the address of the column f, or nil for an unknown field.
func (c *StorewideCounts) Ref(f StorewideField) **int {
	switch f {
	case FieldLeadsReceived:
		return &c.LeadsReceived
	case FieldPhoneUps:
		return &c.PhoneUps
	case FieldAppointmentsMeant:
		return &c.AppointmentsMeant
	case FieldAppointmentsShown:
		return &c.AppointmentsShown
	case FieldAppointmentsTomorrow:
		return &c.AppointmentsTomorrow
	case FieldVisitsLogged:
		return &c.VisitsLogged
	case FieldCarsSold:
		return &c.CarsSold
	case FieldDialsBDC:
		return &c.DialsBDC
	case FieldDialsSales:
		return &c.DialsSales
	case FieldDialsInternet:
		return &c.DialsInternet
	case FieldSetBDC:
		return &c.SetBDC
	case FieldSetSales:
		return &c.SetSales
	case FieldSetInternet:
		return &c.SetInternet
	case FieldShownBDC:
		return &c.ShownBDC
	case FieldShownSales:
		return &c.ShownSales
	case FieldShownInternet:
		return &c.ShownInternet
	case FieldSoldBDC:
		return &c.SoldBDC
	case FieldSoldSales:
		return &c.SoldSales
	case FieldSoldInternet:
		return &c.SoldInternet
	}
	return nil
}

func (c StorewideCounts) Get(f StorewideField) *int {
	if ref := c.Ref(f); ref != nil {
		return *ref
	}
	return nil
}

func (c *StorewideCounts) Set(f StorewideField, v *int) {
	if ref := c.Ref(f); ref != nil {
		*ref = v
	}
}

// Values returns the columns in StorewideFields order, for SQL arguments.
func (c StorewideCounts) Values() []any {
	out := make([]any, 0, len(StorewideFields))
	for _, f := range StorewideFields {
		out = append(out, c.Get(f))
	}
	return out
}

// Targets returns scan destinations in StorewideFields order.
func (c *StorewideCounts) Targets() []any {
	out := make([]any, 0, len(StorewideFields))
	for _, f := range StorewideFields {
		out = append(out, c.Ref(f))
	}
	return out
}
