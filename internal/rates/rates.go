// Package rates holds the derived BDC metrics shown next to each agent.
package rates

import (
	"encoding/json"
	"math"
	"strconv"
)

// Unavailable is rendered in place of a rate that cannot be computed.
const Unavailable = "—"

// Percent is a whole-number percentage that may be unavailable.
type Percent struct {
	Value int
	OK    bool
}

// Of computes numerator/denominator as a rounded percentage. A denominator of
// zero or less, or a negative numerator, yields an unavailable Percent.
// Results above 100 are kept as-is.
func Of(numerator, denominator int) Percent {
	if denominator <= 0 || numerator < 0 {
		return Percent{}
	}
	ratio := float64(numerator) / float64(denominator) * 100
	return Percent{Value: int(math.Floor(ratio + 0.5)), OK: true}
}

func (p Percent) String() string {
	if !p.OK {
		return Unavailable
	}
	return strconv.Itoa(p.Value) + "%"
}

// MarshalJSON encodes an unavailable Percent as null.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.OK {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Percent{}
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Percent{Value: v, OK: true}
	return nil
}

// Counts are the raw inputs of one agent's metrics.
type Counts struct {
	CallsMade         int
	AppointmentsSet   int
	AppointmentsShown int
	CarsSold          int
	EmailsSent        int
	TextsSent         int
	ContactedCalls    int
}

func ShowRate(c Counts) Percent   { return Of(c.AppointmentsShown, c.AppointmentsSet) }
func CloseRate(c Counts) Percent  { return Of(c.CarsSold, c.AppointmentsShown) }
func SetRate(c Counts) Percent    { return Of(c.AppointmentsSet, c.CallsMade) }
func BookedRate(c Counts) Percent { return Of(c.AppointmentsSet, c.ContactedCalls) }

// Activity is a count of outbound touches, not a rate.
func Activity(c Counts) int {
	return c.CallsMade + c.TextsSent + c.EmailsSent
}

// Metrics bundles every derived value for one row.
type Metrics struct {
	ShowRate   Percent `json:"showRate"`
	CloseRate  Percent `json:"closeRate"`
	SetRate    Percent `json:"setRate"`
	BookedRate Percent `json:"bookedRate"`
	Activity   int     `json:"activity"`
}

func Compute(c Counts) Metrics {
	return Metrics{
		ShowRate:   ShowRate(c),
		CloseRate:  CloseRate(c),
		SetRate:    SetRate(c),
		BookedRate: BookedRate(c),
		Activity:   Activity(c),
	}
}
