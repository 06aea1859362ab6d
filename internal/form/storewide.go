package form

import (
	"strings"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
)

// StorewideInput is the closer's storewide form. Values is keyed by column name.
type StorewideInput struct {
	CloserName string                          `json:"closerName"`
	Values     map[domain.StorewideField]Field `json:"values"`
}

// NewStorewideInput returns a blank form.
func NewStorewideInput() StorewideInput {
	return StorewideInput{Values: make(map[domain.StorewideField]Field, len(domain.StorewideFields))}
}

// StorewideInputFrom loads a stored report into the form. Columns never
// written come back blank.
func StorewideInputFrom(r *domain.StorewideReport) StorewideInput {
	in := NewStorewideInput()
	if r == nil {
		return in
	}
	in.CloserName = r.CloserName
	for _, f := range domain.StorewideFields {
		in.Values[f] = FieldOf(r.Counts.Get(f))
	}
	return in
}

// Set stores raw text for one column; unknown columns are ignored.
func (in *StorewideInput) Set(f domain.StorewideField, v Field) {
	if !f.Valid() {
		return
	}
	if in.Values == nil {
		in.Values = make(map[domain.StorewideField]Field, len(domain.StorewideFields))
	}
	in.Values[f] = v
}

// Clone copies the form so snapshots do not alias the live map.
func (in StorewideInput) Clone() StorewideInput {
	out := NewStorewideInput()
	out.CloserName = in.CloserName
	for k, v := range in.Values {
		out.Values[k] = v
	}
	return out
}

// Report builds the upsert row. Every column is written, blanks as 0, and the
// row is never locked from the form.
func (in StorewideInput) Report(date time.Time, generatedTime string) domain.StorewideReport {
	closer := strings.TrimSpace(in.CloserName)
	if closer == "" {
		closer = domain.UnknownCloser
	}
	r := domain.StorewideReport{
		ReportDate:    date,
		CloserName:    closer,
		Locked:        false,
		GeneratedTime: generatedTime,
	}
	for _, f := range domain.StorewideFields {
		n := in.Values[f].Int()
		r.Counts.Set(f, &n)
	}
	return r
}
