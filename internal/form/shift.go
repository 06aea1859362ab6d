package form

import (
	"errors"
	"strings"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
)

// ErrAgentRequired blocks a shift submission without an agent selected.
var ErrAgentRequired = errors.New("please choose an agent")

// ShiftInput is the "Submit My Shift" form.
type ShiftInput struct {
	AgentName         string `json:"agentName"`
	CallsMade         Field  `json:"callsMade"`
	AppointmentsSet   Field  `json:"appointmentsSet"`
	AppointmentsShown Field  `json:"appointmentsShown"`
	CarsSold          Field  `json:"carsSold"`
	EmailsSent        Field  `json:"emailsSent"`
	TextsSent         Field  `json:"textsSent"`
	ContactedCalls    Field  `json:"contactedCalls"`
	Notes             string `json:"notes"`
}

// Validate checks the only mandatory field, the agent.
func (in ShiftInput) Validate() error {
	if strings.TrimSpace(in.AgentName) == "" {
		return ErrAgentRequired
	}
	return nil
}

// Submission builds the upsert row for date. Blank notes clear any stored note.
func (in ShiftInput) Submission(date time.Time) (domain.ShiftSubmission, error) {
	if err := in.Validate(); err != nil {
		return domain.ShiftSubmission{}, err
	}
	return domain.ShiftSubmission{
		AgentName:         strings.TrimSpace(in.AgentName),
		ShiftDate:         date,
		CallsMade:         in.CallsMade.Int(),
		AppointmentsSet:   in.AppointmentsSet.Int(),
		AppointmentsShown: in.AppointmentsShown.Int(),
		CarsSold:          in.CarsSold.Int(),
		EmailsSent:        in.EmailsSent.Int(),
		TextsSent:         in.TextsSent.Int(),
		ContactedCalls:    in.ContactedCalls.Int(),
		Notes:             Notes(in.Notes),
	}, nil
}
