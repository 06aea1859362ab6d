package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire and SQL format of a business date.
const DateLayout = "2006-01-02"

// Enumerations
const (
	RoleAgent            AgentRole = "agent"
	RoleAssistantManager AgentRole = "assistant_manager"
	RoleManager          AgentRole = "manager"
	RoleUnset            AgentRole = ""

	StatusSubmitted SubmissionStatus = "Submitted"
	StatusMissing   SubmissionStatus = "Missing"

	// UnknownCloser is stored when the closer leaves the name blank.
	UnknownCloser = "Unknown"
)

type AgentRole string
type SubmissionStatus string

// ParseRole maps the free-form role column onto the three known roles.
// Anything mentioning "assistant" is an assistant manager, anything else
// mentioning "manager" is a manager, and every other non-empty value is an agent.
func ParseRole(raw string) AgentRole {
	r := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case r == "":
		return RoleUnset
	case strings.Contains(r, "assistant"):
		return RoleAssistantManager
	case strings.Contains(r, "manager"):
		return RoleManager
	default:
		return RoleAgent
	}
}

// Rank orders roles for the roster: managers first, then assistant managers,
// then everybody else.
func (r AgentRole) Rank() int {
	switch r {
	case RoleManager:
		return 0
	case RoleAssistantManager:
		return 1
	default:
		return 2
	}
}

// CloserRoles may write the storewide report.
var CloserRoles = []AgentRole{RoleManager, RoleAssistantManager}

// IsCloser reports whether r is one of CloserRoles.
func (r AgentRole) IsCloser() bool {
	for _, c := range CloserRoles {
		if r == c {
			return true
		}
	}
	return false
}

// Label is the table text for a role.
func (r AgentRole) Label() string {
	switch r {
	case RoleManager:
		return "Manager"
	case RoleAssistantManager:
		return "Asst. Manager"
	case RoleAgent:
		return "Agent"
	default:
		return "—"
	}
}

type Agent struct {
	Name   string
	Role   AgentRole
	Active bool
}

// ShiftSubmission is one agent's counts for one business date. At most one
// row exists per (AgentName, ShiftDate).
type ShiftSubmission struct {
	AgentName         string
	ShiftDate         time.Time
	CallsMade         int
	AppointmentsSet   int
	AppointmentsShown int
	CarsSold          int
	EmailsSent        int
	TextsSent         int
	ContactedCalls    int
	Notes             *string
	UpdatedAt         *time.Time
}

// QuickTotals is the storewide BDC aggregate for one business date.
type QuickTotals struct {
	ReportDate      time.Time
	CallsMade       int
	ApptsSet        int
	ApptsShown      int
	CarsSold        int
	SubmittedAgents []string
}

// EmptyQuickTotals is what a date without submissions aggregates to.
func EmptyQuickTotals(date time.Time) QuickTotals {
	return QuickTotals{ReportDate: date, SubmittedAgents: []string{}}
}

// IntOr dereferences an optional count, falling back to def when absent.
func IntOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
