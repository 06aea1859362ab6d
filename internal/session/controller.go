// Package session holds one operator page: the view controller plus the
// realtime views mounted on the dashboard.
package session

import "errors"

type View string

const (
	ViewDashboard View = "dashboard"
	ViewReport    View = "report"
)

type DayStatus string

const (
	DayOpen   DayStatus = "open"
	DayClosed DayStatus = "closed"
)

var (
	ErrDayClosed   = errors.New("day is closed")
	ErrUnknownView = errors.New("unknown view")
)

// Controller is the page state machine. The day only ever goes from open to
// closed; the screen can move between dashboard and report freely.
type Controller struct {
	view     View
	day      DayStatus
	expanded bool
}

func NewController() Controller {
	return Controller{view: ViewDashboard, day: DayOpen}
}

type ControllerState struct {
	View              View      `json:"view"`
	DayStatus         DayStatus `json:"dayStatus"`
	StorewideExpanded bool      `json:"storewideExpanded"`
}

func (c Controller) State() ControllerState {
	return ControllerState{View: c.view, DayStatus: c.day, StorewideExpanded: c.expanded}
}

func (c Controller) View() View { return c.view }

func (c Controller) Closed() bool { return c.day == DayClosed }

func (c Controller) Expanded() bool { return c.expanded }

func (c *Controller) Navigate(v View) error {
	switch v {
	case ViewDashboard, ViewReport:
		c.view = v
		return nil
	default:
		return ErrUnknownView
	}
}

// CloseDay marks the day closed and shows the report. The storewide form is
// collapsed since it can no longer be opened.
func (c *Controller) CloseDay() {
	c.day = DayClosed
	c.view = ViewReport
	c.expanded = false
}

func (c *Controller) ExpandStorewide() error {
	if c.Closed() {
		return ErrDayClosed
	}
	c.expanded = true
	return nil
}

func (c *Controller) CollapseStorewide() {
	c.expanded = false
}

// CanSubmitShift reports whether the shift form is enabled.
func (c Controller) CanSubmitShift() error {
	if c.Closed() {
		return ErrDayClosed
	}
	return nil
}
