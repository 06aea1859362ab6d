package session

import (
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
)

type CommandType string

const (
	CmdNavigate          CommandType = "navigate"
	CmdCloseDay          CommandType = "close_day"
	CmdExpandStorewide   CommandType = "expand_storewide"
	CmdCollapseStorewide CommandType = "collapse_storewide"
	CmdSelectAgent       CommandType = "select_agent"
	CmdSubmitShift       CommandType = "submit_shift"
	CmdEditStorewide     CommandType = "edit_storewide"
	CmdPrefill           CommandType = "prefill"
	CmdSaveStorewide     CommandType = "save_storewide"
	CmdRefresh           CommandType = "refresh"
)

// Command is one page action as sent by the client, e.g.
//
//	{"type":"edit_storewide","field":"phone_ups","value":"12"}
type Command struct {
	Type   CommandType           `json:"type"`
	View   View                  `json:"view,omitempty"`
	Agent  string                `json:"agent,omitempty"`
	Shift  *form.ShiftInput      `json:"shift,omitempty"`
	Field  domain.StorewideField `json:"field,omitempty"`
	Value  form.Field            `json:"value,omitempty"`
	Closer *string               `json:"closer,omitempty"`
}

func (t CommandType) known() bool {
	switch t {
	case CmdNavigate, CmdCloseDay, CmdExpandStorewide, CmdCollapseStorewide, CmdSelectAgent,
		CmdSubmitShift, CmdEditStorewide, CmdPrefill, CmdSaveStorewide, CmdRefresh:
		return true
	}
	return false
}
