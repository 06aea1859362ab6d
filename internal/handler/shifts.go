package handler

import (
	"encoding/json"
	"net/http"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler struct {
	Svc service.ShiftService
}

func (h ShiftHandler) RegisterRoutes(r chi.Router) {
	r.Post("/shifts", h.submit)
}

func (h ShiftHandler) submit(w http.ResponseWriter, r *http.Request) {
	var in form.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Svc.Submit(r.Context(), in)
	if err != nil {
		switch code := statusOf(err); code {
		case http.StatusBadRequest:
			writeError(w, code, "Please choose an agent.")
		case http.StatusUnprocessableEntity:
			writeErrorWithErr(w, code, "", err)
		default:
			writeErrorWithErr(w, code, "Failed to save shift", err)
		}
		return
	}
	s := res.Submission
	writeJSON(w, http.StatusOK, map[string]any{
		"agentName":         s.AgentName,
		"shiftDate":         businessday.Key(s.ShiftDate),
		"callsMade":         s.CallsMade,
		"appointmentsSet":   s.AppointmentsSet,
		"appointmentsShown": s.AppointmentsShown,
		"carsSold":          s.CarsSold,
		"emailsSent":        s.EmailsSent,
		"textsSent":         s.TextsSent,
		"contactedCalls":    s.ContactedCalls,
		"notes":             s.Notes,
		"savedAt":           res.SavedAt,
	})
}
