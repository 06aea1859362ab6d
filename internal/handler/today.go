package handler

import (
	"net/http"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/viewmodel"
	"github.com/go-chi/chi/v5"
)

const headerLabelLayout = "Monday, January 2, 2006"

// TodayHandler serves one-shot reads of the dashboard views.
type TodayHandler struct {
	Clock  businessday.Clock
	Agents ports.AgentLister
	Shifts ports.ShiftStore
	Totals ports.TotalsReader
}

func (h TodayHandler) RegisterRoutes(r chi.Router) {
	r.Route("/today", func(r chi.Router) {
		r.Get("/", h.today)
		r.Get("/table", h.table)
		r.Get("/totals", h.totals)
		r.Get("/status", h.status)
	})
}

func (h TodayHandler) today(w http.ResponseWriter, r *http.Request) {
	today := h.Clock.Today()
	writeJSON(w, http.StatusOK, map[string]any{
		"date":     businessday.Key(today),
		"label":    today.Format(headerLabelLayout),
		"timezone": h.Clock.Location().String(),
	})
}

func (h TodayHandler) table(w http.ResponseWriter, r *http.Request) {
	t, err := viewmodel.LoadTable(r.Context(), h.Agents, h.Shifts, h.Clock.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, viewmodel.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h TodayHandler) totals(w http.ResponseWriter, r *http.Request) {
	t, err := viewmodel.LoadTotals(r.Context(), h.Totals, h.Clock.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, viewmodel.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h TodayHandler) status(w http.ResponseWriter, r *http.Request) {
	roster, rows, err := viewmodel.Roster(r.Context(), h.Agents, h.Shifts, h.Clock.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, viewmodel.Message(err))
		return
	}
	var s viewmodel.Status
	s.Submitted, s.Missing = viewmodel.Partition(roster, rows)
	writeJSON(w, http.StatusOK, s)
}
