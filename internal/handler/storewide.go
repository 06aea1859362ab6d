package handler

import (
	"encoding/json"
	"net/http"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/form"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/go-chi/chi/v5"
)

type StorewideHandler struct {
	Svc service.StorewideService
}

// RegisterRoutes adds the read routes.
func (h StorewideHandler) RegisterRoutes(r chi.Router) {
	r.Get("/storewide/today", h.today)
	r.Get("/storewide/prefill", h.prefill)
}

// RegisterCloserRoutes adds the save route.
func (h StorewideHandler) RegisterCloserRoutes(r chi.Router) {
	r.Put("/storewide/today", h.save)
}

// RegisterManagerRoutes adds the reopen helper.
func (h StorewideHandler) RegisterManagerRoutes(r chi.Router) {
	r.Post("/storewide/today/reopen", h.reopen)
}

func (h StorewideHandler) today(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Svc.Today(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "Load error", err)
		return
	}
	if rep == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, storewideJSON(*rep))
}

func (h StorewideHandler) prefill(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Prefill(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h StorewideHandler) save(w http.ResponseWriter, r *http.Request) {
	in := form.NewStorewideInput()
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	rep, err := h.Svc.Save(r.Context(), in)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "Failed to save", err)
		return
	}
	writeJSON(w, http.StatusOK, storewideJSON(rep))
}

func (h StorewideHandler) reopen(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Reopen(r.Context()); err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reopened"})
}

// storewideJSON flattens a report into its column names. Unwritten columns
// are null.
func storewideJSON(rep domain.StorewideReport) map[string]any {
	out := map[string]any{
		"report_date":    businessday.Key(rep.ReportDate),
		"closer_name":    rep.CloserName,
		"locked":         rep.Locked,
		"generated_time": rep.GeneratedTime,
	}
	for _, f := range domain.StorewideFields {
		out[string(f)] = rep.Counts.Get(f)
	}
	return out
}
