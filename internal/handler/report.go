package handler

import (
	"net/http"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	Reports service.ReportService
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/report/today", h.report)
	r.Get("/report/today.xlsx", h.export)
}

func (h ReportHandler) load(r *http.Request) (service.Report, int, error) {
	date, err := dateOrToday(r, "date", h.Reports.Storewide.Clock)
	if err != nil {
		return service.Report{}, http.StatusBadRequest, err
	}
	rep, err := h.Reports.ForDate(r.Context(), date)
	if err != nil {
		return service.Report{}, http.StatusInternalServerError, err
	}
	return rep, http.StatusOK, nil
}

func (h ReportHandler) report(w http.ResponseWriter, r *http.Request) {
	rep, code, err := h.load(r)
	if err != nil {
		writeErrorWithErr(w, code, "", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	rep, code, err := h.load(r)
	if err != nil {
		writeErrorWithErr(w, code, "", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="nightly-numbers-`+rep.Date+`.xlsx"`)
	if err := service.WriteReportXLSX(w, rep); err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "export failed", err)
	}
}
