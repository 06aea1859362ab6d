package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/repository"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

// apiResponse is the envelope of every JSON reply.
type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func envelope(status int, message string, data any) apiResponse {
	if status < 400 {
		return apiResponse{Status: "ok", Message: message, Data: data}
	}
	return apiResponse{
		Status:  "error",
		Message: message,
		Data:    data,
		Error:   &apiError{Code: status, Status: http.StatusText(status)},
	}
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	writeRawJSON(w, status, envelope(status, "", payload))
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, envelope(status, message, nil))
}

func writeErrorWithErr(w http.ResponseWriter, status int, message string, err error) {
	if err == nil {
		writeError(w, status, message)
		return
	}
	if message == "" {
		writeError(w, status, err.Error())
		return
	}
	writeError(w, status, message+": "+err.Error())
}

// statusOf maps write errors onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrUnknownAgent), errors.Is(err, repository.ErrInvalidRow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
