package handler

import (
	"net/http"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/ports"
	"github.com/go-chi/chi/v5"
)

type AgentHandler struct {
	Agents ports.AgentLister
}

func (h AgentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/agents", h.list)
}

func (h AgentHandler) list(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Agents.ListActive(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "Failed to load agents", err)
		return
	}
	out := make([]map[string]any, 0, len(agents))
	for _, a := range agents {
		out = append(out, map[string]any{
			"name":      a.Name,
			"role":      a.Role,
			"roleLabel": a.Role.Label(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
