package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"

	"github.com/AccelByte/extend-churn-dashboard/pkg/dashboard"
	"github.com/AccelByte/extend-churn-dashboard/pkg/playbook"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	ID    string          `json:"id"`
	State dashboard.State `json:"state"`
}

type selectTabRequest struct {
	Tab string `json:"tab"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, state, err := h.store.Create(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session", err)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{ID: id, State: state})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")

	state, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondError(w, statusFor(err), "failed to get session", err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{ID: id, State: state})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		respondError(w, statusFor(err), "failed to delete session", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSelectTab(w http.ResponseWriter, r *http.Request) {
	var req selectTabRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	h.apply(w, r, dashboard.SelectTab{Tab: dashboard.Tab(req.Tab)})
}

func (h *Handler) handleToggleMenu(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, dashboard.ToggleMenu{})
}

// handleUpdateProfile applies every posted field in one update; any bad field rejects all.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]float64
	if err := decodeJSON(r, &fields); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "no fields to update", nil)
		return
	}

	// deterministic order keeps error messages stable
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	actions := make([]dashboard.Action, 0, len(names))
	for _, name := range names {
		actions = append(actions, dashboard.SetField{Name: name, Value: fields[name]})
	}

	h.apply(w, r, actions...)
}

func (h *Handler) handleSimulateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")

	state, err := h.simulator.SimulateSession(r.Context(), id)
	if err != nil {
		respondError(w, statusFor(err), "simulation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{ID: id, State: state})
}

func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	// missing fields keep the simulator form defaults
	p := profile.DefaultProfile()
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	respondJSON(w, http.StatusOK, h.simulator.Simulate(r.Context(), p))
}

func (h *Handler) handlePlaybook(w http.ResponseWriter, r *http.Request) {
	pb, err := h.playbook(r)
	if err != nil {
		respondError(w, statusFor(err), "failed to build playbook", err)
		return
	}

	respondJSON(w, http.StatusOK, pb)
}

func (h *Handler) handlePlaybookPDF(w http.ResponseWriter, r *http.Request) {
	pb, err := h.playbook(r)
	if err != nil {
		respondError(w, statusFor(err), "failed to build playbook", err)
		return
	}

	var buf bytes.Buffer
	if err := playbook.WritePDF(&buf, pb, h.now()); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render playbook", err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "retention-playbook.pdf"))
	respondBytes(w, http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) playbook(r *http.Request) (playbook.Playbook, error) {
	state, err := h.store.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		return playbook.Playbook{}, err
	}
	return playbook.Build(state.Profile, state.Prediction, state.Drivers)
}

// apply reduces the session snapshot through actions in one atomic update.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, actions ...dashboard.Action) {
	id := chi.URLParam(r, "sessionId")

	state, err := h.store.Update(r.Context(), id, func(current dashboard.State) (dashboard.State, error) {
		next := current
		for _, action := range actions {
			var err error
			if next, err = dashboard.Reduce(next, action); err != nil {
				return current, err
			}
		}
		return next, nil
	})
	if err != nil {
		respondError(w, statusFor(err), "failed to update session", err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{ID: id, State: state})
}
