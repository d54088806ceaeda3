package handler

import (
	"fmt"
	"net/http"

	"github.com/AccelByte/extend-churn-dashboard/pkg/views"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleGetView(w http.ResponseWriter, r *http.Request) {
	h.renderView(w, r, chi.URLParam(r, "view"))
}

func (h *Handler) handleReloadView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")

	if err := h.views.Reload(r.Context(), name); err != nil {
		respondError(w, statusFor(err), "failed to reload view", err)
		return
	}

	h.renderView(w, r, name)
}

func (h *Handler) renderView(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()
	query := r.URL.Query()

	switch name {
	case views.NameMembers:
		respondJSON(w, http.StatusOK, h.views.Members(ctx))

	case views.NameLedger:
		if id := query.Get("id"); id != "" {
			detail, err := h.views.LedgerDetail(ctx, id)
			if err != nil {
				respondError(w, statusFor(err), "member not found", err)
				return
			}
			respondJSON(w, http.StatusOK, detail)
			return
		}
		respondJSON(w, http.StatusOK, h.views.Ledger(ctx, query.Get("q")))

	case views.NameSegmentation:
		respondJSON(w, http.StatusOK, h.views.Segmentation(ctx, query.Get("segment")))

	case views.NameAudit:
		respondJSON(w, http.StatusOK, h.views.Audit(ctx))

	case views.NameInsights:
		respondJSON(w, http.StatusOK, h.views.Insights(ctx))

	default:
		err := fmt.Errorf("%w: %s", views.ErrUnknownView, name)
		respondError(w, statusFor(err), "unknown view", err)
	}
}
