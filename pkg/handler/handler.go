package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/dashboard"
	"github.com/AccelByte/extend-churn-dashboard/pkg/playbook"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"github.com/AccelByte/extend-churn-dashboard/pkg/session"
	"github.com/AccelByte/extend-churn-dashboard/pkg/simulator"
	"github.com/AccelByte/extend-churn-dashboard/pkg/views"
	"github.com/go-chi/chi/v5"
)

// Handler serves the dashboard REST API.
type Handler struct {
	store     session.Store
	simulator *simulator.Service
	views     *views.Dashboard
	now       func() time.Time
}

// NewHandler creates the dashboard API handler.
func NewHandler(store session.Store, sim *simulator.Service, dash *views.Dashboard) *Handler {
	return &Handler{
		store:     store,
		simulator: sim,
		views:     dash,
		now:       time.Now,
	}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/simulate", h.handleSimulate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.handleCreateSession)

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", h.handleGetSession)
				r.Delete("/", h.handleDeleteSession)
				r.Put("/tab", h.handleSelectTab)
				r.Post("/menu", h.handleToggleMenu)
				r.Patch("/profile", h.handleUpdateProfile)
				r.Post("/simulate", h.handleSimulateSession)
				r.Get("/playbook", h.handlePlaybook)
				r.Get("/playbook.pdf", h.handlePlaybookPDF)
			})
		})

		r.Route("/views/{view}", func(r chi.Router) {
			r.Get("/", h.handleGetView)
			r.Post("/reload", h.handleReloadView)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, views.ErrUnknownView),
		errors.Is(err, views.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrUnknownTab),
		errors.Is(err, profile.ErrUnknownField),
		errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, playbook.ErrNoPrediction):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
