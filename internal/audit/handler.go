package audit

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torque-erp/torque-erp/internal/platform/httpx"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// Handler serves the audit trail endpoint.
type Handler struct {
	svc *Service
}

// NewHandler builds Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MountRoutes registers the audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Timeline)
}

// Timeline handles GET /api/audit with optional from/to/actor/entity
// filters and page/page_size paging.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := Filters{
		Actor:  q.Get("actor"),
		Entity: q.Get("entity"),
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.RespondError(w, shared.ValidationErrorf("invalid from date"))
			return
		}
		filters.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.RespondError(w, shared.ValidationErrorf("invalid to date"))
			return
		}
		filters.To = t.Add(24*time.Hour - time.Second)
	}
	filters.Page, filters.PageSize = shared.PageFromQuery(q)

	result, err := h.svc.Timeline(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
