package reports

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torque-erp/torque-erp/internal/platform/httpx"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// Handler exposes the report read endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MountRoutes registers the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales/daily", h.Daily)
	r.Get("/sales/range", h.Range)
}

// Daily handles GET /api/reports/sales/daily?date=YYYY-MM-DD. The date
// defaults to today.
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.RespondError(w, shared.ValidationErrorf("invalid date %q", raw))
			return
		}
		day = parsed
	}
	report, err := h.svc.Daily(r.Context(), day)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// Range handles GET /api/reports/sales/range?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) Range(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid from date"))
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid to date"))
		return
	}
	report, err := h.svc.Range(r.Context(), from, to)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
