package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/torque-erp/torque-erp/internal/platform/httpx"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// Handler wires HTTP endpoints for the inventory module.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes. Write routes are expected to be
// wrapped by an admin-only middleware group at the router level.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	filter := ListFilter{
		LowStockOnly: r.URL.Query().Get("low_stock") == "1",
		Search:       r.URL.Query().Get("q"),
		Limit:        perPage,
		Offset:       (page - 1) * perPage,
	}

	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list inventory", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid inventory id"))
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input ItemInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("%s", err.Error()))
		return
	}
	item, err := h.service.Create(r.Context(), shared.RoleFromContext(r.Context()), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid inventory id"))
		return
	}
	var input ItemInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid request body"))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("%s", err.Error()))
		return
	}
	item, err := h.service.Update(r.Context(), shared.RoleFromContext(r.Context()), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid inventory id"))
		return
	}
	if err := h.service.Delete(r.Context(), shared.RoleFromContext(r.Context()), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
