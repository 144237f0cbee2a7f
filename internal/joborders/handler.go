package joborders

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torque-erp/torque-erp/internal/platform/httpx"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// Handler wires HTTP endpoints for the job-order module.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the job-order handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers job-order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	if raw := r.URL.Query().Get("display_no"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.RespondError(w, shared.ValidationErrorf("invalid display number"))
			return
		}
		filter.DisplayNumber = &n
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := NormalizeStatus(raw)
		filter.Status = &status
	}

	orders, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list job orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if orders == nil {
		orders = []JobOrder{}
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid job order id"))
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) decodeInput(r *http.Request) (Input, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return Input{}, shared.ValidationErrorf("unable to read request body")
	}
	input, err := DecodeInput(body, time.Now())
	if err != nil {
		return Input{}, shared.ValidationErrorf("invalid request body")
	}
	return input, nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Create(r.Context(), shared.RoleFromContext(r.Context()), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("job order created",
		slog.Int64("id", order.ID),
		slog.String("status", string(order.Status)),
		slog.Int("display_no", order.DisplayNumber))
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid job order id"))
		return
	}
	input, err := h.decodeInput(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Update(r.Context(), shared.RoleFromContext(r.Context()), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid job order id"))
		return
	}
	if err := h.service.Delete(r.Context(), shared.RoleFromContext(r.Context()), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
