package report

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/torque-erp/torque-erp/internal/joborders"
	"github.com/torque-erp/torque-erp/internal/platform/httpx"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// Handler serves printable job-order PDFs.
type Handler struct {
	client   *Client
	orders   *joborders.Service
	shopName string
	logger   *slog.Logger
}

// NewHandler creates the PDF handler.
func NewHandler(client *Client, orders *joborders.Service, shopName string, logger *slog.Logger) *Handler {
	return &Handler{client: client, orders: orders, shopName: shopName, logger: logger}
}

// MountRoutes registers the PDF routes on the job-order subrouter.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/pdf", h.JobOrderPDF)
}

// Ping reports whether the rendering backend is reachable.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// JobOrderPDF handles GET /api/job-orders/{id}/pdf.
func (h *Handler) JobOrderPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid job order id"))
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	html, err := JobOrderHTML(h.shopName, order)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.client.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render job order pdf", slog.Int64("id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=job-order-"+strconv.FormatInt(id, 10)+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
