package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/torque-erp/torque-erp/internal/platform/httpx"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// Handler wires HTTP endpoints for authentication.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the auth handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

type loginRequest struct {
	Role     string `json:"role" validate:"required,oneof=admin mechanic"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges a role password for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, shared.ValidationErrorf("role and password are required"))
		return
	}
	token, err := h.service.Login(r.Context(), req.Role, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("login", slog.String("role", token.Role))
	httpx.JSON(w, http.StatusOK, token)
}

// Logout revokes the caller's token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
