package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/torque-erp/torque-erp/internal/audit"
	"github.com/torque-erp/torque-erp/internal/auth"
	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/joborders"
	"github.com/torque-erp/torque-erp/internal/observability"
	"github.com/torque-erp/torque-erp/internal/reports"
	"github.com/torque-erp/torque-erp/jobs"
	"github.com/torque-erp/torque-erp/report"
	"github.com/torque-erp/torque-erp/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuditHandler     *audit.Handler
	AuthHandler      *auth.Handler
	AuthMiddleware   auth.Middleware
	InventoryHandler *inventory.Handler
	JobOrderHandler  *joborders.Handler
	ReportHandler    *reports.Handler
	PDFHandler       *report.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router serving the API and the embedded
// frontend.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.Require)

			r.Route("/inventory", params.InventoryHandler.MountRoutes)
			r.Route("/job-orders", func(r chi.Router) {
				params.JobOrderHandler.MountRoutes(r)
				if params.PDFHandler != nil {
					params.PDFHandler.MountRoutes(r)
				}
			})

			// Sales figures and the audit trail are admin-only.
			r.Group(func(r chi.Router) {
				r.Use(params.AuthMiddleware.RequireRole(auth.RoleAdmin))
				r.Route("/reports", params.ReportHandler.MountRoutes)
				if params.AuditHandler != nil {
					r.Route("/audit", params.AuditHandler.MountRoutes)
				}
			})
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/", http.FileServer(http.FS(staticFS)))
		r.Handle("/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps the asset file server with Cache-Control
// headers so browsers keep the bundle for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
