package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell-press/inkwell/internal/auth"
	"github.com/inkwell-press/inkwell/internal/books"
	"github.com/inkwell-press/inkwell/internal/observability"
	"github.com/inkwell-press/inkwell/internal/orders"
	"github.com/inkwell-press/inkwell/internal/roles"
	"github.com/inkwell-press/inkwell/internal/users"
	"github.com/inkwell-press/inkwell/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Guard         *auth.Guard
	CSRFManager   *auth.CSRFManager
	AuthHandler   *auth.Handler
	BooksHandler  *books.Handler
	OrdersHandler *orders.Handler
	RolesHandler  *roles.Handler
	UsersHandler  *users.Handler
	JobHandler    *jobs.Handler
	Metrics       *observability.Metrics
}

// NewRouter constructs the chi.Router with Inkwell defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:        params.Logger,
		Config:        params.Config,
		CSRFManager:   params.CSRFManager,
		SessionCookie: params.Guard.CookieName(),
		Metrics:       params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Catalog reads are public; the optional guard attaches an identity
	// when a session is present so permission checks can widen results.
	if params.BooksHandler != nil {
		r.Route("/books", func(r chi.Router) {
			r.Use(params.Guard.Optional())
			params.BooksHandler.MountRoutes(r)
		})
	}

	if params.OrdersHandler != nil {
		r.Route("/orders", func(r chi.Router) {
			r.Use(params.Guard.Require())
			params.OrdersHandler.MountRoutes(r)
		})
	}
	if params.RolesHandler != nil {
		r.Route("/roles", func(r chi.Router) {
			r.Use(params.Guard.Require())
			params.RolesHandler.MountRoutes(r)
		})
	}
	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(params.Guard.Require())
			params.UsersHandler.MountRoutes(r)
		})
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
