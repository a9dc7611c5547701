package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/folio-desk/frontdesk/internal/auth"
	"github.com/folio-desk/frontdesk/internal/authguard"
	"github.com/folio-desk/frontdesk/internal/observability"
	"github.com/folio-desk/frontdesk/internal/platform/httpx"
	"github.com/folio-desk/frontdesk/internal/tickets"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Guard          authguard.Guard
	AuthHandler    *auth.Handler
	TicketsHandler *tickets.Handler
	Metrics        *observability.Metrics
}

type homeData struct {
	Env   string   `json:"env"`
	Views []string `json:"views"`
}

// NewRouter constructs the chi.Router with front end defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.Config == nil || !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		params.AuthHandler.MountRoutes(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(params.Guard.RequireCredential)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			env := ""
			if params.Config != nil {
				env = params.Config.AppEnv
			}
			httpx.JSON(w, http.StatusOK, homeData{Env: env, Views: []string{"/tickets"}})
		})
		if params.TicketsHandler != nil {
			r.Route("/tickets", params.TicketsHandler.MountRoutes)
		}
	})

	return r
}
