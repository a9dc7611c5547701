package authguard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/folio-desk/frontdesk/internal/platform/httpx"
)

// CredentialStore supplies the validity facts the guard decides on.
type CredentialStore interface {
	HasToken(r *http.Request) (string, bool)
	IsExpired(ctx context.Context, token string) bool
}

// Guard turns decisions into HTTP middleware. The decision stays pure; Guard
// applies the redirect side effect.
type Guard struct {
	Store  CredentialStore
	Routes Routes
	Logger *slog.Logger
}

// RequireCredential lets through requests carrying a valid credential.
func (g Guard) RequireCredential(next http.Handler) http.Handler {
	return g.wrap("protected", g.Routes.CanEnterProtected, http.StatusUnauthorized, next)
}

// PublicOnly lets through requests without a valid credential.
func (g Guard) PublicOnly(next http.Handler) http.Handler {
	return g.wrap("public_only", g.Routes.CanEnterPublicOnly, http.StatusConflict, next)
}

func (g Guard) wrap(kind string, decide func(hasToken, isExpired bool) Decision, denyStatus int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasToken, expired := g.facts(r)
		decision := decide(hasToken, expired)
		if decision.Allow {
			next.ServeHTTP(w, r)
			return
		}
		if g.Logger != nil {
			g.Logger.Debug("auth guard redirect",
				slog.String("route", kind),
				slog.String("path", r.URL.Path),
				slog.String("to", decision.RedirectTo))
		}
		Apply(w, r, decision, denyStatus)
	})
}

func (g Guard) facts(r *http.Request) (hasToken, expired bool) {
	if g.Store == nil {
		return false, false
	}
	token, ok := g.Store.HasToken(r)
	if !ok {
		return false, false
	}
	return true, g.Store.IsExpired(r.Context(), token)
}

// Apply performs the navigation a denied decision asks for: a 303 redirect
// for browsers, a problem response with a Location header for JSON clients.
func Apply(w http.ResponseWriter, r *http.Request, d Decision, denyStatus int) {
	if d.Allow {
		return
	}
	if httpx.WantsJSON(r) {
		w.Header().Set("Location", d.RedirectTo)
		httpx.Problem(w, denyStatus, http.StatusText(denyStatus), "redirect to "+d.RedirectTo)
		return
	}
	http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
}
