package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/folio-desk/frontdesk/internal/authguard"
	"github.com/folio-desk/frontdesk/internal/credential"
	"github.com/folio-desk/frontdesk/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *credential.Store
	guard     authguard.Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *credential.Store, guard authguard.Guard) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on provided router. The login screen is
// forbidden while credentialed; logout requires a credential.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.PublicOnly)
		r.Get("/login", h.showLogin)
		r.Post("/login", h.handleLogin)
	})
	r.With(h.guard.RequireCredential).Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginPage struct {
	Action string            `json:"action"`
	Fields []string          `json:"fields"`
	Errors map[string]string `json:"errors,omitempty"`
}

type loginResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	Redirect  string `json:"redirectTo"`
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, loginPage{Action: r.URL.Path, Fields: []string{"email", "password"}})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := h.readForm(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unreadable login form")
		return
	}

	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				errs[fieldErr.Field()] = fieldErr.Tag()
			}
		}
	}
	if len(errs) == 0 {
		tok, err := h.service.Login(r.Context(), form.Email, form.Password)
		switch {
		case err == nil:
			h.tokens.SetCookie(w, tok)
			landing := h.guard.Routes.CanEnterPublicOnly(true, false).RedirectTo
			if httpx.WantsJSON(r) {
				httpx.JSON(w, http.StatusOK, loginResult{Token: tok.Raw, ExpiresAt: tok.ExpiresAt.UTC().Format(time.RFC3339), Redirect: landing})
				return
			}
			http.Redirect(w, r, landing, http.StatusSeeOther)
			return
		case errors.Is(err, ErrInvalidCredentials):
			errs["general"] = "invalid email or password"
		default:
			if h.logger != nil {
				h.logger.Error("login", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
	}

	httpx.JSON(w, http.StatusBadRequest, loginPage{Action: r.URL.Path, Fields: []string{"email", "password"}, Errors: errs})
}

func (h *Handler) readForm(r *http.Request) (loginForm, error) {
	var form loginForm
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := httpx.DecodeJSON(r, &form)
		return form, err
	}
	if err := r.ParseForm(); err != nil {
		return form, err
	}
	form.Email = strings.TrimSpace(r.PostFormValue("email"))
	form.Password = r.PostFormValue("password")
	return form, nil
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if raw, ok := h.tokens.HasToken(r); ok {
		if err := h.service.Logout(r.Context(), raw); err != nil && h.logger != nil {
			h.logger.Warn("revoke token", slog.Any("error", err))
		}
	}
	h.tokens.ClearCookie(w)
	landing := h.guard.Routes.CanEnterProtected(false, false).RedirectTo
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, landing, http.StatusSeeOther)
}
