package tickets

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/folio-desk/frontdesk/internal/eventbus"
	"github.com/folio-desk/frontdesk/internal/filter"
	"github.com/folio-desk/frontdesk/internal/platform/httpx"
)

// Handler serves the ticket list endpoints.
type Handler struct {
	logger      *slog.Logger
	query       Query
	defaultRows int
	observer    eventbus.Observer
	validator   *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, query Query, defaultRows int, observer eventbus.Observer) *Handler {
	return &Handler{
		logger:      logger,
		query:       query,
		defaultRows: defaultRows,
		observer:    observer,
		validator:   validator.New(),
	}
}

// MountRoutes registers ticket routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/folio/{folio}", h.byFolio)
}

type pageBounds struct {
	Page        int `validate:"gte=0"`
	RowsPerPage int `validate:"gte=1,lte=200"`
}

func (h *Handler) newView(r *http.Request) *View {
	return NewView(r.Context(), ViewConfig{
		Query:       h.query,
		DefaultRows: h.defaultRows,
		Logger:      h.logger,
		Observer:    h.observer,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state, err := filter.ParseValues(r.URL.Query(), h.defaultRows)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(pageBounds{Page: state.Page(), RowsPerPage: state.RowsPerPage()}); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	view := h.newView(r)
	defer view.Close()
	if err := view.LoadState(state); err != nil {
		h.fail(w, "list tickets", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.Result())
}

func (h *Handler) byFolio(w http.ResponseWriter, r *http.Request) {
	folio := strings.TrimSpace(chi.URLParam(r, "folio"))
	if folio == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "folio required")
		return
	}
	view := h.newView(r)
	defer view.Close()
	if err := view.SearchFolio(folio); err != nil {
		h.fail(w, "search folio", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view.Result())
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		httpx.Problem(w, http.StatusBadGateway, http.StatusText(http.StatusBadGateway), httpx.ErrUpstream.Error())
		return
	}
	httpx.RespondError(w, err)
}
