package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/folio-desk/frontdesk/internal/eventbus"
	"github.com/folio-desk/frontdesk/internal/filter"
	"github.com/folio-desk/frontdesk/internal/paging"
)

// ViewConfig groups the collaborators of a View.
type ViewConfig struct {
	Query       Query
	DefaultRows int
	Logger      *slog.Logger
	Observer    eventbus.Observer
}

// View is one logical ticket list: it owns its coordinator and page display
// state. A View is bound to the context it was created with and serves a
// single request.
type View struct {
	ID string

	ctx     context.Context
	query   Query
	logger  *slog.Logger
	filters *filter.Coordinator
	page    *paging.State
	table   *filter.Subscription

	items []Ticket
	err   error
}

// Result is the rendered state of a View.
type Result struct {
	ViewID    string         `json:"viewId"`
	Filters   filter.State   `json:"filters"`
	Page      paging.Display `json:"page"`
	PageIndex int            `json:"pageIndex"`
	PageCount int            `json:"pageCount"`
	Items     []Ticket       `json:"items"`
}

// NewView builds a view and attaches its table to the coordinator.
func NewView(ctx context.Context, cfg ViewConfig) *View {
	rows := cfg.DefaultRows
	if rows <= 0 {
		rows = filter.DefaultRowsPerPage
	}
	v := &View{
		ID:     uuid.NewString(),
		ctx:    ctx,
		query:  cfg.Query,
		logger: cfg.Logger,
		filters: filter.NewCoordinator(filter.CoordinatorConfig{
			Name:        "tickets",
			DefaultRows: rows,
			Logger:      cfg.Logger,
			Observer:    cfg.Observer,
		}),
		page: paging.New(rows),
	}
	v.table = v.filters.Subscribe(v.onFilters)
	return v
}

// Filters exposes the coordinator so filter panels can publish on it.
func (v *View) Filters() *filter.Coordinator {
	return v.filters
}

// Page exposes the page display state.
func (v *View) Page() *paging.State {
	return v.page
}

// Err returns the error of the last fetch, if any.
func (v *View) Err() error {
	return v.err
}

// Close detaches the table from the coordinator.
func (v *View) Close() {
	v.table.Unsubscribe()
}

// Load enters the view with the filters encoded in values.
func (v *View) Load(values url.Values) error {
	state, err := filter.ParseValues(values, v.page.DefaultRows())
	if err != nil {
		return err
	}
	return v.LoadState(state)
}

// LoadState enters the view with an already parsed filter state.
func (v *View) LoadState(state filter.State) error {
	v.page.Reset()
	v.filters.Filters().Update(state)
	v.filters.Apply()
	return v.err
}

// SearchFolio enters the view searching a single folio.
func (v *View) SearchFolio(folio string) error {
	v.page.Reset()
	v.filters.SearchFolio(folio)
	return v.err
}

// Result snapshots the view for rendering.
func (v *View) Result() Result {
	items := v.items
	if items == nil {
		items = []Ticket{}
	}
	return Result{
		ViewID:    v.ID,
		Filters:   v.filters.Filters().Current(),
		Page:      v.page.Snapshot(),
		PageIndex: v.page.PageIndex(),
		PageCount: v.page.PageCount(),
		Items:     items,
	}
}

func (v *View) onFilters(evt filter.Event) error {
	switch evt.Key {
	case filter.CommandApply, filter.CommandClear, filter.CommandSearchFolio, filter.CommandRemove, filter.CommandFollowUpRegistered:
	default:
		return nil
	}
	v.err = v.fetch(evt.Value)
	return v.err
}

func (v *View) fetch(state filter.State) error {
	if v.query == nil {
		return fmt.Errorf("tickets: no query service configured")
	}
	v.page.Change(true, v.page.TotalRecords)
	result, err := v.query.ListTickets(v.ctx, state)
	if err != nil {
		v.page.Change(false, v.page.TotalRecords)
		return fmt.Errorf("tickets: list: %w", err)
	}
	v.items = result.Items
	v.page.Change(false, result.Total)
	rows := state.RowsPerPage()
	v.page.ChangePage(state.Page()*rows, rows)
	if v.logger != nil {
		v.logger.Debug("tickets fetched",
			slog.String("view", v.ID),
			slog.Int("page", state.Page()),
			slog.Int("total", result.Total))
	}
	return nil
}
