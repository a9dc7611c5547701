package tickets

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-desk/frontdesk/internal/filter"
	"github.com/folio-desk/frontdesk/internal/paging"
)

type fakeQuery struct {
	calls []filter.State
	page  Page
	err   error
	// loading captures the page display while the fetch is in flight.
	loading []bool
	view    *View
}

func (f *fakeQuery) ListTickets(ctx context.Context, state filter.State) (Page, error) {
	f.calls = append(f.calls, state)
	if f.view != nil {
		f.loading = append(f.loading, f.view.Page().Loading)
	}
	if f.err != nil {
		return Page{}, f.err
	}
	return f.page, nil
}

func sampleTickets(n int) []Ticket {
	items := make([]Ticket, n)
	for i := range items {
		items[i] = Ticket{ID: int64(i + 1), Folio: "F-" + string(rune('A'+i))}
	}
	return items
}

func TestViewLoadFetchesBuiltFilters(t *testing.T) {
	q := &fakeQuery{page: Page{Items: sampleTickets(2), Total: 42}}
	view := NewView(context.Background(), ViewConfig{Query: q, DefaultRows: 30})
	q.view = view
	defer view.Close()

	err := view.Load(url.Values{"unidadId": {"7"}, "estatusId": {"2"}, "page": {"1"}, "rowsPerPage": {"20"}})
	require.NoError(t, err)

	require.Len(t, q.calls, 1)
	assert.Equal(t, url.Values{"unidadId": {"7"}, "estatusId": {"2"}, "page": {"1"}, "rowsPerPage": {"20"}}, q.calls[0].Values())
	assert.Equal(t, []bool{true}, q.loading)

	res := view.Result()
	assert.Equal(t, paging.Display{First: 20, Rows: 20, TotalRecords: 42, Loading: false}, res.Page)
	assert.Equal(t, 1, res.PageIndex)
	assert.Equal(t, 3, res.PageCount)
	assert.Len(t, res.Items, 2)
	assert.NotEmpty(t, res.ViewID)
}

func TestViewLoadStateUsesGivenFilters(t *testing.T) {
	q := &fakeQuery{page: Page{Total: 5}}
	view := NewView(context.Background(), ViewConfig{Query: q, DefaultRows: 30})
	defer view.Close()
	state, err := filter.ParseValues(url.Values{"zonaId": {"3"}, "page": {"2"}, "rowsPerPage": {"10"}}, 30)
	require.NoError(t, err)

	require.NoError(t, view.LoadState(state))

	require.Len(t, q.calls, 1)
	assert.True(t, q.calls[0].Equal(state))
	assert.Equal(t, paging.Display{First: 20, Rows: 10, TotalRecords: 5}, view.Result().Page)
}

func TestViewLoadDefaultsToConfiguredRows(t *testing.T) {
	q := &fakeQuery{}
	view := NewView(context.Background(), ViewConfig{Query: q, DefaultRows: 30})
	defer view.Close()

	require.NoError(t, view.Load(url.Values{}))

	require.Len(t, q.calls, 1)
	assert.Equal(t, 30, q.calls[0].RowsPerPage())
	assert.Equal(t, 0, q.calls[0].Page())
	assert.Empty(t, view.Result().Items)
	assert.NotNil(t, view.Result().Items)
}

func TestViewRecordsQueryFailure(t *testing.T) {
	boom := errors.New("backend down")
	q := &fakeQuery{err: boom}
	view := NewView(context.Background(), ViewConfig{Query: q})
	defer view.Close()

	err := view.Load(url.Values{"folio": {"X"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, view.Page().Loading)
	assert.ErrorIs(t, view.Err(), boom)
}

func TestViewSearchFolio(t *testing.T) {
	q := &fakeQuery{page: Page{Items: sampleTickets(1), Total: 1}}
	view := NewView(context.Background(), ViewConfig{Query: q, DefaultRows: 30})
	defer view.Close()
	view.Filters().Filters().SetPage(3, 10)

	require.NoError(t, view.SearchFolio("OF-99"))

	require.Len(t, q.calls, 1)
	folio, _ := q.calls[0].Get(filter.FieldFolio)
	assert.Equal(t, "OF-99", folio)
	assert.Equal(t, 0, q.calls[0].Page())
	assert.Equal(t, 10, q.calls[0].RowsPerPage())
}

func TestViewRefetchesOnFollowUp(t *testing.T) {
	q := &fakeQuery{}
	view := NewView(context.Background(), ViewConfig{Query: q})
	defer view.Close()

	view.Filters().Filters().SetUnit(4)
	view.Filters().NotifyFollowUp()

	require.Len(t, q.calls, 1)
	assert.True(t, q.calls[0].Has(filter.FieldUnit))
}

func TestClosedViewStopsListening(t *testing.T) {
	q := &fakeQuery{}
	view := NewView(context.Background(), ViewConfig{Query: q})
	view.Close()

	view.Filters().Apply()

	assert.Empty(t, q.calls)
}

func TestViewRejectsMalformedFilters(t *testing.T) {
	q := &fakeQuery{}
	view := NewView(context.Background(), ViewConfig{Query: q})
	defer view.Close()

	assert.Error(t, view.Load(url.Values{"zonaId": {"north"}}))
	assert.Empty(t, q.calls)
}
