// Package tickets renders the ticket list: a filter coordinator and a page
// display state wired to the backend query service.
package tickets

import (
	"context"
	"time"

	"github.com/folio-desk/frontdesk/internal/filter"
)

// Ticket is a row of the ticket table.
type Ticket struct {
	ID        int64     `json:"id"`
	Folio     string    `json:"folio"`
	Subject   string    `json:"asunto"`
	UnitID    int64     `json:"unidadId"`
	StatusID  int64     `json:"estatusId"`
	Status    string    `json:"estatus"`
	AreaID    int64     `json:"areaId,omitempty"`
	ZoneID    int64     `json:"zonaId,omitempty"`
	Published bool      `json:"publicado"`
	CreatedAt time.Time `json:"fechaCreacion"`
}

// Page is one page of query results plus the total match count.
type Page struct {
	Items []Ticket `json:"items"`
	Total int      `json:"total"`
}

// Query lists tickets matching a built filter state.
type Query interface {
	ListTickets(ctx context.Context, state filter.State) (Page, error)
}
