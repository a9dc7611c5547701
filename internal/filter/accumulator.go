package filter

import (
	"time"

	"github.com/folio-desk/frontdesk/internal/query"
)

// Role selects one of the department-role filters.
type Role int

// Department roles a ticket can be filtered by.
const (
	RoleOrigin Role = iota
	RoleResponsible
	RoleCollaborator
	RoleGenerating
	RoleDestination
)

// Field maps the role to its query field.
func (r Role) Field() Field {
	switch r {
	case RoleResponsible:
		return FieldResponsibleRole
	case RoleCollaborator:
		return FieldCollaboratorRole
	case RoleGenerating:
		return FieldGeneratingRole
	case RoleDestination:
		return FieldDestinationRole
	default:
		return FieldOriginRole
	}
}

// Accumulator is the mutable source of truth for the query a view is asking.
// Mutators never publish; callers announce changes once they are done.
// An Accumulator belongs to a single view and is not safe for concurrent use.
type Accumulator struct {
	state       State
	defaultRows int
}

// AccumulatorOption configures an Accumulator.
type AccumulatorOption func(*Accumulator)

// WithDefaultRows sets the page size restored by Reset.
func WithDefaultRows(rows int) AccumulatorOption {
	return func(a *Accumulator) {
		if rows > 0 {
			a.defaultRows = rows
		}
	}
}

// NewAccumulator starts at page 0 with InitialRowsPerPage rows.
func NewAccumulator(opts ...AccumulatorOption) *Accumulator {
	a := &Accumulator{
		state:       NewState(0, InitialRowsPerPage),
		defaultRows: DefaultRowsPerPage,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultRows returns the page size used by Reset.
func (a *Accumulator) DefaultRows() int {
	return a.defaultRows
}

// Update replaces the accumulated state wholesale.
func (a *Accumulator) Update(state State) {
	a.state = state.Clone()
	if a.state.rec == nil {
		a.state = NewState(0, a.defaultRows)
	}
}

// Reset discards every filter and restores the default pagination.
func (a *Accumulator) Reset() {
	a.state = NewState(0, a.defaultRows)
}

// SetPage sets the page index and page size.
func (a *Accumulator) SetPage(page, rowsPerPage int) {
	a.state.set(FieldPage, page)
	a.state.set(FieldRowsPerPage, rowsPerPage)
}

// SetUnit filters by unit id.
func (a *Accumulator) SetUnit(id int64) {
	a.state.set(FieldUnit, id)
}

// SetStatus filters by status id.
func (a *Accumulator) SetStatus(id int64) {
	a.state.set(FieldStatus, id)
}

// SetFolio filters by folio text.
func (a *Accumulator) SetFolio(folio string) {
	a.state.set(FieldFolio, folio)
}

// SetArea filters by area id.
func (a *Accumulator) SetArea(id int64) {
	a.state.set(FieldArea, id)
}

// SetZone filters by zone id.
func (a *Accumulator) SetZone(id int64) {
	a.state.set(FieldZone, id)
}

// SetPublished filters by the published flag.
func (a *Accumulator) SetPublished(published bool) {
	a.state.set(FieldPublished, published)
}

// SetRole filters by a department-role id.
func (a *Accumulator) SetRole(role Role, id int64) {
	a.state.set(role.Field(), id)
}

// SetDateRange sets the since/until bounds. A zero time marks that bound
// undefined so Build drops it.
func (a *Accumulator) SetDateRange(since, until time.Time) {
	a.state.set(FieldSince, dateValue(since))
	a.state.set(FieldUntil, dateValue(until))
}

func dateValue(t time.Time) any {
	if t.IsZero() {
		return query.Undefined
	}
	return t.Format(query.DateLayout)
}

// Set assigns a raw value to f.
func (a *Accumulator) Set(f Field, value any) {
	a.state.set(f, value)
}

// Remove drops f from the state. Pagination fields are kept.
func (a *Accumulator) Remove(f Field) {
	if f == FieldPage || f == FieldRowsPerPage {
		return
	}
	a.state.remove(f)
}

// Current returns a snapshot of the live state without pruning it.
func (a *Accumulator) Current() State {
	return a.state.Clone()
}

// Build normalizes the live state, keeps the normalized result as the new
// live state and returns a snapshot of it.
func (a *Accumulator) Build() State {
	a.state = State{rec: query.Normalize(a.state.rec, query.DefaultOptions())}
	return a.state.Clone()
}
