// Package filter accumulates the query parameters of a list view and
// coordinates filter panels with the tables rendering their results.
package filter

import (
	"encoding/json"
	"net/url"

	"github.com/folio-desk/frontdesk/internal/query"
)

// Field is a query-parameter name understood by the backend.
type Field string

// Recognized filter fields. The keys are the backend query contract.
const (
	FieldUnit             Field = "unidadId"
	FieldStatus           Field = "estatusId"
	FieldArea             Field = "areaId"
	FieldPublished        Field = "publicado"
	FieldOriginRole       Field = "departamentoRolOrigenId"
	FieldResponsibleRole  Field = "departamentoRolResponsableId"
	FieldCollaboratorRole Field = "departamentoRolColaboradorId"
	FieldGeneratingRole   Field = "departamentoRolGeneradorId"
	FieldDestinationRole  Field = "departamentoRolDestinoId"
	FieldZone             Field = "zonaId"
	FieldFolio            Field = "folio"
	FieldSince            Field = "since"
	FieldUntil            Field = "until"
	FieldPage             Field = "page"
	FieldRowsPerPage      Field = "rowsPerPage"
)

// Page size defaults. A fresh accumulator starts at InitialRowsPerPage while
// Reset falls back to the configured DefaultRowsPerPage.
const (
	InitialRowsPerPage = 20
	DefaultRowsPerPage = 30
)

// Fields lists every recognized field in wire order.
var Fields = []Field{
	FieldUnit, FieldStatus, FieldArea, FieldPublished,
	FieldOriginRole, FieldResponsibleRole, FieldCollaboratorRole, FieldGeneratingRole, FieldDestinationRole,
	FieldZone, FieldFolio, FieldSince, FieldUntil,
	FieldPage, FieldRowsPerPage,
}

// State is a snapshot of filter values plus the pagination cursor.
type State struct {
	rec *query.Record
}

// NewState returns a state carrying only pagination fields.
func NewState(page, rowsPerPage int) State {
	rec := query.NewRecord()
	rec.Set(string(FieldPage), page)
	rec.Set(string(FieldRowsPerPage), rowsPerPage)
	return State{rec: rec}
}

// StateFromRecord copies rec into a State.
func StateFromRecord(rec *query.Record) State {
	return State{rec: query.Clone(rec)}
}

// Page returns the zero-based page index.
func (s State) Page() int {
	return s.intField(FieldPage)
}

// RowsPerPage returns the page size.
func (s State) RowsPerPage() int {
	return s.intField(FieldRowsPerPage)
}

func (s State) intField(f Field) int {
	v, ok := s.Get(f)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

// Get returns the raw value of f.
func (s State) Get(f Field) (any, bool) {
	if s.rec == nil {
		return nil, false
	}
	return s.rec.Get(string(f))
}

// Has reports whether f is present, even when it holds null or undefined.
func (s State) Has(f Field) bool {
	_, ok := s.Get(f)
	return ok
}

// Len returns the number of present fields.
func (s State) Len() int {
	if s.rec == nil {
		return 0
	}
	return s.rec.Len()
}

// Fields returns the present field names in order.
func (s State) Fields() []Field {
	keys := query.Keys(s.rec)
	out := make([]Field, len(keys))
	for i, k := range keys {
		out[i] = Field(k)
	}
	return out
}

// Record returns a copy of the underlying record.
func (s State) Record() *query.Record {
	return query.Clone(s.rec)
}

// Clone returns an independent copy.
func (s State) Clone() State {
	return State{rec: query.Clone(s.rec)}
}

// Equal compares field values irrespective of order.
func (s State) Equal(other State) bool {
	return query.Equal(s.rec, other.rec)
}

// Values encodes the state as URL query parameters.
func (s State) Values() url.Values {
	return query.Values(s.rec)
}

// MarshalJSON encodes the state as an ordered JSON object.
func (s State) MarshalJSON() ([]byte, error) {
	if s.rec == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.rec)
}

func (s *State) set(f Field, v any) {
	if s.rec == nil {
		s.rec = query.NewRecord()
	}
	s.rec.Set(string(f), v)
}

func (s *State) remove(f Field) {
	if s.rec == nil {
		return
	}
	s.rec.Delete(string(f))
}
