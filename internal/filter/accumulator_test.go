package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-desk/frontdesk/internal/query"
)

func TestNewAccumulatorStartsWithInitialRows(t *testing.T) {
	acc := NewAccumulator()
	state := acc.Current()

	assert.Equal(t, 0, state.Page())
	assert.Equal(t, InitialRowsPerPage, state.RowsPerPage())
	assert.Equal(t, 2, state.Len())
}

func TestBuildEndToEnd(t *testing.T) {
	acc := NewAccumulator()
	acc.SetUnit(7)
	acc.SetStatus(2)
	acc.SetPage(1, 20)

	built := acc.Build()

	want := query.NewRecord()
	want.Set(string(FieldUnit), int64(7))
	want.Set(string(FieldStatus), int64(2))
	want.Set(string(FieldPage), 1)
	want.Set(string(FieldRowsPerPage), 20)
	assert.True(t, built.Equal(StateFromRecord(want)), "got %v", built.Fields())
	assert.Equal(t, 4, built.Len())
}

func TestResetAlwaysYieldsDefaultPagination(t *testing.T) {
	acc := NewAccumulator()
	acc.SetUnit(3)
	acc.SetFolio("F-10")
	acc.SetRole(RoleDestination, 11)
	acc.SetPage(5, 50)

	acc.Reset()
	state := acc.Current()

	assert.Equal(t, []Field{FieldPage, FieldRowsPerPage}, state.Fields())
	assert.Equal(t, 0, state.Page())
	assert.Equal(t, DefaultRowsPerPage, state.RowsPerPage())
}

func TestResetUsesConfiguredDefault(t *testing.T) {
	acc := NewAccumulator(WithDefaultRows(15))
	assert.Equal(t, InitialRowsPerPage, acc.Current().RowsPerPage())

	acc.Reset()
	assert.Equal(t, 15, acc.Current().RowsPerPage())
}

func TestMutatorsOnlyTouchNamedFields(t *testing.T) {
	acc := NewAccumulator()
	acc.SetUnit(1)
	acc.SetArea(4)
	before := acc.Current()

	acc.SetStatus(9)
	after := acc.Current()

	unit, _ := after.Get(FieldUnit)
	area, _ := after.Get(FieldArea)
	assert.Equal(t, int64(1), unit)
	assert.Equal(t, int64(4), area)
	assert.Equal(t, before.Page(), after.Page())
	assert.Equal(t, before.RowsPerPage(), after.RowsPerPage())
	assert.True(t, after.Has(FieldStatus))
}

func TestBuildPrunesLiveState(t *testing.T) {
	acc := NewAccumulator()
	acc.Set(FieldZone, nil)
	acc.Set(FieldArea, query.Undefined)
	acc.SetFolio("")

	require.True(t, acc.Current().Has(FieldZone))
	built := acc.Build()

	assert.False(t, built.Has(FieldZone))
	assert.False(t, built.Has(FieldArea))
	assert.True(t, built.Has(FieldFolio), "empty strings survive default normalization")
	assert.False(t, acc.Current().Has(FieldZone), "build persists the normalized state")
	assert.True(t, acc.Build().Equal(built))
}

func TestBuildNeverEmitsNullOrUndefined(t *testing.T) {
	acc := NewAccumulator()
	acc.SetDateRange(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Time{})
	acc.Set(FieldPublished, nil)
	acc.SetPublished(true)
	acc.Set(FieldOriginRole, nil)
	acc.SetUnit(0)

	built := acc.Build()
	rec := built.Record()
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		assert.NotNil(t, pair.Value, pair.Key)
		assert.False(t, query.IsUndefined(pair.Value), pair.Key)
	}
	since, ok := built.Get(FieldSince)
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", since)
	assert.False(t, built.Has(FieldUntil))
	assert.True(t, built.Has(FieldPublished))
	assert.True(t, built.Has(FieldUnit), "zero ids are kept")
}

func TestUpdateReplacesWholesale(t *testing.T) {
	acc := NewAccumulator()
	acc.SetUnit(1)

	next := NewState(2, 10)
	next.set(FieldZone, int64(8))
	acc.Update(next)
	next.set(FieldFolio, "late")

	state := acc.Current()
	assert.False(t, state.Has(FieldUnit))
	assert.False(t, state.Has(FieldFolio), "update copies its input")
	assert.Equal(t, 2, state.Page())
	assert.Equal(t, 10, state.RowsPerPage())
}

func TestUpdateWithZeroStateFallsBackToDefaults(t *testing.T) {
	acc := NewAccumulator()
	acc.Update(State{})

	assert.Equal(t, DefaultRowsPerPage, acc.Current().RowsPerPage())
}

func TestRemoveKeepsPagination(t *testing.T) {
	acc := NewAccumulator()
	acc.SetUnit(5)
	acc.Remove(FieldUnit)
	acc.Remove(FieldPage)

	state := acc.Current()
	assert.False(t, state.Has(FieldUnit))
	assert.True(t, state.Has(FieldPage))
}

func TestRoleFields(t *testing.T) {
	cases := map[Role]Field{
		RoleOrigin:       FieldOriginRole,
		RoleResponsible:  FieldResponsibleRole,
		RoleCollaborator: FieldCollaboratorRole,
		RoleGenerating:   FieldGeneratingRole,
		RoleDestination:  FieldDestinationRole,
	}
	for role, field := range cases {
		assert.Equal(t, field, role.Field())
	}
}

func TestStateMarshalJSON(t *testing.T) {
	acc := NewAccumulator()
	acc.SetUnit(7)

	data, err := acc.Build().MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":0,"rowsPerPage":20,"unidadId":7}`, string(data))
}
