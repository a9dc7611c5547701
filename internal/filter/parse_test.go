package filter

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-desk/frontdesk/internal/platform/httpx"
)

func TestParseValues(t *testing.T) {
	values := url.Values{}
	values.Set("unidadId", "7")
	values.Set("publicado", "true")
	values.Set("since", "2024-02-01")
	values.Set("folio", " ABC ")
	values.Set("page", "3")
	values.Set("ignored", "x")
	values.Set("zonaId", "")

	state, err := ParseValues(values, 30)
	require.NoError(t, err)

	unit, _ := state.Get(FieldUnit)
	published, _ := state.Get(FieldPublished)
	folio, _ := state.Get(FieldFolio)
	assert.Equal(t, int64(7), unit)
	assert.Equal(t, true, published)
	assert.Equal(t, "ABC", folio)
	assert.Equal(t, 3, state.Page())
	assert.Equal(t, 30, state.RowsPerPage())
	assert.False(t, state.Has(FieldZone))
	assert.False(t, state.Has(Field("ignored")))
}

func TestParseValuesRejectsMalformedInput(t *testing.T) {
	cases := []url.Values{
		{"unidadId": {"seven"}},
		{"publicado": {"maybe"}},
		{"until": {"01/02/2024"}},
		{"page": {"-1"}},
		{"rowsPerPage": {"0"}},
	}
	for _, values := range cases {
		_, err := ParseValues(values, 30)
		require.Error(t, err, "%v", values)
		assert.True(t, errors.Is(err, httpx.ErrValidation), "%v", err)
	}
}

func TestParseValuesRoundTripsThroughValues(t *testing.T) {
	acc := NewAccumulator()
	acc.SetUnit(7)
	acc.SetStatus(2)
	acc.SetPage(1, 20)

	built := acc.Build()
	parsed, err := ParseValues(built.Values(), 30)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(built))
}
