package paging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLeavesFieldsUnset(t *testing.T) {
	s := New(30)
	assert.Equal(t, Display{}, s.Snapshot())
	assert.Equal(t, 30, s.DefaultRows())
}

func TestResetWinsOverPriorPagination(t *testing.T) {
	s := New(30)
	s.ChangePage(40, 10)
	s.Change(false, 125)

	s.Reset()

	assert.Equal(t, Display{First: 0, Rows: 30, TotalRecords: 0, Loading: true}, s.Snapshot())
}

func TestFetchLifecycle(t *testing.T) {
	s := New(30)
	s.Reset()
	s.Change(true, 0)
	assert.True(t, s.Loading)

	s.Change(false, 95)
	assert.False(t, s.Loading)
	assert.Equal(t, 95, s.TotalRecords)
	assert.Equal(t, 4, s.PageCount())

	s.ChangePage(60, 30)
	assert.Equal(t, 2, s.PageIndex())
	assert.Equal(t, 95, s.TotalRecords, "page changes keep the known total")
}

func TestPageHelpersWithoutRows(t *testing.T) {
	s := New(0)
	s.ChangePage(10, 0)

	assert.Zero(t, s.PageIndex())
	assert.Zero(t, s.PageCount())
}

func TestDisplayJSON(t *testing.T) {
	s := New(20)
	s.Reset()

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"first":0,"totalRecords":0,"rows":20,"loading":true}`, string(data))
}
