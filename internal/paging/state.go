// Package paging tracks the pagination window a table displays, apart from
// the query that produced it.
package paging

// Display is the JSON view of a State handed to table renderers.
type Display struct {
	First        int  `json:"first"`
	TotalRecords int  `json:"totalRecords"`
	Rows         int  `json:"rows"`
	Loading      bool `json:"loading"`
}

// State is the page display bookkeeping of a single table. It emits nothing;
// tables read its fields directly.
type State struct {
	First        int
	TotalRecords int
	Rows         int
	Loading      bool

	defaultRows int
}

// New returns a State with every display field unset. defaultRows is the
// page size Reset restores.
func New(defaultRows int) *State {
	return &State{defaultRows: defaultRows}
}

// DefaultRows returns the page size Reset restores.
func (s *State) DefaultRows() int {
	return s.defaultRows
}

// Reset prepares the table for a view (re)entry before the first fetch lands.
func (s *State) Reset() {
	s.First = 0
	s.Rows = s.defaultRows
	s.TotalRecords = 0
	s.Loading = true
}

// Change records a fetch being issued or resolved.
func (s *State) Change(loading bool, totalRecords int) {
	s.Loading = loading
	s.TotalRecords = totalRecords
}

// ChangePage records a user page or page-size change. first is a record
// offset, not a page number.
func (s *State) ChangePage(first, rows int) {
	s.First = first
	s.Rows = rows
}

// PageIndex converts the offset into a zero-based page number.
func (s *State) PageIndex() int {
	if s.Rows <= 0 {
		return 0
	}
	return s.First / s.Rows
}

// PageCount returns the number of pages needed for TotalRecords.
func (s *State) PageCount() int {
	if s.Rows <= 0 || s.TotalRecords <= 0 {
		return 0
	}
	return (s.TotalRecords + s.Rows - 1) / s.Rows
}

// Snapshot copies the display fields.
func (s *State) Snapshot() Display {
	return Display{
		First:        s.First,
		TotalRecords: s.TotalRecords,
		Rows:         s.Rows,
		Loading:      s.Loading,
	}
}
