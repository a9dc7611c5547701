package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/folio-desk/frontdesk/internal/platform/httpx"
	"github.com/folio-desk/frontdesk/internal/query"
)

type fieldKind int

const (
	kindID fieldKind = iota
	kindBool
	kindText
	kindDate
	kindInt
)

var fieldKinds = map[Field]fieldKind{
	FieldUnit:             kindID,
	FieldStatus:           kindID,
	FieldArea:             kindID,
	FieldPublished:        kindBool,
	FieldOriginRole:       kindID,
	FieldResponsibleRole:  kindID,
	FieldCollaboratorRole: kindID,
	FieldGeneratingRole:   kindID,
	FieldDestinationRole:  kindID,
	FieldZone:             kindID,
	FieldFolio:            kindText,
	FieldSince:            kindDate,
	FieldUntil:            kindDate,
	FieldPage:             kindInt,
	FieldRowsPerPage:      kindInt,
}

// ParseValues reads a state from URL query parameters. Unknown keys and blank
// values are ignored; missing pagination falls back to page 0 and defaultRows.
func ParseValues(values url.Values, defaultRows int) (State, error) {
	if defaultRows <= 0 {
		defaultRows = DefaultRowsPerPage
	}
	state := NewState(0, defaultRows)
	for _, f := range Fields {
		raw := strings.TrimSpace(values.Get(string(f)))
		if raw == "" {
			continue
		}
		v, err := parseField(f, raw)
		if err != nil {
			return State{}, err
		}
		state.set(f, v)
	}
	if state.Page() < 0 {
		return State{}, fmt.Errorf("filter: page must not be negative: %w", httpx.ErrValidation)
	}
	if state.RowsPerPage() <= 0 {
		return State{}, fmt.Errorf("filter: rowsPerPage must be positive: %w", httpx.ErrValidation)
	}
	return state, nil
}

func parseField(f Field, raw string) (any, error) {
	switch fieldKinds[f] {
	case kindID:
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, invalid(f, raw)
		}
		return id, nil
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalid(f, raw)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid(f, raw)
		}
		return b, nil
	case kindDate:
		t, err := time.Parse(query.DateLayout, raw)
		if err != nil {
			return nil, invalid(f, raw)
		}
		return t.Format(query.DateLayout), nil
	default:
		return raw, nil
	}
}

func invalid(f Field, raw string) error {
	return fmt.Errorf("filter: invalid %s %q: %w", f, raw, httpx.ErrValidation)
}
