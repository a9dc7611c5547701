// Package query holds the ordered query-parameter record exchanged with the
// backend and the normalization applied before it crosses the wire.
package query

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DateLayout is the date-only encoding used for range bounds.
const DateLayout = "2006-01-02"

// Record is an insertion-ordered mapping of field name to value.
type Record = orderedmap.OrderedMap[string, any]

type undefined struct{}

func (undefined) String() string { return "undefined" }

// MarshalJSON encodes an undefined field as null.
func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined marks a field that is present in a record but carries no value.
// A Go nil is the null value.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return orderedmap.New[string, any]()
}

// Clone copies rec preserving field order. Slice, map and pointer values are
// copied too, so the clone shares no mutable memory with rec. A nil rec
// yields an empty record.
func Clone(rec *Record) *Record {
	out := NewRecord()
	if rec == nil {
		return out
	}
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, cloneValue(pair.Value))
	}
	return out
}

func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(src reflect.Value) reflect.Value {
	switch src.Kind() {
	case reflect.Slice:
		if src.IsNil() {
			return src
		}
		dst := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			dst.Index(i).Set(deepCopy(src.Index(i)))
		}
		return dst
	case reflect.Map:
		if src.IsNil() {
			return src
		}
		dst := reflect.MakeMapWithSize(src.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return dst
	case reflect.Pointer:
		if src.IsNil() {
			return src
		}
		dst := reflect.New(src.Type().Elem())
		dst.Elem().Set(deepCopy(src.Elem()))
		return dst
	case reflect.Interface:
		if src.IsNil() {
			return src
		}
		dst := reflect.New(src.Type()).Elem()
		dst.Set(deepCopy(src.Elem()))
		return dst
	default:
		return src
	}
}

// Keys lists field names in order.
func Keys(rec *Record) []string {
	if rec == nil {
		return nil
	}
	keys := make([]string, 0, rec.Len())
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Equal reports whether both records hold the same fields with equal values,
// regardless of order.
func Equal(a, b *Record) bool {
	la, lb := 0, 0
	if a != nil {
		la = a.Len()
	}
	if b != nil {
		lb = b.Len()
	}
	if la != lb {
		return false
	}
	if la == 0 {
		return true
	}
	for pair := a.Oldest(); pair != nil; pair = pair.Next() {
		other, ok := b.Get(pair.Key)
		if !ok || !reflect.DeepEqual(pair.Value, other) {
			return false
		}
	}
	return true
}

// Values encodes rec as URL query parameters. Undefined and nil fields are
// skipped, so callers normally pass a normalized record.
func Values(rec *Record) url.Values {
	values := url.Values{}
	if rec == nil {
		return values
	}
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil || IsUndefined(pair.Value) {
			continue
		}
		values.Set(pair.Key, formatValue(pair.Value))
	}
	return values
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(DateLayout)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
