package query

import "reflect"

// Options selects which field values Normalize strips.
type Options struct {
	RemoveUndefined   bool
	RemoveNull        bool
	RemoveEmptyString bool
	// RemoveZero is opt-in because 0 is frequently a legitimate id.
	RemoveZero bool
}

// DefaultOptions drops undefined and null fields only.
func DefaultOptions() Options {
	return Options{RemoveUndefined: true, RemoveNull: true}
}

// Normalize returns a copy of rec without the fields selected by opts. The
// remaining fields keep their order and rec is left untouched.
func Normalize(rec *Record, opts Options) *Record {
	out := NewRecord()
	if rec == nil {
		return out
	}
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		if opts.drops(pair.Value) {
			continue
		}
		out.Set(pair.Key, pair.Value)
	}
	return out
}

func (o Options) drops(v any) bool {
	switch {
	case IsUndefined(v):
		return o.RemoveUndefined
	case isNull(v):
		return o.RemoveNull
	}
	if s, ok := v.(string); ok {
		return o.RemoveEmptyString && s == ""
	}
	return o.RemoveZero && isZeroNumber(v)
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func isZeroNumber(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	default:
		return false
	}
}
