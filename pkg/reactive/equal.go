package reactive

import (
	"math"
	"reflect"
)

// SameValueZero reports whether a and b are the same value. NaN equals NaN.
// Values of non-comparable types (slices, maps, funcs) are equal only when
// they share the same backing storage.
func SameValueZero(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNaN(a) && isNaN(b) {
		return true
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

// HasChanged is the negation of SameValueZero.
func HasChanged(value, oldValue any) bool {
	return !SameValueZero(value, oldValue)
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

type nanKey struct{}

// normKey maps a collection key to the form used in the backing Go map.
// All NaNs collapse to one key, matching SameValueZero.
func normKey(k any) any {
	if isNaN(k) {
		return nanKey{}
	}
	return k
}
