package utils

import "reflect"

/**
 * Clone returns an independent deep copy of v. Value types (numbers, strings,
 * booleans) pass through unchanged; maps, slices, arrays and pointers are
 * copied recursively; structs are copied field-wise through a JSON round trip
 * so unexported plumbing never leaks. The result shares no mutable structure
 * with the input, which is what lets callers embed payloads in keyframes or
 * snapshots without isolation bugs.
 */
func Clone[T any](v T) T {
	cloned, ok := DeepClone(v).(T)
	if !ok {
		// only reachable when v is a nil interface value
		var zero T
		return zero
	}
	return cloned
}

func DeepClone(v any) any {
	if v == nil {
		return nil
	}
	return cloneValue(reflect.ValueOf(v)).Interface()
}

func cloneValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		m := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return m

	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		s := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s.Index(i).Set(cloneValue(rv.Index(i)))
		}
		return s

	case reflect.Array:
		a := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			a.Index(i).Set(cloneValue(rv.Index(i)))
		}
		return a

	case reflect.Ptr:
		if rv.IsNil() {
			return rv
		}
		p := reflect.New(rv.Type().Elem())
		p.Elem().Set(cloneValue(rv.Elem()))
		return p

	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		return cloneValue(rv.Elem()).Convert(rv.Type())

	case reflect.Struct:
		return cloneStruct(rv)

	default:
		return rv
	}
}

func cloneStruct(rv reflect.Value) reflect.Value {
	p := reflect.New(rv.Type())
	b, err := Serialize(rv.Interface())
	if err != nil {
		// not serializable, fall back to a shallow copy
		p.Elem().Set(rv)
		return p.Elem()
	}
	if err := Unserialize(b, p.Interface()); err != nil {
		p.Elem().Set(rv)
	}
	return p.Elem()
}
