package bind

import (
	"reflect"
	"strconv"
	"strings"
)

// lookup reads key from a container: map[string]any, Collection, []any,
// string-keyed maps, structs and pointers to structs.
func lookup(container any, key string) (any, bool) {
	switch v := container.(type) {
	case nil:
		return nil, false
	case map[string]any:
		val, ok := v[key]
		return val, ok
	case Collection:
		i, ok := index(key, v.Len())
		if !ok {
			return nil, false
		}
		return v.At(i), true
	case []any:
		i, ok := index(key, len(v))
		if !ok {
			return nil, false
		}
		return v[i], true
	}

	rv := reflect.ValueOf(container)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := index(key, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		f := rv.FieldByName(key)
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

// store writes key into a container. It reports whether the container
// accepted the write.
func store(container any, key string, value any) bool {
	switch v := container.(type) {
	case nil:
		return false
	case map[string]any:
		v[key] = value
		return true
	case Collection:
		i, ok := index(key, v.Len())
		if !ok {
			return false
		}
		v.SetAt(i, value)
		return true
	case []any:
		i, ok := index(key, len(v))
		if !ok {
			return false
		}
		v[i] = value
		return true
	}

	rv := reflect.ValueOf(container)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		k := reflect.ValueOf(key).Convert(rv.Type().Key())
		if value == nil {
			rv.SetMapIndex(k, reflect.Zero(rv.Type().Elem()))
			return true
		}
		val := reflect.ValueOf(value)
		if !val.Type().AssignableTo(rv.Type().Elem()) {
			return false
		}
		rv.SetMapIndex(k, val)
		return true
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		f := rv.Elem().FieldByName(key)
		if !f.IsValid() || !f.CanSet() {
			return false
		}
		if value == nil {
			f.Set(reflect.Zero(f.Type()))
			return true
		}
		val := reflect.ValueOf(value)
		if val.Type().AssignableTo(f.Type()) {
			f.Set(val)
			return true
		}
		if val.Type().ConvertibleTo(f.Type()) {
			f.Set(val.Convert(f.Type()))
			return true
		}
	}
	return false
}

// unset removes key from a container. Maps drop the key; sequences keep
// their length and clear the slot.
func unset(container any, key string) {
	switch v := container.(type) {
	case map[string]any:
		delete(v, key)
		return
	}
	rv := reflect.ValueOf(container)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		rv.SetMapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()), reflect.Value{})
		return
	}
	store(container, key, nil)
}

func index(key string, length int) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

func splitPath(ref string) []string {
	return strings.Split(ref, ".")
}
