package models

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Resolve looks up a dotted field path (json names, numeric list indexes) in
// the aggregate. Pointer leaves are returned as-is so a nil pointer still
// reads as "unset". ok is false when the path does not exist or crosses a nil.
func Resolve(data OnboardingData, path string) (value any, ok bool) {
	if path == "" {
		return nil, false
	}
	v := reflect.ValueOf(data)
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		if i > 0 {
			for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
				if v.IsNil() {
					return nil, false
				}
				v = v.Elem()
			}
		}
		switch v.Kind() {
		case reflect.Struct:
			idx, found := fieldIndex(v.Type(), seg)
			if !found {
				return nil, false
			}
			v = v.Field(idx)
		case reflect.Slice, reflect.Array:
			n, err := strconv.Atoi(seg)
			if err != nil || n < 0 || n >= v.Len() {
				return nil, false
			}
			v = v.Index(n)
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			v = v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
			if !v.IsValid() {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil, true
	}
	return v.Interface(), true
}

var fieldIndexCache sync.Map // map[reflect.Type]map[string]int

func fieldIndex(t reflect.Type, name string) (int, bool) {
	if cached, ok := fieldIndexCache.Load(t); ok {
		idx, found := cached.(map[string]int)[name]
		return idx, found
	}
	index := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		switch tag {
		case "-":
			continue
		case "":
			index[f.Name] = i
		default:
			index[tag] = i
		}
	}
	fieldIndexCache.Store(t, index)
	idx, found := index[name]
	return idx, found
}
