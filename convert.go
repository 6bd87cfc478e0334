package monkey

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/podhmo/monkey/object"
)

// As converts the result's value into the Go value pointed to by target.
// It works much like json.Unmarshal: arrays become slices, hashes become
// maps and class instances fill the exported fields of a struct, matched
// case-insensitively.
func (r *Result) As(target any) error {
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}
	dstVal := reflect.ValueOf(target)
	if dstVal.Kind() != reflect.Ptr || dstVal.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, but got %T", target)
	}
	return unmarshal(r.Value, dstVal.Elem())
}

func unmarshal(src object.Object, dst reflect.Value) error {
	if !dst.CanSet() {
		return fmt.Errorf("cannot set destination value of type %s", dst.Type())
	}
	if _, ok := src.(*object.Null); ok {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	for dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}

	switch s := src.(type) {
	case *object.Integer:
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if s.Fractional {
				return fmt.Errorf("cannot unmarshal fractional number %s into %s", s.Inspect(), dst.Type())
			}
			dst.SetInt(s.Value)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if s.Fractional || s.Value < 0 {
				return fmt.Errorf("cannot unmarshal %s into %s", s.Inspect(), dst.Type())
			}
			dst.SetUint(uint64(s.Value))
		case reflect.Float32, reflect.Float64:
			dst.SetFloat(s.Number())
		case reflect.Interface:
			if s.Fractional {
				dst.Set(reflect.ValueOf(s.Float))
			} else {
				dst.Set(reflect.ValueOf(s.Value))
			}
		default:
			return fmt.Errorf("cannot unmarshal integer into %s", dst.Type())
		}
		return nil
	case *object.String:
		switch dst.Kind() {
		case reflect.String:
			dst.SetString(s.Value)
		case reflect.Interface:
			dst.Set(reflect.ValueOf(s.Value))
		default:
			return fmt.Errorf("cannot unmarshal string into %s", dst.Type())
		}
		return nil
	case *object.Boolean:
		switch dst.Kind() {
		case reflect.Bool:
			dst.SetBool(s.Value)
		case reflect.Interface:
			dst.Set(reflect.ValueOf(s.Value))
		default:
			return fmt.Errorf("cannot unmarshal boolean into %s", dst.Type())
		}
		return nil
	case *object.Array:
		sliceType := dst.Type()
		switch dst.Kind() {
		case reflect.Slice:
		case reflect.Interface:
			sliceType = reflect.TypeOf([]any{})
		default:
			return fmt.Errorf("cannot unmarshal array into non-slice type %s", dst.Type())
		}
		newSlice := reflect.MakeSlice(sliceType, len(s.Elements), len(s.Elements))
		for i, elem := range s.Elements {
			if err := unmarshal(elem, newSlice.Index(i)); err != nil {
				return fmt.Errorf("error in slice element %d: %w", i, err)
			}
		}
		dst.Set(newSlice)
		return nil
	case *object.Hash:
		if dst.Kind() == reflect.Interface {
			newMap := make(map[string]any, len(s.Pairs))
			for _, pair := range s.Pairs {
				var val any
				if err := unmarshal(pair.Value, reflect.ValueOf(&val).Elem()); err != nil {
					return fmt.Errorf("error in map value for key %s: %w", pair.Key.Inspect(), err)
				}
				key := pair.Key.Inspect()
				if str, ok := pair.Key.(*object.String); ok {
					key = str.Value
				}
				newMap[key] = val
			}
			dst.Set(reflect.ValueOf(newMap))
			return nil
		}
		if dst.Kind() != reflect.Map {
			return fmt.Errorf("cannot unmarshal hash into non-map type %s", dst.Type())
		}
		mapType := dst.Type()
		newMap := reflect.MakeMap(mapType)
		for _, pair := range s.Pairs {
			key := reflect.New(mapType.Key()).Elem()
			if err := unmarshal(pair.Key, key); err != nil {
				return fmt.Errorf("error in map key: %w", err)
			}
			val := reflect.New(mapType.Elem()).Elem()
			if err := unmarshal(pair.Value, val); err != nil {
				return fmt.Errorf("error in map value for key %v: %w", key, err)
			}
			newMap.SetMapIndex(key, val)
		}
		dst.Set(newMap)
		return nil
	case *object.ClassInstance:
		if dst.Kind() != reflect.Struct {
			return fmt.Errorf("cannot unmarshal instance into non-struct type %s", dst.Type())
		}
		dstFields := make(map[string]reflect.Value)
		for i := 0; i < dst.NumField(); i++ {
			field := dst.Type().Field(i)
			if field.PkgPath != "" {
				continue
			}
			dstFields[strings.ToLower(field.Name)] = dst.Field(i)
		}
		for _, name := range s.Env.Names() {
			dstField, ok := dstFields[strings.ToLower(name)]
			if !ok {
				continue
			}
			val, _ := s.Env.Get(name)
			if _, ok := val.(*object.Function); ok {
				continue
			}
			if err := unmarshal(val, dstField); err != nil {
				return fmt.Errorf("error in struct field %q: %w", name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported object type for unmarshaling: %s", src.Type())
	}
}

// FromGo converts a Go value into an object so it can be bound in a
// script's global scope. Objects and builtin functions pass through as is.
func FromGo(v any) (object.Object, error) {
	switch v := v.(type) {
	case nil:
		return object.NULL, nil
	case object.Object:
		return v, nil
	case object.BuiltinFunction:
		return &object.Builtin{Fn: v}, nil
	case func(ctx *object.BuiltinContext, args ...object.Object) object.Object:
		return &object.Builtin{Fn: v}, nil
	}
	return fromValue(reflect.ValueOf(v))
}

func fromValue(rv reflect.Value) (object.Object, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return object.NULL, nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Bool:
		if rv.Bool() {
			return object.TRUE, nil
		}
		return object.FALSE, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &object.Integer{Value: rv.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &object.Integer{Value: int64(rv.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return object.NewNumber(rv.Float()), nil
	case reflect.String:
		return &object.String{Value: rv.String()}, nil
	case reflect.Slice, reflect.Array:
		elements := make([]object.Object, rv.Len())
		for i := range elements {
			elem, err := fromValue(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elements[i] = elem
		}
		return &object.Array{Elements: elements}, nil
	case reflect.Map:
		pairs := make(map[object.HashKey]object.HashPair, rv.Len())
		for _, k := range rv.MapKeys() {
			key, err := fromValue(k)
			if err != nil {
				return nil, fmt.Errorf("map key %v: %w", k, err)
			}
			hashable, ok := key.(object.Hashable)
			if !ok {
				return nil, fmt.Errorf("unusable as hash key: %s", key.Type())
			}
			val, err := fromValue(rv.MapIndex(k))
			if err != nil {
				return nil, fmt.Errorf("map value for %v: %w", k, err)
			}
			pairs[hashable.HashKey()] = object.HashPair{Key: key, Value: val}
		}
		return &object.Hash{Pairs: pairs}, nil
	case reflect.Invalid:
		return object.NULL, nil
	default:
		return nil, fmt.Errorf("unsupported Go type %s", rv.Type())
	}
}
