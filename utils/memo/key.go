package memo

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// ErrUnkeyableArgs is returned when the arguments of a call cannot be encoded
// into a cache key, for example a channel, a func, or a struct with
// unexported fields.
var ErrUnkeyableArgs = errors.New("memo: arguments cannot be encoded as a cache key")

// maxKeyDepth bounds nesting so cyclic values fail instead of recursing forever.
const maxKeyDepth = 64

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// Key derives the cache key for a call to the operation called name.
//
// Every argument, and every value held in an interface (such as the values
// of a map[string]any), is tagged with its dynamic type, so 1 and 1.0 never
// share a key. Map entries are sorted and struct fields keep their
// declaration order, so deep-equal arguments always produce the same key.
// Struct fields are read directly, ignoring json tags. Structs with
// unexported fields are rejected unless they implement
// encoding.TextMarshaler, since their state cannot be observed.
func Key(name string, args ...any) (string, error) {
	tagged := make([]any, len(args))
	for i, arg := range args {
		v, err := keyValue(reflect.ValueOf(arg), 0)
		if err != nil {
			return "", fmt.Errorf("%w: argument %d: %w", ErrUnkeyableArgs, i, err)
		}
		tagged[i] = []any{typeName(reflect.TypeOf(arg)), v}
	}

	encoded, err := json.Marshal(tagged)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnkeyableArgs, err)
	}

	return name + ":" + string(encoded), nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// keyValue turns v into a tree of strings, numbers, nils and slices that
// goccy/go-json encodes without loss.
func keyValue(v reflect.Value, depth int) (any, error) {
	if depth > maxKeyDepth {
		return nil, errors.New("value nested too deeply")
	}
	if !v.IsValid() {
		return nil, nil
	}

	if v.Kind() != reflect.Interface && v.Type().Implements(textMarshalerType) && v.CanInterface() {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil, nil
		}
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128), nil
	case reflect.String:
		return v.String(), nil

	case reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		elem := v.Elem()
		inner, err := keyValue(elem, depth+1)
		if err != nil {
			return nil, err
		}
		return []any{typeName(elem.Type()), inner}, nil

	case reflect.Pointer:
		if v.IsNil() {
			return nil, nil
		}
		return keyValue(v.Elem(), depth+1)

	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			item, err := keyValue(v.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil

	case reflect.Map:
		type pair struct {
			sortKey string
			entry   []any
		}
		pairs := make([]pair, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k, err := keyValue(iter.Key(), depth+1)
			if err != nil {
				return nil, err
			}
			val, err := keyValue(iter.Value(), depth+1)
			if err != nil {
				return nil, err
			}
			sortKey, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, pair{string(sortKey), []any{k, val}})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].sortKey < pairs[j].sortKey })

		out := make([]any, len(pairs))
		for i, p := range pairs {
			out[i] = p.entry
		}
		return out, nil

	case reflect.Struct:
		t := v.Type()
		out := make([]any, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				return nil, fmt.Errorf("%s has unexported field %s", t, field.Name)
			}
			item, err := keyValue(v.Field(i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, []any{field.Name, item})
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported kind %s", v.Kind())
}
