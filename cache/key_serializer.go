package cache

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// SerializeFilters renders a filter value as canonical JSON so that two
// semantically identical filter sets always produce byte-identical output.
//
// Rules:
//   - struct fields are named after their json tag (falling back to the Go name)
//   - object keys are sorted
//   - nil pointers, nil interfaces and zero-valued non-pointer fields are omitted
//   - non-nil pointers are always included, so an explicit false or 0 survives
//   - time.Time values are rendered as RFC3339 in UTC
//
// The result always starts with "{" (a nil or empty filter renders as "{}").
func SerializeFilters(filters any) string {
	if filters == nil {
		return "{}"
	}

	rv := reflect.ValueOf(filters)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "{}"
		}
		rv = rv.Elem()
	}

	var b strings.Builder
	switch rv.Kind() {
	case reflect.Struct:
		if _, ok := rv.Interface().(time.Time); ok {
			return "{}"
		}
		writeStruct(&b, rv)
	case reflect.Map:
		writeMap(&b, rv)
	default:
		return "{}"
	}
	return b.String()
}

type member struct {
	name  string
	value reflect.Value
}

func writeStruct(b *strings.Builder, rv reflect.Value) {
	rt := rv.Type()
	members := make([]member, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		fv := rv.Field(i)
		if omit(fv) {
			continue
		}
		members = append(members, member{name: name, value: fv})
	}

	writeMembers(b, members)
}

func writeMap(b *strings.Builder, rv reflect.Value) {
	members := make([]member, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		if omit(iter.Value()) {
			continue
		}
		members = append(members, member{name: fmt.Sprint(iter.Key().Interface()), value: iter.Value()})
	}
	writeMembers(b, members)
}

func writeMembers(b *strings.Builder, members []member) {
	sort.Slice(members, func(i, j int) bool { return members[i].name < members[j].name })

	b.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(m.name))
		b.WriteByte(':')
		writeValue(b, m.value)
	}
	b.WriteByte('}')
}

// omit reports whether a filter member carries no constraint.
func omit(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr:
		return v.IsNil()
	case reflect.Interface:
		// map values arrive boxed; judge what they hold
		return v.IsNil() || omit(v.Elem())
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

func writeValue(b *strings.Builder, v reflect.Value) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			b.WriteString("null")
			return
		}
		v = v.Elem()
	}

	if t, ok := v.Interface().(time.Time); ok {
		b.WriteString(strconv.Quote(t.UTC().Format(time.RFC3339)))
		return
	}
	if s, ok := v.Interface().(fmt.Stringer); ok && v.Kind() == reflect.Array {
		// uuid.UUID and similar fixed-size identifiers
		b.WriteString(strconv.Quote(s.String()))
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		writeStruct(b, v)
	case reflect.Map:
		writeMap(b, v)
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, v.Index(i))
		}
		b.WriteByte(']')
	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			b.WriteString(strconv.Quote(fmt.Sprint(v.Interface())))
			return
		}
		b.Write(data)
	}
}
