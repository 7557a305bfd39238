package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/asaidimu/go-facets/core/schema"
)

// fieldName returns the document key of a struct field: the name from its
// `json` tag, or the Go field name. It returns "" for fields to skip.
func fieldName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

func structValue(record any) (reflect.Value, error) {
	val := reflect.ValueOf(record)

	if !val.IsValid() {
		return reflect.Value{}, fmt.Errorf("input record cannot be nil")
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return reflect.Value{}, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}
	return val, nil
}

// StructToDocument converts a flat struct into a schema.Document keyed by the
// fields' json names.
//
// Field values are copied as they are, so a time.Time stays a time.Time and a
// uint64 stays a uint64, which is what the SQLite loader and the document
// filter expect. Nested structs other than time.Time are not flattened.
//
// Example:
//
//	type Flight struct {
//		Orig    string    `json:"orig"`
//		DepDate time.Time `json:"dep_date"`
//	}
//	doc, err := StructToDocument(Flight{Orig: "ABQ", DepDate: day})
//	// doc == schema.Document{"orig": "ABQ", "dep_date": day}
func StructToDocument[T any](record T) (schema.Document, error) {
	val, err := structValue(record)
	if err != nil {
		return nil, fmt.Errorf("StructToDocument: %w", err)
	}

	typ := val.Type()
	doc := make(schema.Document, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		name := fieldName(typ.Field(i))
		if name == "" {
			continue
		}
		doc[name] = val.Field(i).Interface()
	}
	return doc, nil
}

// DocumentToStruct is the inverse of StructToDocument. Each document value is
// converted to the type of the struct field with the same json name, so an
// int64 read from SQLite can fill a uint64 field. Missing and nil values leave
// the field at its zero value.
func DocumentToStruct[T any](doc schema.Document) (T, error) {
	var zero T

	if doc == nil {
		return zero, fmt.Errorf("DocumentToStruct: input document cannot be nil")
	}

	var result T
	target := reflect.ValueOf(&result).Elem()
	if target.Kind() == reflect.Ptr {
		target.Set(reflect.New(target.Type().Elem()))
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return zero, fmt.Errorf("DocumentToStruct: generic type T must be a struct type (or pointer to struct), got %s", target.Kind())
	}

	typ := target.Type()
	for i := 0; i < typ.NumField(); i++ {
		name := fieldName(typ.Field(i))
		if name == "" {
			continue
		}
		raw, ok := doc[name]
		if !ok || raw == nil {
			continue
		}

		field := target.Field(i)
		v := reflect.ValueOf(raw)
		switch {
		case v.Type().AssignableTo(field.Type()):
			field.Set(v)
		case isNumeric(v.Kind()) && isNumeric(field.Kind()):
			field.Set(v.Convert(field.Type()))
		default:
			return zero, fmt.Errorf("DocumentToStruct: field '%s' holds %T, cannot assign to %s", name, raw, field.Type())
		}
	}
	return result, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
