// Package env renders config structs back into .env file content.
package env

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// MarshalEnv writes one KEY=value line per exported, env-tagged field of
// the struct c points to. Zero-valued fields are left out so the file
// only pins what was actually set.
func MarshalEnv(c any) (string, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	var b strings.Builder
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		key, _, _ := strings.Cut(field.Tag.Get("env"), ",")
		if key == "" || !field.IsExported() {
			continue
		}
		if v.Field(i).IsZero() {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", key, render(v.Field(i)))
	}
	return b.String(), nil
}

func render(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
