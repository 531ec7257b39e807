package compose

import (
	"fmt"
	"iter"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Text returns the text form of a rendered value.
//
// nil renders as the empty string, sequences render as the concatenation of their
// elements and whole floats keep a trailing ".0" so 1.0 is distinguishable from 1.
func Text(value any) string {
	switch val := value.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val, 64)
	case float32:
		return formatFloat(float64(val), 32)
	case []any:
		return join(val)
	case []string:
		return strings.Join(val, "")
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	case interface{ All() iter.Seq[any] }:
		builder := &strings.Builder{}
		for item := range val.All() {
			builder.WriteString(Text(item))
		}

		return builder.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		builder := &strings.Builder{}
		for i := range rv.Len() {
			builder.WriteString(Text(rv.Index(i).Interface()))
		}

		return builder.String()
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
	}

	return fmt.Sprint(value)
}

// join concatenates the text form of each item.
func join(items []any) string {
	builder := &strings.Builder{}
	for _, item := range items {
		builder.WriteString(Text(item))
	}

	return builder.String()
}

// formatFloat formats f in its shortest representation, keeping a ".0"
// suffix on whole numbers.
func formatFloat(f float64, bitSize int) string {
	text := strconv.FormatFloat(f, 'f', -1, bitSize)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsAny(text, ".e") {
		return text
	}

	return text + ".0"
}
