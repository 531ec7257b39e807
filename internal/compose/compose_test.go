package compose_test

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/test"
)

func TestConcat(t *testing.T) {
	tests := []struct {
		name      string // Name of the test case
		fragments []any  // Fragments to append
		want      string // Expected result
	}{
		{
			name:      "empty",
			fragments: nil,
			want:      "",
		},
		{
			name:      "strings",
			fragments: []any{"Hello", " ", "world"},
			want:      "Hello world",
		},
		{
			name:      "mixed",
			fragments: []any{"n=", 42, " ok=", true, " nil=", nil, " f=", 1.5},
			want:      "n=42 ok=true nil= f=1.5",
		},
		{
			name:      "nested sequence",
			fragments: []any{[]any{"a", []int{1, 2}}, "b"},
			want:      "a12b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appender := compose.Concat{}.NewAppender(len(tt.fragments))
			for _, fragment := range tt.fragments {
				appender.Append(fragment)
			}

			got, ok := appender.Result().(string)
			test.True(t, ok, test.Context("Concat result was %T, expected string", appender.Result()))
			test.Equal(t, got, tt.want)
		})
	}
}

func TestFragments(t *testing.T) {
	appender := compose.Fragments{}.NewAppender(3)

	appender.Append("Hello")
	appender.Append(" ")
	appender.Append(42)

	got, ok := appender.Result().([]any)
	test.True(t, ok, test.Context("Fragments result was %T, expected []any", appender.Result()))
	test.EqualFunc(t, got, []any{"Hello", " ", 42}, slices.Equal)

	// Text of the fragments matches what Concat would have produced
	test.Equal(t, compose.Text(got), "Hello 42")
}

func TestFragmentsNegativeHint(t *testing.T) {
	appender := compose.Fragments{}.NewAppender(-1)
	appender.Append("x")

	got, ok := appender.Result().([]any)
	test.True(t, ok)
	test.Equal(t, len(got), 1)
}

func TestIndependentAppenders(t *testing.T) {
	composer := compose.Concat{}

	first := composer.NewAppender(1)
	second := composer.NewAppender(1)

	first.Append("one")
	second.Append("two")

	test.Equal(t, first.Result(), any("one"))
	test.Equal(t, second.Result(), any("two"))
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string // Name of the test case
		in      string // Composer name to look up
		want    compose.Composer
		wantErr bool // Whether we want an error
	}{
		{name: "empty", in: "", want: compose.Concat{}},
		{name: "text", in: "text", want: compose.Concat{}},
		{name: "fragments", in: "fragments", want: compose.Fragments{}},
		{name: "unknown", in: "xml", want: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compose.Lookup(tt.in)
			test.WantErr(t, err, tt.wantErr)
			test.Equal(t, got, tt.want)
		})
	}
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

type set []any

func (s set) All() iter.Seq[any] { return slices.Values(s) }

func TestText(t *testing.T) {
	tests := []struct {
		value any    // Value to render
		name  string // Name of the test case
		want  string // Expected text
	}{
		{name: "nil", value: nil, want: ""},
		{name: "string", value: "hello", want: "hello"},
		{name: "bytes", value: []byte("raw"), want: "raw"},
		{name: "int", value: 12, want: "12"},
		{name: "int64", value: int64(-3), want: "-3"},
		{name: "uint8", value: uint8(7), want: "7"},
		{name: "whole float", value: 2.0, want: "2.0"},
		{name: "float", value: 0.25, want: "0.25"},
		{name: "float32", value: float32(1.5), want: "1.5"},
		{name: "bool", value: false, want: "false"},
		{name: "stringer", value: stringer{}, want: "stringer"},
		{name: "error", value: errors.New("bang"), want: "bang"},
		{name: "collection", value: set{"a", 1}, want: "a1"},
		{name: "array", value: [2]string{"x", "y"}, want: "xy"},
		{name: "nil pointer", value: (*int)(nil), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.Equal(t, compose.Text(tt.value), tt.want)
		})
	}
}
